package ticktick

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const syncResponse = `{
	"inboxId": "inbox-99",
	"projectProfiles": [{"id": "project-1", "name": "Work"}],
	"projectGroups": [{"id": "group-1", "name": "Personal"}],
	"tags": [{"name": "work", "label": "Work"}],
	"syncTaskBean": {"update": [{"id": "task-1", "projectId": "project-1", "title": "Report"}]}
}`

func TestSync(t *testing.T) {
	var path string
	c, _ := newAuthedClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Write([]byte(syncResponse))
	}))

	state, err := c.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/batch/check/0", path)
	assert.Equal(t, "inbox-99", state.InboxID)
	require.Len(t, state.ProjectProfiles, 1)
	assert.Equal(t, "Work", state.ProjectProfiles[0].Name)
	require.Len(t, state.Tasks(), 1)
	assert.Equal(t, "Report", state.Tasks()[0].Title)
}

func TestSyncRecordsInboxID(t *testing.T) {
	c, _ := newAuthedClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(syncResponse))
	}))

	// The seeded session carries "inbox-1"; sync is authoritative.
	require.Equal(t, "inbox-1", c.InboxID())
	_, err := c.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "inbox-99", c.InboxID())
}

func TestGetTask(t *testing.T) {
	var path string
	c, _ := newAuthedClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Write([]byte(`{"id": "task-1", "projectId": "project-1", "title": "Report", "status": 0}`))
	}))

	task, err := c.GetTask(context.Background(), "task-1")
	require.NoError(t, err)
	assert.Equal(t, "/task/task-1", path)
	assert.Equal(t, "Report", task.Title)

	_, err = c.GetTask(context.Background(), "")
	assert.True(t, IsKind(err, KindValidation))
}

func TestGetCompletedTasksQuery(t *testing.T) {
	var query map[string]string
	c, _ := newAuthedClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/project/all/closed", r.URL.Path)
		query = map[string]string{
			"from":   r.URL.Query().Get("from"),
			"to":     r.URL.Query().Get("to"),
			"status": r.URL.Query().Get("status"),
			"limit":  r.URL.Query().Get("limit"),
		}
		w.Write([]byte(`[{"id": "task-1", "projectId": "project-1", "title": "Done", "status": 2}]`))
	}))

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 29, 23, 59, 59, 0, time.UTC)
	tasks, err := c.GetCompletedTasks(context.Background(), from, to, 50)
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	// Fixed-width local timestamp, not RFC 3339.
	assert.Equal(t, "2026-08-01 00:00:00", query["from"])
	assert.Equal(t, "2026-08-29 23:59:59", query["to"])
	assert.Equal(t, "Completed", query["status"])
	assert.Equal(t, "50", query["limit"])
}

func TestGetAbandonedTasksStatusFilter(t *testing.T) {
	var status string
	c, _ := newAuthedClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status = r.URL.Query().Get("status")
		w.Write([]byte(`[]`))
	}))

	_, err := c.GetAbandonedTasks(context.Background(), time.Now().Add(-24*time.Hour), time.Now(), 0)
	require.NoError(t, err)
	assert.Equal(t, "Abandoned", status)
}

func TestGetDeletedTasksPagination(t *testing.T) {
	var start, limit string
	c, _ := newAuthedClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/project/all/trash/pagination", r.URL.Path)
		start = r.URL.Query().Get("start")
		limit = r.URL.Query().Get("limit")
		w.Write([]byte(`{"tasks": [{"id": "task-1", "projectId": "project-1", "title": "Old", "deleted": 1}]}`))
	}))

	page, err := c.GetDeletedTasks(context.Background(), 100, 50)
	require.NoError(t, err)
	require.Len(t, page.Tasks, 1)
	assert.Equal(t, "100", start)
	assert.Equal(t, "50", limit)

	// Negative offsets and zero limits fall back to defaults.
	_, err = c.GetDeletedTasks(context.Background(), -1, 0)
	require.NoError(t, err)
	assert.Equal(t, "0", start)
	assert.Equal(t, "500", limit)
}

func TestGetUserEndpoints(t *testing.T) {
	c, _ := newAuthedClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/user/profile":
			w.Write([]byte(`{"username": "alice@example.com", "name": "Alice"}`))
		case "/user/status":
			w.Write([]byte(`{"userId": "user-42", "username": "alice@example.com", "inboxId": "inbox-42", "pro": true}`))
		case "/statistics/general":
			w.Write([]byte(`{"score": 1200, "level": 5, "todayCompleted": 3, "totalCompleted": 850}`))
		case "/user/preferences/settings":
			assert.Equal(t, "true", r.URL.Query().Get("includeWeb"))
			w.Write([]byte(`{"timeZone": "Europe/Berlin", "locale": "en_US", "startDayOfWeek": 1}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))

	profile, err := c.GetUserProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", profile.Username)

	status, err := c.GetUserStatus(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Pro)
	assert.Equal(t, "inbox-42", c.InboxID())

	stats, err := c.GetUserStatistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1200, stats.Score)
	assert.Equal(t, 5, stats.Level)

	prefs, err := c.GetUserPreferences(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", prefs.TimeZone)
	assert.Equal(t, 1, prefs.StartDayOfWeek)
}

func TestFocusEndpointsUseCompactDates(t *testing.T) {
	var paths []string
	c, _ := newAuthedClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if len(paths) == 1 {
			w.Write([]byte(`[{"day": "20260801", "duration": 45}]`))
			return
		}
		w.Write([]byte(`{"projectDurations": {"project-1": 90}}`))
	}))

	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	heatmap, err := c.GetFocusHeatmap(context.Background(), start, end)
	require.NoError(t, err)
	require.Len(t, heatmap, 1)
	assert.Equal(t, 45, heatmap[0].Duration)

	dist, err := c.GetFocusDistribution(context.Background(), start, end)
	require.NoError(t, err)
	assert.Equal(t, 90, dist.ProjectDurations["project-1"])

	assert.Equal(t, []string{
		"/pomodoros/statistics/heatmap/20260801/20260829",
		"/pomodoros/statistics/dist/20260801/20260829",
	}, paths)
}

func TestGetHabitCheckins(t *testing.T) {
	var body map[string]any
	c, _ := newAuthedClient(t, captureBody(t, &body, `{"checkins": {"habit-1": [{"id": "ci-1", "habitId": "habit-1", "checkinStamp": 20260828, "status": 2}]}}`))

	result, err := c.GetHabitCheckins(context.Background(), []string{"habit-1"}, 20260801)
	require.NoError(t, err)
	require.Len(t, result.Checkins["habit-1"], 1)
	assert.Equal(t, 20260828, result.Checkins["habit-1"][0].CheckinStamp)

	assert.Equal(t, []any{"habit-1"}, body["habitIds"])
	assert.Equal(t, float64(20260801), body["afterStamp"])

	_, err = c.GetHabitCheckins(context.Background(), nil, 0)
	assert.True(t, IsKind(err, KindValidation))
}

func TestVerifyAuthentication(t *testing.T) {
	c, _ := newAuthedClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(syncResponse))
	}))
	require.NoError(t, c.VerifyAuthentication(context.Background()))

	c.SessionHandler().SignOut()
	err := c.VerifyAuthentication(context.Background())
	require.Error(t, err)
	assert.True(t, IsAuthenticationError(err))
}
