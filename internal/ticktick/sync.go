package ticktick

import (
	"context"
	"net/url"
	"strconv"
	"time"
)

// Timestamp layouts for the list endpoints. Both are fixed-width local
// formats; the service does not accept RFC 3339 here.
const (
	closedRangeFormat = "2006-01-02 15:04:05"
	focusDateFormat   = "20060102"
)

// Closed-task status filters for the /project/all/closed endpoint.
const (
	ClosedStatusCompleted = "Completed"
	ClosedStatusAbandoned = "Abandoned"
)

// Sync fetches the full account snapshot: all projects, tasks, tags, and
// project groups plus the inbox id. The inbox id is remembered on the
// session so later calls can address the inbox without re-syncing.
func (c *Client) Sync(ctx context.Context) (*SyncState, error) {
	const op = "ticktick.Sync"
	var state SyncState
	if err := c.getJSON(ctx, op, "/batch/check/0", nil, &state); err != nil {
		return nil, err
	}
	c.handler.noteInboxID(state.InboxID)
	return &state, nil
}

// GetTask fetches a single task by id.
func (c *Client) GetTask(ctx context.Context, taskID string) (*TaskRecord, error) {
	const op = "ticktick.GetTask"
	if err := requireID(op, "taskId", taskID); err != nil {
		return nil, err
	}
	var task TaskRecord
	if err := c.getJSON(ctx, op, "/task/"+pathEscape(taskID), nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// closedTasks queries /project/all/closed with a status filter.
func (c *Client) closedTasks(ctx context.Context, op, status string, from, to time.Time, limit int) ([]TaskRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	query := url.Values{
		"from":   {from.Format(closedRangeFormat)},
		"to":     {to.Format(closedRangeFormat)},
		"status": {status},
		"limit":  {strconv.Itoa(limit)},
	}
	var tasks []TaskRecord
	if err := c.getJSON(ctx, op, "/project/all/closed", query, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetCompletedTasks lists tasks completed inside the date range, newest
// first, up to limit entries. Callers wanting more must narrow the range;
// the endpoint has no offset.
func (c *Client) GetCompletedTasks(ctx context.Context, from, to time.Time, limit int) ([]TaskRecord, error) {
	return c.closedTasks(ctx, "ticktick.GetCompletedTasks", ClosedStatusCompleted, from, to, limit)
}

// GetAbandonedTasks lists tasks marked won't-do inside the date range.
func (c *Client) GetAbandonedTasks(ctx context.Context, from, to time.Time, limit int) ([]TaskRecord, error) {
	return c.closedTasks(ctx, "ticktick.GetAbandonedTasks", ClosedStatusAbandoned, from, to, limit)
}

// GetDeletedTasks pages through the trash. The caller loops on start until
// a page comes back short.
func (c *Client) GetDeletedTasks(ctx context.Context, start, limit int) (*TrashPage, error) {
	const op = "ticktick.GetDeletedTasks"
	if start < 0 {
		start = 0
	}
	if limit <= 0 {
		limit = 500
	}
	query := url.Values{
		"start": {strconv.Itoa(start)},
		"limit": {strconv.Itoa(limit)},
	}
	var page TrashPage
	if err := c.getJSON(ctx, op, "/project/all/trash/pagination", query, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetUserProfile fetches the account profile.
func (c *Client) GetUserProfile(ctx context.Context) (*UserProfile, error) {
	const op = "ticktick.GetUserProfile"
	var profile UserProfile
	if err := c.getJSON(ctx, op, "/user/profile", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetUserStatus fetches the account's subscription status. The response
// also carries the inbox id, which is remembered on the session.
func (c *Client) GetUserStatus(ctx context.Context) (*UserStatus, error) {
	const op = "ticktick.GetUserStatus"
	var status UserStatus
	if err := c.getJSON(ctx, op, "/user/status", nil, &status); err != nil {
		return nil, err
	}
	c.handler.noteInboxID(status.InboxID)
	return &status, nil
}

// GetUserPreferences fetches account preferences such as timezone and
// locale.
func (c *Client) GetUserPreferences(ctx context.Context) (*UserPreferences, error) {
	const op = "ticktick.GetUserPreferences"
	query := url.Values{"includeWeb": {"true"}}
	var prefs UserPreferences
	if err := c.getJSON(ctx, op, "/user/preferences/settings", query, &prefs); err != nil {
		return nil, err
	}
	return &prefs, nil
}

// GetUserStatistics fetches productivity statistics.
func (c *Client) GetUserStatistics(ctx context.Context) (*UserStatistics, error) {
	const op = "ticktick.GetUserStatistics"
	var stats UserStatistics
	if err := c.getJSON(ctx, op, "/statistics/general", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// GetFocusHeatmap fetches per-day focus durations for a date range. Dates
// are encoded as yyyymmdd path segments.
func (c *Client) GetFocusHeatmap(ctx context.Context, start, end time.Time) ([]FocusHeatmapEntry, error) {
	const op = "ticktick.GetFocusHeatmap"
	path := "/pomodoros/statistics/heatmap/" + start.Format(focusDateFormat) + "/" + end.Format(focusDateFormat)
	var entries []FocusHeatmapEntry
	if err := c.getJSON(ctx, op, path, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// GetFocusDistribution fetches focus time broken down by project and tag
// for a date range.
func (c *Client) GetFocusDistribution(ctx context.Context, start, end time.Time) (*FocusDistribution, error) {
	const op = "ticktick.GetFocusDistribution"
	path := "/pomodoros/statistics/dist/" + start.Format(focusDateFormat) + "/" + end.Format(focusDateFormat)
	var dist FocusDistribution
	if err := c.getJSON(ctx, op, path, nil, &dist); err != nil {
		return nil, err
	}
	return &dist, nil
}

// habitCheckinQuery is the body for the habit check-in query endpoint.
type habitCheckinQuery struct {
	HabitIDs   []string `json:"habitIds"`
	AfterStamp int      `json:"afterStamp"`
}

// GetHabitCheckins queries check-ins for the given habits after a yyyymmdd
// stamp.
func (c *Client) GetHabitCheckins(ctx context.Context, habitIDs []string, afterStamp int) (*HabitCheckinsResult, error) {
	const op = "ticktick.GetHabitCheckins"
	if len(habitIDs) == 0 {
		return nil, &APIError{Kind: KindValidation, Op: op, Message: "habitIds must not be empty"}
	}
	body := habitCheckinQuery{HabitIDs: habitIDs, AfterStamp: afterStamp}
	var result HabitCheckinsResult
	if err := c.postJSON(ctx, op, "/habitCheckins/query", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// VerifyAuthentication confirms the session works by performing a sync.
// It returns an authentication error when no session is held or the server
// rejects it, and the underlying error for other failures.
func (c *Client) VerifyAuthentication(ctx context.Context) error {
	const op = "ticktick.VerifyAuthentication"
	if !c.handler.IsAuthenticated() {
		return authError(op, "not authenticated - sign on first", nil)
	}
	_, err := c.Sync(ctx)
	return err
}
