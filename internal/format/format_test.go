package format

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teemow/tickdone/internal/ticktick"
)

func TestTruncateShortResponse(t *testing.T) {
	assert.Equal(t, "short", Truncate("short"))
}

func TestTruncateLongResponse(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 2000; i++ {
		b.WriteString("- item line with some content\n\n")
	}
	result := Truncate(b.String())

	assert.LessOrEqual(t, len(result), CharacterLimit)
	assert.Contains(t, result, "Response truncated")
	// Cut lands on an item boundary, not mid-line.
	head := result[:strings.Index(result, "\n\n---\n")]
	assert.True(t, strings.HasSuffix(head, "- item line with some content"))
}

func TestTaskMarkdown(t *testing.T) {
	task := &ticktick.TaskRecord{
		ID:        "task-1",
		ProjectID: "project-1",
		Title:     "Write report",
		Status:    ticktick.TaskStatusOpen,
		Priority:  ticktick.PriorityHigh,
		DueDate:   "2026-09-01T17:00:00.000+0000",
		Tags:      []string{"work", "urgent"},
		Content:   "Quarterly numbers.",
		Items: []ticktick.ChecklistItem{
			{Title: "Gather data", Status: ticktick.TaskStatusCompleted},
			{Title: "Draft summary"},
		},
	}
	out := TaskMarkdown(task)
	assert.Contains(t, out, "## Write report")
	assert.Contains(t, out, "**Priority:** High")
	assert.Contains(t, out, "**Tags:** work, urgent")
	assert.Contains(t, out, "- [x] Gather data")
	assert.Contains(t, out, "- [ ] Draft summary")
}

func TestTasksMarkdownEmpty(t *testing.T) {
	out := TasksMarkdown("Today", nil)
	assert.Contains(t, out, "No tasks found")
}

func TestTasksMarkdownList(t *testing.T) {
	tasks := []ticktick.TaskRecord{
		{ID: "t1", Title: "First", Priority: ticktick.PriorityMedium},
		{ID: "t2", Title: "Second", Status: ticktick.TaskStatusCompleted},
	}
	out := TasksMarkdown("Inbox", tasks)
	assert.Contains(t, out, "## Inbox (2)")
	assert.Contains(t, out, "**First** (`t1`) - priority: Medium")
	assert.Contains(t, out, "completed")
	// Detail separators stay plain ASCII.
	assert.NotContains(t, out, "\u2014")
}

func TestProjectsMarkdown(t *testing.T) {
	projects := []ticktick.ProjectRecord{
		{ID: "p1", Name: "Work", GroupID: "g1"},
		{ID: "p2", Name: "Archive", Closed: true},
	}
	out := ProjectsMarkdown(projects)
	assert.Contains(t, out, "## Projects (2)")
	assert.Contains(t, out, "folder: g1")
	assert.Contains(t, out, "archived")
}

func TestTagsMarkdown(t *testing.T) {
	tags := []ticktick.TagRecord{
		{Name: "work", Label: "Work", Color: "#FF0000"},
	}
	out := TagsMarkdown(tags)
	assert.Contains(t, out, "**Work** (`work`)")
	assert.Contains(t, out, "color: #FF0000")
}

func TestUserMarkdown(t *testing.T) {
	out := UserMarkdown(
		&ticktick.UserProfile{Username: "alice@example.com", Name: "Alice"},
		&ticktick.UserStatus{Pro: true, InboxID: "inbox-1"},
	)
	assert.Contains(t, out, "alice@example.com")
	assert.Contains(t, out, "**Plan:** Pro")
	assert.Contains(t, out, "inbox-1")
}

func TestStatisticsMarkdown(t *testing.T) {
	out := StatisticsMarkdown(&ticktick.UserStatistics{
		Score: 1200, Level: 5, TodayCompleted: 3, TotalCompleted: 850,
		TodayPomoCount: 2, TodayPomoDuration: 50, TotalPomoCount: 40,
	})
	assert.Contains(t, out, "1200 (level 5)")
	assert.Contains(t, out, "**Completed today:** 3")
	assert.Contains(t, out, "Focus sessions today:** 2 (50 min)")
}

func TestFocusMarkdown(t *testing.T) {
	out := FocusMarkdown(
		[]ticktick.FocusHeatmapEntry{{Day: "20260828", Duration: 45}, {Day: "20260829", Duration: 30}},
		&ticktick.FocusDistribution{ProjectDurations: map[string]int{"Work": 60}},
	)
	assert.Contains(t, out, "20260828: 45 min")
	assert.Contains(t, out, "**Total:** 75 min")
	assert.Contains(t, out, "### By Project")
}

func TestJSONFallsBackOnMarshalError(t *testing.T) {
	out := JSON(map[string]any{"fn": func() {}})
	assert.Contains(t, out, "error")
}

func TestPriorityName(t *testing.T) {
	assert.Equal(t, "None", PriorityName(0))
	assert.Equal(t, "High", PriorityName(5))
	assert.Contains(t, PriorityName(7), "Unknown")
}
