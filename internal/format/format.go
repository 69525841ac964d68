// Package format renders TickTick records as markdown or compact JSON for
// tool responses, and bounds response size so a single call cannot flood an
// agent's context window.
package format

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/teemow/tickdone/internal/ticktick"
)

// CharacterLimit caps the size of a single tool response.
const CharacterLimit = 25000

// Response formats accepted by the tools' response_format argument.
const (
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// priorityNames maps service priority values to readable labels.
var priorityNames = map[int]string{
	ticktick.PriorityNone:   "None",
	ticktick.PriorityLow:    "Low",
	ticktick.PriorityMedium: "Medium",
	ticktick.PriorityHigh:   "High",
}

// PriorityName returns a readable label for a priority value.
func PriorityName(priority int) string {
	if name, ok := priorityNames[priority]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", priority)
}

// statusName returns a readable label for a task status.
func statusName(status int) string {
	switch status {
	case ticktick.TaskStatusOpen:
		return "Open"
	case ticktick.TaskStatusCompleted:
		return "Completed"
	default:
		return fmt.Sprintf("Status(%d)", status)
	}
}

// Truncate bounds a response to CharacterLimit, cutting at an item boundary
// and appending guidance on how to narrow the query.
func Truncate(result string) string {
	if len(result) <= CharacterLimit {
		return result
	}

	cutAt := CharacterLimit - 500
	cut := strings.LastIndex(result[:cutAt], "\n\n")
	if cut == -1 {
		cut = strings.LastIndex(result[:cutAt], "\n")
	}
	if cut == -1 {
		cut = cutAt
	}

	var b strings.Builder
	b.WriteString(result[:cut])
	b.WriteString("\n\n---\n")
	fmt.Fprintf(&b, "**Response truncated** (exceeded %d characters)\n\n", CharacterLimit)
	b.WriteString("Showing partial results. To see more:\n")
	b.WriteString("- Use filters (project_id, tag, priority) to narrow results\n")
	b.WriteString("- Use the limit parameter to reduce the number of items\n")
	b.WriteString("- Request response_format=\"json\" for more compact output")
	return b.String()
}

// JSON renders any value as compact JSON, truncated to the response limit.
func JSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf(`{"error": %q}`, err.Error())
	}
	return Truncate(string(data))
}

// TaskMarkdown renders a single task with its full detail.
func TaskMarkdown(task *ticktick.TaskRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", task.Title)
	fmt.Fprintf(&b, "- **ID:** %s\n", task.ID)
	fmt.Fprintf(&b, "- **Project:** %s\n", task.ProjectID)
	fmt.Fprintf(&b, "- **Status:** %s\n", statusName(task.Status))
	fmt.Fprintf(&b, "- **Priority:** %s\n", PriorityName(task.Priority))
	if task.ParentID != "" {
		fmt.Fprintf(&b, "- **Parent:** %s\n", task.ParentID)
	}
	if task.StartDate != "" {
		fmt.Fprintf(&b, "- **Start:** %s\n", task.StartDate)
	}
	if task.DueDate != "" {
		fmt.Fprintf(&b, "- **Due:** %s\n", task.DueDate)
	}
	if task.RepeatFlag != "" {
		fmt.Fprintf(&b, "- **Repeats:** %s\n", task.RepeatFlag)
	}
	if len(task.Tags) > 0 {
		fmt.Fprintf(&b, "- **Tags:** %s\n", strings.Join(task.Tags, ", "))
	}
	if task.CompletedTime != "" {
		fmt.Fprintf(&b, "- **Completed:** %s\n", task.CompletedTime)
	}
	if task.Content != "" {
		fmt.Fprintf(&b, "\n%s\n", task.Content)
	}
	if len(task.Items) > 0 {
		b.WriteString("\n### Checklist\n\n")
		for _, item := range task.Items {
			mark := " "
			if item.Status == ticktick.TaskStatusCompleted {
				mark = "x"
			}
			fmt.Fprintf(&b, "- [%s] %s\n", mark, item.Title)
		}
	}
	return Truncate(b.String())
}

// taskLine renders one task as a single list entry.
func taskLine(b *strings.Builder, task *ticktick.TaskRecord) {
	fmt.Fprintf(b, "- **%s** (`%s`)", task.Title, task.ID)
	var details []string
	if task.Status == ticktick.TaskStatusCompleted {
		details = append(details, "completed")
	}
	if task.Priority != ticktick.PriorityNone {
		details = append(details, "priority: "+PriorityName(task.Priority))
	}
	if task.DueDate != "" {
		details = append(details, "due: "+task.DueDate)
	}
	if len(task.Tags) > 0 {
		details = append(details, "tags: "+strings.Join(task.Tags, ", "))
	}
	if len(details) > 0 {
		fmt.Fprintf(b, " - %s", strings.Join(details, ", "))
	}
	b.WriteString("\n")
}

// TasksMarkdown renders a task list with a count header.
func TasksMarkdown(title string, tasks []ticktick.TaskRecord) string {
	if len(tasks) == 0 {
		return fmt.Sprintf("## %s\n\nNo tasks found.", title)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "## %s (%d)\n\n", title, len(tasks))
	for i := range tasks {
		taskLine(&b, &tasks[i])
	}
	return Truncate(b.String())
}

// ProjectsMarkdown renders the project list.
func ProjectsMarkdown(projects []ticktick.ProjectRecord) string {
	if len(projects) == 0 {
		return "## Projects\n\nNo projects found."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "## Projects (%d)\n\n", len(projects))
	for _, p := range projects {
		fmt.Fprintf(&b, "- **%s** (`%s`)", p.Name, p.ID)
		var details []string
		if p.Kind != "" {
			details = append(details, "kind: "+p.Kind)
		}
		if p.GroupID != "" {
			details = append(details, "folder: "+p.GroupID)
		}
		if p.Closed {
			details = append(details, "archived")
		}
		if len(details) > 0 {
			fmt.Fprintf(&b, " - %s", strings.Join(details, ", "))
		}
		b.WriteString("\n")
	}
	return Truncate(b.String())
}

// GroupsMarkdown renders the project folder list.
func GroupsMarkdown(groups []ticktick.ProjectGroupRecord) string {
	if len(groups) == 0 {
		return "## Folders\n\nNo folders found."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "## Folders (%d)\n\n", len(groups))
	for _, g := range groups {
		fmt.Fprintf(&b, "- **%s** (`%s`)\n", g.Name, g.ID)
	}
	return Truncate(b.String())
}

// TagsMarkdown renders the tag list.
func TagsMarkdown(tags []ticktick.TagRecord) string {
	if len(tags) == 0 {
		return "## Tags\n\nNo tags found."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "## Tags (%d)\n\n", len(tags))
	for _, tag := range tags {
		fmt.Fprintf(&b, "- **%s** (`%s`)", tag.Label, tag.Name)
		var details []string
		if tag.Color != "" {
			details = append(details, "color: "+tag.Color)
		}
		if tag.Parent != "" {
			details = append(details, "parent: "+tag.Parent)
		}
		if len(details) > 0 {
			fmt.Fprintf(&b, " - %s", strings.Join(details, ", "))
		}
		b.WriteString("\n")
	}
	return Truncate(b.String())
}

// UserMarkdown renders the account profile and status.
func UserMarkdown(profile *ticktick.UserProfile, status *ticktick.UserStatus) string {
	var b strings.Builder
	b.WriteString("## Account\n\n")
	if profile != nil {
		fmt.Fprintf(&b, "- **Username:** %s\n", profile.Username)
		if profile.Name != "" {
			fmt.Fprintf(&b, "- **Name:** %s\n", profile.Name)
		}
	}
	if status != nil {
		plan := "Free"
		if status.Pro {
			plan = "Pro"
		}
		fmt.Fprintf(&b, "- **Plan:** %s\n", plan)
		if status.ProEndDate != "" {
			fmt.Fprintf(&b, "- **Pro until:** %s\n", status.ProEndDate)
		}
		fmt.Fprintf(&b, "- **Inbox:** %s\n", status.InboxID)
	}
	return b.String()
}

// StatisticsMarkdown renders productivity statistics.
func StatisticsMarkdown(stats *ticktick.UserStatistics) string {
	var b strings.Builder
	b.WriteString("## Statistics\n\n")
	fmt.Fprintf(&b, "- **Score:** %d (level %d)\n", stats.Score, stats.Level)
	fmt.Fprintf(&b, "- **Completed today:** %d\n", stats.TodayCompleted)
	fmt.Fprintf(&b, "- **Completed total:** %d\n", stats.TotalCompleted)
	if stats.TodayPomoCount > 0 || stats.TotalPomoCount > 0 {
		fmt.Fprintf(&b, "- **Focus sessions today:** %d (%d min)\n", stats.TodayPomoCount, stats.TodayPomoDuration)
		fmt.Fprintf(&b, "- **Focus sessions total:** %d\n", stats.TotalPomoCount)
	}
	return b.String()
}

// FocusMarkdown renders focus heatmap and distribution data.
func FocusMarkdown(heatmap []ticktick.FocusHeatmapEntry, dist *ticktick.FocusDistribution) string {
	var b strings.Builder
	b.WriteString("## Focus Time\n\n")
	if len(heatmap) == 0 {
		b.WriteString("No focus time recorded in this range.\n")
	}
	var total int
	for _, entry := range heatmap {
		total += entry.Duration
		fmt.Fprintf(&b, "- %s: %d min\n", entry.Day, entry.Duration)
	}
	if total > 0 {
		fmt.Fprintf(&b, "\n**Total:** %d min\n", total)
	}
	if dist != nil && len(dist.ProjectDurations) > 0 {
		b.WriteString("\n### By Project\n\n")
		for project, minutes := range dist.ProjectDurations {
			fmt.Fprintf(&b, "- %s: %d min\n", project, minutes)
		}
	}
	if dist != nil && len(dist.TagDurations) > 0 {
		b.WriteString("\n### By Tag\n\n")
		for tag, minutes := range dist.TagDurations {
			fmt.Fprintf(&b, "- %s: %d min\n", tag, minutes)
		}
	}
	return Truncate(b.String())
}

// Success renders a short confirmation message.
func Success(message string) string {
	return "✅ " + message
}
