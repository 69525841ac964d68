package task_tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/tickdone/internal/format"
	"github.com/teemow/tickdone/internal/server"
	"github.com/teemow/tickdone/internal/ticktick"
	"github.com/teemow/tickdone/internal/tools/batch"
	"github.com/teemow/tickdone/internal/tools/common"
)

// closedRangeLayout is the layout accepted for the from/to arguments of the
// completed and abandoned task listings.
const closedRangeLayout = "2006-01-02"

// getClient returns the shared authenticated client.
func getClient(sc *server.ServerContext) (*ticktick.Client, error) {
	client := sc.Client()
	if client == nil {
		return nil, fmt.Errorf("TickTick client is not initialized; the server did not sign in at startup")
	}
	return client, nil
}

// resolveProjectID falls back to the inbox when no project is given. The
// inbox id is only known after the first sync.
func resolveProjectID(client *ticktick.Client, args map[string]interface{}) (string, error) {
	if projectID := common.OptionalString(args, "projectId"); projectID != "" {
		return projectID, nil
	}
	inboxID := client.InboxID()
	if inboxID == "" {
		return "", fmt.Errorf("projectId is required: the inbox id is not known yet, run ticktick_list_tasks once or pass projectId explicitly")
	}
	return inboxID, nil
}

// RegisterTaskTools registers all task-related tools with the MCP server
func RegisterTaskTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	registerTaskReadTools(s, sc)
	if !readOnly {
		registerTaskWriteTools(s, sc)
	}
	return nil
}

// registerTaskReadTools registers the read-only task tools
func registerTaskReadTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	// List tasks tool
	listTasksTool := mcp.NewTool("ticktick_list_tasks",
		mcp.WithDescription("List open tasks, optionally filtered by project"),
		mcp.WithString("projectId",
			mcp.Description("Only return tasks in this project"),
		),
		mcp.WithString("filter",
			mcp.Description("Optional filter: 'overdue' returns only tasks whose due date has passed"),
		),
		mcp.WithString("response_format",
			mcp.Description("Response format: 'markdown' (default) or 'json'"),
		),
	)

	s.AddTool(listTasksTool, common.InstrumentedToolHandlerWithService("ticktick_list_tasks", "ticktick", "sync", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		client, err := getClient(sc)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		state, err := client.Sync(ctx)
		if err != nil {
			return mcp.NewToolResultError(common.FormatToolError("list tasks", err)), nil
		}

		tasks := state.Tasks()
		title := "Tasks"
		if projectID := common.OptionalString(args, "projectId"); projectID != "" {
			filtered := make([]ticktick.TaskRecord, 0, len(tasks))
			for _, task := range tasks {
				if task.ProjectID == projectID {
					filtered = append(filtered, task)
				}
			}
			tasks = filtered
			title = fmt.Sprintf("Tasks in %s", projectID)
		}
		switch common.OptionalString(args, "filter") {
		case "":
		case "overdue":
			now := time.Now()
			filtered := make([]ticktick.TaskRecord, 0, len(tasks))
			for _, task := range tasks {
				if taskOverdue(task, now) {
					filtered = append(filtered, task)
				}
			}
			tasks = filtered
			title = "Overdue tasks"
		default:
			return mcp.NewToolResultError(fmt.Sprintf("Unknown filter %q: supported value is 'overdue'", common.OptionalString(args, "filter"))), nil
		}

		if common.OptionalString(args, "response_format") == format.FormatJSON {
			return mcp.NewToolResultText(format.JSON(tasks)), nil
		}
		return mcp.NewToolResultText(format.TasksMarkdown(title, tasks)), nil
	}))

	// Search tasks tool
	searchTasksTool := mcp.NewTool("ticktick_search_tasks",
		mcp.WithDescription("Search open tasks by title and content"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Case-insensitive text to search for"),
		),
		mcp.WithString("response_format",
			mcp.Description("Response format: 'markdown' (default) or 'json'"),
		),
	)

	s.AddTool(searchTasksTool, common.InstrumentedToolHandlerWithService("ticktick_search_tasks", "ticktick", "sync", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		query, err := common.RequireString(args, "query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		client, err := getClient(sc)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		state, err := client.Sync(ctx)
		if err != nil {
			return mcp.NewToolResultError(common.FormatToolError("search tasks", err)), nil
		}

		matches := searchTasks(state.Tasks(), query)

		if common.OptionalString(args, "response_format") == format.FormatJSON {
			return mcp.NewToolResultText(format.JSON(matches)), nil
		}
		return mcp.NewToolResultText(format.TasksMarkdown(fmt.Sprintf("Tasks matching %q", query), matches)), nil
	}))

	// Get task tool
	getTaskTool := mcp.NewTool("ticktick_get_task",
		mcp.WithDescription("Get full details of a single task by id"),
		mcp.WithString("taskId",
			mcp.Required(),
			mcp.Description("The id of the task to retrieve"),
		),
		mcp.WithString("response_format",
			mcp.Description("Response format: 'markdown' (default) or 'json'"),
		),
	)

	s.AddTool(getTaskTool, common.InstrumentedToolHandlerWithService("ticktick_get_task", "ticktick", "get", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		taskID, err := common.RequireString(args, "taskId")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		client, err := getClient(sc)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		task, err := client.GetTask(ctx, taskID)
		if err != nil {
			return mcp.NewToolResultError(common.FormatToolError("get task", err)), nil
		}

		if common.OptionalString(args, "response_format") == format.FormatJSON {
			return mcp.NewToolResultText(format.JSON(task)), nil
		}
		return mcp.NewToolResultText(format.TaskMarkdown(task)), nil
	}))

	// Completed tasks tool
	completedTool := mcp.NewTool("ticktick_list_completed_tasks",
		mcp.WithDescription("List tasks completed within a date range"),
		mcp.WithString("from",
			mcp.Required(),
			mcp.Description("Range start date (YYYY-MM-DD)"),
		),
		mcp.WithString("to",
			mcp.Required(),
			mcp.Description("Range end date (YYYY-MM-DD)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of tasks to return (default: 100)"),
		),
		mcp.WithString("response_format",
			mcp.Description("Response format: 'markdown' (default) or 'json'"),
		),
	)

	s.AddTool(completedTool, common.InstrumentedToolHandlerWithService("ticktick_list_completed_tasks", "ticktick", "list", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return listClosedTasks(ctx, sc, request, ticktick.ClosedStatusCompleted, "Completed Tasks")
	}))

	// Abandoned tasks tool
	abandonedTool := mcp.NewTool("ticktick_list_abandoned_tasks",
		mcp.WithDescription("List tasks marked won't-do within a date range"),
		mcp.WithString("from",
			mcp.Required(),
			mcp.Description("Range start date (YYYY-MM-DD)"),
		),
		mcp.WithString("to",
			mcp.Required(),
			mcp.Description("Range end date (YYYY-MM-DD)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of tasks to return (default: 100)"),
		),
		mcp.WithString("response_format",
			mcp.Description("Response format: 'markdown' (default) or 'json'"),
		),
	)

	s.AddTool(abandonedTool, common.InstrumentedToolHandlerWithService("ticktick_list_abandoned_tasks", "ticktick", "list", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return listClosedTasks(ctx, sc, request, ticktick.ClosedStatusAbandoned, "Abandoned Tasks")
	}))

	// Trash tool
	trashTool := mcp.NewTool("ticktick_list_trash",
		mcp.WithDescription("List deleted tasks from the trash, paginated"),
		mcp.WithNumber("start",
			mcp.Description("Page offset (default: 0)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Page size (default: 500)"),
		),
		mcp.WithString("response_format",
			mcp.Description("Response format: 'markdown' (default) or 'json'"),
		),
	)

	s.AddTool(trashTool, common.InstrumentedToolHandlerWithService("ticktick_list_trash", "ticktick", "list", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		client, err := getClient(sc)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		start := common.OptionalInt(args, "start", 0)
		limit := common.OptionalInt(args, "limit", 0)

		page, err := client.GetDeletedTasks(ctx, start, limit)
		if err != nil {
			return mcp.NewToolResultError(common.FormatToolError("list trash", err)), nil
		}

		if common.OptionalString(args, "response_format") == format.FormatJSON {
			return mcp.NewToolResultText(format.JSON(page)), nil
		}
		return mcp.NewToolResultText(format.TasksMarkdown("Trash", page.Tasks)), nil
	}))
}

// listClosedTasks is the shared handler body for the completed and
// abandoned task listings.
func listClosedTasks(ctx context.Context, sc *server.ServerContext, request mcp.CallToolRequest, status, title string) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	fromStr, err := common.RequireString(args, "from")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	toStr, err := common.RequireString(args, "to")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	from, err := time.Parse(closedRangeLayout, fromStr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("from must be a YYYY-MM-DD date: %v", err)), nil
	}
	to, err := time.Parse(closedRangeLayout, toStr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("to must be a YYYY-MM-DD date: %v", err)), nil
	}
	// Include the whole end day
	to = to.Add(24*time.Hour - time.Second)

	limit := common.OptionalInt(args, "limit", 0)

	client, err := getClient(sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var tasks []ticktick.TaskRecord
	if status == ticktick.ClosedStatusAbandoned {
		tasks, err = client.GetAbandonedTasks(ctx, from, to, limit)
	} else {
		tasks, err = client.GetCompletedTasks(ctx, from, to, limit)
	}
	if err != nil {
		return mcp.NewToolResultError(common.FormatToolError("list closed tasks", err)), nil
	}

	if common.OptionalString(args, "response_format") == format.FormatJSON {
		return mcp.NewToolResultText(format.JSON(tasks)), nil
	}
	return mcp.NewToolResultText(format.TasksMarkdown(title, tasks)), nil
}

// registerTaskWriteTools registers the mutating task tools
func registerTaskWriteTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	// Create task tool
	createTaskTool := mcp.NewTool("ticktick_create_task",
		mcp.WithDescription("Create a task. Defaults to the inbox when no project is given."),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Task title"),
		),
		mcp.WithString("projectId",
			mcp.Description("Project to create the task in (default: inbox)"),
		),
		mcp.WithString("content",
			mcp.Description("Task body text"),
		),
		mcp.WithString("desc",
			mcp.Description("Checklist description"),
		),
		mcp.WithNumber("priority",
			mcp.Description("Priority: 0 none, 1 low, 3 medium, 5 high"),
		),
		mcp.WithString("startDate",
			mcp.Description("Start date in the service timestamp format, e.g. 2026-01-15T09:00:00.000+0000"),
		),
		mcp.WithString("dueDate",
			mcp.Description("Due date in the service timestamp format"),
		),
		mcp.WithString("timeZone",
			mcp.Description("IANA time zone for the dates, e.g. Europe/Berlin"),
		),
		mcp.WithBoolean("isAllDay",
			mcp.Description("Treat the dates as all-day"),
		),
		mcp.WithString("repeatFlag",
			mcp.Description("Recurrence rule (RRULE). Requires startDate."),
		),
		mcp.WithString("tags",
			mcp.Description("Tag label (string) or array of tag labels"),
		),
		mcp.WithString("parentId",
			mcp.Description("Parent task id to nest the new task under"),
		),
	)

	s.AddTool(createTaskTool, common.InstrumentedToolHandlerWithService("ticktick_create_task", "ticktick", "create", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		title, err := common.RequireString(args, "title")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		client, err := getClient(sc)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		projectID, err := resolveProjectID(client, args)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		task := ticktick.TaskCreate{
			Title:     title,
			ProjectID: projectID,
		}
		if content := common.OptionalString(args, "content"); content != "" {
			task.Content = ticktick.String(content)
		}
		if desc := common.OptionalString(args, "desc"); desc != "" {
			task.Desc = ticktick.String(desc)
		}
		if _, ok := args["priority"]; ok {
			task.Priority = ticktick.Int(common.OptionalInt(args, "priority", 0))
		}
		if startDate := common.OptionalString(args, "startDate"); startDate != "" {
			task.StartDate = ticktick.String(startDate)
		}
		if dueDate := common.OptionalString(args, "dueDate"); dueDate != "" {
			task.DueDate = ticktick.String(dueDate)
		}
		if timeZone := common.OptionalString(args, "timeZone"); timeZone != "" {
			task.TimeZone = ticktick.String(timeZone)
		}
		if _, ok := args["isAllDay"]; ok {
			task.IsAllDay = ticktick.Bool(common.OptionalBool(args, "isAllDay", false))
		}
		if repeatFlag := common.OptionalString(args, "repeatFlag"); repeatFlag != "" {
			task.RepeatFlag = ticktick.String(repeatFlag)
		}
		if tagsArg, ok := args["tags"]; ok {
			tags, err := batch.ParseStringOrArray(tagsArg, "tags")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			task.Tags = tags
		}

		result, err := client.CreateTask(ctx, task)
		if err != nil {
			return mcp.NewToolResultError(common.FormatToolError("create task", err)), nil
		}
		if err := result.Err("create task"); err != nil {
			return mcp.NewToolResultError(common.FormatToolError("create task", err)), nil
		}

		taskID := singleID(result)

		// The service ignores parentId on creation, so nesting is a
		// second call against the created id.
		if parentID := common.OptionalString(args, "parentId"); parentID != "" && taskID != "" {
			if _, err := client.SetTaskParent(ctx, taskID, projectID, parentID); err != nil {
				return mcp.NewToolResultError(common.FormatToolError("nest created task", err)), nil
			}
		}

		if taskID != "" {
			return mcp.NewToolResultText(format.Success(fmt.Sprintf("Task %q created with id %s in project %s", title, taskID, projectID))), nil
		}
		return mcp.NewToolResultText(format.Success(fmt.Sprintf("Task %q created in project %s", title, projectID))), nil
	}))

	// Update task tool
	updateTaskTool := mcp.NewTool("ticktick_update_task",
		mcp.WithDescription("Update fields of an existing task. Omitted fields keep their values."),
		mcp.WithString("taskId",
			mcp.Required(),
			mcp.Description("The id of the task to update"),
		),
		mcp.WithString("projectId",
			mcp.Required(),
			mcp.Description("The project the task currently belongs to"),
		),
		mcp.WithString("title",
			mcp.Description("New title"),
		),
		mcp.WithString("content",
			mcp.Description("New body text"),
		),
		mcp.WithNumber("priority",
			mcp.Description("New priority: 0 none, 1 low, 3 medium, 5 high"),
		),
		mcp.WithString("startDate",
			mcp.Description("New start date in the service timestamp format"),
		),
		mcp.WithString("dueDate",
			mcp.Description("New due date in the service timestamp format"),
		),
		mcp.WithString("repeatFlag",
			mcp.Description("New recurrence rule (RRULE). Requires a start date on the task."),
		),
		mcp.WithString("tags",
			mcp.Description("Tag label (string) or array of tag labels, replacing the current set"),
		),
	)

	s.AddTool(updateTaskTool, common.InstrumentedToolHandlerWithService("ticktick_update_task", "ticktick", "update", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		taskID, err := common.RequireString(args, "taskId")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		projectID, err := common.RequireString(args, "projectId")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		update := ticktick.TaskUpdate{
			ID:        taskID,
			ProjectID: projectID,
		}
		if title := common.OptionalString(args, "title"); title != "" {
			update.Title = ticktick.String(title)
		}
		if content := common.OptionalString(args, "content"); content != "" {
			update.Content = ticktick.String(content)
		}
		if _, ok := args["priority"]; ok {
			update.Priority = ticktick.Int(common.OptionalInt(args, "priority", 0))
		}
		if startDate := common.OptionalString(args, "startDate"); startDate != "" {
			update.StartDate = ticktick.String(startDate)
		}
		if dueDate := common.OptionalString(args, "dueDate"); dueDate != "" {
			update.DueDate = ticktick.String(dueDate)
		}
		if repeatFlag := common.OptionalString(args, "repeatFlag"); repeatFlag != "" {
			update.RepeatFlag = ticktick.String(repeatFlag)
		}
		if tagsArg, ok := args["tags"]; ok {
			tags, err := batch.ParseStringOrArray(tagsArg, "tags")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			update.Tags = tags
		}

		client, err := getClient(sc)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		result, err := client.UpdateTask(ctx, update)
		if err != nil {
			return mcp.NewToolResultError(common.FormatToolError("update task", err)), nil
		}
		if err := result.Err("update task"); err != nil {
			return mcp.NewToolResultError(common.FormatToolError("update task", err)), nil
		}

		return mcp.NewToolResultText(format.Success(fmt.Sprintf("Task %s updated", taskID))), nil
	}))

	// Complete tasks tool
	completeTasksTool := mcp.NewTool("ticktick_complete_tasks",
		mcp.WithDescription("Mark one or more tasks as completed. Safe to repeat."),
		mcp.WithString("projectId",
			mcp.Required(),
			mcp.Description("The project the tasks belong to"),
		),
		mcp.WithString("taskIds",
			mcp.Required(),
			mcp.Description("Task id (string) or array of task ids to complete"),
		),
	)

	s.AddTool(completeTasksTool, common.InstrumentedToolHandlerWithService("ticktick_complete_tasks", "ticktick", "complete", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		projectID, err := common.RequireString(args, "projectId")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		taskIDs, err := batch.ParseStringOrArray(args["taskIds"], "taskIds")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		client, err := getClient(sc)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		results := batch.ProcessBatch(taskIDs, func(taskID string) (string, error) {
			result, err := client.CompleteTask(ctx, projectID, taskID)
			if err != nil {
				return "", err
			}
			if err := result.Err("complete task"); err != nil {
				return "", err
			}
			return fmt.Sprintf("Task %s completed", taskID), nil
		})

		return mcp.NewToolResultText(batch.FormatResults(results)), nil
	}))

	// Delete tasks tool
	deleteTasksTool := mcp.NewTool("ticktick_delete_tasks",
		mcp.WithDescription("Move one or more tasks to the trash"),
		mcp.WithString("projectId",
			mcp.Required(),
			mcp.Description("The project the tasks belong to"),
		),
		mcp.WithString("taskIds",
			mcp.Required(),
			mcp.Description("Task id (string) or array of task ids to delete"),
		),
	)

	s.AddTool(deleteTasksTool, common.InstrumentedToolHandlerWithService("ticktick_delete_tasks", "ticktick", "delete", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		projectID, err := common.RequireString(args, "projectId")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		taskIDs, err := batch.ParseStringOrArray(args["taskIds"], "taskIds")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		client, err := getClient(sc)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		results := batch.ProcessBatch(taskIDs, func(taskID string) (string, error) {
			result, err := client.DeleteTask(ctx, projectID, taskID)
			if err != nil {
				return "", err
			}
			if err := result.Err("delete task"); err != nil {
				return "", err
			}
			return fmt.Sprintf("Task %s moved to trash", taskID), nil
		})

		return mcp.NewToolResultText(batch.FormatResults(results)), nil
	}))

	// Move tasks tool
	moveTasksTool := mcp.NewTool("ticktick_move_tasks",
		mcp.WithDescription("Move one or more tasks to a different project"),
		mcp.WithString("taskIds",
			mcp.Required(),
			mcp.Description("Task id (string) or array of task ids to move"),
		),
		mcp.WithString("fromProjectId",
			mcp.Required(),
			mcp.Description("The project the tasks currently belong to"),
		),
		mcp.WithString("toProjectId",
			mcp.Required(),
			mcp.Description("The destination project"),
		),
	)

	s.AddTool(moveTasksTool, common.InstrumentedToolHandlerWithService("ticktick_move_tasks", "ticktick", "move", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		fromProjectID, err := common.RequireString(args, "fromProjectId")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		toProjectID, err := common.RequireString(args, "toProjectId")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		taskIDs, err := batch.ParseStringOrArray(args["taskIds"], "taskIds")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		client, err := getClient(sc)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		moves := make([]ticktick.TaskMove, 0, len(taskIDs))
		for _, taskID := range taskIDs {
			moves = append(moves, ticktick.TaskMove{
				TaskID:        taskID,
				FromProjectID: fromProjectID,
				ToProjectID:   toProjectID,
			})
		}

		result, err := client.MoveTasks(ctx, moves)
		if err != nil {
			return mcp.NewToolResultError(common.FormatToolError("move tasks", err)), nil
		}
		if err := result.Err("move tasks"); err != nil {
			return mcp.NewToolResultError(common.FormatToolError("move tasks", err)), nil
		}

		return mcp.NewToolResultText(format.Success(fmt.Sprintf("Moved %d task(s) to project %s", len(moves), toProjectID))), nil
	}))

	// Set task parent tool
	setParentTool := mcp.NewTool("ticktick_set_task_parent",
		mcp.WithDescription("Nest a task under a parent task in the same project"),
		mcp.WithString("taskId",
			mcp.Required(),
			mcp.Description("The id of the task to nest"),
		),
		mcp.WithString("projectId",
			mcp.Required(),
			mcp.Description("The project both tasks belong to"),
		),
		mcp.WithString("parentId",
			mcp.Required(),
			mcp.Description("The id of the new parent task"),
		),
	)

	s.AddTool(setParentTool, common.InstrumentedToolHandlerWithService("ticktick_set_task_parent", "ticktick", "update", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		taskID, err := common.RequireString(args, "taskId")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		projectID, err := common.RequireString(args, "projectId")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		parentID, err := common.RequireString(args, "parentId")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		client, err := getClient(sc)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		result, err := client.SetTaskParent(ctx, taskID, projectID, parentID)
		if err != nil {
			return mcp.NewToolResultError(common.FormatToolError("set task parent", err)), nil
		}
		if err := result.Err("set task parent"); err != nil {
			return mcp.NewToolResultError(common.FormatToolError("set task parent", err)), nil
		}

		return mcp.NewToolResultText(format.Success(fmt.Sprintf("Task %s nested under %s", taskID, parentID))), nil
	}))

	// Unset task parent tool
	unsetParentTool := mcp.NewTool("ticktick_unset_task_parent",
		mcp.WithDescription("Move a subtask back to the top level of its project"),
		mcp.WithString("taskId",
			mcp.Required(),
			mcp.Description("The id of the subtask"),
		),
		mcp.WithString("projectId",
			mcp.Required(),
			mcp.Description("The project the task belongs to"),
		),
		mcp.WithString("oldParentId",
			mcp.Required(),
			mcp.Description("The id of the current parent task"),
		),
	)

	s.AddTool(unsetParentTool, common.InstrumentedToolHandlerWithService("ticktick_unset_task_parent", "ticktick", "update", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		taskID, err := common.RequireString(args, "taskId")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		projectID, err := common.RequireString(args, "projectId")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		oldParentID, err := common.RequireString(args, "oldParentId")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		client, err := getClient(sc)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		result, err := client.UnsetTaskParent(ctx, taskID, projectID, oldParentID)
		if err != nil {
			return mcp.NewToolResultError(common.FormatToolError("unset task parent", err)), nil
		}
		if err := result.Err("unset task parent"); err != nil {
			return mcp.NewToolResultError(common.FormatToolError("unset task parent", err)), nil
		}

		return mcp.NewToolResultText(format.Success(fmt.Sprintf("Task %s moved to top level", taskID))), nil
	}))
}

// singleID returns the only id in a batch result, or "" when the result
// holds zero or several.
func singleID(result *ticktick.BatchResult) string {
	if len(result.ID2Etag) != 1 {
		return ""
	}
	for id := range result.ID2Etag {
		return id
	}
	return ""
}

// dueDateLayout is the timestamp format the service uses on task records.
const dueDateLayout = "2006-01-02T15:04:05.000-0700"

// taskOverdue reports whether an open task's due date lies in the past.
// Tasks without a due date are never overdue.
func taskOverdue(task ticktick.TaskRecord, now time.Time) bool {
	if task.Status != 0 || task.DueDate == "" {
		return false
	}
	due, err := time.Parse(dueDateLayout, task.DueDate)
	if err != nil {
		return false
	}
	return due.Before(now)
}

// searchTasks returns the tasks whose title or content contains the query,
// case-insensitive.
func searchTasks(tasks []ticktick.TaskRecord, query string) []ticktick.TaskRecord {
	needle := strings.ToLower(query)
	matches := make([]ticktick.TaskRecord, 0)
	for _, task := range tasks {
		if strings.Contains(strings.ToLower(task.Title), needle) ||
			strings.Contains(strings.ToLower(task.Content), needle) {
			matches = append(matches, task)
		}
	}
	return matches
}
