package ticktick

import (
	"context"
	"time"
)

// completedTimeFormat is the timestamp layout the service uses for task
// completion times.
const completedTimeFormat = "2006-01-02T15:04:05.000-0700"

// batchTaskRequest is the task batch envelope. All six keys are always
// present; the service rejects envelopes with missing keys. Attachments are
// not managed by this client but the keys must still be sent as empty
// arrays.
type batchTaskRequest struct {
	Add               []TaskCreate `json:"add"`
	Update            []TaskUpdate `json:"update"`
	Delete            []TaskDelete `json:"delete"`
	AddAttachments    []any        `json:"addAttachments"`
	UpdateAttachments []any        `json:"updateAttachments"`
	DeleteAttachments []any        `json:"deleteAttachments"`
}

// BatchTasks applies task creates, updates, and deletes in one call. Any of
// the slices may be nil. Items are applied independently; inspect the
// result's ID2Error for per-item failures.
func (c *Client) BatchTasks(ctx context.Context, add []TaskCreate, update []TaskUpdate, del []TaskDelete) (*BatchResult, error) {
	const op = "ticktick.BatchTasks"

	for i := range add {
		if err := validateRecurrence(op, add[i].RepeatFlag, add[i].StartDate); err != nil {
			return nil, err
		}
	}

	req := batchTaskRequest{
		Add:               nonNilCreates(add),
		Update:            nonNilUpdates(update),
		Delete:            nonNilDeletes(del),
		AddAttachments:    []any{},
		UpdateAttachments: []any{},
		DeleteAttachments: []any{},
	}
	var result BatchResult
	if err := c.postJSON(ctx, op, "/batch/task", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// validateRecurrence rejects a recurrence rule without a start date. The
// service silently drops the rule instead of erroring, so catching the
// misconfiguration before sending is the only way the caller ever learns
// about it.
func validateRecurrence(op string, repeatFlag, startDate *string) error {
	if repeatFlag != nil && *repeatFlag != "" && (startDate == nil || *startDate == "") {
		return configError(op, "repeatFlag requires startDate: the service drops the recurrence rule when no start date is set")
	}
	return nil
}

func nonNilCreates(s []TaskCreate) []TaskCreate {
	if s == nil {
		return []TaskCreate{}
	}
	return s
}

func nonNilUpdates(s []TaskUpdate) []TaskUpdate {
	if s == nil {
		return []TaskUpdate{}
	}
	return s
}

func nonNilDeletes(s []TaskDelete) []TaskDelete {
	if s == nil {
		return []TaskDelete{}
	}
	return s
}

// CreateTask creates a single task.
//
// The service ignores task.ParentID on creation. To nest the new task,
// create it first, look up its id from the result, then call SetTaskParent.
func (c *Client) CreateTask(ctx context.Context, task TaskCreate) (*BatchResult, error) {
	const op = "ticktick.CreateTask"
	if task.Title == "" {
		return nil, &APIError{Kind: KindValidation, Op: op, Message: "title must not be empty"}
	}
	if err := requireID(op, "projectId", task.ProjectID); err != nil {
		return nil, err
	}
	return c.BatchTasks(ctx, []TaskCreate{task}, nil, nil)
}

// UpdateTask applies a sparse update to a single task. Fields left nil keep
// their current values.
func (c *Client) UpdateTask(ctx context.Context, task TaskUpdate) (*BatchResult, error) {
	const op = "ticktick.UpdateTask"
	if err := requireID(op, "id", task.ID); err != nil {
		return nil, err
	}
	if err := requireID(op, "projectId", task.ProjectID); err != nil {
		return nil, err
	}
	return c.BatchTasks(ctx, nil, []TaskUpdate{task}, nil)
}

// DeleteTask moves a task to the trash.
func (c *Client) DeleteTask(ctx context.Context, projectID, taskID string) (*BatchResult, error) {
	const op = "ticktick.DeleteTask"
	if err := requireID(op, "projectId", projectID); err != nil {
		return nil, err
	}
	if err := requireID(op, "taskId", taskID); err != nil {
		return nil, err
	}
	return c.BatchTasks(ctx, nil, nil, []TaskDelete{{ProjectID: projectID, TaskID: taskID}})
}

// CompleteTask marks a task completed, recording the completion time.
// Completing an already-completed task is a no-op on the service side, so
// the call is safe to repeat.
func (c *Client) CompleteTask(ctx context.Context, projectID, taskID string) (*BatchResult, error) {
	const op = "ticktick.CompleteTask"
	if err := requireID(op, "projectId", projectID); err != nil {
		return nil, err
	}
	if err := requireID(op, "taskId", taskID); err != nil {
		return nil, err
	}
	update := TaskUpdate{
		ID:            taskID,
		ProjectID:     projectID,
		Status:        Int(TaskStatusCompleted),
		CompletedTime: String(time.Now().UTC().Format(completedTimeFormat)),
	}
	return c.BatchTasks(ctx, nil, []TaskUpdate{update}, nil)
}

// MoveTasks moves tasks between projects. The endpoint takes a bare array,
// not a batch envelope, and returns the usual id2etag/id2error maps.
func (c *Client) MoveTasks(ctx context.Context, moves []TaskMove) (*BatchResult, error) {
	const op = "ticktick.MoveTasks"
	if len(moves) == 0 {
		return nil, &APIError{Kind: KindValidation, Op: op, Message: "moves must not be empty"}
	}
	for _, m := range moves {
		if err := requireID(op, "taskId", m.TaskID); err != nil {
			return nil, err
		}
		if err := requireID(op, "fromProjectId", m.FromProjectID); err != nil {
			return nil, err
		}
		if err := requireID(op, "toProjectId", m.ToProjectID); err != nil {
			return nil, err
		}
	}
	var result BatchResult
	if err := c.postJSON(ctx, op, "/batch/taskProject", moves, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// MoveTask moves a single task to another project.
func (c *Client) MoveTask(ctx context.Context, taskID, fromProjectID, toProjectID string) (*BatchResult, error) {
	return c.MoveTasks(ctx, []TaskMove{{
		TaskID:        taskID,
		FromProjectID: fromProjectID,
		ToProjectID:   toProjectID,
	}})
}

// SetTaskParent makes a task a subtask of another task in the same project.
func (c *Client) SetTaskParent(ctx context.Context, taskID, projectID, parentID string) (*BatchResult, error) {
	const op = "ticktick.SetTaskParent"
	if err := requireID(op, "taskId", taskID); err != nil {
		return nil, err
	}
	if err := requireID(op, "projectId", projectID); err != nil {
		return nil, err
	}
	if err := requireID(op, "parentId", parentID); err != nil {
		return nil, err
	}
	body := []taskParent{{
		TaskID:    taskID,
		ProjectID: projectID,
		ParentID:  String(parentID),
	}}
	var result BatchResult
	if err := c.postJSON(ctx, op, "/batch/taskParent", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UnsetTaskParent detaches a subtask from its current parent.
func (c *Client) UnsetTaskParent(ctx context.Context, taskID, projectID, oldParentID string) (*BatchResult, error) {
	const op = "ticktick.UnsetTaskParent"
	if err := requireID(op, "taskId", taskID); err != nil {
		return nil, err
	}
	if err := requireID(op, "projectId", projectID); err != nil {
		return nil, err
	}
	if err := requireID(op, "oldParentId", oldParentID); err != nil {
		return nil, err
	}
	body := []taskParent{{
		TaskID:      taskID,
		ProjectID:   projectID,
		OldParentID: String(oldParentID),
	}}
	var result BatchResult
	if err := c.postJSON(ctx, op, "/batch/taskParent", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
