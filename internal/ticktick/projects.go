package ticktick

import "context"

// batchProjectRequest is the project batch envelope. Unlike the task
// envelope it has no attachment keys, and deletes are plain ids.
type batchProjectRequest struct {
	Add    []ProjectCreate `json:"add"`
	Update []ProjectUpdate `json:"update"`
	Delete []string        `json:"delete"`
}

// BatchProjects applies project creates, updates, and deletes in one call.
func (c *Client) BatchProjects(ctx context.Context, add []ProjectCreate, update []ProjectUpdate, del []string) (*BatchResult, error) {
	const op = "ticktick.BatchProjects"
	req := batchProjectRequest{
		Add:    add,
		Update: update,
		Delete: del,
	}
	if req.Add == nil {
		req.Add = []ProjectCreate{}
	}
	if req.Update == nil {
		req.Update = []ProjectUpdate{}
	}
	if req.Delete == nil {
		req.Delete = []string{}
	}
	var result BatchResult
	if err := c.postJSON(ctx, op, "/batch/project", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateProject creates a single project.
func (c *Client) CreateProject(ctx context.Context, project ProjectCreate) (*BatchResult, error) {
	const op = "ticktick.CreateProject"
	if project.Name == "" {
		return nil, &APIError{Kind: KindValidation, Op: op, Message: "name must not be empty"}
	}
	return c.BatchProjects(ctx, []ProjectCreate{project}, nil, nil)
}

// UpdateProject updates a project's name, color, or folder. Setting GroupID
// to "NONE" removes the project from its folder.
func (c *Client) UpdateProject(ctx context.Context, project ProjectUpdate) (*BatchResult, error) {
	const op = "ticktick.UpdateProject"
	if err := requireID(op, "id", project.ID); err != nil {
		return nil, err
	}
	if project.Name == "" {
		return nil, &APIError{Kind: KindValidation, Op: op, Message: "name must not be empty"}
	}
	return c.BatchProjects(ctx, nil, []ProjectUpdate{project}, nil)
}

// DeleteProject deletes a project and everything in it. The inbox cannot be
// deleted; the service rejects the attempt.
func (c *Client) DeleteProject(ctx context.Context, projectID string) (*BatchResult, error) {
	const op = "ticktick.DeleteProject"
	if err := requireID(op, "projectId", projectID); err != nil {
		return nil, err
	}
	return c.BatchProjects(ctx, nil, nil, []string{projectID})
}

// batchProjectGroupRequest is the project group (folder) batch envelope.
type batchProjectGroupRequest struct {
	Add    []projectGroupCreate `json:"add"`
	Update []projectGroupUpdate `json:"update"`
	Delete []string             `json:"delete"`
}

func (c *Client) batchProjectGroups(ctx context.Context, op string, add []projectGroupCreate, update []projectGroupUpdate, del []string) (*BatchResult, error) {
	req := batchProjectGroupRequest{
		Add:    add,
		Update: update,
		Delete: del,
	}
	if req.Add == nil {
		req.Add = []projectGroupCreate{}
	}
	if req.Update == nil {
		req.Update = []projectGroupUpdate{}
	}
	if req.Delete == nil {
		req.Delete = []string{}
	}
	var result BatchResult
	if err := c.postJSON(ctx, op, "/batch/projectGroup", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateProjectGroup creates a project folder.
func (c *Client) CreateProjectGroup(ctx context.Context, name string) (*BatchResult, error) {
	const op = "ticktick.CreateProjectGroup"
	if name == "" {
		return nil, &APIError{Kind: KindValidation, Op: op, Message: "name must not be empty"}
	}
	add := []projectGroupCreate{{Name: name, ListType: projectGroupListType}}
	return c.batchProjectGroups(ctx, op, add, nil, nil)
}

// UpdateProjectGroup renames a project folder.
func (c *Client) UpdateProjectGroup(ctx context.Context, groupID, name string) (*BatchResult, error) {
	const op = "ticktick.UpdateProjectGroup"
	if err := requireID(op, "groupId", groupID); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, &APIError{Kind: KindValidation, Op: op, Message: "name must not be empty"}
	}
	update := []projectGroupUpdate{{ID: groupID, Name: name, ListType: projectGroupListType}}
	return c.batchProjectGroups(ctx, op, nil, update, nil)
}

// DeleteProjectGroup deletes a project folder. Projects inside it survive
// and drop back to the top level.
func (c *Client) DeleteProjectGroup(ctx context.Context, groupID string) (*BatchResult, error) {
	const op = "ticktick.DeleteProjectGroup"
	if err := requireID(op, "groupId", groupID); err != nil {
		return nil, err
	}
	return c.batchProjectGroups(ctx, op, nil, nil, []string{groupID})
}
