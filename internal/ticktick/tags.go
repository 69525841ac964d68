package ticktick

import (
	"context"
	"net/url"
	"strings"
)

// NormalizeTagName derives a tag's identifying name from its display label:
// lowercase with spaces removed. The service keys tags by this form, not by
// the label the user sees.
func NormalizeTagName(label string) string {
	return strings.ReplaceAll(strings.ToLower(label), " ", "")
}

// batchTagRequest is the tag batch envelope. Tags have no batch delete;
// deletion, rename, and merge go through dedicated endpoints.
type batchTagRequest struct {
	Add    []TagCreate `json:"add"`
	Update []TagUpdate `json:"update"`
}

// BatchTags applies tag creates and updates in one call.
func (c *Client) BatchTags(ctx context.Context, add []TagCreate, update []TagUpdate) (*BatchResult, error) {
	const op = "ticktick.BatchTags"
	req := batchTagRequest{Add: add, Update: update}
	if req.Add == nil {
		req.Add = []TagCreate{}
	}
	if req.Update == nil {
		req.Update = []TagUpdate{}
	}
	var result BatchResult
	if err := c.postJSON(ctx, op, "/batch/tag", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateTag creates a tag. When tag.Name is empty it is derived from the
// label.
func (c *Client) CreateTag(ctx context.Context, tag TagCreate) (*BatchResult, error) {
	const op = "ticktick.CreateTag"
	if tag.Label == "" {
		return nil, &APIError{Kind: KindValidation, Op: op, Message: "label must not be empty"}
	}
	if tag.Name == "" {
		tag.Name = NormalizeTagName(tag.Label)
	}
	return c.BatchTags(ctx, []TagCreate{tag}, nil)
}

// UpdateTag changes a tag's color, parent, or sort settings. It cannot
// change the name; use RenameTag for that.
func (c *Client) UpdateTag(ctx context.Context, tag TagUpdate) (*BatchResult, error) {
	const op = "ticktick.UpdateTag"
	if err := requireID(op, "name", tag.Name); err != nil {
		return nil, err
	}
	if tag.Label == "" {
		return nil, &APIError{Kind: KindValidation, Op: op, Message: "label must not be empty"}
	}
	if tag.RawName == "" {
		tag.RawName = tag.Name
	}
	return c.BatchTags(ctx, nil, []TagUpdate{tag})
}

// tagRename is the body for the rename and merge endpoints; both take the
// same {name, newName} pair.
type tagRename struct {
	Name    string `json:"name"`
	NewName string `json:"newName"`
}

// RenameTag gives a tag a new label. Tasks carrying the tag are updated by
// the service. The rename endpoint sits outside the batch protocol.
func (c *Client) RenameTag(ctx context.Context, oldName, newLabel string) error {
	const op = "ticktick.RenameTag"
	if err := requireID(op, "name", oldName); err != nil {
		return err
	}
	if newLabel == "" {
		return &APIError{Kind: KindValidation, Op: op, Message: "newName must not be empty"}
	}
	return c.putJSON(ctx, op, "/tag/rename", nil, tagRename{Name: oldName, NewName: newLabel}, nil)
}

// MergeTags folds the source tag into the target tag. Tasks tagged with the
// source get the target instead, and the source tag is deleted.
func (c *Client) MergeTags(ctx context.Context, sourceName, targetName string) error {
	const op = "ticktick.MergeTags"
	if err := requireID(op, "name", sourceName); err != nil {
		return err
	}
	if err := requireID(op, "newName", targetName); err != nil {
		return err
	}
	return c.putJSON(ctx, op, "/tag/merge", nil, tagRename{Name: sourceName, NewName: targetName}, nil)
}

// DeleteTag removes a tag. Tasks keep their other tags; only the deleted
// tag disappears from them.
func (c *Client) DeleteTag(ctx context.Context, name string) error {
	const op = "ticktick.DeleteTag"
	if err := requireID(op, "name", name); err != nil {
		return err
	}
	query := url.Values{"name": {name}}
	return c.deleteReq(ctx, op, "/tag", query)
}
