package ticktick

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTagName(t *testing.T) {
	tests := []struct {
		label    string
		expected string
	}{
		{label: "Work", expected: "work"},
		{label: "High Priority", expected: "highpriority"},
		{label: "already-normal", expected: "already-normal"},
		{label: "  Padded  ", expected: "padded"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, NormalizeTagName(tt.label))
	}
}

func TestCreateTagDerivesName(t *testing.T) {
	var body map[string]any
	c, _ := newAuthedClient(t, captureBody(t, &body, emptyBatchResponse))

	_, err := c.CreateTag(context.Background(), TagCreate{Label: "High Priority"})
	require.NoError(t, err)

	add := body["add"].([]any)
	require.Len(t, add, 1)
	tag := add[0].(map[string]any)
	assert.Equal(t, "High Priority", tag["label"])
	assert.Equal(t, "highpriority", tag["name"])

	// Tag envelopes have no delete key; deletion is a separate endpoint.
	assert.NotContains(t, body, "delete")
}

func TestUpdateTagFillsRawName(t *testing.T) {
	var body map[string]any
	c, _ := newAuthedClient(t, captureBody(t, &body, emptyBatchResponse))

	_, err := c.UpdateTag(context.Background(), TagUpdate{
		Name:  "work",
		Label: "Work",
		Color: String("#FF0000"),
	})
	require.NoError(t, err)

	update := body["update"].([]any)
	require.Len(t, update, 1)
	tag := update[0].(map[string]any)
	assert.Equal(t, "work", tag["name"])
	assert.Equal(t, "work", tag["rawName"])
	assert.Equal(t, "#FF0000", tag["color"])
}

func TestRenameTag(t *testing.T) {
	var method, path string
	var rawBody []byte
	c, _ := newAuthedClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		path = r.URL.Path
		var err error
		rawBody, err = io.ReadAll(r.Body)
		require.NoError(t, err)
	}))

	err := c.RenameTag(context.Background(), "work", "Career")
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/tag/rename", path)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rawBody, &body))
	assert.Equal(t, "work", body["name"])
	assert.Equal(t, "Career", body["newName"])
}

func TestMergeTags(t *testing.T) {
	var path string
	var rawBody []byte
	c, _ := newAuthedClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		var err error
		rawBody, err = io.ReadAll(r.Body)
		require.NoError(t, err)
	}))

	err := c.MergeTags(context.Background(), "urgent", "important")
	require.NoError(t, err)
	assert.Equal(t, "/tag/merge", path)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rawBody, &body))
	assert.Equal(t, "urgent", body["name"])
	assert.Equal(t, "important", body["newName"])
}

func TestDeleteTag(t *testing.T) {
	var method, path, name string
	c, _ := newAuthedClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		path = r.URL.Path
		name = r.URL.Query().Get("name")
	}))

	err := c.DeleteTag(context.Background(), "oldtag")
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, method)
	assert.Equal(t, "/tag", path)
	assert.Equal(t, "oldtag", name)
}

func TestTagValidation(t *testing.T) {
	c, _ := newAuthedClient(t, captureBody(t, nil, emptyBatchResponse))

	_, err := c.CreateTag(context.Background(), TagCreate{})
	assert.True(t, IsKind(err, KindValidation))

	err = c.RenameTag(context.Background(), "", "new")
	assert.True(t, IsKind(err, KindValidation))

	err = c.MergeTags(context.Background(), "src", "")
	assert.True(t, IsKind(err, KindValidation))

	err = c.DeleteTag(context.Background(), "")
	assert.True(t, IsKind(err, KindValidation))
}
