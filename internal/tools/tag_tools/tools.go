package tag_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/tickdone/internal/format"
	"github.com/teemow/tickdone/internal/server"
	"github.com/teemow/tickdone/internal/ticktick"
	"github.com/teemow/tickdone/internal/tools/common"
)

// getClient returns the shared authenticated client.
func getClient(sc *server.ServerContext) (*ticktick.Client, error) {
	client := sc.Client()
	if client == nil {
		return nil, fmt.Errorf("TickTick client is not initialized; the server did not sign in at startup")
	}
	return client, nil
}

// RegisterTagTools registers all tag tools with the MCP server
func RegisterTagTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	registerTagReadTools(s, sc)
	if !readOnly {
		registerTagWriteTools(s, sc)
	}
	return nil
}

// registerTagReadTools registers the read-only tag tools
func registerTagReadTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	// List tags tool
	listTagsTool := mcp.NewTool("ticktick_list_tags",
		mcp.WithDescription("List all tags in the account"),
		mcp.WithString("response_format",
			mcp.Description("Response format: 'markdown' (default) or 'json'"),
		),
	)

	s.AddTool(listTagsTool, common.InstrumentedToolHandlerWithService("ticktick_list_tags", "ticktick", "sync", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		client, err := getClient(sc)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		state, err := client.Sync(ctx)
		if err != nil {
			return mcp.NewToolResultError(common.FormatToolError("list tags", err)), nil
		}

		if common.OptionalString(args, "response_format") == format.FormatJSON {
			return mcp.NewToolResultText(format.JSON(state.Tags)), nil
		}
		return mcp.NewToolResultText(format.TagsMarkdown(state.Tags)), nil
	}))
}

// registerTagWriteTools registers the mutating tag tools
func registerTagWriteTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	// Create tag tool
	createTagTool := mcp.NewTool("ticktick_create_tag",
		mcp.WithDescription("Create a new tag"),
		mcp.WithString("label",
			mcp.Required(),
			mcp.Description("Display label for the tag, e.g. 'High Priority'"),
		),
		mcp.WithString("color",
			mcp.Description("Display color, e.g. #F18181"),
		),
		mcp.WithString("parent",
			mcp.Description("Name of the parent tag for nesting"),
		),
	)

	s.AddTool(createTagTool, common.InstrumentedToolHandlerWithService("ticktick_create_tag", "ticktick", "create", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		label, err := common.RequireString(args, "label")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		tag := ticktick.TagCreate{Label: label}
		if color := common.OptionalString(args, "color"); color != "" {
			tag.Color = ticktick.String(color)
		}
		if parent := common.OptionalString(args, "parent"); parent != "" {
			tag.Parent = ticktick.String(parent)
		}

		client, err := getClient(sc)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		result, err := client.CreateTag(ctx, tag)
		if err != nil {
			return mcp.NewToolResultError(common.FormatToolError("create tag", err)), nil
		}
		if err := result.Err("create tag"); err != nil {
			return mcp.NewToolResultError(common.FormatToolError("create tag", err)), nil
		}

		return mcp.NewToolResultText(format.Success(fmt.Sprintf("Tag %q created", label))), nil
	}))

	// Update tag tool
	updateTagTool := mcp.NewTool("ticktick_update_tag",
		mcp.WithDescription("Update a tag's color or parent. Renames go through ticktick_rename_tag."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("The tag name (lowercase identifying form)"),
		),
		mcp.WithString("color",
			mcp.Description("New display color"),
		),
		mcp.WithString("parent",
			mcp.Description("Name of the new parent tag"),
		),
	)

	s.AddTool(updateTagTool, common.InstrumentedToolHandlerWithService("ticktick_update_tag", "ticktick", "update", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		name, err := common.RequireString(args, "name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		client, err := getClient(sc)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		// The batch endpoint wants the full record back. Resolve the
		// current tag so label and raw name survive the update.
		state, err := client.Sync(ctx)
		if err != nil {
			return mcp.NewToolResultError(common.FormatToolError("update tag", err)), nil
		}
		var current *ticktick.TagRecord
		for i := range state.Tags {
			if state.Tags[i].Name == name {
				current = &state.Tags[i]
				break
			}
		}
		if current == nil {
			return mcp.NewToolResultError(fmt.Sprintf("Tag %q not found", name)), nil
		}

		update := ticktick.TagUpdate{
			Name:    current.Name,
			Label:   current.Label,
			RawName: current.RawName,
		}
		if color := common.OptionalString(args, "color"); color != "" {
			update.Color = ticktick.String(color)
		}
		if parent := common.OptionalString(args, "parent"); parent != "" {
			update.Parent = ticktick.String(parent)
		}

		result, err := client.UpdateTag(ctx, update)
		if err != nil {
			return mcp.NewToolResultError(common.FormatToolError("update tag", err)), nil
		}
		if err := result.Err("update tag"); err != nil {
			return mcp.NewToolResultError(common.FormatToolError("update tag", err)), nil
		}

		return mcp.NewToolResultText(format.Success(fmt.Sprintf("Tag %q updated", name))), nil
	}))

	// Rename tag tool
	renameTagTool := mcp.NewTool("ticktick_rename_tag",
		mcp.WithDescription("Rename a tag. Tasks carrying the tag are updated by the service."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("The current tag name"),
		),
		mcp.WithString("newLabel",
			mcp.Required(),
			mcp.Description("The new display label"),
		),
	)

	s.AddTool(renameTagTool, common.InstrumentedToolHandlerWithService("ticktick_rename_tag", "ticktick", "update", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		name, err := common.RequireString(args, "name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		newLabel, err := common.RequireString(args, "newLabel")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		client, err := getClient(sc)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if err := client.RenameTag(ctx, name, newLabel); err != nil {
			return mcp.NewToolResultError(common.FormatToolError("rename tag", err)), nil
		}

		return mcp.NewToolResultText(format.Success(fmt.Sprintf("Tag %q renamed to %q", name, newLabel))), nil
	}))

	// Merge tags tool
	mergeTagsTool := mcp.NewTool("ticktick_merge_tags",
		mcp.WithDescription("Merge one tag into another. Tasks are retagged and the source tag is removed."),
		mcp.WithString("sourceName",
			mcp.Required(),
			mcp.Description("The tag to merge away"),
		),
		mcp.WithString("targetName",
			mcp.Required(),
			mcp.Description("The tag that absorbs the source's tasks"),
		),
	)

	s.AddTool(mergeTagsTool, common.InstrumentedToolHandlerWithService("ticktick_merge_tags", "ticktick", "update", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		sourceName, err := common.RequireString(args, "sourceName")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		targetName, err := common.RequireString(args, "targetName")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		client, err := getClient(sc)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if err := client.MergeTags(ctx, sourceName, targetName); err != nil {
			return mcp.NewToolResultError(common.FormatToolError("merge tags", err)), nil
		}

		return mcp.NewToolResultText(format.Success(fmt.Sprintf("Tag %q merged into %q", sourceName, targetName))), nil
	}))

	// Delete tag tool
	deleteTagTool := mcp.NewTool("ticktick_delete_tag",
		mcp.WithDescription("Delete a tag. Tasks keep their other tags."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("The name of the tag to delete"),
		),
	)

	s.AddTool(deleteTagTool, common.InstrumentedToolHandlerWithService("ticktick_delete_tag", "ticktick", "delete", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		name, err := common.RequireString(args, "name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		client, err := getClient(sc)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if err := client.DeleteTag(ctx, name); err != nil {
			return mcp.NewToolResultError(common.FormatToolError("delete tag", err)), nil
		}

		return mcp.NewToolResultText(format.Success(fmt.Sprintf("Tag %q deleted", name))), nil
	}))
}
