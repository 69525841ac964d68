package project_tools

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

// RegisterProjectTools registers all project and folder tools with the MCP server
func RegisterProjectTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	registerProjectReadTools(s, sc)
	if !readOnly {
		registerProjectWriteTools(s, sc)
		registerFolderWriteTools(s, sc)
	}
	return nil
}

// registerProjectReadTools registers the read-only project tools
func registerProjectReadTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	// List projects tool
	listProjectsTool := mcp.NewTool("ticktick_list_projects",
		mcp.WithDescription("List all projects (lists) in the account"),
		mcp.WithString("response_format",
			mcp.Description("Response format: 'markdown' (default) or 'json'"),
		),
	)

	s.AddTool(listProjectsTool, common.InstrumentedToolHandlerWithService("ticktick_list_projects", "ticktick", "sync", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		client, err := getClient(sc)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		state, err := client.Sync(ctx)
		if err != nil {
			return mcp.NewToolResultError(common.FormatToolError("list projects", err)), nil
		}

		if common.OptionalString(args, "response_format") == format.FormatJSON {
			return mcp.NewToolResultText(format.JSON(state.ProjectProfiles)), nil
		}
		return mcp.NewToolResultText(format.ProjectsMarkdown(state.ProjectProfiles)), nil
	}))

	// List folders tool
	listFoldersTool := mcp.NewTool("ticktick_list_folders",
		mcp.WithDescription("List all project folders (groups) in the account"),
		mcp.WithString("response_format",
			mcp.Description("Response format: 'markdown' (default) or 'json'"),
		),
	)

	s.AddTool(listFoldersTool, common.InstrumentedToolHandlerWithService("ticktick_list_folders", "ticktick", "sync", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		client, err := getClient(sc)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		state, err := client.Sync(ctx)
		if err != nil {
			return mcp.NewToolResultError(common.FormatToolError("list folders", err)), nil
		}

		if common.OptionalString(args, "response_format") == format.FormatJSON {
			return mcp.NewToolResultText(format.JSON(state.ProjectGroups)), nil
		}
		return mcp.NewToolResultText(format.GroupsMarkdown(state.ProjectGroups)), nil
	}))
}

// registerProjectWriteTools registers the mutating project tools
func registerProjectWriteTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	// Create project tool
	createProjectTool := mcp.NewTool("ticktick_create_project",
		mcp.WithDescription("Create a new project (list)"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Project name"),
		),
		mcp.WithString("color",
			mcp.Description("Display color, e.g. #F18181"),
		),
		mcp.WithString("kind",
			mcp.Description("Project kind: TASK (default) or NOTE"),
		),
		mcp.WithString("viewMode",
			mcp.Description("View mode: list, kanban, or timeline"),
		),
		mcp.WithString("groupId",
			mcp.Description("Folder to place the project in"),
		),
	)

	s.AddTool(createProjectTool, common.InstrumentedToolHandlerWithService("ticktick_create_project", "ticktick", "create", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		name, err := common.RequireString(args, "name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		project := ticktick.ProjectCreate{Name: name}
		if color := common.OptionalString(args, "color"); color != "" {
			project.Color = ticktick.String(color)
		}
		if kind := common.OptionalString(args, "kind"); kind != "" {
			project.Kind = ticktick.String(kind)
		}
		if viewMode := common.OptionalString(args, "viewMode"); viewMode != "" {
			project.ViewMode = ticktick.String(viewMode)
		}
		if groupID := common.OptionalString(args, "groupId"); groupID != "" {
			project.GroupID = ticktick.String(groupID)
		}

		client, err := getClient(sc)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		result, err := client.CreateProject(ctx, project)
		if err != nil {
			return mcp.NewToolResultError(common.FormatToolError("create project", err)), nil
		}
		if err := result.Err("create project"); err != nil {
			return mcp.NewToolResultError(common.FormatToolError("create project", err)), nil
		}

		return mcp.NewToolResultText(format.Success(fmt.Sprintf("Project %q created", name))), nil
	}))

	// Update project tool
	updateProjectTool := mcp.NewTool("ticktick_update_project",
		mcp.WithDescription("Update a project's name, color, or folder. Pass groupId 'NONE' to remove it from its folder."),
		mcp.WithString("projectId",
			mcp.Required(),
			mcp.Description("The id of the project to update"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("The project name (required by the service even when unchanged)"),
		),
		mcp.WithString("color",
			mcp.Description("New display color"),
		),
		mcp.WithString("groupId",
			mcp.Description("Folder to move the project into, or 'NONE' to ungroup"),
		),
	)

	s.AddTool(updateProjectTool, common.InstrumentedToolHandlerWithService("ticktick_update_project", "ticktick", "update", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		projectID, err := common.RequireString(args, "projectId")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		name, err := common.RequireString(args, "name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		update := ticktick.ProjectUpdate{ID: projectID, Name: name}
		if color := common.OptionalString(args, "color"); color != "" {
			update.Color = ticktick.String(color)
		}
		if groupID := common.OptionalString(args, "groupId"); groupID != "" {
			update.GroupID = ticktick.String(groupID)
		}

		client, err := getClient(sc)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		result, err := client.UpdateProject(ctx, update)
		if err != nil {
			return mcp.NewToolResultError(common.FormatToolError("update project", err)), nil
		}
		if err := result.Err("update project"); err != nil {
			return mcp.NewToolResultError(common.FormatToolError("update project", err)), nil
		}

		return mcp.NewToolResultText(format.Success(fmt.Sprintf("Project %s updated", projectID))), nil
	}))

	// Delete project tool
	deleteProjectTool := mcp.NewTool("ticktick_delete_project",
		mcp.WithDescription("Delete a project and all tasks in it"),
		mcp.WithString("projectId",
			mcp.Required(),
			mcp.Description("The id of the project to delete"),
		),
	)

	s.AddTool(deleteProjectTool, common.InstrumentedToolHandlerWithService("ticktick_delete_project", "ticktick", "delete", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		projectID, err := common.RequireString(args, "projectId")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		client, err := getClient(sc)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		result, err := client.DeleteProject(ctx, projectID)
		if err != nil {
			return mcp.NewToolResultError(common.FormatToolError("delete project", err)), nil
		}
		if err := result.Err("delete project"); err != nil {
			return mcp.NewToolResultError(common.FormatToolError("delete project", err)), nil
		}

		return mcp.NewToolResultText(format.Success(fmt.Sprintf("Project %s deleted", projectID))), nil
	}))
}

// registerFolderWriteTools registers the mutating folder (project group) tools
func registerFolderWriteTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	// Create folder tool
	createFolderTool := mcp.NewTool("ticktick_create_folder",
		mcp.WithDescription("Create a project folder"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Folder name"),
		),
	)

	s.AddTool(createFolderTool, common.InstrumentedToolHandlerWithService("ticktick_create_folder", "ticktick", "create", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		name, err := common.RequireString(args, "name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		client, err := getClient(sc)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		result, err := client.CreateProjectGroup(ctx, name)
		if err != nil {
			return mcp.NewToolResultError(common.FormatToolError("create folder", err)), nil
		}
		if err := result.Err("create folder"); err != nil {
			return mcp.NewToolResultError(common.FormatToolError("create folder", err)), nil
		}

		return mcp.NewToolResultText(format.Success(fmt.Sprintf("Folder %q created", name))), nil
	}))

	// Rename folder tool
	updateFolderTool := mcp.NewTool("ticktick_update_folder",
		mcp.WithDescription("Rename a project folder"),
		mcp.WithString("groupId",
			mcp.Required(),
			mcp.Description("The id of the folder"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("The new folder name"),
		),
	)

	s.AddTool(updateFolderTool, common.InstrumentedToolHandlerWithService("ticktick_update_folder", "ticktick", "update", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		groupID, err := common.RequireString(args, "groupId")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		name, err := common.RequireString(args, "name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		client, err := getClient(sc)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		result, err := client.UpdateProjectGroup(ctx, groupID, name)
		if err != nil {
			return mcp.NewToolResultError(common.FormatToolError("update folder", err)), nil
		}
		if err := result.Err("update folder"); err != nil {
			return mcp.NewToolResultError(common.FormatToolError("update folder", err)), nil
		}

		return mcp.NewToolResultText(format.Success(fmt.Sprintf("Folder %s renamed to %q", groupID, name))), nil
	}))

	// Delete folder tool
	deleteFolderTool := mcp.NewTool("ticktick_delete_folder",
		mcp.WithDescription("Delete a project folder. Projects inside it are kept and ungrouped."),
		mcp.WithString("groupId",
			mcp.Required(),
			mcp.Description("The id of the folder to delete"),
		),
	)

	s.AddTool(deleteFolderTool, common.InstrumentedToolHandlerWithService("ticktick_delete_folder", "ticktick", "delete", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		groupID, err := common.RequireString(args, "groupId")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		client, err := getClient(sc)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		result, err := client.DeleteProjectGroup(ctx, groupID)
		if err != nil {
			return mcp.NewToolResultError(common.FormatToolError("delete folder", err)), nil
		}
		if err := result.Err("delete folder"); err != nil {
			return mcp.NewToolResultError(common.FormatToolError("delete folder", err)), nil
		}

		return mcp.NewToolResultText(format.Success(fmt.Sprintf("Folder %s deleted", groupID))), nil
	}))
}
