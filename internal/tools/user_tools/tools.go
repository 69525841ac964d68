package user_tools

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/tickdone/internal/format"
	"github.com/teemow/tickdone/internal/server"
	"github.com/teemow/tickdone/internal/ticktick"
	"github.com/teemow/tickdone/internal/tools/batch"
	"github.com/teemow/tickdone/internal/tools/common"
)

const focusRangeLayout = "2006-01-02"

// getClient returns the shared authenticated client.
func getClient(sc *server.ServerContext) (*ticktick.Client, error) {
	client := sc.Client()
	if client == nil {
		return nil, fmt.Errorf("TickTick client is not initialized; the server did not sign in at startup")
	}
	return client, nil
}

// RegisterUserTools registers the account and focus tools with the MCP
// server. All of them are read-only, so the readOnly flag has no effect.
func RegisterUserTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// Get user tool
	getUserTool := mcp.NewTool("ticktick_get_user",
		mcp.WithDescription("Get the signed-in user's profile and subscription status"),
		mcp.WithString("response_format",
			mcp.Description("Response format: 'markdown' (default) or 'json'"),
		),
	)

	s.AddTool(getUserTool, common.InstrumentedToolHandlerWithService("ticktick_get_user", "ticktick", "get", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		client, err := getClient(sc)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		profile, err := client.GetUserProfile(ctx)
		if err != nil {
			return mcp.NewToolResultError(common.FormatToolError("get user profile", err)), nil
		}
		status, err := client.GetUserStatus(ctx)
		if err != nil {
			return mcp.NewToolResultError(common.FormatToolError("get user status", err)), nil
		}
		prefs, err := client.GetUserPreferences(ctx)
		if err != nil {
			return mcp.NewToolResultError(common.FormatToolError("get user preferences", err)), nil
		}

		if common.OptionalString(args, "response_format") == format.FormatJSON {
			return mcp.NewToolResultText(format.JSON(map[string]any{
				"profile":     profile,
				"status":      status,
				"preferences": prefs,
			})), nil
		}

		out := format.UserMarkdown(profile, status)
		if prefs.TimeZone != "" {
			out += fmt.Sprintf("- **Timezone:** %s\n", prefs.TimeZone)
		}
		return mcp.NewToolResultText(out), nil
	}))

	// Get statistics tool
	getStatisticsTool := mcp.NewTool("ticktick_get_statistics",
		mcp.WithDescription("Get task completion statistics: score, level, and completion counts"),
		mcp.WithString("response_format",
			mcp.Description("Response format: 'markdown' (default) or 'json'"),
		),
	)

	s.AddTool(getStatisticsTool, common.InstrumentedToolHandlerWithService("ticktick_get_statistics", "ticktick", "get", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		client, err := getClient(sc)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		stats, err := client.GetUserStatistics(ctx)
		if err != nil {
			return mcp.NewToolResultError(common.FormatToolError("get statistics", err)), nil
		}

		if common.OptionalString(args, "response_format") == format.FormatJSON {
			return mcp.NewToolResultText(format.JSON(stats)), nil
		}
		return mcp.NewToolResultText(format.StatisticsMarkdown(stats)), nil
	}))

	// Get focus data tool
	getFocusTool := mcp.NewTool("ticktick_get_focus",
		mcp.WithDescription("Get focus (Pomodoro) time for a date range: daily heatmap plus per-task distribution"),
		mcp.WithString("start",
			mcp.Required(),
			mcp.Description("Start date in YYYY-MM-DD format"),
		),
		mcp.WithString("end",
			mcp.Required(),
			mcp.Description("End date in YYYY-MM-DD format"),
		),
		mcp.WithString("response_format",
			mcp.Description("Response format: 'markdown' (default) or 'json'"),
		),
	)

	s.AddTool(getFocusTool, common.InstrumentedToolHandlerWithService("ticktick_get_focus", "ticktick", "get", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		startArg, err := common.RequireString(args, "start")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		endArg, err := common.RequireString(args, "end")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		start, err := time.Parse(focusRangeLayout, startArg)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid start date %q: use YYYY-MM-DD", startArg)), nil
		}
		end, err := time.Parse(focusRangeLayout, endArg)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid end date %q: use YYYY-MM-DD", endArg)), nil
		}

		client, err := getClient(sc)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		heatmap, err := client.GetFocusHeatmap(ctx, start, end)
		if err != nil {
			return mcp.NewToolResultError(common.FormatToolError("get focus heatmap", err)), nil
		}
		dist, err := client.GetFocusDistribution(ctx, start, end)
		if err != nil {
			return mcp.NewToolResultError(common.FormatToolError("get focus distribution", err)), nil
		}

		if common.OptionalString(args, "response_format") == format.FormatJSON {
			return mcp.NewToolResultText(format.JSON(map[string]any{
				"heatmap":      heatmap,
				"distribution": dist,
			})), nil
		}
		return mcp.NewToolResultText(format.FocusMarkdown(heatmap, dist)), nil
	}))

	// Get habit check-ins tool
	getHabitCheckinsTool := mcp.NewTool("ticktick_get_habit_checkins",
		mcp.WithDescription("Get habit check-in records after a given date stamp"),
		mcp.WithString("habitIds",
			mcp.Required(),
			mcp.Description("Habit id, or array of habit ids"),
		),
		mcp.WithNumber("afterStamp",
			mcp.Description("Only check-ins after this date stamp (YYYYMMDD as a number, e.g. 20260101). Defaults to 0, meaning all."),
		),
	)

	s.AddTool(getHabitCheckinsTool, common.InstrumentedToolHandlerWithService("ticktick_get_habit_checkins", "ticktick", "get", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		habitIDs, err := batch.ParseStringOrArray(args["habitIds"], "habitIds")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		afterStamp := common.OptionalInt(args, "afterStamp", 0)

		client, err := getClient(sc)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		checkins, err := client.GetHabitCheckins(ctx, habitIDs, afterStamp)
		if err != nil {
			return mcp.NewToolResultError(common.FormatToolError("get habit check-ins", err)), nil
		}

		return mcp.NewToolResultText(format.JSON(checkins)), nil
	}))

	return nil
}
