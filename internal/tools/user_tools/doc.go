// Package user_tools provides MCP tools for account level data: the user
// profile and preferences, completion statistics, focus time, and habit
// check-ins. All of the tools are read-only.
package user_tools
