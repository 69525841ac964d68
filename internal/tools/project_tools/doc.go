// Package project_tools provides MCP tools for TickTick projects and folders.
//
// Read tools list the projects and folders known to the account.
// Mutations create, update, and delete projects and folders and are only
// registered when the server runs with mutations enabled.
package project_tools
