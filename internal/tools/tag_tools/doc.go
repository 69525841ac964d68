// Package tag_tools provides MCP tools for TickTick tags.
//
// Tags are keyed by a normalized lowercase name derived from their display
// label. Renames and merges go through dedicated service endpoints rather
// than the batch mutation, so they get their own tools here.
package tag_tools
