// Package task_tools provides MCP tools for managing TickTick tasks.
//
// This package implements MCP (Model Context Protocol) tools that wrap the
// TickTick client's task functionality, covering the full task lifecycle
// for AI assistants.
//
// # Available Tools
//
// Reading:
//   - ticktick_list_tasks: List open tasks (optionally by project or overdue)
//   - ticktick_search_tasks: Search open tasks by title and content
//   - ticktick_get_task: Get full details of a single task
//   - ticktick_list_completed_tasks: List completed tasks in a date range
//   - ticktick_list_abandoned_tasks: List won't-do tasks in a date range
//   - ticktick_list_trash: List deleted tasks (paginated)
//
// Mutations (disabled in read-only mode):
//   - ticktick_create_task: Create a task (defaults to the inbox)
//   - ticktick_update_task: Update fields of an existing task
//   - ticktick_complete_tasks: Mark one or more tasks completed
//   - ticktick_delete_tasks: Move one or more tasks to the trash
//   - ticktick_move_tasks: Move tasks to another project
//   - ticktick_set_task_parent: Nest a task under a parent
//   - ticktick_unset_task_parent: Move a subtask back to the top level
//
// # Authentication
//
// All tools use the single session-authenticated client held by the server
// context. Sign-on happens at server startup; tools fail with guidance when
// the session is gone.
package task_tools
