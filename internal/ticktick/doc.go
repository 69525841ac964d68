// Package ticktick provides a client for TickTick's unofficial session-based
// (V2) web API.
//
// The client authenticates with username/password (plus optional TOTP
// two-factor), holds the resulting cookie session, and exposes the batch
// mutation protocol the TickTick web client uses.
//
// Endpoints:
//
//	Authentication:
//	    POST /user/signon
//	    POST /user/signon/totp (2FA)
//
//	User:
//	    GET  /user/status
//	    GET  /user/profile
//	    GET  /user/preferences/settings
//	    GET  /statistics/general
//
//	Sync:
//	    GET  /batch/check/0
//
//	Tasks:
//	    POST /batch/task (create/update/delete)
//	    GET  /task/{id}
//	    POST /batch/taskProject (move)
//	    POST /batch/taskParent (subtasks)
//	    GET  /project/all/closed
//	    GET  /project/all/trash/pagination
//
//	Projects:
//	    POST /batch/project
//
//	Project Groups:
//	    POST /batch/projectGroup
//
//	Tags:
//	    POST   /batch/tag
//	    PUT    /tag/rename
//	    PUT    /tag/merge
//	    DELETE /tag
//
//	Focus/Pomodoro:
//	    GET  /pomodoros/statistics/heatmap/{from}/{to}
//	    GET  /pomodoros/statistics/dist/{from}/{to}
//
//	Habits:
//	    POST /habitCheckins/query
//
// Service behaviors worth knowing (verified against the live service):
//
//   - Deleting a task moves it to the trash rather than removing it; deleted
//     tasks remain readable via GetTask.
//   - A recurrence rule (repeatFlag) without a start date is silently dropped
//     by the service. The client rejects that combination up front.
//   - parentId is accepted on the wire at task creation but ignored by the
//     service. Parent/child nesting must go through SetTaskParent.
//   - Tags are identified by a normalized lowercase name, not an id.
//   - The inbox is a special project that cannot be deleted; its id is only
//     discoverable through Sync or the user status endpoint.
//
// No retries happen at this layer. Batch add operations are not idempotent
// server-side: resubmitting a create batch creates duplicates, so callers
// must not blindly retry them.
package ticktick
