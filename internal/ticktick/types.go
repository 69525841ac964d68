package ticktick

import "encoding/json"

// Pointer helpers for the sparse create/update records below. Only fields
// that are explicitly set serialize; everything else is left to server-side
// defaults or existing values.

// String returns a pointer to s.
func String(s string) *string { return &s }

// Int returns a pointer to i.
func Int(i int) *int { return &i }

// Int64 returns a pointer to i.
func Int64(i int64) *int64 { return &i }

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }

// Task status values.
const (
	TaskStatusOpen      = 0
	TaskStatusCompleted = 2
)

// Task priority values. The service only knows these four.
const (
	PriorityNone   = 0
	PriorityLow    = 1
	PriorityMedium = 3
	PriorityHigh   = 5
)

// ChecklistItem is a subtask line inside a checklist-kind task.
type ChecklistItem struct {
	ID        string `json:"id,omitempty"`
	Title     string `json:"title"`
	Status    int    `json:"status,omitempty"`
	SortOrder int64  `json:"sortOrder,omitempty"`
	StartDate string `json:"startDate,omitempty"`
	IsAllDay  bool   `json:"isAllDay,omitempty"`
}

// Reminder is a task reminder trigger.
type Reminder struct {
	ID      string `json:"id,omitempty"`
	Trigger string `json:"trigger"`
}

// TaskRecord is a task as the service returns it. Fields the client never
// interprets are still carried so the tool layer can format them.
type TaskRecord struct {
	ID            string          `json:"id"`
	ProjectID     string          `json:"projectId"`
	ParentID      string          `json:"parentId,omitempty"`
	ChildIDs      []string        `json:"childIds,omitempty"`
	Title         string          `json:"title"`
	Content       string          `json:"content,omitempty"`
	Desc          string          `json:"desc,omitempty"`
	Kind          string          `json:"kind,omitempty"`
	Status        int             `json:"status"`
	Priority      int             `json:"priority"`
	Deleted       int             `json:"deleted,omitempty"`
	StartDate     string          `json:"startDate,omitempty"`
	DueDate       string          `json:"dueDate,omitempty"`
	TimeZone      string          `json:"timeZone,omitempty"`
	IsAllDay      bool            `json:"isAllDay,omitempty"`
	RepeatFlag    string          `json:"repeatFlag,omitempty"`
	Reminders     []Reminder      `json:"reminders,omitempty"`
	Tags          []string        `json:"tags,omitempty"`
	Items         []ChecklistItem `json:"items,omitempty"`
	SortOrder     int64           `json:"sortOrder,omitempty"`
	Etag          string          `json:"etag,omitempty"`
	CompletedTime string          `json:"completedTime,omitempty"`
	CreatedTime   string          `json:"createdTime,omitempty"`
	ModifiedTime  string          `json:"modifiedTime,omitempty"`
}

// TaskCreate is the sparse record for creating a task. Title and ProjectID
// are the only required fields.
//
// ParentID is accepted by the wire format but silently ignored by the
// service; the field exists for payload fidelity only. Use SetTaskParent to
// actually nest a task.
type TaskCreate struct {
	Title      string          `json:"title"`
	ProjectID  string          `json:"projectId"`
	Content    *string         `json:"content,omitempty"`
	Desc       *string         `json:"desc,omitempty"`
	Kind       *string         `json:"kind,omitempty"`
	Priority   *int            `json:"priority,omitempty"`
	StartDate  *string         `json:"startDate,omitempty"`
	DueDate    *string         `json:"dueDate,omitempty"`
	TimeZone   *string         `json:"timeZone,omitempty"`
	IsAllDay   *bool           `json:"isAllDay,omitempty"`
	Reminders  []Reminder      `json:"reminders,omitempty"`
	RepeatFlag *string         `json:"repeatFlag,omitempty"`
	Tags       []string        `json:"tags,omitempty"`
	Items      []ChecklistItem `json:"items,omitempty"`
	SortOrder  *int64          `json:"sortOrder,omitempty"`
	ParentID   *string         `json:"parentId,omitempty"`
}

// TaskUpdate is the sparse record for updating a task. Only ID and ProjectID
// always serialize; omitted fields keep their server-side values instead of
// being overwritten with nulls.
type TaskUpdate struct {
	ID            string          `json:"id"`
	ProjectID     string          `json:"projectId"`
	Title         *string         `json:"title,omitempty"`
	Content       *string         `json:"content,omitempty"`
	Desc          *string         `json:"desc,omitempty"`
	Kind          *string         `json:"kind,omitempty"`
	Status        *int            `json:"status,omitempty"`
	Priority      *int            `json:"priority,omitempty"`
	StartDate     *string         `json:"startDate,omitempty"`
	DueDate       *string         `json:"dueDate,omitempty"`
	TimeZone      *string         `json:"timeZone,omitempty"`
	IsAllDay      *bool           `json:"isAllDay,omitempty"`
	Reminders     []Reminder      `json:"reminders,omitempty"`
	RepeatFlag    *string         `json:"repeatFlag,omitempty"`
	Tags          []string        `json:"tags,omitempty"`
	Items         []ChecklistItem `json:"items,omitempty"`
	SortOrder     *int64          `json:"sortOrder,omitempty"`
	CompletedTime *string         `json:"completedTime,omitempty"`
}

// TaskDelete identifies a task to delete. Deletion is soft: the task moves
// to the trash.
type TaskDelete struct {
	ProjectID string `json:"projectId"`
	TaskID    string `json:"taskId"`
}

// TaskMove describes one move in a MoveTasks call.
type TaskMove struct {
	TaskID        string `json:"taskId"`
	FromProjectID string `json:"fromProjectId"`
	ToProjectID   string `json:"toProjectId"`
}

// taskParent is the wire record for the reparent endpoint. Exactly one of
// ParentID (set) or OldParentID (unset) is present.
type taskParent struct {
	TaskID      string  `json:"taskId"`
	ProjectID   string  `json:"projectId"`
	ParentID    *string `json:"parentId,omitempty"`
	OldParentID *string `json:"oldParentId,omitempty"`
}

// ProjectRecord is a project (list) as the service returns it.
type ProjectRecord struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Color      string `json:"color,omitempty"`
	GroupID    string `json:"groupId,omitempty"`
	ViewMode   string `json:"viewMode,omitempty"`
	Kind       string `json:"kind,omitempty"`
	SortOrder  int64  `json:"sortOrder,omitempty"`
	Closed     bool   `json:"closed,omitempty"`
	Permission string `json:"permission,omitempty"`
	Etag       string `json:"etag,omitempty"`
}

// ProjectCreate is the sparse record for creating a project.
type ProjectCreate struct {
	Name      string  `json:"name"`
	Color     *string `json:"color,omitempty"`
	Kind      *string `json:"kind,omitempty"`
	ViewMode  *string `json:"viewMode,omitempty"`
	GroupID   *string `json:"groupId,omitempty"`
	SortOrder *int64  `json:"sortOrder,omitempty"`
}

// ProjectUpdate is the sparse record for updating a project. GroupID "NONE"
// removes the project from its folder.
type ProjectUpdate struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Color   *string `json:"color,omitempty"`
	GroupID *string `json:"groupId,omitempty"`
}

// projectGroupListType is the only list type the service accepts for
// project groups.
const projectGroupListType = "group"

// ProjectGroupRecord is a project group (folder) as the service returns it.
type ProjectGroupRecord struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SortOrder int64  `json:"sortOrder,omitempty"`
	Etag      string `json:"etag,omitempty"`
}

// projectGroupCreate / projectGroupUpdate are wire records; the listType is
// fixed and not caller-controlled.
type projectGroupCreate struct {
	Name     string `json:"name"`
	ListType string `json:"listType"`
}

type projectGroupUpdate struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ListType string `json:"listType"`
}

// TagRecord is a tag as the service returns it. Tags are keyed by Name,
// a normalized lowercase form of Label.
type TagRecord struct {
	Name      string `json:"name"`
	Label     string `json:"label"`
	RawName   string `json:"rawName,omitempty"`
	Color     string `json:"color,omitempty"`
	Parent    string `json:"parent,omitempty"`
	SortType  string `json:"sortType,omitempty"`
	SortOrder int64  `json:"sortOrder,omitempty"`
	Etag      string `json:"etag,omitempty"`
}

// TagCreate is the sparse record for creating a tag. Name is derived from
// Label when left empty.
type TagCreate struct {
	Label     string  `json:"label"`
	Name      string  `json:"name"`
	Color     *string `json:"color,omitempty"`
	Parent    *string `json:"parent,omitempty"`
	SortType  *string `json:"sortType,omitempty"`
	SortOrder *int64  `json:"sortOrder,omitempty"`
}

// TagUpdate is the sparse record for updating a tag in place. Renames go
// through RenameTag instead; the batch endpoint cannot change a tag's name.
type TagUpdate struct {
	Name      string  `json:"name"`
	Label     string  `json:"label"`
	RawName   string  `json:"rawName"`
	Color     *string `json:"color,omitempty"`
	Parent    *string `json:"parent,omitempty"`
	SortType  *string `json:"sortType,omitempty"`
	SortOrder *int64  `json:"sortOrder,omitempty"`
}

// BatchResult is the decoded response of a batch mutation. Items are
// correlated purely by id; there is no ordering guarantee. The service
// applies entries independently, so a batch can partially fail - always
// check ID2Error per item.
type BatchResult struct {
	ID2Etag  map[string]string          `json:"id2etag"`
	ID2Error map[string]json.RawMessage `json:"id2error"`
}

// Err returns a validation error describing the failed items, or nil when
// every item was applied.
func (r *BatchResult) Err(op string) error {
	if len(r.ID2Error) == 0 {
		return nil
	}
	detail, _ := json.Marshal(r.ID2Error)
	return &APIError{
		Kind:    KindValidation,
		Op:      op,
		Message: "some items failed: " + string(detail),
	}
}

// SyncTaskBean carries the task portion of a full sync snapshot.
type SyncTaskBean struct {
	Update []TaskRecord `json:"update"`
	Add    []TaskRecord `json:"add,omitempty"`
	Delete []TaskRecord `json:"delete,omitempty"`
	Empty  bool         `json:"empty,omitempty"`
}

// SyncState is the full account snapshot from GET /batch/check/0: the only
// way to discover the inbox id and the complete project/tag/group sets.
type SyncState struct {
	InboxID         string               `json:"inboxId"`
	CheckPoint      int64                `json:"checkPoint,omitempty"`
	ProjectProfiles []ProjectRecord      `json:"projectProfiles"`
	ProjectGroups   []ProjectGroupRecord `json:"projectGroups"`
	Tags            []TagRecord          `json:"tags"`
	SyncTaskBean    SyncTaskBean         `json:"syncTaskBean"`
}

// Tasks returns the snapshot's task list.
func (s *SyncState) Tasks() []TaskRecord {
	return s.SyncTaskBean.Update
}

// TrashPage is one page of deleted tasks.
type TrashPage struct {
	Tasks []TaskRecord `json:"tasks"`
	Next  int          `json:"next,omitempty"`
}

// UserProfile is the account's profile record.
type UserProfile struct {
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
	Picture  string `json:"picture,omitempty"`
	Locale   string `json:"locale,omitempty"`
}

// UserPreferences is the account settings record. Only the commonly used
// fields are typed; the service returns many more.
type UserPreferences struct {
	TimeZone       string `json:"timeZone,omitempty"`
	Locale         string `json:"locale,omitempty"`
	StartDayOfWeek int    `json:"startDayOfWeek,omitempty"`
	DailyReminder  string `json:"dailyReminder,omitempty"`
}

// UserStatus is the account's subscription/status record.
type UserStatus struct {
	UserID        string `json:"userId"`
	Username      string `json:"username"`
	InboxID       string `json:"inboxId"`
	Pro           bool   `json:"pro"`
	ProEndDate    string `json:"proEndDate,omitempty"`
	TeamUser      bool   `json:"teamUser,omitempty"`
	NeedSubscribe bool   `json:"needSubscribe,omitempty"`
}

// UserStatistics is the productivity statistics record.
type UserStatistics struct {
	Score              int     `json:"score"`
	Level              int     `json:"level"`
	TodayCompleted     int     `json:"todayCompleted"`
	YesterdayCompleted int     `json:"yesterdayCompleted,omitempty"`
	TotalCompleted     int     `json:"totalCompleted"`
	TodayPomoCount     int     `json:"todayPomoCount,omitempty"`
	TotalPomoCount     int     `json:"totalPomoCount,omitempty"`
	TodayPomoDuration  int     `json:"todayPomoDuration,omitempty"`
	TotalPomoDuration  int64   `json:"totalPomoDuration,omitempty"`
	CompletedRate      float64 `json:"completedRate,omitempty"`
}

// FocusHeatmapEntry is one day of focus time in a heatmap query.
type FocusHeatmapEntry struct {
	Day      string `json:"day"`
	Duration int    `json:"duration"`
}

// FocusDistribution breaks focus time down by project and tag.
type FocusDistribution struct {
	ProjectDurations map[string]int `json:"projectDurations,omitempty"`
	TagDurations     map[string]int `json:"tagDurations,omitempty"`
}

// HabitCheckin is one habit check-in event.
type HabitCheckin struct {
	ID           string  `json:"id"`
	HabitID      string  `json:"habitId"`
	CheckinStamp int     `json:"checkinStamp"`
	CheckinTime  string  `json:"checkinTime,omitempty"`
	Value        float64 `json:"value,omitempty"`
	Goal         float64 `json:"goal,omitempty"`
	Status       int     `json:"status"`
}

// HabitCheckinsResult maps habit id to its check-ins after the query stamp.
type HabitCheckinsResult struct {
	Checkins map[string][]HabitCheckin `json:"checkins"`
}
