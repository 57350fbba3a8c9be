package core

import "time"

// ConversationTurn is one user/assistant exchange within a session.
// Turns are immutable once written and ordered by insertion.
type ConversationTurn struct {
	SessionID   string    `json:"session_id"`
	UserMessage string    `json:"user_message"`
	AIResponse  string    `json:"ai_response"`
	CreatedAt   time.Time `json:"created_at"`
}

// ActivityStatus is the lifecycle state of an activity.
type ActivityStatus string

const (
	StatusTodo       ActivityStatus = "todo"
	StatusInProgress ActivityStatus = "in-progress"
	StatusDone       ActivityStatus = "done"
)

// ParseActivityStatus returns the matching status, or false when the
// input is not one of the known values.
func ParseActivityStatus(s string) (ActivityStatus, bool) {
	switch ActivityStatus(s) {
	case StatusTodo, StatusInProgress, StatusDone:
		return ActivityStatus(s), true
	}
	return "", false
}

// ActivityRecord is the joined view of an activity, its parent task and
// the assigned user. The underlying dataset is read-only from this side.
type ActivityRecord struct {
	Activity  string         `json:"activity"`
	Task      string         `json:"task"`
	Assignee  string         `json:"assignee"`
	StartDate time.Time      `json:"start_date"`
	EndDate   time.Time      `json:"end_date"`
	Status    ActivityStatus `json:"status"`
}

// ActivityFilter narrows an activity search. All set fields are combined
// with AND. Assignee and TaskName match by substring, Status exactly.
// Month ("01".."12") matches when the start or end date falls in it.
type ActivityFilter struct {
	Assignee string
	Status   ActivityStatus
	TaskName string
	Month    string
}

// Empty reports whether no filter field is set.
func (f ActivityFilter) Empty() bool {
	return f.Assignee == "" && f.Status == "" && f.TaskName == "" && f.Month == ""
}

// Workspace identifies one reporting workspace.
type Workspace struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// WorkspaceChat is one chat interaction joined with its lead and workspace.
type WorkspaceChat struct {
	SessionID     string     `json:"session_id"`
	CreatedAt     *time.Time `json:"created_at"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Prompt        string     `json:"prompt"`
	Response      string     `json:"response"`
	WorkspaceName string     `json:"workspace_name"`
	WorkspaceID   int64      `json:"workspace_id"`
}

// ChatFilter scopes a workspace chat query.
type ChatFilter struct {
	Workspace string
	StartDate string // YYYY-MM-DD, empty means unbounded
	EndDate   string
	OnlyLeads bool
}
