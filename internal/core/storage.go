package core

import "context"

// HistoryRepository persists conversation turns per session. Reads for an
// unknown session return an empty slice, never an error.
type HistoryRepository interface {
	Append(ctx context.Context, sessionID, userMessage, aiResponse string) error
	Read(ctx context.Context, sessionID string) ([]ConversationTurn, error)
	Recent(ctx context.Context, sessionID string, n int) ([]ConversationTurn, error)
}

// ActivityRepository exposes the fixed read-only operations over the
// activity dataset. Calls are stateless; each one re-queries the store.
type ActivityRepository interface {
	Search(ctx context.Context, f ActivityFilter) ([]ActivityRecord, error)
	ListAssignees(ctx context.Context) ([]string, error)
	DumpAll(ctx context.Context) ([]ActivityRecord, error)
}

// ReportRepository serves the reporting schema: workspace chats, the
// workspace list, and execution of validated read-only SQL.
type ReportRepository interface {
	WorkspaceChats(ctx context.Context, f ChatFilter) ([]WorkspaceChat, error)
	Workspaces(ctx context.Context) ([]Workspace, error)
	ExecuteReadQuery(ctx context.Context, query string) ([]map[string]any, error)
}
