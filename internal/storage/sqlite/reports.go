package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sandevgo/taskchat/internal/core"
)

type ReportRepo struct {
	db *sql.DB
}

func NewReportRepo(db *sql.DB) *ReportRepo {
	return &ReportRepo{db: db}
}

// WorkspaceChats returns chat interactions for one workspace, optionally
// bounded by date. Filter values are bound, never interpolated.
func (r *ReportRepo) WorkspaceChats(ctx context.Context, f core.ChatFilter) ([]core.WorkspaceChat, error) {
	join := "LEFT JOIN"
	if f.OnlyLeads {
		// Leads are chats whose session collected user details.
		join = "INNER JOIN"
	}

	query := fmt.Sprintf(`SELECT c.session_id, u.created_at, u.name, u.email,
			c.prompt, c.response, ws.name, ws.id
		FROM embed_chats c
		%s embed_users u ON u.session_id = c.session_id
		LEFT JOIN embed_configs conf ON conf.id = c.embed_id
		LEFT JOIN workspaces ws ON ws.id = conf.workspace_id
		WHERE ws.name = ?`, join)
	args := []any{f.Workspace}

	if f.StartDate != "" {
		query += ` AND c.created_at >= ?`
		args = append(args, f.StartDate)
	}
	if f.EndDate != "" {
		query += ` AND c.created_at <= ?`
		args = append(args, f.EndDate)
	}
	query += ` ORDER BY c.created_at`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query workspace chats: %w", err)
	}
	defer rows.Close()

	chats := make([]core.WorkspaceChat, 0)
	for rows.Next() {
		var (
			chat        core.WorkspaceChat
			sessionID   sql.NullString
			createdAt   sql.NullTime
			name, email sql.NullString
		)
		if err := rows.Scan(&sessionID, &createdAt, &name, &email,
			&chat.Prompt, &chat.Response, &chat.WorkspaceName, &chat.WorkspaceID); err != nil {
			return nil, fmt.Errorf("failed to scan chat: %w", err)
		}
		chat.SessionID = sessionID.String
		chat.Name = name.String
		chat.Email = email.String
		if createdAt.Valid {
			t := createdAt.Time
			chat.CreatedAt = &t
		}
		chats = append(chats, chat)
	}
	return chats, rows.Err()
}

func (r *ReportRepo) Workspaces(ctx context.Context) ([]core.Workspace, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM workspaces ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query workspaces: %w", err)
	}
	defer rows.Close()

	workspaces := make([]core.Workspace, 0)
	for rows.Next() {
		var ws core.Workspace
		if err := rows.Scan(&ws.ID, &ws.Name); err != nil {
			return nil, fmt.Errorf("failed to scan workspace: %w", err)
		}
		workspaces = append(workspaces, ws)
	}
	return workspaces, rows.Err()
}

// ExecuteReadQuery runs an already-validated SELECT and returns rows as
// column-name maps. The caller is responsible for query-safety checks;
// this method only executes.
func (r *ReportRepo) ExecuteReadQuery(ctx context.Context, query string) ([]map[string]any, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	results := make([]map[string]any, 0)
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(map[string]any, len(cols))
		for i, col := range cols {
			v := values[i]
			// Byte slices do not survive JSON encoding readably.
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			if t, ok := v.(time.Time); ok {
				v = t.Format(time.RFC3339)
			}
			row[col] = v
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
