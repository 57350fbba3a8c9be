package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sandevgo/taskchat/internal/core"
	"github.com/sandevgo/taskchat/pkg/log"
)

type HistoryRepo struct {
	db *sql.DB
}

func NewHistoryRepo(db *sql.DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

func (h *HistoryRepo) Append(ctx context.Context, sessionID, userMessage, aiResponse string) error {
	query := `INSERT INTO chat_history (session_id, user_message, ai_response) VALUES (?, ?, ?)`
	_, err := h.db.ExecContext(ctx, query, sessionID, userMessage, aiResponse)
	if err != nil {
		return fmt.Errorf("failed to insert turn: %w", err)
	}
	return nil
}

func (h *HistoryRepo) Read(ctx context.Context, sessionID string) ([]core.ConversationTurn, error) {
	query := `SELECT session_id, user_message, ai_response, created_at
		FROM chat_history WHERE session_id = ? ORDER BY id`

	rows, err := h.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	turns, err := scanTurns(rows)
	if err != nil {
		return nil, err
	}

	log.FromCtx(ctx).Debug().Int("count", len(turns)).Msg("loaded history")
	return turns, nil
}

func (h *HistoryRepo) Recent(ctx context.Context, sessionID string, n int) ([]core.ConversationTurn, error) {
	// Fetch the LAST n turns by ordering DESC
	query := `SELECT session_id, user_message, ai_response, created_at
		FROM chat_history WHERE session_id = ? ORDER BY id DESC LIMIT ?`

	rows, err := h.db.QueryContext(ctx, query, sessionID, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent history: %w", err)
	}
	defer rows.Close()

	turns, err := scanTurns(rows)
	if err != nil {
		return nil, err
	}

	// The query returned turns newest-first; reverse back to
	// chronological order for prompt assembly.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

func scanTurns(rows *sql.Rows) ([]core.ConversationTurn, error) {
	turns := make([]core.ConversationTurn, 0)
	for rows.Next() {
		var t core.ConversationTurn
		if err := rows.Scan(&t.SessionID, &t.UserMessage, &t.AIResponse, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return turns, nil
}
