package sqlite

import (
	"context"
	"database/sql"
	"testing"

	"github.com/sandevgo/taskchat/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedReportingData(t *testing.T, db *sql.DB) {
	t.Helper()

	res, err := db.Exec(`INSERT INTO workspaces (name, slug) VALUES ('support', 'support')`)
	require.NoError(t, err)
	wsID, _ := res.LastInsertId()

	res, err = db.Exec(`INSERT INTO embed_configs (workspace_id) VALUES (?)`, wsID)
	require.NoError(t, err)
	confID, _ := res.LastInsertId()

	_, err = db.Exec(`INSERT INTO embed_users (session_id, name, email) VALUES ('lead-1', 'Ann', 'ann@example.com')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO embed_chats (prompt, response, session_id, embed_id) VALUES
		('pricing?', 'see plans', 'lead-1', ?),
		('hours?', '9 to 5', 'anon-1', ?)`, confID, confID)
	require.NoError(t, err)
}

func TestReportRepo_WorkspaceChats(t *testing.T) {
	db := newTestDB(t)
	seedReportingData(t, db)
	repo := NewReportRepo(db)

	chats, err := repo.WorkspaceChats(context.Background(), core.ChatFilter{Workspace: "support"})
	require.NoError(t, err)
	require.Len(t, chats, 2)
	assert.Equal(t, "support", chats[0].WorkspaceName)
	assert.Equal(t, "Ann", chats[0].Name)
}

func TestReportRepo_WorkspaceChatsOnlyLeads(t *testing.T) {
	db := newTestDB(t)
	seedReportingData(t, db)
	repo := NewReportRepo(db)

	chats, err := repo.WorkspaceChats(context.Background(), core.ChatFilter{
		Workspace: "support",
		OnlyLeads: true,
	})
	require.NoError(t, err)
	require.Len(t, chats, 1)
	assert.Equal(t, "ann@example.com", chats[0].Email)
}

func TestReportRepo_Workspaces(t *testing.T) {
	db := newTestDB(t)
	seedReportingData(t, db)
	repo := NewReportRepo(db)

	workspaces, err := repo.Workspaces(context.Background())
	require.NoError(t, err)
	require.Len(t, workspaces, 1)
	assert.Equal(t, "support", workspaces[0].Name)
}

func TestReportRepo_ExecuteReadQuery(t *testing.T) {
	db := newTestDB(t)
	seedReportingData(t, db)
	repo := NewReportRepo(db)

	rows, err := repo.ExecuteReadQuery(context.Background(),
		`SELECT prompt, response FROM embed_chats ORDER BY id`)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "pricing?", rows[0]["prompt"])
	assert.Equal(t, "see plans", rows[0]["response"])
}

func TestReportRepo_ExecuteReadQueryBadSQL(t *testing.T) {
	repo := NewReportRepo(newTestDB(t))

	_, err := repo.ExecuteReadQuery(context.Background(), `SELECT nope FROM missing`)
	assert.Error(t, err)
}
