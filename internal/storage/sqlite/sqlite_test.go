package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := NewDB(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func insertUser(t *testing.T, db *sql.DB, name string) int64 {
	t.Helper()

	res, err := db.Exec(`INSERT INTO users (name) VALUES (?)`, name)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func insertTask(t *testing.T, db *sql.DB, name, start, end string) int64 {
	t.Helper()

	res, err := db.Exec(`INSERT INTO tasks (name, start_date, end_date) VALUES (?, ?, ?)`,
		name, start, end)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func insertActivity(t *testing.T, db *sql.DB, name string, taskID, userID int64, start, end, status string) {
	t.Helper()

	_, err := db.Exec(
		`INSERT INTO activities (name, task_id, user_id, start_date, end_date, status) VALUES (?, ?, ?, ?, ?, ?)`,
		name, taskID, userID, start, end, status)
	require.NoError(t, err)
}
