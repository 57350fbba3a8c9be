package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sandevgo/taskchat/internal/core"
)

const activitySelect = `SELECT a.name, t.name, u.name, a.start_date, a.end_date, a.status
	FROM activities a
	JOIN tasks t ON t.id = a.task_id
	JOIN users u ON u.id = a.user_id`

type ActivityRepo struct {
	db *sql.DB
}

func NewActivityRepo(db *sql.DB) *ActivityRepo {
	return &ActivityRepo{db: db}
}

// Search applies every set filter conjunctively. Name filters match by
// case-sensitive substring (instr, not LIKE — sqlite LIKE folds case).
// Month matches when the start OR end date falls in it: an activity that
// touched the month counts.
func (r *ActivityRepo) Search(ctx context.Context, f core.ActivityFilter) ([]core.ActivityRecord, error) {
	query := activitySelect
	var (
		where []string
		args  []any
	)

	if f.Assignee != "" {
		where = append(where, `instr(u.name, ?) > 0`)
		args = append(args, f.Assignee)
	}
	if f.Status != "" {
		where = append(where, `a.status = ?`)
		args = append(args, string(f.Status))
	}
	if f.TaskName != "" {
		where = append(where, `instr(t.name, ?) > 0`)
		args = append(args, f.TaskName)
	}
	if f.Month != "" {
		where = append(where, `(strftime('%m', a.start_date) = ? OR strftime('%m', a.end_date) = ?)`)
		args = append(args, f.Month, f.Month)
	}

	for i, cond := range where {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY a.id"

	return r.queryRecords(ctx, query, args...)
}

func (r *ActivityRepo) ListAssignees(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *ActivityRepo) DumpAll(ctx context.Context) ([]core.ActivityRecord, error) {
	return r.queryRecords(ctx, activitySelect+" ORDER BY a.id")
}

func (r *ActivityRepo) queryRecords(ctx context.Context, query string, args ...any) ([]core.ActivityRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}
	defer rows.Close()

	records := make([]core.ActivityRecord, 0)
	for rows.Next() {
		var (
			rec        core.ActivityRecord
			start, end string
			status     string
		)
		if err := rows.Scan(&rec.Activity, &rec.Task, &rec.Assignee, &start, &end, &status); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		if rec.StartDate, err = time.Parse(time.DateOnly, start); err != nil {
			return nil, fmt.Errorf("bad start_date %q: %w", start, err)
		}
		if rec.EndDate, err = time.Parse(time.DateOnly, end); err != nil {
			return nil, fmt.Errorf("bad end_date %q: %w", end, err)
		}
		rec.Status = core.ActivityStatus(status)
		records = append(records, rec)
	}
	return records, rows.Err()
}
