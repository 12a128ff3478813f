package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQLiteRunStore implements RunStore backed by SQLite.
type SQLiteRunStore struct {
	db *sql.DB
}

// NewSQLiteRunStore returns a new SQLiteRunStore.
func NewSQLiteRunStore(db *sql.DB) *SQLiteRunStore {
	return &SQLiteRunStore{db: db}
}

// CreateRun inserts a started run.
func (s *SQLiteRunStore) CreateRun(ctx context.Context, run *DispatchRun) error {
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO dispatch_runs (id, trigger_source, items, started_at)
		VALUES (?, ?, ?, ?)`,
		run.ID, run.Trigger, run.Items, run.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting dispatch run %q: %w", run.ID, err)
	}
	return nil
}

// FinishRun stores the final counters of run. FinishedAt defaults to now.
func (s *SQLiteRunStore) FinishRun(ctx context.Context, run *DispatchRun) error {
	if run.FinishedAt == nil {
		now := time.Now().UTC()
		run.FinishedAt = &now
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE dispatch_runs
		SET items = ?, submitted = ?, unsent = ?, failure_notice_sent = ?, error_msg = ?, finished_at = ?
		WHERE id = ?`,
		run.Items, run.Submitted, run.Unsent, run.FailureNoticeSent, run.ErrorMsg, *run.FinishedAt, run.ID,
	)
	if err != nil {
		return fmt.Errorf("updating dispatch run %q: %w", run.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating dispatch run %q: %w", run.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("dispatch run %q not found", run.ID)
	}
	return nil
}

// GetRun returns the run with the given id, or nil if it does not exist.
func (s *SQLiteRunStore) GetRun(ctx context.Context, id string) (*DispatchRun, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, trigger_source, items, submitted, unsent, failure_notice_sent, error_msg, started_at, finished_at
		FROM dispatch_runs
		WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying dispatch run %q: %w", id, err)
	}
	return r, nil
}

// ListRuns returns the most recent runs ordered by started_at descending.
func (s *SQLiteRunStore) ListRuns(ctx context.Context, limit int) (runs []DispatchRun, err error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, trigger_source, items, submitted, unsent, failure_notice_sent, error_msg, started_at, finished_at
		FROM dispatch_runs
		ORDER BY started_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying dispatch runs: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing rows: %w", cerr)
		}
	}()

	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning dispatch run row: %w", err)
		}
		runs = append(runs, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating dispatch run rows: %w", err)
	}
	return runs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(sc rowScanner) (*DispatchRun, error) {
	var (
		r          DispatchRun
		finishedAt sql.NullTime
	)
	if err := sc.Scan(&r.ID, &r.Trigger, &r.Items, &r.Submitted, &r.Unsent,
		&r.FailureNoticeSent, &r.ErrorMsg, &r.StartedAt, &finishedAt); err != nil {
		return nil, err
	}
	if finishedAt.Valid {
		t := finishedAt.Time
		r.FinishedAt = &t
	}
	return &r, nil
}
