package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQLitePendingStore implements PendingStore backed by SQLite.
type SQLitePendingStore struct {
	db *sql.DB
}

// NewSQLitePendingStore returns a new SQLitePendingStore.
func NewSQLitePendingStore(db *sql.DB) *SQLitePendingStore {
	return &SQLitePendingStore{db: db}
}

// Enqueue inserts p and assigns the generated ID. CreatedAt defaults to now.
func (s *SQLitePendingStore) Enqueue(ctx context.Context, p *PendingNotification) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO pending_notifications
			(customer_first_name, customer_last_name, customer_email, project_code,
			 project_title, project_status, updated_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.CustomerFirstName, p.CustomerLastName, p.CustomerEmail, p.ProjectCode,
		p.ProjectTitle, p.ProjectStatus, nullTime(p.UpdatedAt), p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting pending notification: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading pending notification id: %w", err)
	}
	p.ID = id
	return nil
}

// ListPending returns undispatched entries ordered by ID.
func (s *SQLitePendingStore) ListPending(ctx context.Context, limit int) (list []PendingNotification, err error) {
	query := `
		SELECT id, customer_first_name, customer_last_name, customer_email, project_code,
		       project_title, project_status, updated_at, created_at
		FROM pending_notifications
		WHERE dispatched_at IS NULL
		ORDER BY id ASC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying pending notifications: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing rows: %w", cerr)
		}
	}()

	for rows.Next() {
		var (
			p         PendingNotification
			updatedAt sql.NullTime
		)
		if err := rows.Scan(&p.ID, &p.CustomerFirstName, &p.CustomerLastName, &p.CustomerEmail,
			&p.ProjectCode, &p.ProjectTitle, &p.ProjectStatus, &updatedAt, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning pending notification row: %w", err)
		}
		if updatedAt.Valid {
			p.UpdatedAt = updatedAt.Time
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating pending notification rows: %w", err)
	}
	return list, nil
}

// MarkDispatched sets dispatched_at for all ids in a single transaction.
func (s *SQLitePendingStore) MarkDispatched(ctx context.Context, ids []int64, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin mark dispatched: %w", err)
	}
	for _, id := range ids {
		if _, err := tx.ExecContext(ctx,
			"UPDATE pending_notifications SET dispatched_at = ? WHERE id = ?", at, id); err != nil {
			return errors.Join(fmt.Errorf("marking pending notification %d: %w", id, err), tx.Rollback())
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit mark dispatched: %w", err)
	}
	return nil
}

// CountPending returns the number of undispatched entries.
func (s *SQLitePendingStore) CountPending(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM pending_notifications WHERE dispatched_at IS NULL").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting pending notifications: %w", err)
	}
	return n, nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
