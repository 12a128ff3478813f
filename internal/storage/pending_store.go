package storage

import (
	"context"
	"time"
)

// PendingNotification is a notification content queued for the next dispatch run.
type PendingNotification struct {
	ID                int64      `json:"id"`
	CustomerFirstName string     `json:"customer_first_name"`
	CustomerLastName  string     `json:"customer_last_name"`
	CustomerEmail     string     `json:"customer_email"`
	ProjectCode       string     `json:"project_code"`
	ProjectTitle      string     `json:"project_title"`
	ProjectStatus     string     `json:"project_status"`
	UpdatedAt         time.Time  `json:"updated_at"`
	CreatedAt         time.Time  `json:"created_at"`
	DispatchedAt      *time.Time `json:"dispatched_at,omitempty"`
}

// PendingStore persists notification contents between dispatch runs.
type PendingStore interface {
	// Enqueue stores p and sets its ID.
	Enqueue(ctx context.Context, p *PendingNotification) error
	// ListPending returns undispatched entries in insertion order. A limit <= 0 means no limit.
	ListPending(ctx context.Context, limit int) ([]PendingNotification, error)
	// MarkDispatched stamps the given entries with the dispatch time.
	MarkDispatched(ctx context.Context, ids []int64, at time.Time) error
	// CountPending returns the number of undispatched entries.
	CountPending(ctx context.Context) (int, error)
}
