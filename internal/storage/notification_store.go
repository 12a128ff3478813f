package storage

import (
	"context"
	"time"
)

// NotificationLogEntry records a single notification delivery attempt.
type NotificationLogEntry struct {
	ID        int64     `json:"id"`
	RunID     string    `json:"run_id,omitempty"`
	EventType string    `json:"event_type"`
	Provider  string    `json:"provider"`
	Recipient string    `json:"recipient"`
	Subject   string    `json:"subject"`
	Status    string    `json:"status"`
	ErrorMsg  string    `json:"error_msg"`
	CreatedAt time.Time `json:"created_at"`
}

// LogFilter narrows a notification log listing. Zero fields match everything.
type LogFilter struct {
	RunID  string
	Status string
	Limit  int
}

// NotificationStore persists the delivery log of customer emails and
// failure notices.
type NotificationStore interface {
	LogNotification(ctx context.Context, entry NotificationLogEntry) error
	// ListNotifications returns matching entries, newest first. A zero
	// Limit selects 50.
	ListNotifications(ctx context.Context, filter LogFilter) ([]NotificationLogEntry, error)
}

type runIDKey struct{}

// WithRunID returns a context carrying the dispatch run identifier. Stores
// attach it to the log entries they write.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}

// RunIDFromContext returns the dispatch run identifier stored in ctx, if any.
func RunIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}
