package storage

import (
	"context"
	"time"
)

// DispatchRun records the outcome of one dispatch run.
type DispatchRun struct {
	ID                string     `json:"id"`
	Trigger           string     `json:"trigger"`
	Items             int        `json:"items"`
	Submitted         int        `json:"submitted"`
	Unsent            int        `json:"unsent"`
	FailureNoticeSent bool       `json:"failure_notice_sent"`
	ErrorMsg          string     `json:"error_msg,omitempty"`
	StartedAt         time.Time  `json:"started_at"`
	FinishedAt        *time.Time `json:"finished_at,omitempty"`
}

// RunStore persists dispatch run history.
type RunStore interface {
	CreateRun(ctx context.Context, run *DispatchRun) error
	FinishRun(ctx context.Context, run *DispatchRun) error
	// GetRun returns the run with the given id, or nil if it does not exist.
	GetRun(ctx context.Context, id string) (*DispatchRun, error)
	// ListRuns returns the most recent runs, newest first, up to limit.
	ListRuns(ctx context.Context, limit int) ([]DispatchRun, error)
}
