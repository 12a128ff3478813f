package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/shaharia-lab/notificator/internal/service"
)

const (
	jobName        = "dispatch-pending"
	defaultTimeout = 30 * time.Minute
)

// PendingDispatcher runs a dispatch of every queued notification.
type PendingDispatcher interface {
	DispatchPending(ctx context.Context, trigger string) (*service.RunSummary, error)
}

// Config holds the scheduler configuration.
type Config struct {
	Dispatcher PendingDispatcher
	// Cron is a five-field crontab expression or a descriptor such as "@hourly".
	Cron string
	// Timeout bounds a single dispatch run. Defaults to 30 minutes.
	Timeout time.Duration
	Logger  *slog.Logger
}

// Scheduler triggers dispatch runs on a cron schedule using gocron.
// Runs never overlap; a tick that fires while a run is in progress is skipped.
type Scheduler struct {
	cron   gocron.Scheduler
	cfg    Config
	logger *slog.Logger

	mu  sync.Mutex
	job gocron.Job
	ctx context.Context
}

// New creates a new Scheduler.
func New(cfg Config) (*Scheduler, error) {
	if cfg.Dispatcher == nil {
		return nil, errors.New("scheduler: dispatcher is required")
	}
	if cfg.Cron == "" {
		return nil, errors.New("scheduler: cron expression is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}

	cron, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("creating gocron scheduler: %w", err)
	}

	return &Scheduler{
		cron:   cron,
		cfg:    cfg,
		logger: cfg.Logger,
		ctx:    context.Background(),
	}, nil
}

// Start registers the dispatch job and starts the gocron scheduler. Runs
// started by the scheduler use ctx, so canceling it aborts an in-flight run.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ctx = ctx
	job, err := s.cron.NewJob(
		gocron.CronJob(s.cfg.Cron, false),
		gocron.NewTask(s.executeDispatch),
		gocron.WithName(jobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("scheduling dispatch job %q: %w", s.cfg.Cron, err)
	}
	s.job = job

	s.cron.Start()
	s.logger.Info("dispatch scheduler started", "cron", s.cfg.Cron, "next_run", s.nextRunLocked())
	return nil
}

// Stop shuts down the gocron scheduler and waits for a running job.
func (s *Scheduler) Stop() error {
	return s.cron.Shutdown()
}

// NextRun returns the time of the next scheduled dispatch, or the zero time
// if the scheduler has not been started.
func (s *Scheduler) NextRun() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextRunLocked()
}

func (s *Scheduler) nextRunLocked() time.Time {
	if s.job == nil {
		return time.Time{}
	}
	next, err := s.job.NextRun()
	if err != nil {
		return time.Time{}
	}
	return next
}

// executeDispatch runs one scheduled dispatch.
func (s *Scheduler) executeDispatch() {
	s.mu.Lock()
	base := s.ctx
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(base, s.cfg.Timeout)
	defer cancel()

	start := time.Now()
	summary, err := s.cfg.Dispatcher.DispatchPending(ctx, service.TriggerScheduler)
	if err != nil {
		s.logger.Error("scheduled dispatch failed", "duration", time.Since(start), "error", err)
		return
	}
	s.logger.Info("scheduled dispatch finished",
		"run_id", summary.RunID,
		"items", summary.Items,
		"unsent", summary.Unsent,
		"failure_notice_sent", summary.FailureNoticeSent,
		"duration", time.Since(start))
}
