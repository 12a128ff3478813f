package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/shaharia-lab/notificator/internal/eventbus"
	"github.com/shaharia-lab/notificator/internal/metrics"
	"github.com/shaharia-lab/notificator/internal/notification"
	"github.com/shaharia-lab/notificator/internal/storage"
)

// Triggers recorded with each dispatch run.
const (
	TriggerScheduler = "scheduler"
	TriggerAPI       = "api"
	TriggerCLI       = "cli"
)

const tracerName = "github.com/shaharia-lab/notificator/internal/service"

// RunSummary describes the outcome of one dispatch run.
type RunSummary struct {
	RunID             string `json:"run_id"`
	Trigger           string `json:"trigger"`
	Items             int    `json:"items"`
	Submitted         int    `json:"submitted"`
	Unsent            int    `json:"unsent"`
	FailureNoticeSent bool   `json:"failure_notice_sent"`
	Error             string `json:"error,omitempty"`
}

// DispatchService queues notification contents and dispatches them.
type DispatchService interface {
	// Enqueue validates content and queues it for the next dispatch run.
	Enqueue(ctx context.Context, content notification.Content) (*storage.PendingNotification, error)
	// DispatchPending dispatches every queued content. Submitted contents are
	// marked dispatched even when the run aborts part way.
	DispatchPending(ctx context.Context, trigger string) (*RunSummary, error)
	// DispatchContents dispatches the given contents without queueing them.
	DispatchContents(ctx context.Context, trigger string, contents []notification.Content) (*RunSummary, error)
	// ListLog returns the notification log entries matching filter, newest first.
	ListLog(ctx context.Context, filter storage.LogFilter) ([]storage.NotificationLogEntry, error)
	// ListRuns returns the most recent dispatch runs.
	ListRuns(ctx context.Context, limit int) ([]storage.DispatchRun, error)
	// GetRun returns one dispatch run or a *NotFoundError.
	GetRun(ctx context.Context, id string) (*storage.DispatchRun, error)
}

// DispatchDeps holds the collaborators of the dispatch service.
type DispatchDeps struct {
	Generator notification.EmailGenerator
	Sender    notification.EmailSender
	Notifier  notification.FailureNotifier
	Pending   storage.PendingStore
	Runs      storage.RunStore
	Log       storage.NotificationStore
	Events    EventPublisher
	Logger    *slog.Logger
}

// dispatchServiceImpl implements DispatchService. Runs are serialized
// because the sender's unsent collection is shared between them.
type dispatchServiceImpl struct {
	deps     DispatchDeps
	tracer   trace.Tracer
	duration metric.Float64Histogram
	mu       sync.Mutex
}

// NewDispatchService creates a new DispatchService.
func NewDispatchService(deps DispatchDeps) DispatchService {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	if deps.Events == nil {
		deps.Events = noopPublisher{}
	}
	duration, err := otel.Meter(tracerName).Float64Histogram("notificator.dispatch.duration",
		metric.WithUnit("s"),
		metric.WithDescription("Duration of dispatch runs"),
	)
	if err != nil {
		deps.Logger.Warn("failed to create dispatch duration histogram", "error", err)
	}
	return &dispatchServiceImpl{
		deps:     deps,
		tracer:   otel.Tracer(tracerName),
		duration: duration,
	}
}

func (s *dispatchServiceImpl) Enqueue(ctx context.Context, content notification.Content) (*storage.PendingNotification, error) {
	if err := content.Validate(); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	p := pendingFromContent(content)
	if err := s.deps.Pending.Enqueue(ctx, p); err != nil {
		return nil, fmt.Errorf("queueing notification for %s: %w", content.ProjectCode, err)
	}
	s.refreshPendingGauge(ctx)

	s.deps.Events.Publish(eventbus.TypeNotificationQueued, map[string]string{
		"id":           strconv.FormatInt(p.ID, 10),
		"project_code": p.ProjectCode,
	})
	return p, nil
}

func (s *dispatchServiceImpl) DispatchPending(ctx context.Context, trigger string) (*RunSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending, err := s.deps.Pending.ListPending(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("loading pending notifications: %w", err)
	}

	contents := make([]notification.Content, len(pending))
	ids := make([]int64, len(pending))
	for i, p := range pending {
		contents[i] = contentFromPending(p)
		ids[i] = p.ID
	}

	summary, err := s.run(ctx, trigger, contents, func(ctx context.Context, submitted int) error {
		if submitted == 0 {
			return nil
		}
		return s.deps.Pending.MarkDispatched(ctx, ids[:submitted], time.Now().UTC())
	})
	s.refreshPendingGauge(ctx)
	return summary, err
}

func (s *dispatchServiceImpl) DispatchContents(ctx context.Context, trigger string, contents []notification.Content) (*RunSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.run(ctx, trigger, contents, nil)
}

func (s *dispatchServiceImpl) ListLog(ctx context.Context, filter storage.LogFilter) ([]storage.NotificationLogEntry, error) {
	return s.deps.Log.ListNotifications(ctx, filter)
}

func (s *dispatchServiceImpl) ListRuns(ctx context.Context, limit int) ([]storage.DispatchRun, error) {
	return s.deps.Runs.ListRuns(ctx, limit)
}

func (s *dispatchServiceImpl) GetRun(ctx context.Context, id string) (*storage.DispatchRun, error) {
	run, err := s.deps.Runs.GetRun(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("looking up dispatch run: %w", err)
	}
	if run == nil {
		return nil, &NotFoundError{Resource: "dispatch run", ID: id}
	}
	return run, nil
}

// run dispatches contents as one recorded run. afterSubmit receives the number
// of contents the sender accepted, in order. The caller holds s.mu.
func (s *dispatchServiceImpl) run(
	ctx context.Context,
	trigger string,
	contents []notification.Content,
	afterSubmit func(ctx context.Context, submitted int) error,
) (*RunSummary, error) {
	runID := uuid.NewString()
	ctx, span := s.tracer.Start(ctx, "notificator.dispatch", trace.WithAttributes(
		attribute.String("notificator.run_id", runID),
		attribute.String("notificator.trigger", trigger),
		attribute.Int("notificator.items", len(contents)),
	))
	defer span.End()

	ctx = storage.WithRunID(ctx, runID)
	logger := s.deps.Logger.With("run_id", runID, "trigger", trigger)

	if r, ok := s.deps.Sender.(notification.Resetter); ok {
		r.Reset()
	}

	run := &storage.DispatchRun{
		ID:        runID,
		Trigger:   trigger,
		Items:     len(contents),
		StartedAt: time.Now().UTC(),
	}
	if err := s.deps.Runs.CreateRun(ctx, run); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "recording run")
		return nil, fmt.Errorf("recording dispatch run: %w", err)
	}
	logger.Info("dispatch run started", "items", len(contents))
	s.deps.Events.Publish(eventbus.TypeDispatchStarted, map[string]string{
		"run_id":  runID,
		"trigger": trigger,
		"items":   strconv.Itoa(len(contents)),
	})

	sender := &countingSender{EmailSender: s.deps.Sender}
	notifier := &observedNotifier{FailureNotifier: s.deps.Notifier}
	dispatchErr := notification.NewDispatcher(s.deps.Generator, sender, notifier).Dispatch(ctx, contents)

	run.Submitted = sender.submitted
	run.Unsent = len(s.deps.Sender.NotSent())
	run.FailureNoticeSent = notifier.called && notifier.err == nil

	var markErr error
	if afterSubmit != nil {
		if err := afterSubmit(context.WithoutCancel(ctx), sender.submitted); err != nil {
			markErr = fmt.Errorf("marking notifications dispatched: %w", err)
		}
	}

	runErr := errors.Join(dispatchErr, markErr)
	if runErr != nil {
		run.ErrorMsg = runErr.Error()
	}
	if err := s.deps.Runs.FinishRun(context.WithoutCancel(ctx), run); err != nil {
		logger.Error("failed to record dispatch run result", "error", err)
	}

	outcome := metrics.OutcomeDelivered
	switch {
	case runErr != nil:
		outcome = metrics.OutcomeError
	case run.Unsent > 0:
		outcome = metrics.OutcomeUnsent
	}
	metrics.DispatchRuns.WithLabelValues(trigger, outcome).Inc()
	if s.duration != nil {
		s.duration.Record(ctx, time.Since(run.StartedAt).Seconds(), metric.WithAttributes(
			attribute.String("trigger", trigger),
			attribute.String("outcome", outcome),
		))
	}

	span.SetAttributes(
		attribute.Int("notificator.submitted", run.Submitted),
		attribute.Int("notificator.unsent", run.Unsent),
		attribute.Bool("notificator.failure_notice_sent", run.FailureNoticeSent),
	)
	s.deps.Events.Publish(eventbus.TypeDispatchFinished, map[string]string{
		"run_id":    runID,
		"trigger":   trigger,
		"outcome":   outcome,
		"submitted": strconv.Itoa(run.Submitted),
		"unsent":    strconv.Itoa(run.Unsent),
	})

	summary := &RunSummary{
		RunID:             runID,
		Trigger:           trigger,
		Items:             run.Items,
		Submitted:         run.Submitted,
		Unsent:            run.Unsent,
		FailureNoticeSent: run.FailureNoticeSent,
		Error:             run.ErrorMsg,
	}

	if runErr != nil {
		span.RecordError(runErr)
		span.SetStatus(codes.Error, "dispatch failed")
		logger.Error("dispatch run failed",
			"submitted", run.Submitted, "unsent", run.Unsent, "error", runErr)
		return summary, fmt.Errorf("dispatch run %s: %w", runID, runErr)
	}

	logger.Info("dispatch run finished",
		"submitted", run.Submitted, "unsent", run.Unsent, "failure_notice_sent", run.FailureNoticeSent)
	return summary, nil
}

func (s *dispatchServiceImpl) refreshPendingGauge(ctx context.Context) {
	n, err := s.deps.Pending.CountPending(context.WithoutCancel(ctx))
	if err != nil {
		s.deps.Logger.Warn("failed to count pending notifications", "error", err)
		return
	}
	metrics.PendingNotifications.Set(float64(n))
}

// countingSender counts the emails the wrapped sender accepted.
type countingSender struct {
	notification.EmailSender
	submitted int
}

func (c *countingSender) Send(ctx context.Context, email notification.Email) error {
	if err := c.EmailSender.Send(ctx, email); err != nil {
		return err
	}
	c.submitted++
	return nil
}

// observedNotifier records whether the failure notice was attempted.
type observedNotifier struct {
	notification.FailureNotifier
	called bool
	err    error
}

func (o *observedNotifier) SendFailure(ctx context.Context) error {
	o.called = true
	o.err = o.FailureNotifier.SendFailure(ctx)
	return o.err
}

func pendingFromContent(c notification.Content) *storage.PendingNotification {
	return &storage.PendingNotification{
		CustomerFirstName: c.CustomerFirstName,
		CustomerLastName:  c.CustomerLastName,
		CustomerEmail:     c.CustomerEmail,
		ProjectCode:       c.ProjectCode,
		ProjectTitle:      c.ProjectTitle,
		ProjectStatus:     c.ProjectStatus,
		UpdatedAt:         c.UpdatedAt,
	}
}

func contentFromPending(p storage.PendingNotification) notification.Content {
	return notification.Content{
		CustomerFirstName: p.CustomerFirstName,
		CustomerLastName:  p.CustomerLastName,
		CustomerEmail:     p.CustomerEmail,
		ProjectCode:       p.ProjectCode,
		ProjectTitle:      p.ProjectTitle,
		ProjectStatus:     p.ProjectStatus,
		UpdatedAt:         p.UpdatedAt,
	}
}
