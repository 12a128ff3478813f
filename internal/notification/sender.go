package notification

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shaharia-lab/notificator/internal/metrics"
	"github.com/shaharia-lab/notificator/internal/storage"
)

// EmailSender delivers emails or remembers the ones it could not deliver.
type EmailSender interface {
	// Send delivers email or records it as not sent. A non-nil error means
	// the email was not submitted at all.
	Send(ctx context.Context, email Email) error
	// NotSent returns the emails that could not be delivered. The result is
	// nil or empty when every delivery succeeded.
	NotSent() []Email
}

// Resetter is implemented by senders whose unsent collection can be cleared.
type Resetter interface {
	Reset()
}

// RememberingSender delivers emails through a Provider and keeps the ones
// the provider rejected. It is safe for concurrent use.
type RememberingSender struct {
	provider Provider
	store    storage.NotificationStore
	logger   *slog.Logger

	mu      sync.Mutex
	notSent []Email
}

// NewRememberingSender creates a RememberingSender. store and logger may be nil.
func NewRememberingSender(provider Provider, store storage.NotificationStore, logger *slog.Logger) *RememberingSender {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &RememberingSender{provider: provider, store: store, logger: logger}
}

// Send hands email to the provider. A delivery failure is recorded in the
// unsent collection and is not returned; only a context that is already
// done produces an error.
func (s *RememberingSender) Send(ctx context.Context, email Email) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("sending to %s: %w", email.To, err)
	}

	sendErr := s.provider.Send(ctx, email.Message())

	entry := storage.NotificationLogEntry{
		EventType: EventProjectUpdate,
		Provider:  s.provider.Name(),
		Recipient: email.To,
		Subject:   email.Subject,
		Status:    StatusSent,
		CreatedAt: time.Now().UTC(),
	}
	if sendErr != nil {
		s.remember(email)
		entry.Status = StatusFailed
		entry.ErrorMsg = sendErr.Error()
		metrics.EmailsUnsent.WithLabelValues(s.provider.Name()).Inc()
		s.logger.Warn("email not sent, remembering it",
			"recipient", email.To, "subject", email.Subject, "error", sendErr)
	} else {
		metrics.EmailsDelivered.WithLabelValues(s.provider.Name()).Inc()
		s.logger.Debug("email sent", "recipient", email.To, "subject", email.Subject)
	}

	s.record(ctx, entry)
	return nil
}

// NotSent returns a copy of the emails that could not be delivered, in the
// order they were submitted. It returns nil when there are none.
func (s *RememberingSender) NotSent() []Email {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.notSent) == 0 {
		return nil
	}
	out := make([]Email, len(s.notSent))
	copy(out, s.notSent)
	return out
}

// Reset forgets all unsent emails.
func (s *RememberingSender) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notSent = nil
}

func (s *RememberingSender) remember(email Email) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notSent = append(s.notSent, email)
}

func (s *RememberingSender) record(ctx context.Context, entry storage.NotificationLogEntry) {
	if s.store == nil {
		return
	}
	if err := s.store.LogNotification(context.WithoutCancel(ctx), entry); err != nil {
		s.logger.Error("failed to log notification delivery",
			"recipient", entry.Recipient, "status", entry.Status, "error", err)
	}
}
