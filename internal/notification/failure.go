package notification

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shaharia-lab/notificator/internal/metrics"
	"github.com/shaharia-lab/notificator/internal/storage"
)

// FailureNotifier tells an administrator that some notifications were not sent.
type FailureNotifier interface {
	SendFailure(ctx context.Context) error
}

const failureNoticeBody = `Some project update notifications could not be delivered.

The affected recipients are listed with status "failed" in the notification
log (GET /api/notifications/log). Please check the mail provider settings
and re-queue the affected notifications once the problem is solved.`

// AdminFailureNotifier sends a fixed failure notice to the administrators.
type AdminFailureNotifier struct {
	provider      Provider
	admins        []string
	subjectPrefix string
	store         storage.NotificationStore
	logger        *slog.Logger
}

// NewAdminFailureNotifier creates an AdminFailureNotifier. An empty admins
// list lets the provider fall back to its default recipients. store and
// logger may be nil.
func NewAdminFailureNotifier(
	provider Provider,
	admins []string,
	subjectPrefix string,
	store storage.NotificationStore,
	logger *slog.Logger,
) *AdminFailureNotifier {
	if subjectPrefix == "" {
		subjectPrefix = DefaultSubjectPrefix
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &AdminFailureNotifier{
		provider:      provider,
		admins:        admins,
		subjectPrefix: subjectPrefix,
		store:         store,
		logger:        logger,
	}
}

// Subject returns the subject line of the failure notice.
func (n *AdminFailureNotifier) Subject() string {
	return buildSubject(n.subjectPrefix, "Notification delivery failed")
}

// SendFailure delivers the failure notice. The provider error is returned
// unchanged apart from wrapping.
func (n *AdminFailureNotifier) SendFailure(ctx context.Context) error {
	subject := n.Subject()
	sendErr := n.provider.Send(ctx, Message{
		Subject: subject,
		Body:    failureNoticeBody,
		To:      n.admins,
	})

	entry := storage.NotificationLogEntry{
		EventType: EventFailureNotice,
		Provider:  n.provider.Name(),
		Recipient: strings.Join(n.admins, ","),
		Subject:   subject,
		Status:    StatusSent,
		CreatedAt: time.Now().UTC(),
	}
	if sendErr != nil {
		entry.Status = StatusFailed
		entry.ErrorMsg = sendErr.Error()
	}
	metrics.FailureNotices.WithLabelValues(entry.Status).Inc()

	if n.store != nil {
		if err := n.store.LogNotification(context.WithoutCancel(ctx), entry); err != nil {
			n.logger.Error("failed to log failure notice", "error", err)
		}
	}

	if sendErr != nil {
		n.logger.Error("failed to send failure notice", "admins", n.admins, "error", sendErr)
		return fmt.Errorf("sending failure notice: %w", sendErr)
	}
	n.logger.Info("failure notice sent", "admins", n.admins)
	return nil
}
