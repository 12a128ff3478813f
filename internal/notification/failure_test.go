package notification_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shaharia-lab/notificator/internal/metrics"
	"github.com/shaharia-lab/notificator/internal/notification"
	"github.com/shaharia-lab/notificator/internal/storage"
	storagemocks "github.com/shaharia-lab/notificator/internal/storage/mocks"
)

func TestAdminFailureNotifier_SendFailure(t *testing.T) {
	provider := newProvider("notifier-ok")
	admins := []string{"ops@example.com", "lead@example.com"}
	provider.On("Send", mock.Anything, mock.MatchedBy(func(m notification.Message) bool {
		return m.Subject == "[ops] Notification delivery failed" &&
			assert.ObjectsAreEqual(admins, m.To) &&
			m.Body != "" && m.HTML == ""
	})).Return(nil).Once()

	store := &storagemocks.MockNotificationStore{}
	store.On("LogNotification", mock.Anything, mock.MatchedBy(func(e storage.NotificationLogEntry) bool {
		return e.EventType == notification.EventFailureNotice &&
			e.Status == notification.StatusSent &&
			e.Recipient == "ops@example.com,lead@example.com"
	})).Return(nil).Once()

	before := testutil.ToFloat64(metrics.FailureNotices.WithLabelValues(notification.StatusSent))

	n := notification.NewAdminFailureNotifier(provider, admins, "[ops] ", store, nil)
	require.NoError(t, n.SendFailure(context.Background()))

	assert.Equal(t, before+1, testutil.ToFloat64(metrics.FailureNotices.WithLabelValues(notification.StatusSent)))
	provider.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestAdminFailureNotifier_ProviderError(t *testing.T) {
	provider := newProvider("notifier-down")
	sendErr := errors.New("connection refused")
	provider.On("Send", mock.Anything, mock.Anything).Return(sendErr).Once()

	store := &storagemocks.MockNotificationStore{}
	store.On("LogNotification", mock.Anything, mock.MatchedBy(func(e storage.NotificationLogEntry) bool {
		return e.Status == notification.StatusFailed && e.ErrorMsg == "connection refused"
	})).Return(nil).Once()

	n := notification.NewAdminFailureNotifier(provider, []string{"ops@example.com"}, "", store, nil)
	err := n.SendFailure(context.Background())

	require.ErrorIs(t, err, sendErr)
	store.AssertExpectations(t)
}

func TestAdminFailureNotifier_DefaultSubject(t *testing.T) {
	n := notification.NewAdminFailureNotifier(newProvider("x"), nil, "", nil, nil)
	assert.Equal(t, notification.DefaultSubjectPrefix+"Notification delivery failed", n.Subject())
}
