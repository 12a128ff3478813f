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
	"github.com/shaharia-lab/notificator/internal/notification/mocks"
	"github.com/shaharia-lab/notificator/internal/storage"
	storagemocks "github.com/shaharia-lab/notificator/internal/storage/mocks"
)

func newProvider(name string) *mocks.MockProvider {
	p := &mocks.MockProvider{}
	p.On("Name").Return(name)
	return p
}

func TestRememberingSender_DeliveredEmailIsNotRemembered(t *testing.T) {
	provider := newProvider("sender-ok")
	email := notification.Email{To: "a@example.com", Subject: "hello", TextBody: "body"}
	provider.On("Send", mock.Anything, email.Message()).Return(nil).Once()

	store := &storagemocks.MockNotificationStore{}
	store.On("LogNotification", mock.Anything, mock.MatchedBy(func(e storage.NotificationLogEntry) bool {
		return e.Status == notification.StatusSent && e.Recipient == "a@example.com" &&
			e.EventType == notification.EventProjectUpdate && e.Provider == "sender-ok"
	})).Return(nil).Once()

	before := testutil.ToFloat64(metrics.EmailsDelivered.WithLabelValues("sender-ok"))

	s := notification.NewRememberingSender(provider, store, nil)
	require.NoError(t, s.Send(context.Background(), email))

	assert.Nil(t, s.NotSent())
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.EmailsDelivered.WithLabelValues("sender-ok")))
	provider.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestRememberingSender_RemembersRejectedEmailsInOrder(t *testing.T) {
	provider := newProvider("sender-flaky")
	a := notification.Email{To: "a@example.com", Subject: "A"}
	b := notification.Email{To: "b@example.com", Subject: "B"}
	c := notification.Email{To: "c@example.com", Subject: "C"}
	provider.On("Send", mock.Anything, a.Message()).Return(errors.New("mailbox unavailable"))
	provider.On("Send", mock.Anything, b.Message()).Return(nil)
	provider.On("Send", mock.Anything, c.Message()).Return(errors.New("relay denied"))

	store := &storagemocks.MockNotificationStore{}
	store.On("LogNotification", mock.Anything, mock.MatchedBy(func(e storage.NotificationLogEntry) bool {
		return e.Status == notification.StatusFailed && e.ErrorMsg != ""
	})).Return(nil).Twice()
	store.On("LogNotification", mock.Anything, mock.MatchedBy(func(e storage.NotificationLogEntry) bool {
		return e.Status == notification.StatusSent
	})).Return(nil).Once()

	before := testutil.ToFloat64(metrics.EmailsUnsent.WithLabelValues("sender-flaky"))

	s := notification.NewRememberingSender(provider, store, nil)
	for _, e := range []notification.Email{a, b, c} {
		require.NoError(t, s.Send(context.Background(), e), "a rejected email is not a submission error")
	}

	assert.Equal(t, []notification.Email{a, c}, s.NotSent())
	assert.Equal(t, before+2, testutil.ToFloat64(metrics.EmailsUnsent.WithLabelValues("sender-flaky")))
	store.AssertExpectations(t)
}

func TestRememberingSender_NotSentReturnsCopy(t *testing.T) {
	provider := newProvider("sender-copy")
	provider.On("Send", mock.Anything, mock.Anything).Return(errors.New("down"))

	s := notification.NewRememberingSender(provider, nil, nil)
	require.NoError(t, s.Send(context.Background(), notification.Email{To: "a@example.com"}))

	got := s.NotSent()
	require.Len(t, got, 1)
	got[0].To = "changed@example.com"

	assert.Equal(t, "a@example.com", s.NotSent()[0].To)
}

func TestRememberingSender_Reset(t *testing.T) {
	provider := newProvider("sender-reset")
	provider.On("Send", mock.Anything, mock.Anything).Return(errors.New("down"))

	s := notification.NewRememberingSender(provider, nil, nil)
	require.NoError(t, s.Send(context.Background(), notification.Email{To: "a@example.com"}))
	require.Len(t, s.NotSent(), 1)

	s.Reset()
	assert.Nil(t, s.NotSent())
}

func TestRememberingSender_CanceledContext(t *testing.T) {
	provider := newProvider("sender-canceled")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := notification.NewRememberingSender(provider, nil, nil)
	err := s.Send(ctx, notification.Email{To: "a@example.com"})

	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, s.NotSent())
	provider.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestRememberingSender_StoreErrorDoesNotFailSend(t *testing.T) {
	provider := newProvider("sender-store")
	provider.On("Send", mock.Anything, mock.Anything).Return(nil)
	store := &storagemocks.MockNotificationStore{}
	store.On("LogNotification", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	s := notification.NewRememberingSender(provider, store, nil)
	assert.NoError(t, s.Send(context.Background(), notification.Email{To: "a@example.com"}))
	assert.Nil(t, s.NotSent())
}
