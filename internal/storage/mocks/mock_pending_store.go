package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/shaharia-lab/notificator/internal/storage"
)

// MockPendingStore is a mock implementation of storage.PendingStore.
type MockPendingStore struct {
	mock.Mock
}

//nolint:revive
func (m *MockPendingStore) Enqueue(ctx context.Context, p *storage.PendingNotification) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

//nolint:revive
func (m *MockPendingStore) ListPending(ctx context.Context, limit int) ([]storage.PendingNotification, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.PendingNotification), args.Error(1)
}

//nolint:revive
func (m *MockPendingStore) MarkDispatched(ctx context.Context, ids []int64, at time.Time) error {
	args := m.Called(ctx, ids, at)
	return args.Error(0)
}

//nolint:revive
func (m *MockPendingStore) CountPending(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
