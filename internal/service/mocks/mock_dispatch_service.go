package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/shaharia-lab/notificator/internal/notification"
	"github.com/shaharia-lab/notificator/internal/service"
	"github.com/shaharia-lab/notificator/internal/storage"
)

// MockDispatchService is a mock implementation of service.DispatchService.
type MockDispatchService struct {
	mock.Mock
}

//nolint:revive
func (m *MockDispatchService) Enqueue(ctx context.Context, content notification.Content) (*storage.PendingNotification, error) {
	args := m.Called(ctx, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.PendingNotification), args.Error(1)
}

//nolint:revive
func (m *MockDispatchService) DispatchPending(ctx context.Context, trigger string) (*service.RunSummary, error) {
	args := m.Called(ctx, trigger)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RunSummary), args.Error(1)
}

//nolint:revive
func (m *MockDispatchService) DispatchContents(ctx context.Context, trigger string, contents []notification.Content) (*service.RunSummary, error) {
	args := m.Called(ctx, trigger, contents)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RunSummary), args.Error(1)
}

//nolint:revive
func (m *MockDispatchService) ListLog(ctx context.Context, filter storage.LogFilter) ([]storage.NotificationLogEntry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.NotificationLogEntry), args.Error(1)
}

//nolint:revive
func (m *MockDispatchService) ListRuns(ctx context.Context, limit int) ([]storage.DispatchRun, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.DispatchRun), args.Error(1)
}

//nolint:revive
func (m *MockDispatchService) GetRun(ctx context.Context, id string) (*storage.DispatchRun, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.DispatchRun), args.Error(1)
}
