package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/shaharia-lab/notificator/internal/storage"
)

// MockRunStore is a mock implementation of storage.RunStore.
type MockRunStore struct {
	mock.Mock
}

//nolint:revive
func (m *MockRunStore) CreateRun(ctx context.Context, run *storage.DispatchRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

//nolint:revive
func (m *MockRunStore) FinishRun(ctx context.Context, run *storage.DispatchRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

//nolint:revive
func (m *MockRunStore) GetRun(ctx context.Context, id string) (*storage.DispatchRun, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.DispatchRun), args.Error(1)
}

//nolint:revive
func (m *MockRunStore) ListRuns(ctx context.Context, limit int) ([]storage.DispatchRun, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.DispatchRun), args.Error(1)
}
