package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/shaharia-lab/notificator/internal/notification"
)

// MockEmailGenerator is a mock implementation of notification.EmailGenerator.
type MockEmailGenerator struct {
	mock.Mock
}

//nolint:revive
func (m *MockEmailGenerator) Generate(content notification.Content) (notification.Email, error) {
	args := m.Called(content)
	return args.Get(0).(notification.Email), args.Error(1)
}

// MockEmailSender is a mock implementation of notification.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

//nolint:revive
func (m *MockEmailSender) Send(ctx context.Context, email notification.Email) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

//nolint:revive
func (m *MockEmailSender) NotSent() []notification.Email {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]notification.Email)
}

// MockFailureNotifier is a mock implementation of notification.FailureNotifier.
type MockFailureNotifier struct {
	mock.Mock
}

//nolint:revive
func (m *MockFailureNotifier) SendFailure(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockProvider is a mock implementation of notification.Provider.
type MockProvider struct {
	mock.Mock
}

//nolint:revive
func (m *MockProvider) Name() string {
	args := m.Called()
	return args.String(0)
}

//nolint:revive
func (m *MockProvider) Send(ctx context.Context, msg notification.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
