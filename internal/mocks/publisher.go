package mocks

import (
	"context"

	"github.com/phrazzld/ledger-api/internal/task"
	"github.com/stretchr/testify/mock"
)

// MockPublisher is a testify mock of task.Publisher.
type MockPublisher struct {
	mock.Mock
}

var _ task.Publisher = (*MockPublisher)(nil)

// Publish is a mock implementation of task.Publisher.Publish
func (m *MockPublisher) Publish(ctx context.Context, job *task.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}
