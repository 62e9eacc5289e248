package task

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MockTask is a simple implementation of the Task interface for testing
type MockTask struct {
	TaskID    uuid.UUID
	TaskType  string
	ExecuteFn func(ctx context.Context) error
	SettleFn  func(err error)

	mu       sync.Mutex
	settled  bool
	settleTo error
}

// NewMockTask creates a new MockTask with the given type that succeeds immediately
func NewMockTask(taskType string) *MockTask {
	return &MockTask{
		TaskID:    uuid.New(),
		TaskType:  taskType,
		ExecuteFn: func(ctx context.Context) error { return nil },
	}
}

// ID returns the task's unique identifier
func (t *MockTask) ID() uuid.UUID {
	return t.TaskID
}

// Type returns the task type identifier
func (t *MockTask) Type() string {
	return t.TaskType
}

// Execute runs the task logic
func (t *MockTask) Execute(ctx context.Context) error {
	return t.ExecuteFn(ctx)
}

// Settle records the outcome and forwards it to SettleFn when set
func (t *MockTask) Settle(err error) {
	t.mu.Lock()
	t.settled = true
	t.settleTo = err
	t.mu.Unlock()

	if t.SettleFn != nil {
		t.SettleFn(err)
	}
}

// Outcome reports whether the task has settled and with which error
func (t *MockTask) Outcome() (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.settled, t.settleTo
}
