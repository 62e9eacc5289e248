package task

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Task type constants
const (
	// TypePosterGeneration identifies a poster generation task
	TypePosterGeneration = "poster_generation"

	// TypeVideoGeneration identifies a per-location video generation task
	TypeVideoGeneration = "video_generation"
)

var (
	// ErrRunnerStopped is returned by Submit after Stop has been called.
	ErrRunnerStopped = errors.New("task runner stopped")

	// ErrTaskPanicked is the settlement error of a task whose Execute panicked.
	ErrTaskPanicked = errors.New("task panicked")
)

// Task represents a unit of asynchronous work tracked by the Runner.
type Task interface {
	// ID returns the task's correlation id
	ID() uuid.UUID

	// Type returns the task type identifier
	Type() string

	// Execute runs the task logic
	Execute(ctx context.Context) error

	// Settle receives the outcome of Execute. It is called exactly once,
	// on the goroutine that ran the task, with nil on success.
	Settle(err error)
}
