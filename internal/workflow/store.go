package workflow

import (
	"log/slog"
	"sync"
)

// Check inspects the current state before an action is applied. A non-nil
// error rejects the action.
type Check func(s State) error

// Store is the single owner of the workflow State. All writes are
// serialized and computed from the latest state.
type Store struct {
	mu     sync.Mutex
	state  State
	logger *slog.Logger
}

// NewStore creates a Store holding initial.
func NewStore(initial State, logger *slog.Logger) *Store {
	return &Store{
		state:  initial.Clone(),
		logger: logger.With("component", "workflow_store"),
	}
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Apply reduces action against the current state and returns a copy of the result.
func (s *Store) Apply(action Action) State {
	next, _ := s.ApplyIf(nil, action)
	return next
}

// ApplyIf applies action only if check accepts the current state. When check
// rejects it, the state is left untouched and the check's error is returned
// together with a copy of the unchanged state.
func (s *Store) ApplyIf(check Check, action Action) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if check != nil {
		if err := check(s.state); err != nil {
			s.logger.Debug("action rejected", "action", action.Name(), "reason", err)
			return s.state.Clone(), err
		}
	}

	s.state = Reduce(s.state, action)
	s.logger.Debug("action applied", "action", action.Name())

	return s.state.Clone(), nil
}
