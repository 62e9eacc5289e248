package access

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// State is the authorization state of a Gate.
type State string

const (
	// StateUnauthenticated means no usable capability is selected.
	StateUnauthenticated State = "unauthenticated"

	// StateAuthenticated means a capability has been selected and not invalidated.
	StateAuthenticated State = "authenticated"
)

// CapabilityProvider is the external collaborator that knows whether a
// capability is available and how to select one.
type CapabilityProvider interface {
	// HasAccess reports whether a capability is currently selected.
	HasAccess(ctx context.Context) (bool, error)

	// RequestAccess runs the selection flow. It returns an error when no
	// capability could be selected.
	RequestAccess(ctx context.Context) error
}

// Gate tracks whether the workflow may proceed.
type Gate struct {
	provider CapabilityProvider
	logger   *slog.Logger

	mu           sync.RWMutex
	state        State
	onInvalidate []func()
}

// NewGate creates an unauthenticated Gate backed by provider.
func NewGate(provider CapabilityProvider, logger *slog.Logger) *Gate {
	return &Gate{
		provider: provider,
		logger:   logger.With("component", "access_gate"),
		state:    StateUnauthenticated,
	}
}

// OnInvalidate registers fn to run every time the gate is invalidated.
func (g *Gate) OnInvalidate(fn func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onInvalidate = append(g.onInvalidate, fn)
}

// Check queries the provider and records the result. Provider failures are
// logged and resolve to StateUnauthenticated; they are never returned.
func (g *Gate) Check(ctx context.Context) State {
	ok, err := g.hasAccess(ctx)
	if err != nil {
		g.logger.DebugContext(ctx, "capability check failed", "error", err)
	}

	state := StateUnauthenticated
	if err == nil && ok {
		state = StateAuthenticated
	}

	g.mu.Lock()
	g.state = state
	g.mu.Unlock()

	return state
}

// Request runs the provider's selection flow. On success the gate becomes
// authenticated; on failure it stays unauthenticated and the returned error
// wraps ErrAccessRequestFailed.
func (g *Gate) Request(ctx context.Context) error {
	if err := g.requestAccess(ctx); err != nil {
		g.logger.ErrorContext(ctx, "access request failed", "error", err)
		return fmt.Errorf("%w: %v", ErrAccessRequestFailed, err)
	}

	g.mu.Lock()
	g.state = StateAuthenticated
	g.mu.Unlock()

	g.logger.InfoContext(ctx, "access granted")
	return nil
}

// Invalidate moves the gate back to StateUnauthenticated and runs the
// registered invalidation hooks. Safe for concurrent use.
func (g *Gate) Invalidate() {
	g.mu.Lock()
	previous := g.state
	g.state = StateUnauthenticated
	hooks := make([]func(), len(g.onInvalidate))
	copy(hooks, g.onInvalidate)
	g.mu.Unlock()

	g.logger.Warn("access invalidated", "previous_state", previous)

	for _, hook := range hooks {
		hook()
	}
}

// State returns the current state.
func (g *Gate) State() State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

// Authenticated reports whether the gate is authenticated.
func (g *Gate) Authenticated() bool {
	return g.State() == StateAuthenticated
}

// Require returns ErrAccessDenied unless the gate is authenticated.
func (g *Gate) Require() error {
	if !g.Authenticated() {
		return ErrAccessDenied
	}
	return nil
}

func (g *Gate) hasAccess(ctx context.Context) (ok bool, err error) {
	if g.provider == nil {
		return false, fmt.Errorf("no capability provider configured")
	}
	defer func() {
		if rec := recover(); rec != nil {
			ok, err = false, fmt.Errorf("capability provider panicked: %v", rec)
		}
	}()
	return g.provider.HasAccess(ctx)
}

func (g *Gate) requestAccess(ctx context.Context) (err error) {
	if g.provider == nil {
		return fmt.Errorf("no capability provider configured")
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("capability provider panicked: %v", rec)
		}
	}()
	return g.provider.RequestAccess(ctx)
}
