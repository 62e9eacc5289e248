package task

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunner_SettlesEachTaskIndependently(t *testing.T) {
	t.Parallel()

	runner := NewRunner(testLogger())
	release := make(chan struct{})

	slow := NewMockTask(TypeVideoGeneration)
	slow.ExecuteFn = func(ctx context.Context) error {
		<-release
		return nil
	}
	fast := NewMockTask(TypeVideoGeneration)

	require.NoError(t, runner.Submit(slow))
	require.NoError(t, runner.Submit(fast))

	require.Eventually(t, func() bool {
		settled, _ := fast.Outcome()
		return settled
	}, time.Second, 5*time.Millisecond)

	settled, _ := slow.Outcome()
	assert.False(t, settled, "slow task should still be running")
	assert.Equal(t, 1, runner.InFlight())

	close(release)
	runner.Wait()

	settled, err := slow.Outcome()
	assert.True(t, settled)
	assert.NoError(t, err)
	assert.Equal(t, 0, runner.InFlight())
}

func TestRunner_DeliversExecuteError(t *testing.T) {
	t.Parallel()

	runner := NewRunner(testLogger())
	boom := errors.New("remote failure")

	mockTask := NewMockTask(TypePosterGeneration)
	mockTask.ExecuteFn = func(ctx context.Context) error { return boom }

	require.NoError(t, runner.Submit(mockTask))
	runner.Wait()

	settled, err := mockTask.Outcome()
	assert.True(t, settled)
	assert.ErrorIs(t, err, boom)
}

func TestRunner_RecoversPanics(t *testing.T) {
	t.Parallel()

	runner := NewRunner(testLogger())

	mockTask := NewMockTask(TypeVideoGeneration)
	mockTask.ExecuteFn = func(ctx context.Context) error { panic("nil poster") }

	require.NoError(t, runner.Submit(mockTask))
	runner.Wait()

	settled, err := mockTask.Outcome()
	assert.True(t, settled)
	assert.ErrorIs(t, err, ErrTaskPanicked)
	assert.Contains(t, err.Error(), "nil poster")
}

func TestRunner_SurvivesPanickingSettle(t *testing.T) {
	t.Parallel()

	runner := NewRunner(testLogger())

	mockTask := NewMockTask(TypeVideoGeneration)
	mockTask.SettleFn = func(err error) { panic("bad settle") }

	require.NoError(t, runner.Submit(mockTask))
	runner.Wait()

	assert.Equal(t, 0, runner.InFlight())
}

func TestRunner_SettleHookRunsAfterTaskSettle(t *testing.T) {
	t.Parallel()

	runner := NewRunner(testLogger())

	var mu sync.Mutex
	var order []string
	hookErrors := map[uuid.UUID]error{}

	runner.SetSettleHook(func(task Task, err error) {
		mu.Lock()
		defer mu.Unlock()
		order = append(order, "hook")
		hookErrors[task.ID()] = err
	})

	boom := errors.New("boom")
	mockTask := NewMockTask(TypeVideoGeneration)
	mockTask.ExecuteFn = func(ctx context.Context) error { return boom }
	mockTask.SettleFn = func(err error) {
		mu.Lock()
		defer mu.Unlock()
		order = append(order, "task")
	}

	require.NoError(t, runner.Submit(mockTask))
	runner.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"task", "hook"}, order)
	assert.ErrorIs(t, hookErrors[mockTask.ID()], boom)
}

func TestRunner_Stop(t *testing.T) {
	t.Parallel()

	runner := NewRunner(testLogger())

	blocked := NewMockTask(TypeVideoGeneration)
	blocked.ExecuteFn = func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}
	require.NoError(t, runner.Submit(blocked))

	runner.Stop()

	settled, err := blocked.Outcome()
	assert.True(t, settled)
	assert.ErrorIs(t, err, context.Canceled)

	err = runner.Submit(NewMockTask(TypeVideoGeneration))
	assert.ErrorIs(t, err, ErrRunnerStopped)
}

func TestRunner_WaitWithNothingSubmitted(t *testing.T) {
	t.Parallel()

	runner := NewRunner(testLogger())

	done := make(chan struct{})
	go func() {
		runner.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait blocked with no submitted tasks")
	}
}
