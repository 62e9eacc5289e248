package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// SettleHook is invoked after a task's own Settle method has run.
type SettleHook func(task Task, err error)

// Runner starts every submitted task immediately on its own goroutine and
// settles it as soon as it finishes.
type Runner struct {
	ctx        context.Context
	cancelFunc context.CancelFunc
	logger     *slog.Logger

	mu      sync.Mutex
	idle    *sync.Cond
	pending int
	stopped bool
	hook    SettleHook
}

// NewRunner creates a new Runner
func NewRunner(logger *slog.Logger) *Runner {
	ctx, cancel := context.WithCancel(context.Background())

	r := &Runner{
		ctx:        ctx,
		cancelFunc: cancel,
		logger:     logger.With("component", "task_runner"),
	}
	r.idle = sync.NewCond(&r.mu)

	return r
}

// SetSettleHook installs a runner-wide hook called after every settlement.
func (r *Runner) SetSettleHook(hook SettleHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hook = hook
}

// Submit starts the task. It returns ErrRunnerStopped once Stop has been called.
func (r *Runner) Submit(task Task) error {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return ErrRunnerStopped
	}
	r.pending++
	r.mu.Unlock()

	r.logger.Debug("task submitted", "task_id", task.ID(), "task_type", task.Type())

	go r.run(task)
	return nil
}

// InFlight reports how many submitted tasks have not settled yet.
func (r *Runner) InFlight() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending
}

// Wait blocks until every submitted task has settled.
func (r *Runner) Wait() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for r.pending > 0 {
		r.idle.Wait()
	}
}

// Stop cancels the context handed to running tasks, rejects further
// submissions and waits for outstanding tasks to settle.
func (r *Runner) Stop() {
	r.mu.Lock()
	r.stopped = true
	r.mu.Unlock()

	r.cancelFunc()
	r.Wait()
}

func (r *Runner) run(task Task) {
	logger := r.logger.With("task_id", task.ID(), "task_type", task.Type())

	err := r.execute(task)
	if err != nil {
		logger.Warn("task failed", "error", err)
	} else {
		logger.Debug("task completed")
	}

	r.settle(task, err, logger)

	r.mu.Lock()
	r.pending--
	if r.pending == 0 {
		r.idle.Broadcast()
	}
	r.mu.Unlock()
}

func (r *Runner) execute(task Task) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", ErrTaskPanicked, rec)
		}
	}()
	return task.Execute(r.ctx)
}

func (r *Runner) settle(task Task, err error, logger *slog.Logger) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("task settlement panicked", "panic", fmt.Sprint(rec))
		}
	}()

	task.Settle(err)

	r.mu.Lock()
	hook := r.hook
	r.mu.Unlock()
	if hook != nil {
		hook(task, err)
	}
}
