package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/posterdrop/internal/dataurl"
	"github.com/phrazzld/posterdrop/internal/domain"
	"github.com/phrazzld/posterdrop/internal/events"
	"github.com/phrazzld/posterdrop/internal/generation"
	"github.com/phrazzld/posterdrop/internal/redact"
	"github.com/phrazzld/posterdrop/internal/task"
)

// VideoFanout dispatches one video generation per location prompt and
// reconciles each settlement into the live state by task id.
type VideoFanout struct {
	store   *Store
	runner  TaskRunner
	service generation.VideoService
	emitter events.EventEmitter
	logger  *slog.Logger

	// slots bounds running video generations; nil means unbounded.
	slots chan struct{}
}

// NewVideoFanout creates a VideoFanout. emitter may be nil.
func NewVideoFanout(
	store *Store,
	runner TaskRunner,
	service generation.VideoService,
	emitter events.EventEmitter,
	logger *slog.Logger,
) *VideoFanout {
	return &VideoFanout{
		store:   store,
		runner:  runner,
		service: service,
		emitter: emitter,
		logger:  logger.With("component", "video_fanout"),
	}
}

// Dispatch replaces the video list with one generating task per prompt, in
// prompt order, and starts every task. It returns the dispatched batch.
//
// It returns ErrNothingToDispatch when poster or prompts is empty,
// ErrPosterChanged when poster is no longer the current poster and
// ErrVideosInFlight while a previous batch still has generating tasks.
func (f *VideoFanout) Dispatch(
	ctx context.Context,
	poster string,
	prompts []string,
	ratio domain.AspectRatio,
	onCredentialInvalidated func(),
) ([]domain.VideoTask, error) {
	if poster == "" || len(prompts) == 0 {
		return nil, ErrNothingToDispatch
	}

	if onCredentialInvalidated == nil {
		onCredentialInvalidated = func() {}
	}

	payload, err := dataurl.Payload(poster)
	if err != nil {
		return nil, fmt.Errorf("invalid poster: %w", err)
	}

	batch := make([]domain.VideoTask, 0, len(prompts))
	for _, prompt := range prompts {
		videoTask, err := domain.NewVideoTask(prompt)
		if err != nil {
			return nil, err
		}
		batch = append(batch, videoTask)
	}

	if _, err := f.store.ApplyIf(dispatchable(poster), VideosDispatched{Tasks: batch}); err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(batch))
	for i, v := range batch {
		ids[i] = v.ID
	}
	f.logger.InfoContext(ctx, "video batch dispatched", "task_count", len(batch), "aspect_ratio", ratio)
	events.Publish(ctx, f.emitter, f.logger, events.TypeVideosDispatched, events.BatchPayload{TaskIDs: ids})

	for _, v := range batch {
		t := &videoTask{
			id:                      v.ID,
			prompt:                  v.Prompt,
			fanout:                  f,
			posterPayload:           payload,
			ratio:                   ratio,
			onCredentialInvalidated: onCredentialInvalidated,
		}
		if err := f.runner.Submit(t); err != nil {
			t.Settle(err)
		}
	}

	return batch, nil
}

// settle reconciles one task's outcome against the current state. Only the
// entry whose id matches is touched; a missing or already terminal entry
// means the settlement is stale and is dropped.
func (f *VideoFanout) settle(id uuid.UUID, prompt, url string, err error) {
	ctx := context.Background()
	logger := f.logger.With("task_id", id, "prompt", prompt)
	eventPayload := events.VideoPayload{TaskID: id, Prompt: prompt}

	var action Action = VideoSucceeded{ID: id, URL: url}
	eventType := events.TypeVideoCompleted
	if err != nil {
		action = VideoFailed{ID: id, Prompt: prompt}
		eventType = events.TypeVideoFailed
	}

	if _, applyErr := f.store.ApplyIf(videoIsLive(id), action); applyErr != nil {
		logger.InfoContext(ctx, "discarding stale video settlement", "outcome", eventType)
		events.Publish(ctx, f.emitter, logger, events.TypeVideoStale, eventPayload)
		return
	}

	if err != nil {
		err = fmt.Errorf("%w: %w", generation.ErrLocationGeneration, err)
		logger.ErrorContext(ctx, "video generation failed", "error", redact.Error(err))
	} else {
		logger.InfoContext(ctx, "video generation completed")
	}
	events.Publish(ctx, f.emitter, logger, eventType, eventPayload)
}

// SetMaxConcurrent caps how many video generations run at the same time.
// Tasks over the cap wait for a free slot before calling the video service.
// Zero or negative means unbounded. Call it before the first Dispatch.
func (f *VideoFanout) SetMaxConcurrent(n int) {
	if n <= 0 {
		f.slots = nil
		return
	}
	f.slots = make(chan struct{}, n)
}

func (f *VideoFanout) acquire(ctx context.Context) (func(), error) {
	if f.slots == nil {
		return func() {}, nil
	}
	select {
	case f.slots <- struct{}{}:
		return func() { <-f.slots }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func dispatchable(poster string) Check {
	return func(s State) error {
		if s.GeneratedPoster != poster {
			return ErrPosterChanged
		}
		if s.VideosInFlight() {
			return ErrVideosInFlight
		}
		return nil
	}
}

func videoIsLive(id uuid.UUID) Check {
	return func(s State) error {
		if !videoPending(s, id) {
			return ErrStaleSettlement
		}
		return nil
	}
}

// videoTask calls the video service for one location prompt.
type videoTask struct {
	id                      uuid.UUID
	prompt                  string
	fanout                  *VideoFanout
	posterPayload           string
	ratio                   domain.AspectRatio
	onCredentialInvalidated func()

	url string
}

func (t *videoTask) ID() uuid.UUID { return t.id }

func (t *videoTask) Type() string { return task.TypeVideoGeneration }

func (t *videoTask) Execute(ctx context.Context) error {
	release, err := t.fanout.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	url, err := t.fanout.service.GenerateVideo(ctx, t.posterPayload, t.prompt, t.ratio, t.onCredentialInvalidated)
	if err != nil {
		return err
	}
	if url == "" {
		return generation.ErrInvalidResponse
	}
	t.url = url
	return nil
}

func (t *videoTask) Settle(err error) {
	t.fanout.settle(t.id, t.prompt, t.url, err)
}
