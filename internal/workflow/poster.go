package workflow

import (
	"context"
	"errors"
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

// TaskRunner defines the interface for submitting asynchronous tasks
type TaskRunner interface {
	// Submit starts the task; its outcome is delivered to task.Settle
	Submit(t task.Task) error
}

// PosterCoordinator runs at most one poster generation at a time.
type PosterCoordinator struct {
	store   *Store
	runner  TaskRunner
	service generation.PosterService
	emitter events.EventEmitter
	logger  *slog.Logger
}

// NewPosterCoordinator creates a PosterCoordinator. emitter may be nil.
func NewPosterCoordinator(
	store *Store,
	runner TaskRunner,
	service generation.PosterService,
	emitter events.EventEmitter,
	logger *slog.Logger,
) *PosterCoordinator {
	return &PosterCoordinator{
		store:   store,
		runner:  runner,
		service: service,
		emitter: emitter,
		logger:  logger.With("component", "poster_coordinator"),
	}
}

// Start marks a poster generation as in flight and submits it. The outcome
// is written to the store when the task settles. It returns
// ErrPosterInFlight, without touching the state, while another poster
// generation is running.
func (c *PosterCoordinator) Start(
	ctx context.Context,
	image, slogan string,
	ratio domain.AspectRatio,
) (uuid.UUID, error) {
	requestID := uuid.New()

	if _, err := c.store.ApplyIf(rejectPosterInFlight, PosterStarted{RequestID: requestID}); err != nil {
		return uuid.Nil, err
	}

	c.logger.InfoContext(ctx, "poster generation started",
		"request_id", requestID,
		"aspect_ratio", ratio)
	events.Publish(ctx, c.emitter, c.logger, events.TypePosterStarted, events.PosterPayload{RequestID: requestID})

	payload, err := dataurl.Payload(image)
	if err != nil {
		c.settle(requestID, "", fmt.Errorf("%w: %v", generation.ErrPosterGeneration, err))
		return requestID, nil
	}

	t := &posterTask{
		id:          requestID,
		coordinator: c,
		payload:     payload,
		slogan:      slogan,
		ratio:       ratio,
	}
	if err := c.runner.Submit(t); err != nil {
		c.settle(requestID, "", err)
		return requestID, err
	}

	return requestID, nil
}

// settle writes the outcome of request requestID. Settlements for a request
// that is no longer current are dropped.
func (c *PosterCoordinator) settle(requestID uuid.UUID, payload string, err error) {
	ctx := context.Background()
	logger := c.logger.With("request_id", requestID)
	eventPayload := events.PosterPayload{RequestID: requestID}

	var action Action = PosterFailed{RequestID: requestID}
	eventType := events.TypePosterFailed

	if err == nil {
		mimeType, mimeErr := c.service.MIMEType(payload)
		if mimeErr != nil {
			err = fmt.Errorf("%w: %w: %v", generation.ErrPosterGeneration, generation.ErrInvalidResponse, mimeErr)
		} else {
			action = PosterSucceeded{RequestID: requestID, Poster: dataurl.New(mimeType, payload)}
			eventType = events.TypePosterCompleted
		}
	}

	if _, applyErr := c.store.ApplyIf(posterIsCurrent(requestID), action); applyErr != nil {
		logger.InfoContext(ctx, "discarding stale poster settlement", "outcome", eventType)
		events.Publish(ctx, c.emitter, logger, events.TypePosterStale, eventPayload)
		return
	}

	if err != nil {
		if !errors.Is(err, generation.ErrPosterGeneration) {
			err = fmt.Errorf("%w: %w", generation.ErrPosterGeneration, err)
		}
		logger.ErrorContext(ctx, "poster generation failed", "error", redact.Error(err))
	} else {
		logger.InfoContext(ctx, "poster generation completed")
	}
	events.Publish(ctx, c.emitter, logger, eventType, eventPayload)
}

func rejectPosterInFlight(s State) error {
	if s.IsLoadingPoster {
		return ErrPosterInFlight
	}
	return nil
}

func posterIsCurrent(requestID uuid.UUID) Check {
	return func(s State) error {
		if !posterPending(s, requestID) {
			return ErrStaleSettlement
		}
		return nil
	}
}

// posterTask calls the poster service for one request.
type posterTask struct {
	id          uuid.UUID
	coordinator *PosterCoordinator
	payload     string
	slogan      string
	ratio       domain.AspectRatio

	result string
}

func (t *posterTask) ID() uuid.UUID { return t.id }

func (t *posterTask) Type() string { return task.TypePosterGeneration }

func (t *posterTask) Execute(ctx context.Context) error {
	result, err := t.coordinator.service.GeneratePoster(ctx, t.payload, t.slogan, t.ratio)
	if err != nil {
		return err
	}
	if result == "" {
		return generation.ErrInvalidResponse
	}
	t.result = result
	return nil
}

func (t *posterTask) Settle(err error) {
	t.coordinator.settle(t.id, t.result, err)
}
