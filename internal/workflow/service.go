package workflow

import (
	"context"
	"io"
	"log/slog"

	"github.com/phrazzld/posterdrop/internal/dataurl"
	"github.com/phrazzld/posterdrop/internal/domain"
	"github.com/phrazzld/posterdrop/internal/events"
	"github.com/phrazzld/posterdrop/internal/generation"
	"github.com/phrazzld/posterdrop/internal/redact"
)

// AccessGate is the subset of access.Gate the service depends on.
type AccessGate interface {
	// Require returns access.ErrAccessDenied unless access has been granted
	Require() error

	// Invalidate revokes access after a credential was rejected
	Invalidate()

	// OnInvalidate registers a hook run on every invalidation
	OnInvalidate(fn func())
}

// Runner submits tasks and can wait for all of them to settle.
type Runner interface {
	TaskRunner

	// Wait blocks until every submitted task has settled
	Wait()
}

// Service exposes the workflow intents used by the HTTP API and the CLI.
// Every intent fails with access.ErrAccessDenied while the gate is closed.
type Service struct {
	gate     AccessGate
	runner   Runner
	store    *Store
	poster   *PosterCoordinator
	fanout   *VideoFanout
	defaults Defaults
	emitter  events.EventEmitter
	logger   *slog.Logger
}

// ServiceOption customizes a Service built by NewService.
type ServiceOption func(*Service)

// WithMaxConcurrentVideos caps how many video generations run at once.
// Poster generation is not counted against the cap.
func WithMaxConcurrentVideos(n int) ServiceOption {
	return func(s *Service) {
		s.fanout.SetMaxConcurrent(n)
	}
}

// NewService wires a Service around a fresh default state. emitter may be nil.
func NewService(
	gate AccessGate,
	runner Runner,
	posters generation.PosterService,
	videos generation.VideoService,
	emitter events.EventEmitter,
	defaults Defaults,
	logger *slog.Logger,
	opts ...ServiceOption,
) *Service {
	store := NewStore(DefaultState(defaults), logger)

	s := &Service{
		gate:     gate,
		runner:   runner,
		store:    store,
		poster:   NewPosterCoordinator(store, runner, posters, emitter, logger),
		fanout:   NewVideoFanout(store, runner, videos, emitter, logger),
		defaults: defaults,
		emitter:  emitter,
		logger:   logger.With("component", "workflow_service"),
	}
	for _, opt := range opts {
		opt(s)
	}

	gate.OnInvalidate(func() {
		events.Publish(context.Background(), s.emitter, s.logger, events.TypeAccessInvalidated, struct{}{})
	})

	return s
}

// Upload encodes the product image read from r. On failure the state error
// is set to MessageUploadFailed and the read error is returned.
func (s *Service) Upload(ctx context.Context, r io.Reader) error {
	if err := s.gate.Require(); err != nil {
		return err
	}

	image, err := dataurl.Encode(r)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to encode upload", "error", redact.Error(err))
		s.store.Apply(UploadFailed{})
		return err
	}

	s.store.Apply(ImageUploaded{DataURL: image})
	s.logger.InfoContext(ctx, "product image uploaded", "bytes", len(image))
	return nil
}

// EditSlogan replaces the poster slogan.
func (s *Service) EditSlogan(text string) error {
	if err := s.gate.Require(); err != nil {
		return err
	}
	s.store.Apply(SloganEdited{Text: text})
	return nil
}

// SelectAspectRatio replaces the poster aspect ratio.
func (s *Service) SelectAspectRatio(value string) error {
	if err := s.gate.Require(); err != nil {
		return err
	}
	ratio, err := domain.ParseAspectRatio(value)
	if err != nil {
		return err
	}
	s.store.Apply(AspectRatioSelected{Ratio: ratio})
	return nil
}

// AddPrompt appends a location prompt. Empty and duplicate prompts are ignored.
func (s *Service) AddPrompt(text string) error {
	if err := s.gate.Require(); err != nil {
		return err
	}
	s.store.Apply(PromptAdded{Text: text})
	return nil
}

// RemovePrompt removes a location prompt. Unknown prompts are ignored.
func (s *Service) RemovePrompt(text string) error {
	if err := s.gate.Require(); err != nil {
		return err
	}
	s.store.Apply(PromptRemoved{Text: text})
	return nil
}

// GeneratePoster starts a poster generation from the current image, slogan
// and aspect ratio. The result lands in the state when it settles.
func (s *Service) GeneratePoster(ctx context.Context) error {
	if err := s.gate.Require(); err != nil {
		return err
	}

	current := s.store.Snapshot()
	if current.ProductImage == "" {
		return ErrNoProductImage
	}

	_, err := s.poster.Start(ctx, current.ProductImage, current.PosterSlogan, current.PosterAspectRatio)
	return err
}

// GenerateVideos fans the current poster out to every location prompt.
func (s *Service) GenerateVideos(ctx context.Context) ([]domain.VideoTask, error) {
	if err := s.gate.Require(); err != nil {
		return nil, err
	}

	current := s.store.Snapshot()
	return s.fanout.Dispatch(
		ctx,
		current.GeneratedPoster,
		current.LocationPrompts,
		current.PosterAspectRatio,
		s.gate.Invalidate,
	)
}

// StartOver restores the default state. Outstanding tasks keep running but
// their settlements no longer match anything and are dropped.
func (s *Service) StartOver(ctx context.Context) error {
	if err := s.gate.Require(); err != nil {
		return err
	}

	s.store.Apply(Reset{Defaults: s.defaults})
	s.logger.InfoContext(ctx, "workflow reset")
	events.Publish(ctx, s.emitter, s.logger, events.TypeWorkflowReset, struct{}{})
	return nil
}

// State returns a copy of the current state.
func (s *Service) State() (State, error) {
	if err := s.gate.Require(); err != nil {
		return State{}, err
	}
	return s.store.Snapshot(), nil
}

// Wait blocks until every task submitted so far has settled.
func (s *Service) Wait() {
	s.runner.Wait()
}
