package workflow

import (
	"context"
	"sync"

	"github.com/phrazzld/posterdrop/internal/config"
	"github.com/phrazzld/posterdrop/internal/domain"
	"github.com/phrazzld/posterdrop/internal/events"
)

func configWorkflow(slogan, ratio string, locations []string) config.WorkflowConfig {
	return config.WorkflowConfig{
		DefaultSlogan:      slogan,
		DefaultAspectRatio: ratio,
		DefaultLocations:   locations,
	}
}

// MockPosterService implements generation.PosterService for testing
type MockPosterService struct {
	GeneratePosterFn func(ctx context.Context, payload, slogan string, ratio domain.AspectRatio) (string, error)
	MIMETypeFn       func(payload string) (string, error)
}

func (m *MockPosterService) GeneratePoster(
	ctx context.Context,
	payload, slogan string,
	ratio domain.AspectRatio,
) (string, error) {
	return m.GeneratePosterFn(ctx, payload, slogan, ratio)
}

func (m *MockPosterService) MIMEType(payload string) (string, error) {
	if m.MIMETypeFn == nil {
		return "image/png", nil
	}
	return m.MIMETypeFn(payload)
}

// MockVideoService implements generation.VideoService for testing
type MockVideoService struct {
	GenerateVideoFn func(
		ctx context.Context,
		posterPayload, prompt string,
		ratio domain.AspectRatio,
		onCredentialInvalidated func(),
	) (string, error)
}

func (m *MockVideoService) GenerateVideo(
	ctx context.Context,
	posterPayload, prompt string,
	ratio domain.AspectRatio,
	onCredentialInvalidated func(),
) (string, error) {
	return m.GenerateVideoFn(ctx, posterPayload, prompt, ratio, onCredentialInvalidated)
}

type videoOutcome struct {
	url string
	err error
}

// gatedVideoService blocks every request until the test releases an outcome
// for its prompt.
type gatedVideoService struct {
	release map[string]chan videoOutcome

	mu       sync.Mutex
	payloads map[string]string
}

func newGatedVideoService(prompts ...string) *gatedVideoService {
	g := &gatedVideoService{
		release:  make(map[string]chan videoOutcome, len(prompts)),
		payloads: make(map[string]string, len(prompts)),
	}
	for _, p := range prompts {
		g.release[p] = make(chan videoOutcome, 1)
	}
	return g
}

func (g *gatedVideoService) GenerateVideo(
	ctx context.Context,
	posterPayload, prompt string,
	ratio domain.AspectRatio,
	onCredentialInvalidated func(),
) (string, error) {
	g.mu.Lock()
	g.payloads[prompt] = posterPayload
	g.mu.Unlock()

	select {
	case out := <-g.release[prompt]:
		return out.url, out.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (g *gatedVideoService) resolve(prompt, url string) {
	g.release[prompt] <- videoOutcome{url: url}
}

func (g *gatedVideoService) reject(prompt string, err error) {
	g.release[prompt] <- videoOutcome{err: err}
}

func (g *gatedVideoService) started() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.payloads)
}

func (g *gatedVideoService) payloadFor(prompt string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.payloads[prompt]
}

// eventRecorder collects emitted event types.
type eventRecorder struct {
	mu    sync.Mutex
	types []string
}

func (r *eventRecorder) HandleEvent(ctx context.Context, event *events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types = append(r.types, event.Type)
	return nil
}

func (r *eventRecorder) count(eventType string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, t := range r.types {
		if t == eventType {
			n++
		}
	}
	return n
}
