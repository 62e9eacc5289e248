package api

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/phrazzld/posterdrop/internal/access"
	"github.com/phrazzld/posterdrop/internal/domain"
	"github.com/phrazzld/posterdrop/internal/workflow"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MockWorkflowService implements WorkflowService for testing
type MockWorkflowService struct {
	UploadFn            func(ctx context.Context, r io.Reader) error
	EditSloganFn        func(text string) error
	SelectAspectRatioFn func(value string) error
	AddPromptFn         func(text string) error
	RemovePromptFn      func(text string) error
	GeneratePosterFn    func(ctx context.Context) error
	GenerateVideosFn    func(ctx context.Context) ([]domain.VideoTask, error)
	StartOverFn         func(ctx context.Context) error
	StateFn             func() (workflow.State, error)

	mu       sync.Mutex
	uploaded []byte
}

func (m *MockWorkflowService) Upload(ctx context.Context, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.uploaded = data
	m.mu.Unlock()
	if m.UploadFn != nil {
		return m.UploadFn(ctx, nil)
	}
	return nil
}

func (m *MockWorkflowService) EditSlogan(text string) error {
	if m.EditSloganFn != nil {
		return m.EditSloganFn(text)
	}
	return nil
}

func (m *MockWorkflowService) SelectAspectRatio(value string) error {
	if m.SelectAspectRatioFn != nil {
		return m.SelectAspectRatioFn(value)
	}
	return nil
}

func (m *MockWorkflowService) AddPrompt(text string) error {
	if m.AddPromptFn != nil {
		return m.AddPromptFn(text)
	}
	return nil
}

func (m *MockWorkflowService) RemovePrompt(text string) error {
	if m.RemovePromptFn != nil {
		return m.RemovePromptFn(text)
	}
	return nil
}

func (m *MockWorkflowService) GeneratePoster(ctx context.Context) error {
	if m.GeneratePosterFn != nil {
		return m.GeneratePosterFn(ctx)
	}
	return nil
}

func (m *MockWorkflowService) GenerateVideos(ctx context.Context) ([]domain.VideoTask, error) {
	if m.GenerateVideosFn != nil {
		return m.GenerateVideosFn(ctx)
	}
	return []domain.VideoTask{}, nil
}

func (m *MockWorkflowService) StartOver(ctx context.Context) error {
	if m.StartOverFn != nil {
		return m.StartOverFn(ctx)
	}
	return nil
}

func (m *MockWorkflowService) State() (workflow.State, error) {
	if m.StateFn != nil {
		return m.StateFn()
	}
	return workflow.DefaultState(workflow.StandardDefaults()), nil
}

func (m *MockWorkflowService) uploadedBytes() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.uploaded
}

// newGrantedGate returns a real gate that has already been granted access.
func newGrantedGate() *access.Gate {
	gate := access.NewGate(access.NewGrantingProvider(), testLogger())
	if err := gate.Request(context.Background()); err != nil {
		panic(err)
	}
	return gate
}
