package gemini

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/posterdrop/internal/config"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testLLMConfig() config.LLMConfig {
	return config.LLMConfig{
		PosterModel:              "poster-model",
		VideoModel:               "video-model",
		MaxRetries:               2,
		RetryDelaySeconds:        1,
		VideoPollIntervalSeconds: 1,
		VideoTimeoutSeconds:      30,
	}
}

func instantSleep(ctx context.Context, d time.Duration) error {
	return ctx.Err()
}

func selectedKeys(t *testing.T, key string) *CredentialProvider {
	t.Helper()

	keys := NewCredentialProvider(testLogger(), StaticKey(key))
	require.NoError(t, keys.RequestAccess(context.Background()))
	return keys
}

// fakeModels implements contentModel and videoModel for testing
type fakeModels struct {
	GenerateContentFn func(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)

	GenerateVideosFn func(
		ctx context.Context,
		model string,
		prompt string,
		image *genai.Image,
		config *genai.GenerateVideosConfig,
	) (*genai.GenerateVideosOperation, error)

	mu    sync.Mutex
	calls int
}

func (f *fakeModels) GenerateContent(
	ctx context.Context,
	model string,
	contents []*genai.Content,
	config *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.GenerateContentFn(ctx, model, contents, config)
}

func (f *fakeModels) GenerateVideos(
	ctx context.Context,
	model string,
	prompt string,
	image *genai.Image,
	config *genai.GenerateVideosConfig,
) (*genai.GenerateVideosOperation, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.GenerateVideosFn(ctx, model, prompt, image, config)
}

func (f *fakeModels) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeOperations implements videoOperations for testing
type fakeOperations struct {
	GetVideosOperationFn func(
		ctx context.Context,
		operation *genai.GenerateVideosOperation,
		config *genai.GetOperationConfig,
	) (*genai.GenerateVideosOperation, error)

	mu    sync.Mutex
	polls int
}

func (f *fakeOperations) GetVideosOperation(
	ctx context.Context,
	operation *genai.GenerateVideosOperation,
	config *genai.GetOperationConfig,
) (*genai.GenerateVideosOperation, error) {
	f.mu.Lock()
	f.polls++
	f.mu.Unlock()
	return f.GetVideosOperationFn(ctx, operation, config)
}

func (f *fakeOperations) pollCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.polls
}

func imageResponse(data []byte) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Parts: []*genai.Part{
					genai.NewPartFromText("Here is your poster."),
					{InlineData: &genai.Blob{Data: data, MIMEType: "image/png"}},
				},
			},
		}},
	}
}

func doneOperation(uri string) *genai.GenerateVideosOperation {
	return &genai.GenerateVideosOperation{
		Name: "operations/done",
		Done: true,
		Response: &genai.GenerateVideosResponse{
			GeneratedVideos: []*genai.GeneratedVideo{{Video: &genai.Video{URI: uri}}},
		},
	}
}
