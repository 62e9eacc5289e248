package gemini

import (
	"context"
	"fmt"

	"github.com/phrazzld/posterdrop/internal/generation"
	"google.golang.org/genai"
)

// contentModel is the part of genai.Models used for poster generation.
type contentModel interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// videoModel is the part of genai.Models used to start video generation.
type videoModel interface {
	GenerateVideos(
		ctx context.Context,
		model string,
		prompt string,
		image *genai.Image,
		config *genai.GenerateVideosConfig,
	) (*genai.GenerateVideosOperation, error)
}

// videoOperations is the part of genai.Operations used to poll video generation.
type videoOperations interface {
	GetVideosOperation(
		ctx context.Context,
		operation *genai.GenerateVideosOperation,
		config *genai.GetOperationConfig,
	) (*genai.GenerateVideosOperation, error)
}

// backend bundles the genai services bound to one API key.
type backend struct {
	content    contentModel
	videos     videoModel
	operations videoOperations
}

// backendFactory creates a backend for apiKey.
type backendFactory func(ctx context.Context, apiKey string) (*backend, error)

// APIKeyProvider supplies the key used for each call.
type APIKeyProvider interface {
	APIKey() string
}

func newGenAIBackend(ctx context.Context, apiKey string) (*backend, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return &backend{
		content:    client.Models,
		videos:     client.Models,
		operations: client.Operations,
	}, nil
}

// connect builds a backend from the currently selected key.
func connect(ctx context.Context, keys APIKeyProvider, factory backendFactory) (*backend, string, error) {
	key := keys.APIKey()
	if key == "" {
		return nil, "", ErrNoKeySelected
	}

	b, err := factory(ctx, key)
	if err != nil {
		return nil, "", err
	}
	return b, key, nil
}
