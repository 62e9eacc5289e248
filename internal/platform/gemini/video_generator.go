package gemini

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"text/template"
	"time"

	"github.com/phrazzld/posterdrop/internal/config"
	"github.com/phrazzld/posterdrop/internal/dataurl"
	"github.com/phrazzld/posterdrop/internal/domain"
	"github.com/phrazzld/posterdrop/internal/generation"
	"google.golang.org/genai"
)

// VideoGenerator implements generation.VideoService with a Veo model.
type VideoGenerator struct {
	logger       *slog.Logger
	model        string
	keys         APIKeyProvider
	template     *template.Template
	retrier      *retrier
	newBackend   backendFactory
	pollInterval time.Duration
	timeout      time.Duration
}

var _ generation.VideoService = (*VideoGenerator)(nil)

// NewVideoGenerator creates a VideoGenerator from the LLM configuration.
func NewVideoGenerator(cfg config.LLMConfig, keys APIKeyProvider, logger *slog.Logger) (*VideoGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if keys == nil {
		return nil, fmt.Errorf("%w: key provider cannot be nil", generation.ErrInvalidConfig)
	}
	if cfg.VideoModel == "" {
		return nil, fmt.Errorf("%w: video model cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.VideoPollIntervalSeconds < 1 || cfg.VideoTimeoutSeconds < 1 {
		return nil, fmt.Errorf("%w: video poll interval and timeout must be positive", generation.ErrInvalidConfig)
	}

	tmpl, err := loadTemplate("video", cfg.VideoPromptTemplatePath, defaultVideoTemplate)
	if err != nil {
		return nil, err
	}

	logger = logger.With("component", "gemini_video_generator", "model", cfg.VideoModel)

	return &VideoGenerator{
		logger:       logger,
		model:        cfg.VideoModel,
		keys:         keys,
		template:     tmpl,
		retrier:      newRetrier(cfg.MaxRetries, cfg.RetryDelaySeconds, logger),
		newBackend:   newGenAIBackend,
		pollInterval: time.Duration(cfg.VideoPollIntervalSeconds) * time.Second,
		timeout:      time.Duration(cfg.VideoTimeoutSeconds) * time.Second,
	}, nil
}

// VideoAspectRatio maps a poster aspect ratio onto one Veo accepts. Veo only
// renders landscape and portrait video; everything else becomes landscape.
func VideoAspectRatio(ratio domain.AspectRatio) string {
	if ratio == domain.AspectRatioPortrait {
		return domain.AspectRatioPortrait.String()
	}
	return domain.AspectRatioLandscape.String()
}

// GenerateVideo starts a video generation for one location and polls it to
// completion. The returned handle is the video URI with the API key
// attached. When the service rejects the key, onCredentialInvalidated is
// called once and the error wraps generation.ErrCredentialInvalid.
func (g *VideoGenerator) GenerateVideo(
	ctx context.Context,
	posterPayload, prompt string,
	ratio domain.AspectRatio,
	onCredentialInvalidated func(),
) (handle string, err error) {
	logger := g.logger.With("location", prompt)

	defer func() {
		if errors.Is(err, generation.ErrCredentialInvalid) && onCredentialInvalidated != nil {
			logger.WarnContext(ctx, "API key rejected by video service")
			onCredentialInvalidated()
		}
	}()

	image, err := base64.StdEncoding.DecodeString(posterPayload)
	if err != nil || len(image) == 0 {
		return "", fmt.Errorf("%w: poster is not valid base64", generation.ErrGenerationFailed)
	}
	mimeType, err := dataurl.DetectMIMEType(posterPayload)
	if err != nil {
		return "", err
	}

	text, err := renderPrompt(g.template, videoPromptData{Location: prompt, AspectRatio: ratio.String()})
	if err != nil {
		return "", fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}

	b, key, err := connect(ctx, g.keys, g.newBackend)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	videoConfig := &genai.GenerateVideosConfig{
		AspectRatio:    VideoAspectRatio(ratio),
		NumberOfVideos: 1,
	}
	poster := &genai.Image{ImageBytes: image, MIMEType: mimeType}

	var op *genai.GenerateVideosOperation
	err = g.retrier.do(ctx, "generate_videos", func(ctx context.Context) error {
		var callErr error
		op, callErr = b.videos.GenerateVideos(ctx, g.model, text, poster, videoConfig)
		return classifyAPIError(callErr)
	})
	if err != nil {
		return "", err
	}
	logger.InfoContext(ctx, "video operation started", "operation", operationName(op))

	op, err = g.poll(ctx, b, op)
	if err != nil {
		return "", err
	}

	uri, err := videoURI(op)
	if err != nil {
		return "", err
	}

	logger.InfoContext(ctx, "video generated")
	return withAPIKey(uri, key)
}

// poll refreshes op every poll interval until it reports done.
func (g *VideoGenerator) poll(
	ctx context.Context,
	b *backend,
	op *genai.GenerateVideosOperation,
) (*genai.GenerateVideosOperation, error) {
	for op == nil || !op.Done {
		if op == nil {
			return nil, fmt.Errorf("%w: no operation returned", generation.ErrInvalidResponse)
		}

		if err := g.retrier.sleep(ctx, g.pollInterval); err != nil {
			return nil, fmt.Errorf("%w: video generation did not finish: %w", generation.ErrTransientFailure, err)
		}

		current := op
		err := g.retrier.do(ctx, "get_videos_operation", func(ctx context.Context) error {
			next, callErr := b.operations.GetVideosOperation(ctx, current, nil)
			if callErr != nil {
				return classifyAPIError(callErr)
			}
			op = next
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if len(op.Error) > 0 {
		message := fmt.Sprint(op.Error["message"])
		if isCredentialError(message) {
			return nil, fmt.Errorf("%w: %s", generation.ErrCredentialInvalid, message)
		}
		return nil, fmt.Errorf("%w: operation failed: %s", generation.ErrGenerationFailed, message)
	}

	return op, nil
}

func videoURI(op *genai.GenerateVideosOperation) (string, error) {
	if op.Response == nil || len(op.Response.GeneratedVideos) == 0 {
		if op.Response != nil && op.Response.RAIMediaFilteredCount > 0 {
			return "", fmt.Errorf("%w: video filtered: %v", generation.ErrContentBlocked, op.Response.RAIMediaFilteredReasons)
		}
		return "", fmt.Errorf("%w: no video generated", generation.ErrInvalidResponse)
	}

	video := op.Response.GeneratedVideos[0]
	if video == nil || video.Video == nil || video.Video.URI == "" {
		return "", fmt.Errorf("%w: generated video has no URI", generation.ErrInvalidResponse)
	}
	return video.Video.URI, nil
}

// withAPIKey appends key as the "key" query parameter of uri.
func withAPIKey(uri, key string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("%w: invalid video URI: %v", generation.ErrInvalidResponse, err)
	}
	q := u.Query()
	q.Set("key", key)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func operationName(op *genai.GenerateVideosOperation) string {
	if op == nil {
		return ""
	}
	return op.Name
}

