package gemini

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"text/template"

	"github.com/phrazzld/posterdrop/internal/config"
	"github.com/phrazzld/posterdrop/internal/dataurl"
	"github.com/phrazzld/posterdrop/internal/domain"
	"github.com/phrazzld/posterdrop/internal/generation"
	"google.golang.org/genai"
)

// PosterGenerator implements generation.PosterService with an image-capable
// Gemini model.
type PosterGenerator struct {
	logger     *slog.Logger
	model      string
	keys       APIKeyProvider
	template   *template.Template
	retrier    *retrier
	newBackend backendFactory
}

var _ generation.PosterService = (*PosterGenerator)(nil)

// NewPosterGenerator creates a PosterGenerator from the LLM configuration.
func NewPosterGenerator(cfg config.LLMConfig, keys APIKeyProvider, logger *slog.Logger) (*PosterGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if keys == nil {
		return nil, fmt.Errorf("%w: key provider cannot be nil", generation.ErrInvalidConfig)
	}
	if cfg.PosterModel == "" {
		return nil, fmt.Errorf("%w: poster model cannot be empty", generation.ErrInvalidConfig)
	}

	tmpl, err := loadTemplate("poster", cfg.PosterPromptTemplatePath, defaultPosterTemplate)
	if err != nil {
		return nil, err
	}

	logger = logger.With("component", "gemini_poster_generator", "model", cfg.PosterModel)

	return &PosterGenerator{
		logger:     logger,
		model:      cfg.PosterModel,
		keys:       keys,
		template:   tmpl,
		retrier:    newRetrier(cfg.MaxRetries, cfg.RetryDelaySeconds, logger),
		newBackend: newGenAIBackend,
	}, nil
}

// GeneratePoster sends the product image and the rendered prompt to the
// model and returns the first inline image of the response, base64 encoded.
func (g *PosterGenerator) GeneratePoster(
	ctx context.Context,
	payload, slogan string,
	ratio domain.AspectRatio,
) (string, error) {
	image, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(image) == 0 {
		return "", fmt.Errorf("%w: product image is not valid base64", generation.ErrGenerationFailed)
	}
	mimeType, err := g.MIMEType(payload)
	if err != nil {
		return "", err
	}

	prompt, err := renderPrompt(g.template, posterPromptData{Slogan: slogan, AspectRatio: ratio.String()})
	if err != nil {
		return "", fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}

	b, _, err := connect(ctx, g.keys, g.newBackend)
	if err != nil {
		return "", err
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(image, mimeType),
			genai.NewPartFromText(prompt),
		}, genai.RoleUser),
	}
	genConfig := &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
	}

	var result string
	err = g.retrier.do(ctx, "generate_poster", func(ctx context.Context) error {
		resp, err := b.content.GenerateContent(ctx, g.model, contents, genConfig)
		if err != nil {
			return classifyAPIError(err)
		}
		result, err = extractImage(resp)
		return err
	})
	if err != nil {
		g.logger.ErrorContext(ctx, "poster generation failed", "error", err)
		return "", err
	}

	g.logger.InfoContext(ctx, "poster generated", "payload_length", len(result))
	return result, nil
}

// MIMEType sniffs the media type of a base64 payload.
func (g *PosterGenerator) MIMEType(payload string) (string, error) {
	return dataurl.DetectMIMEType(payload)
}

// extractImage returns the first inline image of resp as base64.
func extractImage(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: prompt blocked (%s)", generation.ErrContentBlocked, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: content blocked by safety filters", generation.ErrContentBlocked)
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	for _, part := range candidate.Content.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return base64.StdEncoding.EncodeToString(part.InlineData.Data), nil
		}
	}
	return "", fmt.Errorf("%w: response contains no image", generation.ErrInvalidResponse)
}
