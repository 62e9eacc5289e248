package generation

import (
	"context"

	"github.com/phrazzld/posterdrop/internal/domain"
)

// PosterService turns a product image into an advertising poster.
type PosterService interface {
	// GeneratePoster renders a poster from the base64 image payload, returning
	// the generated image as a base64 payload without a data URL prefix.
	GeneratePoster(ctx context.Context, payload, slogan string, ratio domain.AspectRatio) (string, error)

	// MIMEType derives the media type of a base64 payload.
	MIMEType(payload string) (string, error)
}

// VideoService produces one video for one location prompt.
type VideoService interface {
	// GenerateVideo animates the poster payload into the scene described by
	// prompt and returns a handle the caller can use to fetch the video.
	// onCredentialInvalidated is invoked at most once, before returning, when
	// the service rejects the current credential.
	GenerateVideo(
		ctx context.Context,
		posterPayload, prompt string,
		ratio domain.AspectRatio,
		onCredentialInvalidated func(),
	) (string, error)
}
