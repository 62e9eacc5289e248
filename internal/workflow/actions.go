package workflow

import (
	"github.com/google/uuid"
	"github.com/phrazzld/posterdrop/internal/domain"
)

// Action describes one state transition. Actions are applied by Reduce.
type Action interface {
	// Name identifies the action in logs.
	Name() string
}

// Reset replaces the whole state with the defaults.
type Reset struct {
	Defaults Defaults
}

// ImageUploaded records a successfully encoded product image.
type ImageUploaded struct {
	DataURL string
}

// UploadFailed records that the product image could not be read.
type UploadFailed struct{}

// SloganEdited replaces the poster slogan.
type SloganEdited struct {
	Text string
}

// AspectRatioSelected replaces the poster aspect ratio.
type AspectRatioSelected struct {
	Ratio domain.AspectRatio
}

// PromptAdded appends a location prompt unless it is empty or already present.
type PromptAdded struct {
	Text string
}

// PromptRemoved removes a location prompt if present.
type PromptRemoved struct {
	Text string
}

// PosterStarted marks a poster generation as in flight.
type PosterStarted struct {
	RequestID uuid.UUID
}

// PosterSucceeded settles the poster request RequestID with a data URL.
type PosterSucceeded struct {
	RequestID uuid.UUID
	Poster    string
}

// PosterFailed settles the poster request RequestID as failed.
type PosterFailed struct {
	RequestID uuid.UUID
}

// VideosDispatched replaces the video list with a freshly dispatched batch.
type VideosDispatched struct {
	Tasks []domain.VideoTask
}

// VideoSucceeded settles the video task ID with a result handle.
type VideoSucceeded struct {
	ID  uuid.UUID
	URL string
}

// VideoFailed settles the video task ID as failed.
type VideoFailed struct {
	ID     uuid.UUID
	Prompt string
}

func (Reset) Name() string               { return "reset" }
func (ImageUploaded) Name() string       { return "image_uploaded" }
func (UploadFailed) Name() string        { return "upload_failed" }
func (SloganEdited) Name() string        { return "slogan_edited" }
func (AspectRatioSelected) Name() string { return "aspect_ratio_selected" }
func (PromptAdded) Name() string         { return "prompt_added" }
func (PromptRemoved) Name() string       { return "prompt_removed" }
func (PosterStarted) Name() string       { return "poster_started" }
func (PosterSucceeded) Name() string     { return "poster_succeeded" }
func (PosterFailed) Name() string        { return "poster_failed" }
func (VideosDispatched) Name() string    { return "videos_dispatched" }
func (VideoSucceeded) Name() string      { return "video_succeeded" }
func (VideoFailed) Name() string         { return "video_failed" }
