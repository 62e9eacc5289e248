package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// VideoStatus represents the generation state of a single location video.
type VideoStatus string

// Possible video status values.
//
// VideoStatusPending is declared for completeness of the status vocabulary but
// no workflow transition assigns it: tasks are created directly in the
// generating state.
const (
	VideoStatusPending    VideoStatus = "pending"
	VideoStatusGenerating VideoStatus = "generating"
	VideoStatusCompleted  VideoStatus = "completed"
	VideoStatusFailed     VideoStatus = "failed"
)

// IsValid reports whether s is a known status value.
func (s VideoStatus) IsValid() bool {
	switch s {
	case VideoStatusPending, VideoStatusGenerating, VideoStatusCompleted, VideoStatusFailed:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether s is a final status that can no longer change.
func (s VideoStatus) IsTerminal() bool {
	return s == VideoStatusCompleted || s == VideoStatusFailed
}

// VideoTask tracks one location video within a dispatch batch.
type VideoTask struct {
	// ID correlates a later settlement with the task it belongs to.
	ID uuid.UUID `json:"id"`

	// Prompt is the location the video was dispatched for.
	Prompt string `json:"prompt"`

	// URL is the result handle. Empty until the task completes.
	URL string `json:"url,omitempty"`

	Status VideoStatus `json:"status"`
}

// NewVideoTask creates a task for prompt in the generating state with a
// fresh correlation id.
func NewVideoTask(prompt string) (VideoTask, error) {
	task := VideoTask{
		ID:     uuid.New(),
		Prompt: prompt,
		Status: VideoStatusGenerating,
	}

	if err := task.Validate(); err != nil {
		return VideoTask{}, err
	}

	return task, nil
}

// Validate checks that the task has an id, a prompt and a known status.
func (t VideoTask) Validate() error {
	if t.ID == uuid.Nil {
		return fmt.Errorf("%w: video task id cannot be empty", ErrValidation)
	}
	if t.Prompt == "" {
		return fmt.Errorf("%w: %v", ErrValidation, ErrEmptyPrompt)
	}
	if !t.Status.IsValid() {
		return fmt.Errorf("%w: %v %q", ErrValidation, ErrInvalidVideoStatus, t.Status)
	}
	return nil
}
