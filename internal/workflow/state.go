package workflow

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/phrazzld/posterdrop/internal/config"
	"github.com/phrazzld/posterdrop/internal/domain"
)

// User-facing error messages written into State.Error.
const (
	MessageUploadFailed = "Failed to load image."
	MessagePosterFailed = "Failed to generate poster. Please try again."
)

// DefaultSlogan is the slogan a new session starts with.
const DefaultSlogan = "Your Brand, Everywhere."

// VideoFailureMessage is the message appended to State.Error when the video
// for prompt fails.
func VideoFailureMessage(prompt string) string {
	return fmt.Sprintf(`Failed video for "%s".`, prompt)
}

// Defaults are the values State is initialized with and reset to.
type Defaults struct {
	Slogan      string
	AspectRatio domain.AspectRatio
	Locations   []string
}

// StandardDefaults returns the built-in defaults.
func StandardDefaults() Defaults {
	return Defaults{
		Slogan:      DefaultSlogan,
		AspectRatio: domain.AspectRatioSquare,
		Locations:   slices.Clone(config.DefaultLocations),
	}
}

// DefaultsFromConfig builds Defaults from the workflow configuration,
// falling back to the built-in value for any field left empty.
func DefaultsFromConfig(cfg config.WorkflowConfig) (Defaults, error) {
	d := StandardDefaults()

	if cfg.DefaultSlogan != "" {
		d.Slogan = cfg.DefaultSlogan
	}
	if cfg.DefaultAspectRatio != "" {
		ratio, err := domain.ParseAspectRatio(cfg.DefaultAspectRatio)
		if err != nil {
			return Defaults{}, err
		}
		d.AspectRatio = ratio
	}
	if len(cfg.DefaultLocations) > 0 {
		d.Locations = slices.Clone(cfg.DefaultLocations)
	}

	return d, nil
}

// State is the complete workflow read model. Empty strings stand for
// "not set" in ProductImage, GeneratedPoster and Error.
type State struct {
	ProductImage      string             `json:"product_image,omitempty"`
	PosterAspectRatio domain.AspectRatio `json:"poster_aspect_ratio"`
	PosterSlogan      string             `json:"poster_slogan"`
	GeneratedPoster   string             `json:"generated_poster,omitempty"`
	LocationPrompts   []string           `json:"location_prompts"`
	GeneratedVideos   []domain.VideoTask `json:"generated_videos"`
	IsLoadingPoster   bool               `json:"is_loading_poster"`
	Error             string             `json:"error,omitempty"`

	// posterRequestID correlates the in-flight poster settlement.
	posterRequestID uuid.UUID
}

// DefaultState returns a fresh state built from d.
func DefaultState(d Defaults) State {
	return State{
		PosterAspectRatio: d.AspectRatio,
		PosterSlogan:      d.Slogan,
		LocationPrompts:   slices.Clone(d.Locations),
		GeneratedVideos:   []domain.VideoTask{},
	}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	c := s
	c.LocationPrompts = slices.Clone(s.LocationPrompts)
	c.GeneratedVideos = slices.Clone(s.GeneratedVideos)
	return c
}

// VideosInFlight reports whether any video task is still generating.
func (s State) VideosInFlight() bool {
	for _, v := range s.GeneratedVideos {
		if v.Status == domain.VideoStatusGenerating {
			return true
		}
	}
	return false
}

// Video returns the live task with the given id.
func (s State) Video(id uuid.UUID) (domain.VideoTask, bool) {
	i := s.videoIndex(id)
	if i < 0 {
		return domain.VideoTask{}, false
	}
	return s.GeneratedVideos[i], true
}

func (s State) videoIndex(id uuid.UUID) int {
	return slices.IndexFunc(s.GeneratedVideos, func(v domain.VideoTask) bool {
		return v.ID == id
	})
}

func appendError(current, message string) string {
	if current == "" {
		return message
	}
	return current + "\n" + message
}
