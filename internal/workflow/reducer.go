package workflow

import (
	"slices"

	"github.com/google/uuid"
	"github.com/phrazzld/posterdrop/internal/domain"
)

// Reduce returns the state that results from applying action to s.
// It never modifies s or any slice reachable from it. Settlements that do
// not match a live request, and unknown actions, return s unchanged.
func Reduce(s State, action Action) State {
	switch a := action.(type) {
	case Reset:
		return DefaultState(a.Defaults)

	case ImageUploaded:
		s.ProductImage = a.DataURL
		return s

	case UploadFailed:
		s.Error = MessageUploadFailed
		return s

	case SloganEdited:
		s.PosterSlogan = a.Text
		return s

	case AspectRatioSelected:
		if !a.Ratio.IsValid() {
			return s
		}
		s.PosterAspectRatio = a.Ratio
		return s

	case PromptAdded:
		if a.Text == "" || slices.Contains(s.LocationPrompts, a.Text) {
			return s
		}
		prompts := make([]string, 0, len(s.LocationPrompts)+1)
		s.LocationPrompts = append(append(prompts, s.LocationPrompts...), a.Text)
		return s

	case PromptRemoved:
		if !slices.Contains(s.LocationPrompts, a.Text) {
			return s
		}
		s.LocationPrompts = slices.DeleteFunc(slices.Clone(s.LocationPrompts), func(p string) bool {
			return p == a.Text
		})
		return s

	case PosterStarted:
		s.IsLoadingPoster = true
		s.GeneratedPoster = ""
		s.Error = ""
		s.posterRequestID = a.RequestID
		return s

	case PosterSucceeded:
		if !posterPending(s, a.RequestID) {
			return s
		}
		s.GeneratedPoster = a.Poster
		s.IsLoadingPoster = false
		return s

	case PosterFailed:
		if !posterPending(s, a.RequestID) {
			return s
		}
		s.Error = MessagePosterFailed
		s.IsLoadingPoster = false
		return s

	case VideosDispatched:
		s.GeneratedVideos = slices.Clone(a.Tasks)
		s.Error = ""
		return s

	case VideoSucceeded:
		i := s.videoIndex(a.ID)
		if i < 0 || s.GeneratedVideos[i].Status.IsTerminal() {
			return s
		}
		s.GeneratedVideos = slices.Clone(s.GeneratedVideos)
		s.GeneratedVideos[i].Status = domain.VideoStatusCompleted
		s.GeneratedVideos[i].URL = a.URL
		return s

	case VideoFailed:
		i := s.videoIndex(a.ID)
		if i < 0 || s.GeneratedVideos[i].Status.IsTerminal() {
			return s
		}
		s.GeneratedVideos = slices.Clone(s.GeneratedVideos)
		s.GeneratedVideos[i].Status = domain.VideoStatusFailed
		s.GeneratedVideos[i].URL = ""
		s.Error = appendError(s.Error, VideoFailureMessage(s.GeneratedVideos[i].Prompt))
		return s

	default:
		return s
	}
}

func posterPending(s State, requestID uuid.UUID) bool {
	return s.IsLoadingPoster && s.posterRequestID == requestID
}

func videoPending(s State, id uuid.UUID) bool {
	i := s.videoIndex(id)
	return i >= 0 && !s.GeneratedVideos[i].Status.IsTerminal()
}
