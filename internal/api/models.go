package api

import (
	"github.com/phrazzld/posterdrop/internal/access"
	"github.com/phrazzld/posterdrop/internal/domain"
)

// SloganRequest is the body of PUT /api/slogan.
type SloganRequest struct {
	Slogan string `json:"slogan" validate:"max=280"`
}

// AspectRatioRequest is the body of PUT /api/aspect-ratio.
type AspectRatioRequest struct {
	AspectRatio string `json:"aspect_ratio" validate:"required,oneof=1:1 16:9 9:16 4:3 3:4"`
}

// PromptRequest is the body of POST and DELETE /api/prompts.
type PromptRequest struct {
	Prompt string `json:"prompt" validate:"required,max=500"`
}

// AccessResponse reports the access gate state.
type AccessResponse struct {
	State         access.State `json:"state"`
	Authenticated bool         `json:"authenticated"`
}

// VideosResponse lists the tasks of a freshly dispatched batch.
type VideosResponse struct {
	Tasks []domain.VideoTask `json:"tasks"`
}

func accessResponse(state access.State) AccessResponse {
	return AccessResponse{
		State:         state,
		Authenticated: state == access.StateAuthenticated,
	}
}
