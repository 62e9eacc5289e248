package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/phrazzld/posterdrop/internal/api/shared"
	"github.com/phrazzld/posterdrop/internal/dataurl"
	"github.com/phrazzld/posterdrop/internal/domain"
	"github.com/phrazzld/posterdrop/internal/workflow"
)

// UploadField is the multipart field carrying the product image.
const UploadField = "image"

// multipartOverhead leaves room for multipart framing around the image.
const multipartOverhead = 1 << 20

// WorkflowService is the set of workflow intents served over HTTP.
type WorkflowService interface {
	Upload(ctx context.Context, r io.Reader) error
	EditSlogan(text string) error
	SelectAspectRatio(value string) error
	AddPrompt(text string) error
	RemovePrompt(text string) error
	GeneratePoster(ctx context.Context) error
	GenerateVideos(ctx context.Context) ([]domain.VideoTask, error)
	StartOver(ctx context.Context) error
	State() (workflow.State, error)
}

// WorkflowHandler handles the poster and video workflow requests
type WorkflowHandler struct {
	service WorkflowService
	logger  *slog.Logger
}

// NewWorkflowHandler creates a new WorkflowHandler
func NewWorkflowHandler(service WorkflowService, logger *slog.Logger) *WorkflowHandler {
	return &WorkflowHandler{
		service: service,
		logger:  logger.With("component", "workflow_handler"),
	}
}

// GetState handles GET /api/state
func (h *WorkflowHandler) GetState(w http.ResponseWriter, r *http.Request) {
	h.respondWithState(w, r, http.StatusOK)
}

// Upload handles POST /api/upload with the image in the "image" multipart field.
func (h *WorkflowHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, dataurl.MaxUploadBytes+multipartOverhead)

	file, _, err := r.FormFile(UploadField)
	if err != nil {
		h.logger.DebugContext(r.Context(), "upload without image field", "error", err)
		shared.RespondWithError(w, r, http.StatusBadRequest, "Multipart field \"image\" is required")
		return
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			h.logger.WarnContext(r.Context(), "failed to close upload", "error", cerr)
		}
	}()

	if err := h.service.Upload(r.Context(), file); err != nil {
		HandleAPIError(w, r, err, workflow.MessageUploadFailed)
		return
	}
	h.respondWithState(w, r, http.StatusOK)
}

// UpdateSlogan handles PUT /api/slogan
func (h *WorkflowHandler) UpdateSlogan(w http.ResponseWriter, r *http.Request) {
	var req SloganRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.service.EditSlogan(req.Slogan); err != nil {
		HandleAPIError(w, r, err, "Failed to update slogan")
		return
	}
	h.respondWithState(w, r, http.StatusOK)
}

// UpdateAspectRatio handles PUT /api/aspect-ratio
func (h *WorkflowHandler) UpdateAspectRatio(w http.ResponseWriter, r *http.Request) {
	var req AspectRatioRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.service.SelectAspectRatio(req.AspectRatio); err != nil {
		HandleAPIError(w, r, err, "Failed to update aspect ratio")
		return
	}
	h.respondWithState(w, r, http.StatusOK)
}

// AddPrompt handles POST /api/prompts
func (h *WorkflowHandler) AddPrompt(w http.ResponseWriter, r *http.Request) {
	var req PromptRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.service.AddPrompt(req.Prompt); err != nil {
		HandleAPIError(w, r, err, "Failed to add location")
		return
	}
	h.respondWithState(w, r, http.StatusOK)
}

// RemovePrompt handles DELETE /api/prompts
func (h *WorkflowHandler) RemovePrompt(w http.ResponseWriter, r *http.Request) {
	var req PromptRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.service.RemovePrompt(req.Prompt); err != nil {
		HandleAPIError(w, r, err, "Failed to remove location")
		return
	}
	h.respondWithState(w, r, http.StatusOK)
}

// GeneratePoster handles POST /api/poster. Generation continues in the
// background, so the response is 202 with the loading state.
func (h *WorkflowHandler) GeneratePoster(w http.ResponseWriter, r *http.Request) {
	// The request context ends with the response; the task must outlive it.
	if err := h.service.GeneratePoster(context.WithoutCancel(r.Context())); err != nil {
		HandleAPIError(w, r, err, "Failed to start poster generation")
		return
	}
	h.respondWithState(w, r, http.StatusAccepted)
}

// GenerateVideos handles POST /api/videos and returns the dispatched tasks with 202.
func (h *WorkflowHandler) GenerateVideos(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.service.GenerateVideos(context.WithoutCancel(r.Context()))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to start video generation")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusAccepted, VideosResponse{Tasks: tasks})
}

// Reset handles POST /api/reset
func (h *WorkflowHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.service.StartOver(r.Context()); err != nil {
		HandleAPIError(w, r, err, "Failed to reset workflow")
		return
	}
	h.respondWithState(w, r, http.StatusOK)
}

func (h *WorkflowHandler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	err := shared.DecodeAndValidate(r, v)
	if err == nil {
		return true
	}

	if MapErrorToStatusCode(err) == http.StatusInternalServerError {
		// Malformed JSON is a client error too.
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", errors.Unwrap(err))
		return false
	}
	HandleAPIError(w, r, err, "")
	return false
}

func (h *WorkflowHandler) respondWithState(w http.ResponseWriter, r *http.Request, status int) {
	state, err := h.service.State()
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load state")
		return
	}
	shared.RespondWithJSON(w, r, status, state)
}
