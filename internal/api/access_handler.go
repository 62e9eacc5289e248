package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/phrazzld/posterdrop/internal/access"
	"github.com/phrazzld/posterdrop/internal/api/shared"
)

// AccessController is the part of access.Gate the API drives.
type AccessController interface {
	Check(ctx context.Context) access.State
	Request(ctx context.Context) error
}

// AccessHandler exposes the access gate.
type AccessHandler struct {
	gate   AccessController
	logger *slog.Logger
}

// NewAccessHandler creates a new AccessHandler
func NewAccessHandler(gate AccessController, logger *slog.Logger) *AccessHandler {
	return &AccessHandler{
		gate:   gate,
		logger: logger.With("component", "access_handler"),
	}
}

// GetAccess handles GET /api/access
func (h *AccessHandler) GetAccess(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, accessResponse(h.gate.Check(r.Context())))
}

// RequestAccess handles POST /api/access by running the key selection flow.
func (h *AccessHandler) RequestAccess(w http.ResponseWriter, r *http.Request) {
	if err := h.gate.Request(r.Context()); err != nil {
		HandleAPIError(w, r, err, "Failed to request access")
		return
	}

	h.logger.InfoContext(r.Context(), "access granted", "trace_id", shared.GetTraceID(r.Context()))
	shared.RespondWithJSON(w, r, http.StatusOK, accessResponse(access.StateAuthenticated))
}
