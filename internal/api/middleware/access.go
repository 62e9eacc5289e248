package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/phrazzld/posterdrop/internal/access"
	"github.com/phrazzld/posterdrop/internal/api/shared"
	"github.com/phrazzld/posterdrop/internal/redact"
)

// Authorizer reports whether the workflow may currently proceed.
type Authorizer interface {
	Require() error
}

// AccessMiddleware rejects requests while no API key is selected.
type AccessMiddleware struct {
	gate Authorizer
}

// NewAccessMiddleware creates a new AccessMiddleware with the given gate.
func NewAccessMiddleware(gate Authorizer) *AccessMiddleware {
	return &AccessMiddleware{gate: gate}
}

// RequireAccess responds 403 until access has been granted.
func (m *AccessMiddleware) RequireAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := m.gate.Require(); err != nil {
			if errors.Is(err, access.ErrAccessDenied) {
				shared.RespondWithError(w, r, http.StatusForbidden, "Access required: select an API key first")
				return
			}
			slog.ErrorContext(r.Context(), "failed to check access", "error", redact.Error(err))
			shared.RespondWithError(w, r, http.StatusInternalServerError, "Access check failed")
			return
		}

		next.ServeHTTP(w, r)
	})
}
