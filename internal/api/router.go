package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/posterdrop/internal/api/middleware"
)

// Gate is the access gate as the router uses it.
type Gate interface {
	AccessController
	middleware.Authorizer
}

// RouterConfig holds the dependencies of the HTTP router.
type RouterConfig struct {
	Logger   *slog.Logger
	Gate     Gate
	Workflow WorkflowService

	// Metrics serves GET /metrics when set.
	Metrics http.Handler
}

// NewRouter creates the application router with all routes and middleware.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewTraceMiddleware(cfg.Logger))

	accessHandler := NewAccessHandler(cfg.Gate, cfg.Logger)
	workflowHandler := NewWorkflowHandler(cfg.Workflow, cfg.Logger)
	accessMiddleware := middleware.NewAccessMiddleware(cfg.Gate)

	r.Route("/api", func(r chi.Router) {
		r.Get("/access", accessHandler.GetAccess)
		r.Post("/access", accessHandler.RequestAccess)

		r.Group(func(r chi.Router) {
			r.Use(accessMiddleware.RequireAccess)

			r.Get("/state", workflowHandler.GetState)
			r.Post("/upload", workflowHandler.Upload)
			r.Put("/slogan", workflowHandler.UpdateSlogan)
			r.Put("/aspect-ratio", workflowHandler.UpdateAspectRatio)
			r.Post("/prompts", workflowHandler.AddPrompt)
			r.Delete("/prompts", workflowHandler.RemovePrompt)
			r.Post("/poster", workflowHandler.GeneratePoster)
			r.Post("/videos", workflowHandler.GenerateVideos)
			r.Post("/reset", workflowHandler.Reset)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			cfg.Logger.Error("Failed to write health check response", "error", err)
		}
	})

	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	return r
}
