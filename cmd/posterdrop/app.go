package main

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/posterdrop/internal/access"
	"github.com/phrazzld/posterdrop/internal/api"
	"github.com/phrazzld/posterdrop/internal/config"
	"github.com/phrazzld/posterdrop/internal/events"
	"github.com/phrazzld/posterdrop/internal/generation"
	"github.com/phrazzld/posterdrop/internal/metrics"
	"github.com/phrazzld/posterdrop/internal/platform/gemini"
	"github.com/phrazzld/posterdrop/internal/redact"
	"github.com/phrazzld/posterdrop/internal/task"
	"github.com/phrazzld/posterdrop/internal/workflow"
)

// fallbackKeyEnv is consulted when no key is configured.
const fallbackKeyEnv = "GEMINI_API_KEY"

// serviceFactory builds the poster and video services bound to keys.
type serviceFactory func(
	cfg *config.Config,
	keys gemini.APIKeyProvider,
	logger *slog.Logger,
) (generation.PosterService, generation.VideoService, error)

func geminiServices(
	cfg *config.Config,
	keys gemini.APIKeyProvider,
	logger *slog.Logger,
) (generation.PosterService, generation.VideoService, error) {
	posters, err := gemini.NewPosterGenerator(cfg.LLM, keys, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create poster generator: %w", err)
	}
	videos, err := gemini.NewVideoGenerator(cfg.LLM, keys, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create video generator: %w", err)
	}
	return posters, videos, nil
}

// application holds the wired dependencies shared by every command.
type application struct {
	config   *config.Config
	logger   *slog.Logger
	keys     *gemini.CredentialProvider
	gate     *access.Gate
	runner   *task.Runner
	emitter  *events.InMemoryEventEmitter
	metrics  *metrics.Recorder
	workflow *workflow.Service

	httpClient *http.Client
}

func newApplication(cfg *config.Config, logger *slog.Logger, services serviceFactory) (*application, error) {
	defaults, err := workflow.DefaultsFromConfig(cfg.Workflow)
	if err != nil {
		return nil, fmt.Errorf("invalid workflow defaults: %w", err)
	}

	keys := gemini.NewCredentialProvider(logger,
		gemini.StaticKey(cfg.LLM.GeminiAPIKey),
		gemini.EnvKey(fallbackKeyEnv))

	gate := access.NewGate(keys, logger)
	gate.OnInvalidate(keys.Clear)

	posters, videos, err := services(cfg, keys, logger)
	if err != nil {
		return nil, err
	}

	recorder := metrics.NewRecorder(logger)
	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(recorder)

	runner := task.NewRunner(logger)
	runner.SetSettleHook(func(t task.Task, err error) {
		if err != nil {
			logger.Debug("task settled with error", "task_id", t.ID(), "task_type", t.Type(), "error", redact.Error(err))
			return
		}
		logger.Debug("task settled", "task_id", t.ID(), "task_type", t.Type())
	})

	svc := workflow.NewService(gate, runner, posters, videos, emitter, defaults, logger,
		workflow.WithMaxConcurrentVideos(cfg.Workflow.MaxConcurrentVideos))

	return &application{
		config:   cfg,
		logger:   logger,
		keys:     keys,
		gate:     gate,
		runner:   runner,
		emitter:  emitter,
		metrics:  recorder,
		workflow: svc,

		httpClient: &http.Client{},
	}, nil
}

func (app *application) router() http.Handler {
	return api.NewRouter(api.RouterConfig{
		Logger:   app.logger,
		Gate:     app.gate,
		Workflow: app.workflow,
		Metrics:  app.metrics.Handler(),
	})
}

// cleanup cancels outstanding generation tasks and waits for them to settle.
func (app *application) cleanup() {
	app.runner.Stop()
	app.logger.Info("generation tasks stopped")
}
