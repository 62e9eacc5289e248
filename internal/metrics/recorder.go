package metrics

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/phrazzld/posterdrop/internal/events"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "posterdrop"

// Outcome label values.
const (
	OutcomeStarted   = "started"
	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"
	OutcomeStale     = "stale"
)

// Recorder turns workflow events into Prometheus metrics.
type Recorder struct {
	registry *prometheus.Registry
	logger   *slog.Logger

	posterGenerations  *prometheus.CounterVec
	videoTasks         *prometheus.CounterVec
	videoTasksInFlight prometheus.Gauge
	accessInvalidated  prometheus.Counter
}

var _ events.EventHandler = (*Recorder)(nil)

// NewRecorder creates a Recorder with its own registry.
func NewRecorder(logger *slog.Logger) *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		logger:   logger.With("component", "metrics_recorder"),
		posterGenerations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "poster_generations_total",
			Help:      "Poster generation requests by outcome.",
		}, []string{"outcome"}),
		videoTasks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "video_tasks_total",
			Help:      "Video tasks by outcome.",
		}, []string{"outcome"}),
		videoTasksInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "video_tasks_in_flight",
			Help:      "Video tasks dispatched and not yet settled.",
		}),
		accessInvalidated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "access_invalidations_total",
			Help:      "Times the selected API key was rejected and access revoked.",
		}),
	}

	r.registry.MustRegister(
		r.posterGenerations,
		r.videoTasks,
		r.videoTasksInFlight,
		r.accessInvalidated,
	)
	return r
}

// HandleEvent implements events.EventHandler.
func (r *Recorder) HandleEvent(ctx context.Context, event *events.Event) error {
	switch event.Type {
	case events.TypePosterStarted:
		r.posterGenerations.WithLabelValues(OutcomeStarted).Inc()
	case events.TypePosterCompleted:
		r.posterGenerations.WithLabelValues(OutcomeCompleted).Inc()
	case events.TypePosterFailed:
		r.posterGenerations.WithLabelValues(OutcomeFailed).Inc()
	case events.TypePosterStale:
		r.posterGenerations.WithLabelValues(OutcomeStale).Inc()

	case events.TypeVideosDispatched:
		var batch events.BatchPayload
		if err := event.UnmarshalPayload(&batch); err != nil {
			r.logger.WarnContext(ctx, "failed to decode batch payload", "event_id", event.ID, "error", err)
			return err
		}
		r.videoTasks.WithLabelValues(OutcomeStarted).Add(float64(len(batch.TaskIDs)))
		r.videoTasksInFlight.Add(float64(len(batch.TaskIDs)))
	case events.TypeVideoCompleted:
		r.settleVideo(OutcomeCompleted)
	case events.TypeVideoFailed:
		r.settleVideo(OutcomeFailed)
	case events.TypeVideoStale:
		r.settleVideo(OutcomeStale)

	case events.TypeAccessInvalidated:
		r.accessInvalidated.Inc()
	}
	return nil
}

func (r *Recorder) settleVideo(outcome string) {
	r.videoTasks.WithLabelValues(outcome).Inc()
	r.videoTasksInFlight.Dec()
}

// Registry returns the registry the recorder's collectors live in.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the recorder's metrics in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
