package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the workflow.
const (
	TypePosterStarted   = "poster.started"
	TypePosterCompleted = "poster.completed"
	TypePosterFailed    = "poster.failed"
	TypePosterStale     = "poster.stale"

	TypeVideosDispatched = "videos.dispatched"
	TypeVideoCompleted   = "video.completed"
	TypeVideoFailed      = "video.failed"
	TypeVideoStale       = "video.stale"

	TypeAccessInvalidated = "access.invalidated"
	TypeWorkflowReset     = "workflow.reset"
)

// Event is a notification about something that happened in the workflow.
type Event struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the Type* constants
	Type string `json:"type"`

	// Payload contains the event-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// VideoPayload describes a video task an event refers to.
type VideoPayload struct {
	TaskID uuid.UUID `json:"task_id"`
	Prompt string    `json:"prompt"`
}

// BatchPayload describes a dispatched batch.
type BatchPayload struct {
	TaskIDs []uuid.UUID `json:"task_ids"`
}

// PosterPayload describes a poster request.
type PosterPayload struct {
	RequestID uuid.UUID `json:"request_id"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *Event) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewEvent creates a new Event with the specified type and payload.
func NewEvent(eventType string, payload interface{}) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payloadBytes,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *Event) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *Event) error
}

// HandlerFunc adapts an ordinary function to the EventHandler interface.
type HandlerFunc func(ctx context.Context, event *Event) error

// HandleEvent calls f(ctx, event).
func (f HandlerFunc) HandleEvent(ctx context.Context, event *Event) error {
	return f(ctx, event)
}
