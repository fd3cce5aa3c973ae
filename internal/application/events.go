package application

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Route event types.
const (
	EventSessionCreated = "route.session.created"
	EventOriginResolved = "route.origin.resolved"
	EventSetReplaced    = "route.set.replaced"
	EventRequestFailed  = "route.request.failed"
	EventRouteSelected  = "route.selected"
)

// EventPublisher emits route events. Publishing is best-effort: implementations
// log failures instead of returning them.
type EventPublisher interface {
	Publish(ctx context.Context, eventType, key string, data interface{})
}

// ViewListener is told about every change to a session's view and about
// sessions going away.
type ViewListener interface {
	ViewChanged(view SessionView)
	SessionClosed(id uuid.UUID)
}

// SessionCreatedEvent is published when a session starts.
type SessionCreatedEvent struct {
	SessionID  uuid.UUID `json:"session_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// OriginResolvedEvent is published when the browser reports its geolocation.
type OriginResolvedEvent struct {
	SessionID  uuid.UUID    `json:"session_id"`
	Status     OriginStatus `json:"status"`
	Lat        float64      `json:"lat,omitempty"`
	Lng        float64      `json:"lng,omitempty"`
	OccurredAt time.Time    `json:"occurred_at"`
}

// RouteSetReplacedEvent is published when a new RouteSet is displayed.
type RouteSetReplacedEvent struct {
	SessionID   uuid.UUID `json:"session_id"`
	Generation  uint64    `json:"generation"`
	Destination string    `json:"destination"`
	Mode        string    `json:"mode"`
	Labels      []string  `json:"labels"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// RouteRequestFailedEvent is published when the provider rejects a request.
type RouteRequestFailedEvent struct {
	SessionID   uuid.UUID `json:"session_id"`
	Generation  uint64    `json:"generation"`
	Destination string    `json:"destination"`
	Mode        string    `json:"mode"`
	Status      string    `json:"status"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// RouteSelectedEvent is published when the user selects a route.
type RouteSelectedEvent struct {
	SessionID    uuid.UUID `json:"session_id"`
	Generation   uint64    `json:"generation"`
	Label        string    `json:"label"`
	DistanceText string    `json:"distance_text"`
	DurationText string    `json:"duration_text"`
	OccurredAt   time.Time `json:"occurred_at"`
}
