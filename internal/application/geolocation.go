package application

import (
	"sync"

	"github.com/routecast/service-routes/internal/domain/route"
	"github.com/routecast/service-routes/internal/platform/domain"
)

// OriginStatus is the state of a session's one-shot geolocation.
type OriginStatus string

const (
	OriginPending     OriginStatus = "pending"
	OriginResolved    OriginStatus = "resolved"
	OriginUnavailable OriginStatus = "unavailable"
)

// GeolocationSource holds the user's position as reported once by the browser.
// It settles at most once; there is no retry.
type GeolocationSource struct {
	mu       sync.Mutex
	status   OriginStatus
	position route.Position
}

// NewGeolocationSource creates a pending source.
func NewGeolocationSource() *GeolocationSource {
	return &GeolocationSource{status: OriginPending}
}

// Resolve settles the source with the user's position.
func (g *GeolocationSource) Resolve(pos route.Position) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.status != OriginPending {
		return domain.NewInvalidStateError(string(g.status), string(OriginResolved))
	}
	g.status = OriginResolved
	g.position = pos
	return nil
}

// MarkUnavailable settles the source as permanently unavailable.
func (g *GeolocationSource) MarkUnavailable() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.status != OriginPending {
		return domain.NewInvalidStateError(string(g.status), string(OriginUnavailable))
	}
	g.status = OriginUnavailable
	return nil
}

// Origin returns the resolved position, a PreconditionError while pending, or
// a GeolocationUnavailableError once the capability has been reported missing.
func (g *GeolocationSource) Origin() (route.Position, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	switch g.status {
	case OriginResolved:
		return g.position, nil
	case OriginUnavailable:
		return route.Position{}, &route.GeolocationUnavailableError{}
	default:
		return route.Position{}, &route.PreconditionError{Notice: route.NoticeMissingOrigin}
	}
}

// Status returns the current state and, when resolved, the position.
func (g *GeolocationSource) Status() (OriginStatus, *route.Position) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.status == OriginResolved {
		pos := g.position
		return g.status, &pos
	}
	return g.status, nil
}
