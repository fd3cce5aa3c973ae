package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/routecast/service-routes/internal/domain/panel"
	"github.com/routecast/service-routes/internal/domain/route"
	"github.com/routecast/service-routes/internal/domain/weather"
	"github.com/routecast/service-routes/internal/platform/domain"
)

// ControllerDeps are the collaborators shared by every controller.
type ControllerDeps struct {
	Routes         route.Provider
	Weather        weather.Provider
	Publisher      EventPublisher
	Listener       ViewListener
	Logger         *zap.Logger
	Now            func() time.Time
	WeatherTimeout time.Duration
}

// RouteSetController owns one session's displayed RouteSet, its selection and
// its info panel. Every new request discards the previous set before the
// provider is called.
//
// Route and weather responses are tagged with a generation. A response whose
// generation is no longer current is dropped, so a slow earlier answer never
// overwrites a later one.
type RouteSetController struct {
	sessionID uuid.UUID
	geo       *GeolocationSource
	deps      ControllerDeps
	logger    *zap.Logger

	mu           sync.Mutex
	set          *route.RouteSet
	selection    route.Selection
	panel        panel.InfoPanel
	notice       string
	destination  string
	mode         route.TravelMode
	generation   uint64
	selectionGen uint64
	revision     uint64
	updatedAt    time.Time

	weatherWG sync.WaitGroup
}

// NewRouteSetController creates a controller for one session.
func NewRouteSetController(sessionID uuid.UUID, geo *GeolocationSource, deps ControllerDeps) *RouteSetController {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.WeatherTimeout <= 0 {
		deps.WeatherTimeout = 5 * time.Second
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &RouteSetController{
		sessionID: sessionID,
		geo:       geo,
		deps:      deps,
		logger:    deps.Logger.With(zap.String("session_id", sessionID.String())),
		revision:  1,
		updatedAt: deps.Now().UTC(),
	}
}

// ResolveOrigin records the browser's one-shot position and centres the view on it.
func (c *RouteSetController) ResolveOrigin(ctx context.Context, pos route.Position) (*SessionView, error) {
	if err := c.geo.Resolve(pos); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.touchLocked()
	view := c.viewLocked()
	c.mu.Unlock()

	c.notify(view)
	c.publish(ctx, EventOriginResolved, OriginResolvedEvent{
		SessionID:  c.sessionID,
		Status:     OriginResolved,
		Lat:        pos.Lat,
		Lng:        pos.Lng,
		OccurredAt: time.Now().UTC(),
	})
	return &view, nil
}

// OriginUnavailable records that the browser cannot provide a position.
// Route requests stay blocked for the rest of the session.
func (c *RouteSetController) OriginUnavailable(ctx context.Context) (*SessionView, error) {
	if err := c.geo.MarkUnavailable(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.notice = route.NoticeGeolocationMissing
	c.touchLocked()
	view := c.viewLocked()
	c.mu.Unlock()

	c.notify(view)
	c.publish(ctx, EventOriginResolved, OriginResolvedEvent{
		SessionID:  c.sessionID,
		Status:     OriginUnavailable,
		OccurredAt: time.Now().UTC(),
	})
	return &view, nil
}

// RequestRoutes asks the provider for routes to destination and displays up
// to route.MaxRoutes of them.
func (c *RouteSetController) RequestRoutes(ctx context.Context, destination string, mode route.TravelMode) (*SessionView, error) {
	if !mode.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid travel mode: %s", mode))
	}

	origin, err := c.geo.Origin()
	if err != nil {
		c.setNotice(route.NoticeFor(err))
		return nil, err
	}
	destination = strings.TrimSpace(destination)
	if destination == "" {
		err := &route.PreconditionError{Notice: route.NoticeMissingDestination}
		c.setNotice(err.Notice)
		return nil, err
	}

	// Discard the previous set before the provider is called so a failed
	// request leaves the map empty rather than stale.
	c.mu.Lock()
	c.clearLocked()
	c.generation++
	gen := c.generation
	c.destination = destination
	c.mode = mode
	c.touchLocked()
	cleared := c.viewLocked()
	c.mu.Unlock()
	c.notify(cleared)

	req := route.NewRequest(origin, destination, mode, c.deps.Now())
	resp, err := c.deps.Routes.Route(ctx, req)
	if err == nil && len(resp.Routes) == 0 {
		err = route.NewRoutingError(route.StatusZeroResults, nil)
	}

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		c.logger.Info("discarding superseded route response",
			zap.Uint64("generation", gen),
		)
		return nil, route.ErrSuperseded
	}

	if err != nil {
		var routingErr *route.RoutingError
		if !errors.As(err, &routingErr) {
			routingErr = route.NewRoutingError(route.StatusUnknownError, err)
			err = routingErr
		}
		c.notice = routingErr.Notice()
		c.touchLocked()
		view := c.viewLocked()
		c.mu.Unlock()

		c.logger.Warn("route request failed",
			zap.String("status", routingErr.Status),
			zap.String("mode", mode.String()),
			zap.Error(err),
		)
		c.notify(view)
		c.publish(ctx, EventRequestFailed, RouteRequestFailedEvent{
			SessionID:   c.sessionID,
			Generation:  gen,
			Destination: destination,
			Mode:        mode.String(),
			Status:      routingErr.Status,
			OccurredAt:  time.Now().UTC(),
		})
		return nil, err
	}

	c.set = route.NewRouteSet(resp.Routes)
	if c.set.Len() == 1 {
		c.notice = route.NoticeSingleRoute
	}
	c.touchLocked()
	view := c.viewLocked()
	labels := c.set.Labels()
	c.mu.Unlock()

	c.logger.Info("route set replaced",
		zap.Uint64("generation", gen),
		zap.Int("returned", len(resp.Routes)),
		zap.Int("displayed", len(labels)),
		zap.String("mode", mode.String()),
	)
	c.notify(view)
	c.publish(ctx, EventSetReplaced, RouteSetReplacedEvent{
		SessionID:   c.sessionID,
		Generation:  gen,
		Destination: destination,
		Mode:        mode.String(),
		Labels:      labels,
		OccurredAt:  time.Now().UTC(),
	})
	return &view, nil
}

// Select emphasizes the route at index, writes its metrics into the info panel
// and starts a weather fetch for its end position. An index outside the
// current set is ignored. Selecting the current route again is harmless.
func (c *RouteSetController) Select(ctx context.Context, index int) *SessionView {
	c.mu.Lock()
	if !c.set.Contains(index) {
		view := c.viewLocked()
		c.mu.Unlock()
		c.logger.Debug("ignoring selection outside route set", zap.Int("index", index))
		return &view
	}

	if !c.selection.Is(index) {
		c.panel.Weather = ""
	}
	c.selection = route.Select(index)
	candidate := c.set.At(index)
	c.panel.DisplaySelection(candidate, index)
	c.selectionGen++
	selGen := c.selectionGen
	gen := c.generation
	c.touchLocked()
	view := c.viewLocked()
	c.mu.Unlock()

	c.notify(view)
	c.fetchWeather(selGen, candidate.EndPosition())
	c.publish(ctx, EventRouteSelected, RouteSelectedEvent{
		SessionID:    c.sessionID,
		Generation:   gen,
		Label:        route.Label(index),
		DistanceText: candidate.DistanceText(),
		DurationText: candidate.DurationText(),
		OccurredAt:   time.Now().UTC(),
	})
	return &view
}

// View returns the current view.
func (c *RouteSetController) View() SessionView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

// Clear discards the displayed set, the selection and the panel text.
func (c *RouteSetController) Clear() {
	c.mu.Lock()
	c.clearLocked()
	c.generation++
	c.touchLocked()
	view := c.viewLocked()
	c.mu.Unlock()
	c.notify(view)
}

// WaitForWeather blocks until every weather fetch started so far has finished.
func (c *RouteSetController) WaitForWeather() {
	c.weatherWG.Wait()
}

// UpdatedAt returns when the controller's state last changed.
func (c *RouteSetController) UpdatedAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updatedAt
}

func (c *RouteSetController) fetchWeather(selGen uint64, at route.Position) {
	c.weatherWG.Add(1)
	go func() {
		defer c.weatherWG.Done()

		ctx, cancel := context.WithTimeout(context.Background(), c.deps.WeatherTimeout)
		defer cancel()

		snapshot, err := c.currentWeather(ctx, at)

		c.mu.Lock()
		if selGen != c.selectionGen {
			c.mu.Unlock()
			c.logger.Debug("discarding weather for stale selection")
			return
		}
		if err != nil {
			c.panel.WeatherUnavailable()
		} else {
			c.panel.ShowWeather(*snapshot)
		}
		c.touchLocked()
		view := c.viewLocked()
		c.mu.Unlock()

		if err != nil {
			c.logger.Warn("error fetching weather data",
				zap.Float64("lat", at.Lat),
				zap.Float64("lng", at.Lng),
				zap.Error(err),
			)
		}
		c.notify(view)
	}()
}

// currentWeather never panics and never returns a nil snapshot without an error.
func (c *RouteSetController) currentWeather(ctx context.Context, at route.Position) (snapshot *weather.Snapshot, err error) {
	defer func() {
		if r := recover(); r != nil {
			snapshot = nil
			err = &weather.Error{Op: "fetch", Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	snapshot, err = c.deps.Weather.Current(ctx, at)
	if err == nil && snapshot == nil {
		err = &weather.Error{Op: "fetch", Err: errors.New("empty response")}
	}
	return snapshot, err
}

func (c *RouteSetController) setNotice(notice string) {
	c.mu.Lock()
	c.notice = notice
	c.touchLocked()
	view := c.viewLocked()
	c.mu.Unlock()
	c.notify(view)
}

func (c *RouteSetController) clearLocked() {
	c.set = nil
	c.selection = route.NoSelection
	c.panel.Clear()
	c.notice = ""
	c.selectionGen++
}

// touchLocked records a state change. Every view handed to the listener must
// follow a touch so its revision is unique.
func (c *RouteSetController) touchLocked() {
	c.revision++
	c.updatedAt = c.deps.Now().UTC()
}

func (c *RouteSetController) viewLocked() SessionView {
	status, pos := c.geo.Status()
	origin := OriginView{Status: status, Position: pos}
	if pos != nil {
		origin.Marker = &route.Marker{Position: *pos, Title: "Your location"}
	}

	view := SessionView{
		SessionID:   c.sessionID,
		Origin:      origin,
		Destination: c.destination,
		Mode:        c.mode,
		Routes:      c.set.Visuals(c.selection),
		Panel:       c.panel,
		Notice:      c.notice,
		Generation:  c.generation,
		Revision:    c.revision,
		UpdatedAt:   c.updatedAt,
	}
	if idx, ok := c.selection.Index(); ok {
		view.Selected = &idx
		view.SelectedLabel = route.Label(idx)
	}
	return view
}

func (c *RouteSetController) notify(view SessionView) {
	if c.deps.Listener != nil {
		c.deps.Listener.ViewChanged(view)
	}
}

func (c *RouteSetController) publish(ctx context.Context, eventType string, data interface{}) {
	if c.deps.Publisher != nil {
		c.deps.Publisher.Publish(ctx, eventType, c.sessionID.String(), data)
	}
}
