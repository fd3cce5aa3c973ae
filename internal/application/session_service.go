package application

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/routecast/service-routes/internal/domain/route"
	"github.com/routecast/service-routes/internal/domain/weather"
	"github.com/routecast/service-routes/internal/platform/domain"
)

// ReportLocationRequest is the browser's one-shot geolocation result.
type ReportLocationRequest struct {
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
	Unavailable bool     `json:"unavailable"`
}

// RequestRoutesRequest asks for routes from the session's origin.
type RequestRoutesRequest struct {
	Destination string `json:"destination"`
	Mode        string `json:"mode" binding:"required"`
}

// SessionStatsDTO summarises the live sessions.
type SessionStatsDTO struct {
	TotalSessions  int                  `json:"total_sessions"`
	ByOriginStatus map[OriginStatus]int `json:"by_origin_status"`
	WithRoutes     int                  `json:"with_routes"`
	WithSelection  int                  `json:"with_selection"`
	IdleTTLSeconds int64                `json:"idle_ttl_seconds"`
}

// SessionServiceConfig tunes the session registry.
type SessionServiceConfig struct {
	IdleTTL        time.Duration
	WeatherTimeout time.Duration
}

type session struct {
	controller *RouteSetController

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// SessionService is the application service holding one RouteSetController
// per browser session. Sessions live in memory only and expire when idle.
type SessionService struct {
	routes    route.Provider
	weather   weather.Provider
	publisher EventPublisher
	listener  ViewListener
	logger    *zap.Logger
	cfg       SessionServiceConfig

	clockMu sync.RWMutex
	now     func() time.Time

	mu       sync.RWMutex
	sessions map[uuid.UUID]*session
	closed   bool
}

// NewSessionService creates a new SessionService.
func NewSessionService(
	routes route.Provider,
	weatherProvider weather.Provider,
	publisher EventPublisher,
	listener ViewListener,
	cfg SessionServiceConfig,
	logger *zap.Logger,
) *SessionService {
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 30 * time.Minute
	}
	return &SessionService{
		routes:    routes,
		weather:   weatherProvider,
		publisher: publisher,
		listener:  listener,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
		sessions:  make(map[uuid.UUID]*session),
	}
}

// SetClock replaces the service's time source, including that of existing
// sessions. It is safe to call while the janitor runs.
func (s *SessionService) SetClock(now func() time.Time) {
	s.clockMu.Lock()
	s.now = now
	s.clockMu.Unlock()
}

func (s *SessionService) clock() time.Time {
	s.clockMu.RLock()
	now := s.now
	s.clockMu.RUnlock()
	return now()
}

// CreateSession starts a new session with a pending origin.
func (s *SessionService) CreateSession(ctx context.Context) (*SessionView, error) {
	id := uuid.New()
	now := s.clock()
	controller := NewRouteSetController(id, NewGeolocationSource(), ControllerDeps{
		Routes:         s.routes,
		Weather:        s.weather,
		Publisher:      s.publisher,
		Listener:       s.listener,
		Logger:         s.logger,
		Now:            s.clock,
		WeatherTimeout: s.cfg.WeatherTimeout,
	})

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, errors.New("session service is shut down")
	}
	s.sessions[id] = &session{controller: controller, lastSeen: now}
	s.mu.Unlock()

	s.logger.Info("session created", zap.String("session_id", id.String()))
	if s.publisher != nil {
		s.publisher.Publish(ctx, EventSessionCreated, id.String(), SessionCreatedEvent{
			SessionID:  id,
			OccurredAt: now.UTC(),
		})
	}

	view := controller.View()
	return &view, nil
}

// GetSession returns the session's current view.
func (s *SessionService) GetSession(ctx context.Context, id uuid.UUID) (*SessionView, error) {
	sess, err := s.find(id)
	if err != nil {
		return nil, err
	}
	view := sess.controller.View()
	return &view, nil
}

// ReportLocation settles the session's geolocation, once.
func (s *SessionService) ReportLocation(ctx context.Context, id uuid.UUID, req ReportLocationRequest) (*SessionView, error) {
	sess, err := s.find(id)
	if err != nil {
		return nil, err
	}

	if req.Unavailable {
		return sess.controller.OriginUnavailable(ctx)
	}
	if req.Lat == nil || req.Lng == nil {
		return nil, domain.NewValidationError("lat and lng are required unless unavailable is set")
	}
	pos, err := route.NewPosition(*req.Lat, *req.Lng)
	if err != nil {
		return nil, err
	}
	return sess.controller.ResolveOrigin(ctx, pos)
}

// RequestRoutes replaces the session's route set.
func (s *SessionService) RequestRoutes(ctx context.Context, id uuid.UUID, req RequestRoutesRequest) (*SessionView, error) {
	sess, err := s.find(id)
	if err != nil {
		return nil, err
	}
	mode, err := route.ParseTravelMode(req.Mode)
	if err != nil {
		return nil, err
	}
	return sess.controller.RequestRoutes(ctx, req.Destination, mode)
}

// SelectRoute selects a route by label ("A".."D") or by zero-based index.
// References outside the current set are ignored.
func (s *SessionService) SelectRoute(ctx context.Context, id uuid.UUID, ref string) (*SessionView, error) {
	sess, err := s.find(id)
	if err != nil {
		return nil, err
	}
	index, err := parseRouteRef(ref)
	if err != nil {
		return nil, err
	}
	return sess.controller.Select(ctx, index), nil
}

// CloseSession discards a session and its route set.
func (s *SessionService) CloseSession(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return domain.NewNotFoundError("Session", id.String())
	}
	s.discard(id, sess)
	s.logger.Info("session closed", zap.String("session_id", id.String()))
	return nil
}

// Controller returns the controller of a session.
func (s *SessionService) Controller(id uuid.UUID) (*RouteSetController, error) {
	sess, err := s.find(id)
	if err != nil {
		return nil, err
	}
	return sess.controller, nil
}

// EvictIdle removes sessions idle for longer than the configured TTL and
// returns how many were removed.
func (s *SessionService) EvictIdle() int {
	cutoff := s.clock().Add(-s.cfg.IdleTTL)

	s.mu.Lock()
	evicted := make(map[uuid.UUID]*session)
	for id, sess := range s.sessions {
		if sess.idleSince().Before(cutoff) {
			evicted[id] = sess
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for id, sess := range evicted {
		s.discard(id, sess)
	}
	if len(evicted) > 0 {
		s.logger.Info("evicted idle sessions", zap.Int("count", len(evicted)))
	}
	return len(evicted)
}

// RunJanitor evicts idle sessions every interval until ctx is cancelled.
func (s *SessionService) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.EvictIdle()
		}
	}
}

// Shutdown stops accepting sessions and waits for in-flight weather fetches.
func (s *SessionService) Shutdown() {
	s.mu.Lock()
	s.closed = true
	controllers := make([]*RouteSetController, 0, len(s.sessions))
	for _, sess := range s.sessions {
		controllers = append(controllers, sess.controller)
	}
	s.mu.Unlock()

	for _, c := range controllers {
		c.WaitForWeather()
	}
}

// Ready reports whether the service still accepts sessions.
func (s *SessionService) Ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return errors.New("shutting down")
	}
	return nil
}

// --- Admin methods ---

// GetSessionStats returns aggregate statistics over live sessions.
func (s *SessionService) GetSessionStats(ctx context.Context) *SessionStatsDTO {
	s.mu.RLock()
	controllers := make([]*RouteSetController, 0, len(s.sessions))
	for _, sess := range s.sessions {
		controllers = append(controllers, sess.controller)
	}
	s.mu.RUnlock()

	stats := &SessionStatsDTO{
		TotalSessions:  len(controllers),
		ByOriginStatus: map[OriginStatus]int{OriginPending: 0, OriginResolved: 0, OriginUnavailable: 0},
		IdleTTLSeconds: int64(s.cfg.IdleTTL / time.Second),
	}
	for _, c := range controllers {
		view := c.View()
		stats.ByOriginStatus[view.Origin.Status]++
		if len(view.Routes) > 0 {
			stats.WithRoutes++
		}
		if view.Selected != nil {
			stats.WithSelection++
		}
	}
	return stats
}

// --- Helpers ---

func (s *SessionService) find(id uuid.UUID) (*session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.NewNotFoundError("Session", id.String())
	}
	sess.touch(s.clock())
	return sess, nil
}

func (s *SessionService) discard(id uuid.UUID, sess *session) {
	sess.controller.Clear()
	if s.listener != nil {
		s.listener.SessionClosed(id)
	}
}

func parseRouteRef(ref string) (int, error) {
	ref = strings.TrimSpace(ref)
	if index, ok := route.IndexForLabel(ref); ok {
		return index, nil
	}
	index, err := strconv.Atoi(ref)
	if err != nil {
		return 0, domain.NewValidationError("route must be a label A-D or an index")
	}
	return index, nil
}
