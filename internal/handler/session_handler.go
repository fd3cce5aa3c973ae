package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/routecast/service-routes/internal/application"
	"github.com/routecast/service-routes/internal/domain/route"
	"github.com/routecast/service-routes/internal/platform/response"
)

const (
	// Time allowed to write a view to the client.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the client.
	pongWait = 60 * time.Second

	// Send pings with this period. Must be less than pongWait.
	pingPeriod = 15 * time.Second

	// Clients only send control frames.
	maxMessageSize = 512
)

// SessionHandler handles HTTP requests for route sessions.
type SessionHandler struct {
	service  *application.SessionService
	hub      *ViewHub
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(service *application.SessionService, hub *ViewHub, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		service: service,
		hub:     hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger,
	}
}

// RegisterRoutes registers all session routes on the given router group.
func (h *SessionHandler) RegisterRoutes(r *gin.RouterGroup) {
	sessions := r.Group("/api/v1/sessions")
	{
		sessions.POST("", h.CreateSession)
		sessions.GET("/:id", h.GetSession)
		sessions.DELETE("/:id", h.CloseSession)
		sessions.POST("/:id/location", h.ReportLocation)
		sessions.POST("/:id/routes", h.RequestRoutes)
		sessions.POST("/:id/routes/:route/select", h.SelectRoute)
		sessions.GET("/:id/ws", h.Stream)
	}

	r.GET("/api/v1/travel-modes", h.ListTravelModes)
}

// CreateSession handles POST /api/v1/sessions.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	result, err := h.service.CreateSession(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// GetSession handles GET /api/v1/sessions/:id.
func (h *SessionHandler) GetSession(c *gin.Context) {
	sessionID, ok := parseSessionID(c)
	if !ok {
		return
	}

	result, err := h.service.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// CloseSession handles DELETE /api/v1/sessions/:id.
func (h *SessionHandler) CloseSession(c *gin.Context) {
	sessionID, ok := parseSessionID(c)
	if !ok {
		return
	}

	if err := h.service.CloseSession(c.Request.Context(), sessionID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ReportLocation handles POST /api/v1/sessions/:id/location.
func (h *SessionHandler) ReportLocation(c *gin.Context) {
	sessionID, ok := parseSessionID(c)
	if !ok {
		return
	}

	var req application.ReportLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.ReportLocation(c.Request.Context(), sessionID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// RequestRoutes handles POST /api/v1/sessions/:id/routes.
func (h *SessionHandler) RequestRoutes(c *gin.Context) {
	sessionID, ok := parseSessionID(c)
	if !ok {
		return
	}

	var req application.RequestRoutesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.RequestRoutes(c.Request.Context(), sessionID, req)
	if err != nil {
		if notice := route.NoticeFor(err); notice != "" {
			c.Header("X-Route-Notice", notice)
		}
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// SelectRoute handles POST /api/v1/sessions/:id/routes/:route/select.
// Clicking a route path and clicking its label marker both land here.
func (h *SessionHandler) SelectRoute(c *gin.Context) {
	sessionID, ok := parseSessionID(c)
	if !ok {
		return
	}

	result, err := h.service.SelectRoute(c.Request.Context(), sessionID, c.Param("route"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListTravelModes handles GET /api/v1/travel-modes.
func (h *SessionHandler) ListTravelModes(c *gin.Context) {
	response.Success(c, route.TravelModes())
}

// Stream handles GET /api/v1/sessions/:id/ws. It sends the current view and
// then every newer view until the session closes or the client leaves.
func (h *SessionHandler) Stream(c *gin.Context) {
	sessionID, ok := parseSessionID(c)
	if !ok {
		return
	}

	// Subscribe before taking the snapshot so no change in between is lost.
	views, cancel := h.hub.Subscribe(sessionID)
	defer cancel()

	initial, err := h.service.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		response.Error(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed",
			zap.String("session_id", sessionID.String()),
			zap.Error(err),
		)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Reads only serve to notice the client going away.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(initial); err != nil {
		return
	}
	sent := initial.Revision

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-gone:
			return
		case view, ok := <-views:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"))
				return
			}
			if view.Revision <= sent {
				continue
			}
			sent = view.Revision
			if err := conn.WriteJSON(view); err != nil {
				if !errors.Is(err, websocket.ErrCloseSent) {
					h.logger.Debug("websocket write failed", zap.Error(err))
				}
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// parseSessionID reads the :id parameter, writing a 400 when it is malformed.
func parseSessionID(c *gin.Context) (uuid.UUID, bool) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid session ID")
		return uuid.Nil, false
	}
	return sessionID, true
}
