package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/routecast/service-routes/internal/application"
	"github.com/routecast/service-routes/internal/platform/response"
)

// AdminSessionHandler handles operator requests about live sessions.
type AdminSessionHandler struct {
	service *application.SessionService
}

// NewAdminSessionHandler creates a new AdminSessionHandler.
func NewAdminSessionHandler(service *application.SessionService) *AdminSessionHandler {
	return &AdminSessionHandler{service: service}
}

// RegisterRoutes registers admin session routes.
func (h *AdminSessionHandler) RegisterRoutes(r *gin.RouterGroup) {
	admin := r.Group("/api/v1/admin")
	{
		admin.GET("/stats/sessions", h.SessionStats)
		admin.POST("/sessions/evict", h.EvictIdle)
	}
}

// SessionStats handles GET /api/v1/admin/stats/sessions.
func (h *AdminSessionHandler) SessionStats(c *gin.Context) {
	response.Success(c, h.service.GetSessionStats(c.Request.Context()))
}

// EvictIdle handles POST /api/v1/admin/sessions/evict.
func (h *AdminSessionHandler) EvictIdle(c *gin.Context) {
	response.Success(c, gin.H{"evicted": h.service.EvictIdle()})
}
