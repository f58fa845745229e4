package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/netpersona/popcorn/internal/db"
	"github.com/netpersona/popcorn/internal/schedule"
)

// HealthResponse represents the response from the health check endpoint
type HealthResponse struct {
	Status    string                 `json:"status"`
	Database  string                 `json:"database"`
	Schedules string                 `json:"schedules"`
	Time      string                 `json:"time"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// HealthHandler handles health check requests
type HealthHandler struct {
	db      *db.DB
	service *schedule.Service
}

// NewHealthHandler creates a new health check handler
func NewHealthHandler(database *db.DB, service *schedule.Service) *HealthHandler {
	return &HealthHandler{db: database, service: service}
}

// Check handles the health check endpoint. A stale or mid-regeneration
// schedule set is reported but is not a failure; only a dead database
// degrades the service.
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:    "ok",
		Schedules: h.service.Freshness().String(),
		Time:      time.Now().UTC().Format(time.RFC3339),
		Details:   make(map[string]interface{}),
	}

	if err := h.db.Health(ctx); err != nil {
		response.Status = "degraded"
		response.Database = "unhealthy"
		response.Details["database_error"] = err.Error()
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}

	response.Database = "healthy"
	c.JSON(http.StatusOK, response)
}

// SetupHealthRoutes registers health check routes
func SetupHealthRoutes(apiGroup *gin.RouterGroup, database *db.DB, service *schedule.Service) {
	handler := NewHealthHandler(database, service)
	apiGroup.GET("/health", handler.Check)
}
