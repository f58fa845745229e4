package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/netpersona/popcorn/internal/db"
	"github.com/netpersona/popcorn/internal/logger"
	"github.com/netpersona/popcorn/internal/models"
	"github.com/netpersona/popcorn/internal/schedule"
)

// Request/Response DTOs

// SettingsResponse represents the reshuffle policy
type SettingsResponse struct {
	Frequency        string     `json:"frequency"`
	LastReshuffledAt *time.Time `json:"last_reshuffled_at,omitempty"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// UpdateSettingsRequest represents a reshuffle policy change
type UpdateSettingsRequest struct {
	Frequency string `json:"frequency" binding:"required"`
}

// ReshuffleResponse represents the result of a forced reshuffle
type ReshuffleResponse struct {
	Message string `json:"message"`
}

// SettingsHandler handles reshuffle policy requests
type SettingsHandler struct {
	repos   *db.Repositories
	service *schedule.Service
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(repos *db.Repositories, service *schedule.Service) *SettingsHandler {
	return &SettingsHandler{repos: repos, service: service}
}

func toSettingsResponse(s *models.Settings) SettingsResponse {
	return SettingsResponse{
		Frequency:        s.Frequency,
		LastReshuffledAt: s.LastReshuffledAt,
		UpdatedAt:        s.UpdatedAt,
	}
}

// GetSettings handles GET /api/settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	settings, err := h.repos.Settings.Get(ctx)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to load settings")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to load settings",
		})
		return
	}

	c.JSON(http.StatusOK, toSettingsResponse(settings))
}

// UpdateSettings handles PUT /api/settings
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	if !models.ValidFrequency(req.Frequency) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Frequency must be one of: daily, weekly, monthly",
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	settings, err := h.repos.Settings.Get(ctx)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to load settings")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to load settings",
		})
		return
	}

	settings.Frequency = req.Frequency
	if err := h.repos.Settings.Update(ctx, settings); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to update settings")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to update settings",
		})
		return
	}

	logger.Log.Info().Str("frequency", req.Frequency).Msg("Reshuffle frequency updated")
	c.JSON(http.StatusOK, toSettingsResponse(settings))
}

// Reshuffle handles POST /api/schedules/reshuffle
func (h *SettingsHandler) Reshuffle(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 120*time.Second)
	defer cancel()

	if err := h.service.Reshuffle(ctx); err != nil {
		logger.Log.Error().Err(err).Msg("Forced reshuffle failed")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:   "reshuffle_failed",
			Message: "Reshuffle failed, previous schedules still serving",
		})
		return
	}

	c.JSON(http.StatusOK, ReshuffleResponse{Message: "Schedules regenerated"})
}

// SetupSettingsRoutes registers reshuffle policy routes
func SetupSettingsRoutes(apiGroup *gin.RouterGroup, repos *db.Repositories, service *schedule.Service) {
	handler := NewSettingsHandler(repos, service)

	apiGroup.GET("/settings", handler.GetSettings)
	apiGroup.PUT("/settings", handler.UpdateSettings)
	apiGroup.POST("/schedules/reshuffle", handler.Reshuffle)
}
