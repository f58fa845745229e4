package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/netpersona/popcorn/internal/db"
	"github.com/netpersona/popcorn/internal/logger"
	"github.com/netpersona/popcorn/internal/models"
)

// Request/Response DTOs

// ViewerPreferenceResponse represents a viewer's playback preferences
type ViewerPreferenceResponse struct {
	ViewerID   string    `json:"viewer_id"`
	LiveOffset bool      `json:"live_offset"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// UpdateViewerPreferenceRequest represents a preference change
type UpdateViewerPreferenceRequest struct {
	LiveOffset *bool `json:"live_offset" binding:"required"`
}

// ViewerHandler handles viewer preference requests
type ViewerHandler struct {
	repos *db.Repositories
}

// NewViewerHandler creates a new viewer handler
func NewViewerHandler(repos *db.Repositories) *ViewerHandler {
	return &ViewerHandler{repos: repos}
}

func toViewerPreferenceResponse(p *models.ViewerPreference) ViewerPreferenceResponse {
	return ViewerPreferenceResponse{
		ViewerID:   p.ViewerID,
		LiveOffset: p.LiveOffset,
		UpdatedAt:  p.UpdatedAt,
	}
}

// GetPreferences handles GET /api/viewers/:id/preferences
func (h *ViewerHandler) GetPreferences(c *gin.Context) {
	viewerID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	pref, err := h.repos.ViewerPrefs.Get(ctx, viewerID)
	if err != nil {
		logger.Log.Error().Err(err).Str("viewer_id", viewerID).Msg("Failed to load viewer preference")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to load viewer preferences",
		})
		return
	}

	c.JSON(http.StatusOK, toViewerPreferenceResponse(pref))
}

// UpdatePreferences handles PUT /api/viewers/:id/preferences
func (h *ViewerHandler) UpdatePreferences(c *gin.Context) {
	viewerID := c.Param("id")

	var req UpdateViewerPreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	pref := &models.ViewerPreference{
		ViewerID:   viewerID,
		LiveOffset: *req.LiveOffset,
		UpdatedAt:  time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repos.ViewerPrefs.Upsert(ctx, pref); err != nil {
		logger.Log.Error().Err(err).Str("viewer_id", viewerID).Msg("Failed to update viewer preference")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to update viewer preferences",
		})
		return
	}

	logger.Log.Info().
		Str("viewer_id", viewerID).
		Bool("live_offset", pref.LiveOffset).
		Msg("Viewer preference updated")
	c.JSON(http.StatusOK, toViewerPreferenceResponse(pref))
}

// SetupViewerRoutes registers viewer preference routes
func SetupViewerRoutes(apiGroup *gin.RouterGroup, repos *db.Repositories) {
	handler := NewViewerHandler(repos)

	apiGroup.GET("/viewers/:id/preferences", handler.GetPreferences)
	apiGroup.PUT("/viewers/:id/preferences", handler.UpdatePreferences)
}
