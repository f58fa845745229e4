package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/netpersona/popcorn/internal/clock"
	"github.com/netpersona/popcorn/internal/guide"
	"github.com/netpersona/popcorn/internal/logger"
	"github.com/netpersona/popcorn/internal/schedule"
)

// GuideHandler serves the tuner-facing guide artifacts
type GuideHandler struct {
	service *schedule.Service
	clock   clock.Clock
}

// NewGuideHandler creates a new guide handler
func NewGuideHandler(service *schedule.Service, clk clock.Clock) *GuideHandler {
	return &GuideHandler{service: service, clock: clk}
}

// baseURL reconstructs the externally visible base URL from the request
func baseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if forwarded := c.GetHeader("X-Forwarded-Proto"); forwarded != "" {
		scheme = forwarded
	}
	return scheme + "://" + c.Request.Host
}

// Discover handles GET /discover.json
func (h *GuideHandler) Discover(c *gin.Context) {
	c.JSON(http.StatusOK, guide.Discover(baseURL(c)))
}

// Lineup handles GET /lineup.json
func (h *GuideHandler) Lineup(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	schedules, err := h.service.Channels(ctx)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to build lineup")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to build lineup",
		})
		return
	}

	c.JSON(http.StatusOK, guide.Lineup(baseURL(c), schedules))
}

// LineupStatus handles GET /lineup_status.json
func (h *GuideHandler) LineupStatus(c *gin.Context) {
	c.JSON(http.StatusOK, guide.Status())
}

// Playlist handles GET /playlist.m3u
func (h *GuideHandler) Playlist(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	schedules, err := h.service.Channels(ctx)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to build playlist")
		c.String(http.StatusInternalServerError, "failed to build playlist")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="playlist.m3u"`)
	c.Data(http.StatusOK, "audio/x-mpegurl", []byte(guide.Playlist(baseURL(c), schedules)))
}

// EPG handles GET /epg.xml
func (h *GuideHandler) EPG(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	schedules, err := h.service.Channels(ctx)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to build EPG")
		c.String(http.StatusInternalServerError, "failed to build EPG")
		return
	}

	out, err := guide.EPG(schedules, h.clock.Now())
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to render EPG")
		c.String(http.StatusInternalServerError, "failed to render EPG")
		return
	}

	c.Data(http.StatusOK, "application/xml", out)
}

// SetupGuideRoutes registers the tuner-facing guide routes at the root
func SetupGuideRoutes(router *gin.Engine, service *schedule.Service, clk clock.Clock) {
	handler := NewGuideHandler(service, clk)

	router.GET("/discover.json", handler.Discover)
	router.GET("/lineup.json", handler.Lineup)
	router.GET("/lineup_status.json", handler.LineupStatus)
	router.GET("/playlist.m3u", handler.Playlist)
	router.GET("/epg.xml", handler.EPG)
}
