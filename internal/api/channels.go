package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/netpersona/popcorn/internal/guide"
	"github.com/netpersona/popcorn/internal/logger"
	"github.com/netpersona/popcorn/internal/models"
	"github.com/netpersona/popcorn/internal/playback"
	"github.com/netpersona/popcorn/internal/schedule"
)

// Request/Response DTOs

// ChannelResponse represents one channel in the lineup
type ChannelResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Number      int       `json:"number"`
	SlotCount   int       `json:"slot_count"`
	GeneratedAt time.Time `json:"generated_at"`
}

// ChannelListResponse represents the channel lineup
type ChannelListResponse struct {
	Channels []*ChannelResponse `json:"channels"`
}

// SlotResponse represents one slot in a channel's schedule
type SlotResponse struct {
	Position    int          `json:"position"`
	StartOffset int64        `json:"start_offset_seconds"`
	Duration    int64        `json:"duration_seconds"`
	Item        *models.Item `json:"item,omitempty"`
}

// ScheduleResponse represents a channel's full schedule
type ScheduleResponse struct {
	ChannelID    string          `json:"channel_id"`
	ChannelName  string          `json:"channel_name"`
	Number       int             `json:"number"`
	GeneratedAt  time.Time       `json:"generated_at"`
	EpochAnchor  time.Time       `json:"epoch_anchor"`
	TotalSeconds int64           `json:"total_seconds"`
	Slots        []*SlotResponse `json:"slots"`
}

// NowPlayingResponse represents what a channel is airing at an instant
type NowPlayingResponse struct {
	ChannelID        string       `json:"channel_id"`
	ChannelName      string       `json:"channel_name"`
	Item             *models.Item `json:"item,omitempty"`
	ElapsedSeconds   int64        `json:"elapsed_seconds"`
	RemainingSeconds int64        `json:"remaining_seconds"`
	SeekSeconds      int64        `json:"seek_seconds"`
	StartedAt        time.Time    `json:"started_at"`
	EndsAt           time.Time    `json:"ends_at"`
}

// PlayRequest represents a request to start playback on a channel
type PlayRequest struct {
	ViewerID string `json:"viewer_id,omitempty"`
}

// PlayResponse represents a dispatched playback
type PlayResponse struct {
	ChannelID   string       `json:"channel_id"`
	Item        *models.Item `json:"item,omitempty"`
	SeekSeconds int64        `json:"seek_seconds"`
	Message     string       `json:"message"`
}

// ChannelHandler handles channel lineup and what-is-on-now requests
type ChannelHandler struct {
	service    *schedule.Service
	dispatcher playback.Dispatcher
}

// NewChannelHandler creates a new channel handler instance
func NewChannelHandler(service *schedule.Service, dispatcher playback.Dispatcher) *ChannelHandler {
	return &ChannelHandler{service: service, dispatcher: dispatcher}
}

// toChannelResponse converts a schedule to the lineup entry format
func toChannelResponse(s *models.Schedule) *ChannelResponse {
	return &ChannelResponse{
		ID:          s.ChannelID,
		Name:        s.ChannelName,
		Number:      guide.NumberFor(s.ChannelName),
		SlotCount:   len(s.Slots),
		GeneratedAt: s.GeneratedAt,
	}
}

// toScheduleResponse converts a schedule to API response format
func toScheduleResponse(s *models.Schedule) *ScheduleResponse {
	slots := make([]*SlotResponse, 0, len(s.Slots))
	for _, slot := range s.Slots {
		slots = append(slots, &SlotResponse{
			Position:    slot.Position,
			StartOffset: slot.StartOffset,
			Duration:    slot.Duration,
			Item:        slot.Item,
		})
	}
	return &ScheduleResponse{
		ChannelID:    s.ChannelID,
		ChannelName:  s.ChannelName,
		Number:       guide.NumberFor(s.ChannelName),
		GeneratedAt:  s.GeneratedAt,
		EpochAnchor:  s.EpochAnchor,
		TotalSeconds: s.TotalSeconds,
		Slots:        slots,
	}
}

// ListChannels handles GET /api/channels
func (h *ChannelHandler) ListChannels(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	schedules, err := h.service.Channels(ctx)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to list channels")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to list channels",
		})
		return
	}

	channels := make([]*ChannelResponse, 0, len(schedules))
	for _, s := range schedules {
		channels = append(channels, toChannelResponse(s))
	}
	c.JSON(http.StatusOK, ChannelListResponse{Channels: channels})
}

// GetSchedule handles GET /api/channels/:id/schedule
func (h *ChannelHandler) GetSchedule(c *gin.Context) {
	channelID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	sched, err := h.service.Schedule(ctx, channelID)
	if err != nil {
		if schedule.IsScheduleNotFound(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "No schedule for channel: " + channelID,
			})
			return
		}
		logger.Log.Error().Err(err).Str("channel_id", channelID).Msg("Failed to load schedule")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to load schedule",
		})
		return
	}

	c.JSON(http.StatusOK, toScheduleResponse(sched))
}

// GetNowPlaying handles GET /api/channels/:id/now
func (h *ChannelHandler) GetNowPlaying(c *gin.Context) {
	channelID := c.Param("id")
	viewerID := c.Query("viewer")

	at := time.Time{}
	if raw := c.Query("at"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_request",
				Message: "Invalid 'at' timestamp, expected RFC3339",
			})
			return
		}
		at = parsed
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	var program *schedule.Program
	var err error
	if at.IsZero() {
		program, err = h.service.NowPlaying(ctx, channelID, viewerID)
	} else {
		program, err = h.service.ProgramAt(ctx, channelID, viewerID, at)
	}
	if err != nil {
		h.renderProgramError(c, channelID, err)
		return
	}

	sched, err := h.service.Schedule(ctx, channelID)
	if err != nil {
		h.renderProgramError(c, channelID, err)
		return
	}

	c.JSON(http.StatusOK, NowPlayingResponse{
		ChannelID:        channelID,
		ChannelName:      sched.ChannelName,
		Item:             program.Item,
		ElapsedSeconds:   program.ElapsedSeconds,
		RemainingSeconds: program.RemainingSeconds,
		SeekSeconds:      program.SeekSeconds,
		StartedAt:        program.StartedAt,
		EndsAt:           program.EndsAt,
	})
}

// Play handles POST /api/channels/:id/play
func (h *ChannelHandler) Play(c *gin.Context) {
	channelID := c.Param("id")

	var req PlayRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_request",
				Message: "Invalid request body: " + err.Error(),
			})
			return
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	program, err := h.service.NowPlaying(ctx, channelID, req.ViewerID)
	if err != nil {
		h.renderProgramError(c, channelID, err)
		return
	}

	if err := h.dispatcher.Dispatch(ctx, playback.Request{
		ChannelID:   channelID,
		ViewerID:    req.ViewerID,
		Item:        program.Item,
		SeekSeconds: program.SeekSeconds,
	}); err != nil {
		logger.Log.Error().Err(err).Str("channel_id", channelID).Msg("Failed to dispatch playback")
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "playback_failed",
			Message: "Failed to start playback",
		})
		return
	}

	c.JSON(http.StatusOK, PlayResponse{
		ChannelID:   channelID,
		Item:        program.Item,
		SeekSeconds: program.SeekSeconds,
		Message:     "Playback started",
	})
}

// renderProgramError maps program resolution errors to HTTP responses
func (h *ChannelHandler) renderProgramError(c *gin.Context, channelID string, err error) {
	switch {
	case schedule.IsScheduleNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "No schedule for channel: " + channelID,
		})
	case schedule.IsNoProgramming(err):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "no_programming",
			Message: "Channel has no programming: " + channelID,
		})
	default:
		logger.Log.Error().Err(err).Str("channel_id", channelID).Msg("Failed to resolve program")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to resolve program",
		})
	}
}

// SetupChannelRoutes registers channel lineup and playback routes
func SetupChannelRoutes(apiGroup *gin.RouterGroup, service *schedule.Service, dispatcher playback.Dispatcher) {
	handler := NewChannelHandler(service, dispatcher)

	apiGroup.GET("/channels", handler.ListChannels)
	apiGroup.GET("/channels/:id/schedule", handler.GetSchedule)
	apiGroup.GET("/channels/:id/now", handler.GetNowPlaying)
	apiGroup.POST("/channels/:id/play", handler.Play)
}
