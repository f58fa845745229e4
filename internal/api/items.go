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

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ItemListResponse represents the catalog item list
type ItemListResponse struct {
	Items []*models.Item `json:"items"`
	Total int            `json:"total"`
}

// SyncItemRequest represents one item in a catalog sync
type SyncItemRequest struct {
	Title         string `json:"title" binding:"required"`
	Genres        string `json:"genres"`
	Duration      int64  `json:"duration" binding:"required,gt=0"`
	ContentRating string `json:"content_rating"`
	Summary       string `json:"summary"`
	Year          *int   `json:"year"`
	ArtworkRef    string `json:"artwork_ref"`
	SourceRef     string `json:"source_ref" binding:"required"`
}

// SyncItemsRequest represents a wholesale catalog replacement
type SyncItemsRequest struct {
	Items []SyncItemRequest `json:"items" binding:"required,dive"`
}

// SyncItemsResponse represents the result of a catalog sync
type SyncItemsResponse struct {
	Total   int    `json:"total"`
	Message string `json:"message"`
}

// ItemHandler handles catalog item requests
type ItemHandler struct {
	repos *db.Repositories
}

// NewItemHandler creates a new item handler
func NewItemHandler(repos *db.Repositories) *ItemHandler {
	return &ItemHandler{repos: repos}
}

// ListItems handles GET /api/items
func (h *ItemHandler) ListItems(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	items, err := h.repos.Items.List(ctx)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to list items")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to list items",
		})
		return
	}

	c.JSON(http.StatusOK, ItemListResponse{Items: items, Total: len(items)})
}

// SyncItems handles PUT /api/items, reconciling the catalog with the given
// set. Items already known by source_ref keep their identity, so current
// schedules stay resolvable. Schedules are not rebuilt here; the next
// reshuffle picks up the change.
func (h *ItemHandler) SyncItems(c *gin.Context) {
	var req SyncItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	items := make([]*models.Item, 0, len(req.Items))
	for _, in := range req.Items {
		item := models.NewItem(in.Title, in.Genres, in.Duration, in.SourceRef)
		item.ContentRating = in.ContentRating
		item.Summary = in.Summary
		item.Year = in.Year
		item.ArtworkRef = in.ArtworkRef
		items = append(items, item)
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	if err := h.repos.Items.Sync(ctx, items); err != nil {
		logger.Log.Error().Err(err).Int("item_count", len(items)).Msg("Failed to sync items")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to sync items",
		})
		return
	}

	logger.Log.Info().Int("item_count", len(items)).Msg("Catalog synced")
	c.JSON(http.StatusOK, SyncItemsResponse{
		Total:   len(items),
		Message: "Catalog synced",
	})
}

// SetupItemRoutes registers catalog item routes
func SetupItemRoutes(apiGroup *gin.RouterGroup, repos *db.Repositories) {
	handler := NewItemHandler(repos)

	apiGroup.GET("/items", handler.ListItems)
	apiGroup.PUT("/items", handler.SyncItems)
}
