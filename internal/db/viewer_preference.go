package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/netpersona/popcorn/internal/models"
	"gorm.io/gorm/clause"
)

// ViewerPreferenceRepository handles database operations for per-viewer
// playback preferences
type ViewerPreferenceRepository struct {
	db *DB
}

// NewViewerPreferenceRepository creates a new viewer preference repository
func NewViewerPreferenceRepository(db *DB) *ViewerPreferenceRepository {
	return &ViewerPreferenceRepository{db: db}
}

// Get retrieves a viewer's preferences, returning defaults for unknown viewers
func (r *ViewerPreferenceRepository) Get(ctx context.Context, viewerID string) (*models.ViewerPreference, error) {
	var pref models.ViewerPreference
	result := r.db.WithContext(ctx).Where("viewer_id = ?", viewerID).First(&pref)
	if result.Error != nil {
		if errors.Is(MapGormError(result.Error), ErrNotFound) {
			return models.DefaultViewerPreference(viewerID), nil
		}
		return nil, MapGormError(result.Error)
	}
	return &pref, nil
}

// Upsert creates or updates a viewer's preferences
func (r *ViewerPreferenceRepository) Upsert(ctx context.Context, pref *models.ViewerPreference) error {
	pref.UpdatedAt = time.Now().UTC()
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "viewer_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"live_offset", "updated_at"}),
	}).Create(pref)
	if result.Error != nil {
		return fmt.Errorf("failed to save viewer preference: %w", MapGormError(result.Error))
	}
	return nil
}
