package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/netpersona/popcorn/internal/models"
)

// SettingsRepository handles database operations for the reshuffle policy.
// Settings is a singleton table with only one row.
type SettingsRepository struct {
	db *DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get retrieves the settings (creates with defaults if not exists)
func (r *SettingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	var settings models.Settings
	result := r.db.WithContext(ctx).Where("id = ?", 1).First(&settings)

	if result.Error != nil {
		if errors.Is(MapGormError(result.Error), ErrNotFound) {
			defaultSettings := models.DefaultSettings()
			if err := r.db.WithContext(ctx).Create(defaultSettings).Error; err != nil {
				// Concurrent first access: someone else created the row
				if IsDuplicate(MapGormError(err)) {
					if reread := r.db.WithContext(ctx).Where("id = ?", 1).First(&settings); reread.Error == nil {
						return &settings, nil
					}
				}
				return nil, fmt.Errorf("failed to create default settings: %w", MapGormError(err))
			}
			return defaultSettings, nil
		}
		return nil, MapGormError(result.Error)
	}

	return &settings, nil
}

// EnsureDefault creates the settings row with the given frequency when none
// exists yet. An existing row is left untouched so operator changes made
// through the API survive restarts.
func (r *SettingsRepository) EnsureDefault(ctx context.Context, frequency string) (*models.Settings, error) {
	var settings models.Settings
	result := r.db.WithContext(ctx).Where("id = ?", 1).First(&settings)
	if result.Error == nil {
		return &settings, nil
	}
	if !errors.Is(MapGormError(result.Error), ErrNotFound) {
		return nil, MapGormError(result.Error)
	}

	defaults := models.DefaultSettings()
	if models.ValidFrequency(frequency) {
		defaults.Frequency = frequency
	}
	if err := r.db.WithContext(ctx).Create(defaults).Error; err != nil {
		// Concurrent first access: someone else created the row
		if IsDuplicate(MapGormError(err)) {
			if reread := r.db.WithContext(ctx).Where("id = ?", 1).First(&settings); reread.Error == nil {
				return &settings, nil
			}
		}
		return nil, fmt.Errorf("failed to create default settings: %w", MapGormError(err))
	}
	return defaults, nil
}

// Update updates the settings (singleton row)
func (r *SettingsRepository) Update(ctx context.Context, settings *models.Settings) error {
	// Ensure we're always updating the singleton row
	settings.ID = 1
	settings.UpdatedAt = time.Now().UTC()

	result := r.db.WithContext(ctx).
		Where("id = ?", 1).
		Select("frequency", "last_reshuffled_at", "updated_at").
		Updates(settings)
	if result.Error != nil {
		return fmt.Errorf("failed to update settings: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
