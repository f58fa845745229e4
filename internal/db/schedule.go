package db

import (
	"context"
	"fmt"

	"github.com/netpersona/popcorn/internal/models"
	"gorm.io/gorm"
)

// ScheduleRepository handles database operations for generated schedules and
// their slot sequences
type ScheduleRepository struct {
	db *DB
}

// NewScheduleRepository creates a new schedule repository
func NewScheduleRepository(db *DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// Replace atomically replaces a channel's schedule and slots.
// Readers going through the schedule store never observe a partially-written
// schedule; the delete and inserts commit together or not at all.
func (r *ScheduleRepository) Replace(ctx context.Context, schedule *models.Schedule) error {
	err := r.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("channel_id = ?", schedule.ChannelID).Delete(&models.Slot{}).Error; err != nil {
			return fmt.Errorf("failed to clear slots: %w", err)
		}
		if err := tx.Where("channel_id = ?", schedule.ChannelID).Delete(&models.Schedule{}).Error; err != nil {
			return fmt.Errorf("failed to clear schedule: %w", err)
		}
		if err := tx.Create(schedule).Error; err != nil {
			return fmt.Errorf("failed to insert schedule: %w", err)
		}
		if len(schedule.Slots) > 0 {
			if err := tx.Create(&schedule.Slots).Error; err != nil {
				return fmt.Errorf("failed to insert slots: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to replace schedule: %w", MapGormError(err))
	}
	return nil
}

// GetByChannelID retrieves a channel's schedule with its slots and item
// details populated, ordered by slot position. The row and its slots are
// read in one transaction so a concurrent Replace can never yield a mix of
// old schedule and new slots.
func (r *ScheduleRepository) GetByChannelID(ctx context.Context, channelID string) (*models.Schedule, error) {
	var schedule models.Schedule
	err := r.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("channel_id = ?", channelID).First(&schedule).Error; err != nil {
			return err
		}
		slots, err := loadSlots(tx, channelID)
		if err != nil {
			return err
		}
		schedule.Slots = slots
		return nil
	})
	if err != nil {
		return nil, MapGormError(err)
	}
	return &schedule, nil
}

// Count returns the number of generated schedules
func (r *ScheduleRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Schedule{}).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count schedules: %w", MapGormError(result.Error))
	}
	return count, nil
}

// List retrieves all schedules with slots and item details populated, read
// in one transaction for a consistent view across channels
func (r *ScheduleRepository) List(ctx context.Context) ([]*models.Schedule, error) {
	var schedules []*models.Schedule
	err := r.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Order("channel_id ASC").Find(&schedules).Error; err != nil {
			return err
		}
		for _, schedule := range schedules {
			slots, err := loadSlots(tx, schedule.ChannelID)
			if err != nil {
				return err
			}
			schedule.Slots = slots
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", MapGormError(err))
	}
	return schedules, nil
}

// Delete removes a single channel's schedule and its slots
func (r *ScheduleRepository) Delete(ctx context.Context, channelID string) error {
	err := r.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("channel_id = ?", channelID).Delete(&models.Slot{}).Error; err != nil {
			return fmt.Errorf("failed to delete slots: %w", err)
		}
		if err := tx.Where("channel_id = ?", channelID).Delete(&models.Schedule{}).Error; err != nil {
			return fmt.Errorf("failed to delete schedule: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete schedule: %w", MapGormError(err))
	}
	return nil
}

// DeleteAll removes every schedule and slot (full regeneration)
func (r *ScheduleRepository) DeleteAll(ctx context.Context) error {
	err := r.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Slot{}).Error; err != nil {
			return fmt.Errorf("failed to clear slots: %w", err)
		}
		if err := tx.Where("1 = 1").Delete(&models.Schedule{}).Error; err != nil {
			return fmt.Errorf("failed to clear schedules: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete schedules: %w", MapGormError(err))
	}
	return nil
}

// loadSlots fetches a channel's slots joined with their item details, using
// the caller's transaction
func loadSlots(tx *gorm.DB, channelID string) ([]*models.Slot, error) {
	var slots []*models.Slot
	result := tx.
		Where("channel_id = ?", channelID).
		Order("position ASC").
		Find(&slots)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to load slots: %w", MapGormError(result.Error))
	}

	for _, slot := range slots {
		var item models.Item
		itemResult := tx.Where("id = ?", slot.ItemID.String()).First(&item)
		if itemResult.Error != nil {
			// The item was removed from the catalog after generation; the slot
			// keeps its copied duration and stays playable metadata-less.
			continue
		}
		slot.Item = &item
	}

	return slots, nil
}
