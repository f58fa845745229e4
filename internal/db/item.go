package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/netpersona/popcorn/internal/models"
	"gorm.io/gorm"
)

// ItemRepository handles database operations for catalog items
type ItemRepository struct {
	db *DB
}

// NewItemRepository creates a new item repository
func NewItemRepository(db *DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// Create inserts a new item into the database
func (r *ItemRepository) Create(ctx context.Context, item *models.Item) error {
	result := r.db.WithContext(ctx).Create(item)
	if result.Error != nil {
		return fmt.Errorf("failed to create item: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByID retrieves an item by its UUID
func (r *ItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	var item models.Item
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&item)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &item, nil
}

// List retrieves all items ordered by title
func (r *ItemRepository) List(ctx context.Context) ([]*models.Item, error) {
	var items []*models.Item
	result := r.db.WithContext(ctx).Order("title ASC").Find(&items)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list items: %w", MapGormError(result.Error))
	}
	return items, nil
}

// Count returns the number of items in the catalog
func (r *ItemRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Item{}).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count items: %w", MapGormError(result.Error))
	}
	return count, nil
}

// Sync reconciles the catalog with the given items in one transaction.
// Items are matched by source_ref: existing rows keep their ids so already
// generated slots stay resolvable, new refs are inserted, and refs absent
// from the incoming set are deleted.
func (r *ItemRepository) Sync(ctx context.Context, items []*models.Item) error {
	err := r.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		var existing []*models.Item
		if err := tx.Find(&existing).Error; err != nil {
			return fmt.Errorf("failed to load items: %w", err)
		}
		byRef := make(map[string]*models.Item, len(existing))
		for _, item := range existing {
			byRef[item.SourceRef] = item
		}

		seen := make(map[string]bool, len(items))
		for _, item := range items {
			seen[item.SourceRef] = true
			if prev, ok := byRef[item.SourceRef]; ok {
				item.ID = prev.ID
				item.CreatedAt = prev.CreatedAt
				if err := tx.Save(item).Error; err != nil {
					return fmt.Errorf("failed to update item: %w", err)
				}
				continue
			}
			if err := tx.Create(item).Error; err != nil {
				return fmt.Errorf("failed to insert item: %w", err)
			}
		}

		for ref, item := range byRef {
			if seen[ref] {
				continue
			}
			if err := tx.Where("id = ?", item.ID.String()).Delete(&models.Item{}).Error; err != nil {
				return fmt.Errorf("failed to delete item: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to sync catalog: %w", MapGormError(err))
	}
	return nil
}
