package models

import (
	"time"
)

// ViewerPreference holds per-viewer playback preferences.
// LiveOffset controls whether playback seeks into a title as though it had
// been airing continuously since its slot start.
type ViewerPreference struct {
	ViewerID   string    `json:"viewer_id" gorm:"type:text;primaryKey;column:viewer_id" validate:"required"`
	LiveOffset bool      `json:"live_offset" gorm:"type:integer;not null;default:1;column:live_offset"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:updated_at"`
}

// DefaultViewerPreference returns the defaults for an unknown viewer
func DefaultViewerPreference(viewerID string) *ViewerPreference {
	return &ViewerPreference{
		ViewerID:   viewerID,
		LiveOffset: true,
		UpdatedAt:  time.Now().UTC(),
	}
}
