package models

import (
	"time"
)

// Reshuffle frequency constants
const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
)

// Settings represents the per-installation reshuffle policy.
// Singleton table with only one row.
type Settings struct {
	ID               int        `json:"id" gorm:"type:integer;primaryKey;default:1;column:id"`
	Frequency        string     `json:"frequency" gorm:"type:text;not null;default:weekly;column:frequency" validate:"oneof=daily weekly monthly"`
	LastReshuffledAt *time.Time `json:"last_reshuffled_at,omitempty" gorm:"type:datetime;column:last_reshuffled_at"`
	UpdatedAt        time.Time  `json:"updated_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:updated_at"`
}

// DefaultSettings returns settings with default values
func DefaultSettings() *Settings {
	return &Settings{
		ID:        1,
		Frequency: FrequencyWeekly,
		UpdatedAt: time.Now().UTC(),
	}
}

// FrequencyWindow returns the staleness window for a frequency value.
// Unknown values fall back to weekly.
func FrequencyWindow(frequency string) time.Duration {
	switch frequency {
	case FrequencyDaily:
		return 24 * time.Hour
	case FrequencyWeekly:
		return 7 * 24 * time.Hour
	case FrequencyMonthly:
		return 30 * 24 * time.Hour
	default:
		return 7 * 24 * time.Hour
	}
}

// ValidFrequency reports whether the value is a supported reshuffle frequency
func ValidFrequency(frequency string) bool {
	switch frequency {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}
