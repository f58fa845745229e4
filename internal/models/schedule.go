package models

import (
	"time"

	"github.com/google/uuid"
)

// Slot represents one scheduled airing within a channel's schedule.
// Duration is copied from the item at generation time; later item edits do
// not retroactively change already-generated slots.
type Slot struct {
	ID          uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	ChannelID   string    `json:"channel_id" gorm:"type:text;not null;index;column:channel_id" validate:"required"`
	ItemID      uuid.UUID `json:"item_id" gorm:"type:text;not null;column:item_id" validate:"required"`
	Position    int       `json:"position" gorm:"type:integer;not null;column:position" validate:"gte=0"`
	StartOffset int64     `json:"start_offset" gorm:"type:integer;not null;column:start_offset"` // seconds from epoch anchor
	Duration    int64     `json:"duration" gorm:"type:integer;not null;column:duration" validate:"gt=0"` // seconds

	// Populated by joins, not stored in database
	Item *Item `json:"item,omitempty" gorm:"-"`
}

// EndOffset returns the slot's exclusive end offset in seconds
func (s *Slot) EndOffset() int64 {
	return s.StartOffset + s.Duration
}

// Schedule is the full generation artifact for one channel: an ordered,
// gapless slot sequence plus generation metadata. It is replaced wholesale on
// reshuffle and never partially mutated.
type Schedule struct {
	ChannelID    string    `json:"channel_id" gorm:"type:text;primaryKey;column:channel_id"`
	ChannelName  string    `json:"channel_name" gorm:"type:text;not null;column:channel_name"`
	GeneratedAt  time.Time `json:"generated_at" gorm:"type:datetime;not null;column:generated_at"`
	EpochAnchor  time.Time `json:"epoch_anchor" gorm:"type:datetime;not null;column:epoch_anchor"` // wall-clock instant of offset 0
	TotalSeconds int64     `json:"total_seconds" gorm:"type:integer;not null;column:total_seconds"`

	// Populated by joins, not stored on the schedules row
	Slots []*Slot `json:"slots,omitempty" gorm:"-"`
}

// NewSchedule creates a schedule artifact for a channel's packed slots
func NewSchedule(channelID, channelName string, slots []*Slot, generatedAt, epochAnchor time.Time) *Schedule {
	var total int64
	for _, s := range slots {
		total += s.Duration
	}
	return &Schedule{
		ChannelID:    channelID,
		ChannelName:  channelName,
		GeneratedAt:  generatedAt.UTC(),
		EpochAnchor:  epochAnchor.UTC(),
		TotalSeconds: total,
		Slots:        slots,
	}
}

// Empty reports whether the schedule has no programming
func (s *Schedule) Empty() bool {
	return len(s.Slots) == 0 || s.TotalSeconds == 0
}
