package schedule

import (
	"time"

	"github.com/netpersona/popcorn/internal/models"
)

// Program describes what a channel is airing at a given instant
type Program struct {
	// Slot is the active slot within the channel's schedule
	Slot *models.Slot `json:"slot"`

	// Item is the title airing in the slot (nil only if the item was removed
	// from the catalog after generation)
	Item *models.Item `json:"item,omitempty"`

	// ElapsedSeconds is how far into the slot the instant falls
	ElapsedSeconds int64 `json:"elapsed_seconds"`

	// RemainingSeconds is the time left in the slot
	RemainingSeconds int64 `json:"remaining_seconds"`

	// SeekSeconds is the playback resume position: ElapsedSeconds clamped to
	// the item's duration when live-offset mode is on, 0 when it is off
	SeekSeconds int64 `json:"seek_seconds"`

	// StartedAt is when the slot began airing (wall clock)
	StartedAt time.Time `json:"started_at"`

	// EndsAt is when the slot finishes airing (wall clock)
	EndsAt time.Time `json:"ends_at"`
}

// ResolveProgram resolves which slot a channel is airing at the given instant.
//
// The schedule acts as a circular buffer in time: the instant's offset from
// the epoch anchor is reduced modulo the schedule's total covered seconds, so
// the sequence loops indefinitely until regenerated, including past the
// nominal horizon. Instants before the anchor wrap backwards the same way.
//
// Returns ErrNoProgramming for a nil or empty schedule. Pure and idempotent:
// the same (schedule, at, liveOffset) always resolve identically.
func ResolveProgram(sched *models.Schedule, at time.Time, liveOffset bool) (*Program, error) {
	if sched == nil || sched.Empty() {
		return nil, ErrNoProgramming
	}

	offset := (at.UTC().Unix() - sched.EpochAnchor.UTC().Unix()) % sched.TotalSeconds
	if offset < 0 {
		offset += sched.TotalSeconds
	}

	// Linear scan; slot counts are small (a day of feature-length titles)
	for _, slot := range sched.Slots {
		if offset >= slot.StartOffset && offset < slot.EndOffset() {
			elapsed := offset - slot.StartOffset
			remaining := slot.Duration - elapsed

			var seek int64
			if liveOffset {
				seek = clampSeek(elapsed, slot)
			}

			startedAt := at.Add(-time.Duration(elapsed) * time.Second)
			return &Program{
				Slot:             slot,
				Item:             slot.Item,
				ElapsedSeconds:   elapsed,
				RemainingSeconds: remaining,
				SeekSeconds:      seek,
				StartedAt:        startedAt,
				EndsAt:           startedAt.Add(time.Duration(slot.Duration) * time.Second),
			}, nil
		}
	}

	// Unreachable when the contiguity invariant holds; treat a defective
	// sequence as unprogrammed rather than guessing
	return nil, ErrNoProgramming
}

// clampSeek clamps the resume position to [0, itemDuration-1] so playback
// never seeks to or past the very end of the title
func clampSeek(elapsed int64, slot *models.Slot) int64 {
	max := slot.Duration - 1
	if slot.Item != nil {
		max = slot.Item.Duration - 1
	}
	if max < 0 {
		return 0
	}
	if elapsed < 0 {
		return 0
	}
	if elapsed > max {
		return max
	}
	return elapsed
}
