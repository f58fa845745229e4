package schedule

import (
	"hash/fnv"
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/netpersona/popcorn/internal/logger"
	"github.com/netpersona/popcorn/internal/models"
)

// Pack lays a channel's item pool into an ordered, gapless slot sequence
// covering at least horizonSeconds.
//
// Items are shuffled with the given seed and appended end-to-end from offset 0.
// Durations are never truncated or split, so the final slot may overshoot the
// horizon by up to one item's duration. If the pool runs out before the
// horizon is covered, it is reshuffled and drawn from again, so small pools
// repeat rather than leave gaps. Items with non-positive durations are
// excluded with a warning.
//
// Pack is pure apart from logging: identical (items, horizonSeconds, seed)
// always yield an identical slot sequence. An empty or all-invalid pool
// yields an empty slot list; callers treat that channel as having no
// programming.
func Pack(channelID string, items []*models.Item, horizonSeconds int64, seed int64) []*models.Slot {
	valid := make([]*models.Item, 0, len(items))
	for _, item := range items {
		if item.Duration <= 0 {
			logger.Log.Warn().
				Str("channel_id", channelID).
				Str("item_id", item.ID.String()).
				Str("title", item.Title).
				Int64("duration", item.Duration).
				Msg("Excluding item with invalid duration from packing")
			continue
		}
		valid = append(valid, item)
	}
	if len(valid) == 0 {
		return []*models.Slot{}
	}

	rng := rand.New(rand.NewSource(seed))
	pool := shuffled(valid, rng)

	slots := make([]*models.Slot, 0, len(pool))
	var offset int64
	poolIndex := 0
	position := 0

	for offset < horizonSeconds {
		if poolIndex == len(pool) {
			// Pool exhausted before the horizon: reshuffle and keep drawing
			pool = shuffled(valid, rng)
			poolIndex = 0
		}
		item := pool[poolIndex]
		poolIndex++

		slots = append(slots, &models.Slot{
			ID:          slotID(rng),
			ChannelID:   channelID,
			ItemID:      item.ID,
			Position:    position,
			StartOffset: offset,
			Duration:    item.Duration,
			Item:        item,
		})
		offset += item.Duration
		position++
	}

	return slots
}

// GenerationSeed derives the deterministic seed for a channel's periodic
// generation. Repacking an unchanged day yields an unchanged layout.
func GenerationSeed(channelID string, epochAnchor time.Time) int64 {
	return hashSeed(channelID, strconv.FormatInt(epochAnchor.UTC().Unix(), 10))
}

// ReshuffleSeed derives a fresh seed for a forced reshuffle from the trigger
// timestamp, so "reshuffle now" visibly changes the layout within a day
func ReshuffleSeed(channelID string, triggeredAt time.Time) int64 {
	return hashSeed(channelID, strconv.FormatInt(triggeredAt.UTC().UnixNano(), 10))
}

// EpochAnchor returns the wall-clock instant slot offset 0 corresponds to:
// the most recent UTC midnight before the given time
func EpochAnchor(t time.Time) time.Time {
	utc := t.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
}

func hashSeed(parts ...string) int64 {
	h := fnv.New64a()
	for _, p := range parts {
		_, _ = h.Write([]byte(p))
		_, _ = h.Write([]byte{0})
	}
	return int64(h.Sum64())
}

func shuffled(items []*models.Item, rng *rand.Rand) []*models.Item {
	out := make([]*models.Item, len(items))
	copy(out, items)
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// slotID generates a slot UUID from the packing RNG so that identical packs
// produce identical sequences end to end
func slotID(rng *rand.Rand) uuid.UUID {
	var b [16]byte
	_, _ = rng.Read(b[:])
	b[6] = (b[6] & 0x0f) | 0x40 // version 4
	b[8] = (b[8] & 0x3f) | 0x80 // variant 10
	return uuid.UUID(b)
}
