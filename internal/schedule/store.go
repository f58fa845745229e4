package schedule

import (
	"context"
	"fmt"
	"sync"

	"github.com/netpersona/popcorn/internal/db"
	"github.com/netpersona/popcorn/internal/logger"
	"github.com/netpersona/popcorn/internal/models"
)

// Store owns all generated schedules. Writes replace a channel's schedule
// wholesale under a per-channel lock, persisting through a single transaction
// and then swapping the in-memory copy, so concurrent readers observe either
// the old or the new schedule in full, never a mix.
type Store struct {
	repos *db.Repositories

	mu    sync.RWMutex
	cache map[string]*models.Schedule
	locks map[string]*sync.Mutex
}

// NewStore creates a schedule store over the given repositories
func NewStore(repos *db.Repositories) *Store {
	return &Store{
		repos: repos,
		cache: make(map[string]*models.Schedule),
		locks: make(map[string]*sync.Mutex),
	}
}

// Save atomically replaces a channel's schedule
func (s *Store) Save(ctx context.Context, schedule *models.Schedule) error {
	lock := s.channelLock(schedule.ChannelID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.repos.Schedules.Replace(ctx, schedule); err != nil {
		logger.Log.Error().
			Err(err).
			Str("channel_id", schedule.ChannelID).
			Msg("Failed to persist schedule")
		return fmt.Errorf("failed to save schedule: %w", err)
	}

	s.mu.Lock()
	s.cache[schedule.ChannelID] = schedule
	s.mu.Unlock()

	logger.Log.Info().
		Str("channel_id", schedule.ChannelID).
		Str("channel_name", schedule.ChannelName).
		Int("slot_count", len(schedule.Slots)).
		Int64("total_seconds", schedule.TotalSeconds).
		Time("epoch_anchor", schedule.EpochAnchor).
		Msg("Schedule saved")

	return nil
}

// Load retrieves a channel's schedule, returning ErrScheduleNotFound if none
// has been generated yet
func (s *Store) Load(ctx context.Context, channelID string) (*models.Schedule, error) {
	s.mu.RLock()
	cached, ok := s.cache[channelID]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	schedule, err := s.repos.Schedules.GetByChannelID(ctx, channelID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrScheduleNotFound
		}
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}

	s.mu.Lock()
	s.cache[channelID] = schedule
	s.mu.Unlock()

	return schedule, nil
}

// LoadAll retrieves every generated schedule keyed by channel id
func (s *Store) LoadAll(ctx context.Context) (map[string]*models.Schedule, error) {
	schedules, err := s.repos.Schedules.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedules: %w", err)
	}

	result := make(map[string]*models.Schedule, len(schedules))
	s.mu.Lock()
	for _, schedule := range schedules {
		s.cache[schedule.ChannelID] = schedule
		result[schedule.ChannelID] = schedule
	}
	s.mu.Unlock()

	return result, nil
}

// Prune removes schedules for channels outside the keep set, such as
// seasonal channels whose calendar window has closed
func (s *Store) Prune(ctx context.Context, keep map[string]bool) error {
	schedules, err := s.repos.Schedules.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list schedules for pruning: %w", err)
	}

	for _, schedule := range schedules {
		if keep[schedule.ChannelID] {
			continue
		}
		lock := s.channelLock(schedule.ChannelID)
		lock.Lock()
		err := s.repos.Schedules.Delete(ctx, schedule.ChannelID)
		if err == nil {
			s.mu.Lock()
			delete(s.cache, schedule.ChannelID)
			s.mu.Unlock()
		}
		lock.Unlock()
		if err != nil {
			return fmt.Errorf("failed to prune schedule: %w", err)
		}
		logger.Log.Info().
			Str("channel_id", schedule.ChannelID).
			Msg("Pruned schedule for inactive channel")
	}

	return nil
}

// Clear removes all schedules, in memory and persisted (full regeneration)
func (s *Store) Clear(ctx context.Context) error {
	if err := s.repos.Schedules.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to clear schedules: %w", err)
	}
	s.mu.Lock()
	s.cache = make(map[string]*models.Schedule)
	s.mu.Unlock()
	return nil
}

// channelLock returns the write lock for a channel, creating it on first use
func (s *Store) channelLock(channelID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[channelID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[channelID] = lock
	}
	return lock
}
