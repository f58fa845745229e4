package schedule

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/netpersona/popcorn/internal/clock"
	"github.com/netpersona/popcorn/internal/db"
	"github.com/netpersona/popcorn/internal/logger"
	"github.com/netpersona/popcorn/internal/models"
)

// Service is the read side of the engine: channel lineup, full schedules,
// and what-is-on-now queries. Every read first lets the reshuffler repair
// staleness, so callers always see a schedule inside the current window
// (or the previous one when the catalog is down).
type Service struct {
	repos      *db.Repositories
	store      *Store
	reshuffler *Reshuffler
	clock      clock.Clock
}

// NewService creates a schedule query service
func NewService(repos *db.Repositories, store *Store, reshuffler *Reshuffler, clk clock.Clock) *Service {
	return &Service{
		repos:      repos,
		store:      store,
		reshuffler: reshuffler,
		clock:      clk,
	}
}

// Channels returns every channel that currently has a schedule, sorted by
// channel number then id
func (s *Service) Channels(ctx context.Context) ([]*models.Schedule, error) {
	if err := s.refresh(ctx); err != nil {
		return nil, err
	}

	schedules, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	list := make([]*models.Schedule, 0, len(schedules))
	for _, schedule := range schedules {
		list = append(list, schedule)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].ChannelName != list[j].ChannelName {
			return list[i].ChannelName < list[j].ChannelName
		}
		return list[i].ChannelID < list[j].ChannelID
	})

	return list, nil
}

// Schedule returns a channel's full slot sequence
func (s *Service) Schedule(ctx context.Context, channelID string) (*models.Schedule, error) {
	if err := s.refresh(ctx); err != nil {
		return nil, err
	}
	return s.loadSchedule(ctx, channelID)
}

// NowPlaying resolves what a channel is airing right now for the given
// viewer. The viewer's live-offset preference decides whether the resume
// position tracks the broadcast or starts from the beginning.
func (s *Service) NowPlaying(ctx context.Context, channelID, viewerID string) (*Program, error) {
	return s.ProgramAt(ctx, channelID, viewerID, s.clock.Now())
}

// ProgramAt resolves what a channel is airing at an arbitrary instant
func (s *Service) ProgramAt(ctx context.Context, channelID, viewerID string, at time.Time) (*Program, error) {
	if err := s.refresh(ctx); err != nil {
		return nil, err
	}

	schedule, err := s.loadSchedule(ctx, channelID)
	if err != nil {
		return nil, err
	}

	liveOffset := true
	if viewerID != "" {
		pref, err := s.repos.ViewerPrefs.Get(ctx, viewerID)
		if err != nil {
			return nil, fmt.Errorf("failed to load viewer preference: %w", err)
		}
		liveOffset = pref.LiveOffset
	}

	return ResolveProgram(schedule, at, liveOffset)
}

// loadSchedule retrieves a channel's schedule, handling a missing schedule
// like staleness: regenerate and retry once before reporting not found.
// Unknown channel ids stay not found because regeneration never produces
// them.
func (s *Service) loadSchedule(ctx context.Context, channelID string) (*models.Schedule, error) {
	schedule, err := s.store.Load(ctx, channelID)
	if err == nil || !errors.Is(err, ErrScheduleNotFound) {
		return schedule, err
	}

	if refreshErr := s.reshuffler.EnsureFresh(ctx); refreshErr != nil {
		logger.Log.Warn().
			Err(refreshErr).
			Str("channel_id", channelID).
			Msg("Failed to regenerate after missing schedule")
		return nil, err
	}
	return s.store.Load(ctx, channelID)
}

// Reshuffle forces an immediate full regeneration
func (s *Service) Reshuffle(ctx context.Context) error {
	return s.reshuffler.Force(ctx)
}

// Freshness reports the reshuffler's current state
func (s *Service) Freshness() Freshness {
	return s.reshuffler.State()
}

// refresh lazily repairs staleness before a read. A failed pass against a
// dead catalog is tolerated as long as previous schedules exist.
func (s *Service) refresh(ctx context.Context) error {
	err := s.reshuffler.EnsureFresh(ctx)
	if err == nil {
		return nil
	}
	logger.Log.Warn().Err(err).Msg("Serving previous schedules after failed refresh")
	return nil
}
