package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/netpersona/popcorn/internal/catalog"
	"github.com/netpersona/popcorn/internal/clock"
	"github.com/netpersona/popcorn/internal/config"
	"github.com/netpersona/popcorn/internal/db"
	"github.com/netpersona/popcorn/internal/logger"
	"github.com/netpersona/popcorn/internal/models"
)

// Freshness is the reshuffler's view of the schedule set
type Freshness int

const (
	// Fresh means the schedules are inside the reshuffle window
	Fresh Freshness = iota
	// Stale means the window has elapsed and regeneration is due
	Stale
	// Regenerating means a regeneration pass is in flight
	Regenerating
)

// String returns the freshness state name
func (f Freshness) String() string {
	switch f {
	case Fresh:
		return "fresh"
	case Stale:
		return "stale"
	case Regenerating:
		return "regenerating"
	default:
		return "unknown"
	}
}

// Reshuffler decides when the schedule set has gone stale and rebuilds it.
//
// Staleness is checked lazily on access and optionally by a background
// ticker. At most one regeneration pass runs at a time: concurrent triggers
// join the in-flight pass and return once it completes. If the catalog is
// unreachable the pass is abandoned and the previous schedules keep serving.
type Reshuffler struct {
	repos  *db.Repositories
	store  *Store
	source catalog.Source
	clock  clock.Clock
	cfg    config.ScheduleConfig

	mu        sync.Mutex
	state     Freshness
	inrun     chan struct{}
	runErr    error
	passEmpty bool
}

// NewReshuffler creates a reshuffler over the given store and catalog source
func NewReshuffler(repos *db.Repositories, store *Store, source catalog.Source, clk clock.Clock, cfg config.ScheduleConfig) *Reshuffler {
	return &Reshuffler{
		repos:  repos,
		store:  store,
		source: source,
		clock:  clk,
		cfg:    cfg,
		state:  Stale,
	}
}

// State returns the current freshness state
func (r *Reshuffler) State() Freshness {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// EnsureFresh regenerates the schedule set if it has gone stale, joining any
// pass already in flight. Returns without regenerating when fresh.
func (r *Reshuffler) EnsureFresh(ctx context.Context) error {
	stale, err := r.checkStale(ctx)
	if err != nil {
		return err
	}
	if !stale {
		return nil
	}
	return r.trigger(ctx, false)
}

// Force regenerates the schedule set immediately, regardless of freshness.
// Concurrent calls join the in-flight pass rather than stacking new ones.
func (r *Reshuffler) Force(ctx context.Context) error {
	return r.trigger(ctx, true)
}

// Run checks staleness on a fixed period until the context is cancelled.
// A zero check period disables the loop.
func (r *Reshuffler) Run(ctx context.Context) {
	if r.cfg.ReshuffleCheckPeriod <= 0 {
		logger.Log.Info().Msg("Background reshuffle check disabled")
		return
	}

	ticker := time.NewTicker(r.cfg.ReshuffleCheckPeriod)
	defer ticker.Stop()

	logger.Log.Info().
		Dur("period", r.cfg.ReshuffleCheckPeriod).
		Msg("Background reshuffle check started")

	for {
		select {
		case <-ctx.Done():
			logger.Log.Info().Msg("Background reshuffle check stopped")
			return
		case <-ticker.C:
			if err := r.EnsureFresh(ctx); err != nil {
				logger.Log.Error().Err(err).Msg("Background reshuffle failed")
			}
		}
	}
}

// checkStale reports whether the reshuffle window has elapsed since the last
// regeneration
func (r *Reshuffler) checkStale(ctx context.Context) (bool, error) {
	r.mu.Lock()
	if r.state == Regenerating {
		r.mu.Unlock()
		return true, nil
	}
	r.mu.Unlock()

	settings, err := r.repos.Settings.Get(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to load reshuffle settings: %w", err)
	}

	if settings.LastReshuffledAt == nil {
		return true, nil
	}

	window := models.FrequencyWindow(settings.Frequency)
	stale := r.clock.Now().Sub(settings.LastReshuffledAt.UTC()) >= window

	// Settings can say fresh while no schedules exist, such as after a
	// partial restore. Missing schedules count as stale, unless the last
	// pass genuinely produced no channels (empty catalog, no open windows).
	if !stale {
		count, err := r.repos.Schedules.Count(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to count schedules: %w", err)
		}
		r.mu.Lock()
		passEmpty := r.passEmpty
		r.mu.Unlock()
		stale = count == 0 && !passEmpty
	}

	r.mu.Lock()
	if r.state != Regenerating {
		if stale {
			r.state = Stale
		} else {
			r.state = Fresh
		}
	}
	r.mu.Unlock()

	return stale, nil
}

// trigger starts a regeneration pass or joins the one already running
func (r *Reshuffler) trigger(ctx context.Context, forced bool) error {
	r.mu.Lock()
	if r.inrun != nil {
		done := r.inrun
		r.mu.Unlock()
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
		r.mu.Lock()
		err := r.runErr
		r.mu.Unlock()
		return err
	}

	done := make(chan struct{})
	r.inrun = done
	r.state = Regenerating
	r.mu.Unlock()

	err := r.regenerate(ctx, forced)

	r.mu.Lock()
	r.runErr = err
	r.inrun = nil
	if err != nil {
		r.state = Stale
	} else {
		r.state = Fresh
	}
	r.mu.Unlock()
	close(done)

	return err
}

// regenerate fetches the catalog, reclassifies it into channels, and packs a
// fresh schedule per channel
func (r *Reshuffler) regenerate(ctx context.Context, forced bool) error {
	now := r.clock.Now()
	anchor := EpochAnchor(now)

	logger.Log.Info().
		Bool("forced", forced).
		Time("epoch_anchor", anchor).
		Msg("Regenerating schedules")

	fetchCtx, cancel := context.WithTimeout(ctx, r.cfg.CatalogFetchTimeout)
	defer cancel()

	snapshot, err := catalog.Take(fetchCtx, r.source)
	if err != nil {
		logger.Log.Warn().
			Err(err).
			Msg("Catalog unavailable, keeping previous schedules")
		return fmt.Errorf("%w: %v", catalog.ErrUnavailable, err)
	}

	channels, err := r.repos.Channels.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list channels: %w", err)
	}

	assignments := Classify(snapshot, channels, now)

	for _, assignment := range assignments {
		seed := GenerationSeed(assignment.Channel.ID, anchor)
		if forced {
			seed = ReshuffleSeed(assignment.Channel.ID, now)
		}

		slots := Pack(assignment.Channel.ID, assignment.Items, r.cfg.HorizonSeconds(), seed)
		schedule := models.NewSchedule(assignment.Channel.ID, assignment.Channel.Name, slots, now, anchor)

		// Empty schedules are saved too so queries report no programming
		// instead of retriggering regeneration
		if err := r.store.Save(ctx, schedule); err != nil {
			return err
		}
	}

	keep := make(map[string]bool, len(assignments))
	for _, assignment := range assignments {
		keep[assignment.Channel.ID] = true
	}
	if err := r.store.Prune(ctx, keep); err != nil {
		return err
	}

	r.mu.Lock()
	r.passEmpty = len(assignments) == 0
	r.mu.Unlock()

	settings, err := r.repos.Settings.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to load reshuffle settings: %w", err)
	}
	reshuffledAt := now
	settings.LastReshuffledAt = &reshuffledAt
	if err := r.repos.Settings.Update(ctx, settings); err != nil {
		return fmt.Errorf("failed to record reshuffle time: %w", err)
	}

	logger.Log.Info().
		Int("channel_count", len(assignments)).
		Int("item_count", snapshot.Len()).
		Bool("forced", forced).
		Msg("Schedules regenerated")

	return nil
}
