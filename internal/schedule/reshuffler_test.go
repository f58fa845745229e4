package schedule

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netpersona/popcorn/internal/catalog"
	"github.com/netpersona/popcorn/internal/clock"
	"github.com/netpersona/popcorn/internal/config"
	"github.com/netpersona/popcorn/internal/models"
)

func testScheduleConfig() config.ScheduleConfig {
	return config.ScheduleConfig{
		HorizonHours:        24,
		ReshuffleFrequency:  models.FrequencyWeekly,
		CatalogFetchTimeout: 5 * time.Second,
	}
}

func testCatalog() *catalog.StaticSource {
	items := makeItems(5400, 7200, 6300, 4500)
	for i, item := range items {
		item.Genres = []string{"action", "comedy", "action", "horror"}[i]
	}
	return &catalog.StaticSource{ItemList: items}
}

func TestReshuffler(t *testing.T) {
	june := time.Date(2024, 6, 10, 15, 0, 0, 0, time.UTC)

	t.Run("generates schedules when never reshuffled", func(t *testing.T) {
		_, repos, cleanup := setupTestDB(t)
		defer cleanup()

		store := NewStore(repos)
		clk := clock.NewManual(june)
		r := NewReshuffler(repos, store, testCatalog(), clk, testScheduleConfig())

		require.NoError(t, r.EnsureFresh(context.Background()))
		assert.Equal(t, Fresh, r.State())

		all, err := store.LoadAll(context.Background())
		require.NoError(t, err)
		// June: three genre channels, no seasonal windows open
		assert.Len(t, all, 3)
		assert.Contains(t, all, "action")
		assert.Contains(t, all, "comedy")
		assert.Contains(t, all, "horror")

		settings, err := repos.Settings.Get(context.Background())
		require.NoError(t, err)
		require.NotNil(t, settings.LastReshuffledAt)
		assert.WithinDuration(t, june, settings.LastReshuffledAt.UTC(), time.Second)
	})

	t.Run("inside the window nothing is regenerated", func(t *testing.T) {
		_, repos, cleanup := setupTestDB(t)
		defer cleanup()

		store := NewStore(repos)
		clk := clock.NewManual(june)
		r := NewReshuffler(repos, store, testCatalog(), clk, testScheduleConfig())

		require.NoError(t, r.EnsureFresh(context.Background()))
		before, err := store.Load(context.Background(), "action")
		require.NoError(t, err)

		clk.Advance(24 * time.Hour) // weekly window, one day is fresh
		require.NoError(t, r.EnsureFresh(context.Background()))

		after, err := store.Load(context.Background(), "action")
		require.NoError(t, err)
		assert.Equal(t, before.GeneratedAt, after.GeneratedAt)
	})

	t.Run("past the window schedules regenerate", func(t *testing.T) {
		_, repos, cleanup := setupTestDB(t)
		defer cleanup()

		store := NewStore(repos)
		clk := clock.NewManual(june)
		cfg := testScheduleConfig()
		cfg.ReshuffleFrequency = models.FrequencyDaily
		r := NewReshuffler(repos, store, testCatalog(), clk, cfg)

		require.NoError(t, r.EnsureFresh(context.Background()))
		settings, err := repos.Settings.Get(context.Background())
		require.NoError(t, err)
		settings.Frequency = models.FrequencyDaily
		require.NoError(t, repos.Settings.Update(context.Background(), settings))

		before, err := store.Load(context.Background(), "action")
		require.NoError(t, err)

		clk.Advance(25 * time.Hour)
		require.NoError(t, r.EnsureFresh(context.Background()))

		after, err := store.Load(context.Background(), "action")
		require.NoError(t, err)
		assert.True(t, after.GeneratedAt.After(before.GeneratedAt))
		assert.Equal(t, EpochAnchor(clk.Now()), after.EpochAnchor)
	})

	t.Run("seasonal channels appear inside their window and prune outside", func(t *testing.T) {
		_, repos, cleanup := setupTestDB(t)
		defer cleanup()

		store := NewStore(repos)
		october := time.Date(2024, 10, 15, 12, 0, 0, 0, time.UTC)
		clk := clock.NewManual(october)
		source := testCatalog()
		halloween := models.NewItem("Halloween", "horror", 5460, "lib://halloween")
		halloween.ContentRating = "R"
		source.ItemList = append(source.ItemList, halloween)

		r := NewReshuffler(repos, store, source, clk, testScheduleConfig())
		require.NoError(t, r.Force(context.Background()))

		all, err := store.LoadAll(context.Background())
		require.NoError(t, err)
		assert.Contains(t, all, "scary-halloween")

		// December: halloween windows closed, christmas open
		clk.Set(time.Date(2024, 12, 15, 12, 0, 0, 0, time.UTC))
		require.NoError(t, r.Force(context.Background()))

		all, err = store.LoadAll(context.Background())
		require.NoError(t, err)
		assert.NotContains(t, all, "scary-halloween")
		assert.Contains(t, all, "christmas")
	})

	t.Run("forced reshuffle changes the seed", func(t *testing.T) {
		_, repos, cleanup := setupTestDB(t)
		defer cleanup()

		store := NewStore(repos)
		clk := clock.NewManual(june)
		r := NewReshuffler(repos, store, testCatalog(), clk, testScheduleConfig())

		require.NoError(t, r.EnsureFresh(context.Background()))
		before, err := store.Load(context.Background(), "action")
		require.NoError(t, err)

		clk.Advance(time.Minute)
		require.NoError(t, r.Force(context.Background()))

		after, err := store.Load(context.Background(), "action")
		require.NoError(t, err)
		assert.True(t, after.GeneratedAt.After(before.GeneratedAt))
	})

	t.Run("concurrent triggers share one regeneration pass", func(t *testing.T) {
		_, repos, cleanup := setupTestDB(t)
		defer cleanup()

		store := NewStore(repos)
		clk := clock.NewManual(june)
		r := NewReshuffler(repos, store, testCatalog(), clk, testScheduleConfig())

		var wg sync.WaitGroup
		errs := make([]error, 8)
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = r.EnsureFresh(context.Background())
			}(i)
		}
		wg.Wait()

		for _, err := range errs {
			assert.NoError(t, err)
		}
		assert.Equal(t, Fresh, r.State())

		got, err := store.Load(context.Background(), "action")
		require.NoError(t, err)
		assert.False(t, got.Empty())
	})

	t.Run("catalog failure keeps previous schedules serving", func(t *testing.T) {
		_, repos, cleanup := setupTestDB(t)
		defer cleanup()

		store := NewStore(repos)
		clk := clock.NewManual(june)
		source := testCatalog()
		r := NewReshuffler(repos, store, source, clk, testScheduleConfig())

		require.NoError(t, r.EnsureFresh(context.Background()))
		before, err := store.Load(context.Background(), "action")
		require.NoError(t, err)

		source.Err = errors.New("library offline")
		clk.Advance(8 * 24 * time.Hour)

		err = r.EnsureFresh(context.Background())
		require.Error(t, err)
		assert.True(t, catalog.IsUnavailable(err))
		assert.Equal(t, Stale, r.State())

		after, err := store.Load(context.Background(), "action")
		require.NoError(t, err)
		assert.Equal(t, before.GeneratedAt, after.GeneratedAt)

		// Library back: the next check recovers
		source.Err = nil
		require.NoError(t, r.EnsureFresh(context.Background()))
		assert.Equal(t, Fresh, r.State())
	})

	t.Run("missing schedules regenerate even when settings say fresh", func(t *testing.T) {
		_, repos, cleanup := setupTestDB(t)
		defer cleanup()

		store := NewStore(repos)
		clk := clock.NewManual(june)
		r := NewReshuffler(repos, store, testCatalog(), clk, testScheduleConfig())

		// Settings claim a reshuffle just happened, but no schedule rows
		// exist, as after a partial database restore
		settings, err := repos.Settings.Get(context.Background())
		require.NoError(t, err)
		reshuffled := june
		settings.LastReshuffledAt = &reshuffled
		require.NoError(t, repos.Settings.Update(context.Background(), settings))

		svc := NewService(repos, store, r, clk)
		program, err := svc.ProgramAt(context.Background(), "action", "", june)
		require.NoError(t, err)
		require.NotNil(t, program.Item)
		assert.Equal(t, Fresh, r.State())

		all, err := store.LoadAll(context.Background())
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("empty catalog still produces a coherent state", func(t *testing.T) {
		_, repos, cleanup := setupTestDB(t)
		defer cleanup()

		store := NewStore(repos)
		clk := clock.NewManual(june)
		r := NewReshuffler(repos, store, &catalog.StaticSource{}, clk, testScheduleConfig())

		require.NoError(t, r.EnsureFresh(context.Background()))
		assert.Equal(t, Fresh, r.State())

		all, err := store.LoadAll(context.Background())
		require.NoError(t, err)
		assert.Empty(t, all)

		// Producing no channels is not staleness; reads do not retrigger
		require.NoError(t, r.EnsureFresh(context.Background()))
		assert.Equal(t, Fresh, r.State())
	})
}
