//go:build integration
// +build integration

package integration

import (
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/netpersona/popcorn/internal/api"
	"github.com/netpersona/popcorn/internal/catalog"
	"github.com/netpersona/popcorn/internal/clock"
	"github.com/netpersona/popcorn/internal/config"
	"github.com/netpersona/popcorn/internal/db"
	"github.com/netpersona/popcorn/internal/logger"
	"github.com/netpersona/popcorn/internal/playback"
	"github.com/netpersona/popcorn/internal/schedule"
)

// setupTestDB creates a file-backed test database with migrations applied
func setupTestDB(t *testing.T) (*db.DB, *db.Repositories, func()) {
	t.Helper()
	logger.Init("error", false)

	database, err := db.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "Failed to create test database")

	sqlDB, err := database.GetSQLDB()
	require.NoError(t, err, "Failed to get SQL DB")

	// Get absolute path to migrations directory relative to this file
	// so tests work regardless of working directory
	_, filename, _, ok := runtime.Caller(0)
	require.True(t, ok, "Failed to get current file path")

	testDir := filepath.Dir(filename)
	rootDir := filepath.Dir(filepath.Dir(testDir))
	migrationsPath := "file://" + filepath.Join(rootDir, "migrations")

	err = db.RunMigrations(sqlDB, migrationsPath)
	require.NoError(t, err, "Failed to run migrations")

	repos := db.NewRepositories(database)

	cleanup := func() {
		_ = database.Close()
	}

	return database, repos, cleanup
}

// setupEngine wires the full schedule engine over the synced item table with
// a manual clock
func setupEngine(repos *db.Repositories, start time.Time) (*schedule.Service, *clock.Manual) {
	clk := clock.NewManual(start)

	cfg := config.ScheduleConfig{
		HorizonHours:        24,
		ReshuffleFrequency:  "weekly",
		CatalogFetchTimeout: 5 * time.Second,
	}

	store := schedule.NewStore(repos)
	source := catalog.NewLibrarySource(repos)
	reshuffler := schedule.NewReshuffler(repos, store, source, clk, cfg)
	return schedule.NewService(repos, store, reshuffler, clk), clk
}

// setupRouter builds a router with the full API surface, guide routes included
func setupRouter(database *db.DB, repos *db.Repositories, service *schedule.Service, clk clock.Clock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	apiGroup := router.Group("/api")

	api.SetupHealthRoutes(apiGroup, database, service)
	api.SetupChannelRoutes(apiGroup, service, playback.NewLogDispatcher())
	api.SetupItemRoutes(apiGroup, repos)
	api.SetupSettingsRoutes(apiGroup, repos, service)
	api.SetupViewerRoutes(apiGroup, repos)
	api.SetupGuideRoutes(router, service, clk)

	return router
}
