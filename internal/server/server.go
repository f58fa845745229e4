// Package server provides the HTTP server setup and routing configuration.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/netpersona/popcorn/internal/api"
	"github.com/netpersona/popcorn/internal/catalog"
	"github.com/netpersona/popcorn/internal/clock"
	"github.com/netpersona/popcorn/internal/config"
	"github.com/netpersona/popcorn/internal/db"
	"github.com/netpersona/popcorn/internal/logger"
	"github.com/netpersona/popcorn/internal/middleware"
	"github.com/netpersona/popcorn/internal/playback"
	"github.com/netpersona/popcorn/internal/schedule"
)

// Server represents the HTTP server
type Server struct {
	config     *config.Config
	db         *db.DB
	repos      *db.Repositories
	store      *schedule.Store
	reshuffler *schedule.Reshuffler
	service    *schedule.Service
	dispatcher playback.Dispatcher
	clock      clock.Clock
	router     *gin.Engine
	server     *http.Server

	cancelBackground context.CancelFunc
}

// New creates a new server instance
func New(cfg *config.Config, database *db.DB) *Server {
	clk := clock.System{}
	repos := db.NewRepositories(database)
	store := schedule.NewStore(repos)
	source := catalog.NewLibrarySource(repos)
	reshuffler := schedule.NewReshuffler(repos, store, source, clk, cfg.Schedule)
	service := schedule.NewService(repos, store, reshuffler, clk)

	return &Server{
		config:     cfg,
		db:         database,
		repos:      repos,
		store:      store,
		reshuffler: reshuffler,
		service:    service,
		dispatcher: playback.NewLogDispatcher(),
		clock:      clk,
	}
}

// setupRouter initializes the Gin router with middleware and routes
func (s *Server) setupRouter() {
	if s.config.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s.router = gin.New()

	s.router.Use(middleware.RequestLogger())
	s.router.Use(gin.Recovery())
	s.router.Use(cors.Default())

	apiGroup := s.router.Group("/api")

	api.SetupHealthRoutes(apiGroup, s.db, s.service)
	api.SetupChannelRoutes(apiGroup, s.service, s.dispatcher)
	api.SetupItemRoutes(apiGroup, s.repos)
	api.SetupSettingsRoutes(apiGroup, s.repos, s.service)
	api.SetupViewerRoutes(apiGroup, s.repos)

	// Tuner-facing artifacts live at the root, not under /api
	api.SetupGuideRoutes(s.router, s.service, s.clock)
}

// Start starts the HTTP server and the background reshuffle check
func (s *Server) Start() error {
	s.setupRouter()

	initCtx, cancelInit := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelInit()
	if _, err := s.repos.Settings.EnsureDefault(initCtx, s.config.Schedule.ReshuffleFrequency); err != nil {
		return fmt.Errorf("failed to initialize settings: %w", err)
	}

	bgCtx, cancel := context.WithCancel(context.Background())
	s.cancelBackground = cancel
	go s.reshuffler.Run(bgCtx)

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	s.server = &http.Server{
		Addr:           addr,
		Handler:        s.router,
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	logger.Log.Info().
		Str("host", s.config.Server.Host).
		Int("port", s.config.Server.Port).
		Msg("Starting HTTP server")

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Log.Info().Msg("Shutting down server gracefully")

	if s.cancelBackground != nil {
		s.cancelBackground()
	}

	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
	}

	logger.Log.Info().Msg("Server stopped")
	return nil
}
