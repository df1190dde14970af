// Package api assembles the HTTP surface of Cadenza: the Echo server,
// its middleware stack, and the route groups that expose search, auth,
// profile, history, scheduler, and log endpoints.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cadenza/cadenza/internal/api/ratelimit"
	"github.com/cadenza/cadenza/internal/auth"
	"github.com/cadenza/cadenza/internal/catalog"
	"github.com/cadenza/cadenza/internal/catalog/mock"
	"github.com/cadenza/cadenza/internal/catalog/spotify"
	"github.com/cadenza/cadenza/internal/config"
	"github.com/cadenza/cadenza/internal/database"
	"github.com/cadenza/cadenza/internal/history"
	"github.com/cadenza/cadenza/internal/profile"
	"github.com/cadenza/cadenza/internal/scheduler"
	"github.com/cadenza/cadenza/internal/websocket"
)

const serverVersion = "0.1.0-dev"

// Server handles HTTP requests for the Cadenza API.
type Server struct {
	echo      *echo.Echo
	dbManager *database.Manager
	hub       *websocket.Hub
	logger    zerolog.Logger
	cfg       *config.Config
	startTime time.Time

	// Services
	catalogService *catalog.Service
	historyService *history.Service
	profileService *profile.Service
	authService    *auth.Service
	passkeyService *auth.PasskeyService
	authLimiter    *ratelimit.AuthLimiter
	scheduler      *scheduler.Scheduler
	logsProvider   LogsProvider

	// realProvider is kept so developer mode can switch back to it.
	realProvider catalog.Provider
}

// NewServer creates a new API server instance. The scheduler may be nil;
// its routes are then not registered.
func NewServer(dbManager *database.Manager, hub *websocket.Hub, cfg *config.Config, logger zerolog.Logger, sched *scheduler.Scheduler) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:      e,
		dbManager: dbManager,
		hub:       hub,
		logger:    logger,
		cfg:       cfg,
		scheduler: sched,
		startTime: time.Now(),
	}

	db := dbManager.Conn()

	authService, err := auth.NewService(db, cfg.Auth.JWTSecret, cfg.Auth.SessionHours)
	if err != nil {
		return nil, fmt.Errorf("init auth service: %w", err)
	}
	s.authService = authService

	passkeyService, err := auth.NewPasskeyService(db, auth.PasskeyConfig{
		RPDisplayName: cfg.Auth.PasskeyDisplayName,
		RPID:          cfg.Auth.PasskeyRPID,
		RPOrigins:     cfg.Auth.PasskeyOrigins,
	})
	if err != nil {
		return nil, fmt.Errorf("init passkey service: %w", err)
	}
	s.passkeyService = passkeyService

	s.historyService = history.NewService(db, logger)
	s.profileService = profile.NewService(db, logger)

	// The real provider is built up front so toggling developer mode can
	// swap between it and the mock catalog without re-reading config.
	s.realProvider = spotify.NewClient(cfg.Spotify, logger)
	var provider catalog.Provider = s.realProvider
	if dbManager.IsDevMode() {
		provider = mock.NewProvider()
	}
	s.catalogService = catalog.NewServiceWithProvider(provider, cfg.Search, &logger)

	s.authLimiter = ratelimit.NewAuthLimiter()
	s.authLimiter.StartCleanup(5 * time.Minute)

	if hub != nil {
		hub.SetDevModeHandler(s.handleDevModeToggle)
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s, nil
}

// Start begins listening for HTTP requests.
func (s *Server) Start(address string) error {
	s.logger.Info().Str("address", address).Msg("starting HTTP server")
	return s.echo.Start(address)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")
	return s.echo.Shutdown(ctx)
}

// Echo returns the underlying Echo instance (for mounting the WebSocket
// endpoint).
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// CatalogService returns the catalog service, used by main to register
// scheduler tasks against it.
func (s *Server) CatalogService() *catalog.Service {
	return s.catalogService
}

// HistoryService returns the history service.
func (s *Server) HistoryService() *history.Service {
	return s.historyService
}

// --- System handlers ---

func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"version":       serverVersion,
		"startTime":     s.startTime.Format(time.RFC3339),
		"developerMode": s.dbManager.IsDevMode(),
		"catalog":       s.catalogService.Status(),
	})
}
