package api

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/cadenza/cadenza/internal/api/handlers"
	apimw "github.com/cadenza/cadenza/internal/api/middleware"
	"github.com/cadenza/cadenza/internal/auth"
	"github.com/cadenza/cadenza/internal/catalog"
	"github.com/cadenza/cadenza/internal/history"
	"github.com/cadenza/cadenza/internal/profile"
)

func (s *Server) setupMiddleware() {
	// Recovery middleware
	s.echo.Use(middleware.Recover())

	// Request ID
	s.echo.Use(middleware.RequestID())

	// Security headers
	s.echo.Use(apimw.SecurityHeaders())

	// Request body size limit (2MB)
	s.echo.Use(middleware.BodyLimit("2M"))

	// CORS - allow same-origin only (origin hostname must match request hostname)
	s.echo.Use(apimw.SameOriginCORS())

	// Request logging
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogMethod:   true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				s.logger.Error().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Err(v.Error).
					Msg("request error")
			} else {
				s.logger.Info().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Msg("request")
			}
			return nil
		},
	}))

	// Block proxy probes (absolute URI requests like GET http://www.google.com/)
	s.echo.Use(apimw.ProxyRequestBlock())

	// Gzip compression
	s.echo.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			// Skip compression for WebSocket
			return c.Request().Header.Get("Upgrade") == "websocket"
		},
	}))
}

// setupRoutes configures API routes.
func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)

	api := s.echo.Group("/api/v1")
	api.GET("/status", s.getStatus)

	protected := api.Group("")
	protected.Use(s.authService.Middleware())

	s.setupAuthRoutes(api, protected)
	s.setupSearchRoutes(protected)
	s.setupProfileRoutes(protected)
	s.setupSchedulerRoutes(protected)
	s.setupLogRoutes(protected)
}

func (s *Server) setupAuthRoutes(api, protected *echo.Group) {
	authPublic := api.Group("/auth")
	authPublic.Use(s.authLimiter.Middleware())
	authProtected := protected.Group("/auth")

	authHandlers := auth.NewHandlers(s.authService, s.authLimiter)
	authHandlers.RegisterRoutes(authPublic, authProtected)

	passkeyHandlers := auth.NewPasskeyHandlers(s.passkeyService, s.authService)
	passkeyHandlers.RegisterRoutes(authPublic, authProtected)
}

func (s *Server) setupSearchRoutes(protected *echo.Group) {
	// A nil *Hub must not end up inside the interface value, or the
	// handlers would see a non-nil notifier and call into it.
	var notifier catalog.Notifier
	if s.hub != nil {
		notifier = s.hub
	}

	catalogHandlers := catalog.NewHandlers(s.catalogService, s.historyService, notifier, s.cfg.Search.DefaultLimit)
	catalogHandlers.RegisterRoutes(protected.Group("/search"))

	historyHandlers := history.NewHandlers(s.historyService)
	historyHandlers.RegisterRoutes(protected.Group("/history"))
}

func (s *Server) setupProfileRoutes(protected *echo.Group) {
	var notifier profile.Notifier
	if s.hub != nil {
		notifier = s.hub
	}

	profileHandlers := profile.NewHandlers(s.profileService, notifier)
	profileHandlers.RegisterRoutes(protected.Group("/profile"))
}

func (s *Server) setupSchedulerRoutes(protected *echo.Group) {
	if s.scheduler == nil {
		return
	}
	schedulerHandler := handlers.NewSchedulerHandler(s.scheduler)
	schedulerGroup := protected.Group("/scheduler")
	schedulerGroup.GET("/tasks", schedulerHandler.ListTasks)
	schedulerGroup.GET("/tasks/:id", schedulerHandler.GetTask)
	schedulerGroup.POST("/tasks/:id/run", schedulerHandler.RunTask)
}

func (s *Server) setupLogRoutes(protected *echo.Group) {
	logs := protected.Group("/logs")
	logs.GET("", s.getRecentLogs)
	logs.GET("/download", s.downloadLogFile)
}
