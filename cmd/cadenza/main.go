package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/cadenza/cadenza/internal/api"
	"github.com/cadenza/cadenza/internal/config"
	"github.com/cadenza/cadenza/internal/database"
	"github.com/cadenza/cadenza/internal/logger"
	"github.com/cadenza/cadenza/internal/scheduler"
	"github.com/cadenza/cadenza/internal/scheduler/tasks"
	"github.com/cadenza/cadenza/internal/websocket"
)

func main() {
	// A local .env is a developer convenience; in production everything
	// comes from the config file or CADENZA_* environment variables.
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(logger.Config{
		Level:           cfg.Logging.Level,
		Format:          cfg.Logging.Format,
		Path:            cfg.Logging.Path,
		MaxSizeMB:       cfg.Logging.MaxSizeMB,
		MaxBackups:      cfg.Logging.MaxBackups,
		MaxAgeDays:      cfg.Logging.MaxAgeDays,
		Compress:        cfg.Logging.Compress,
		EnableStreaming: true,
		BufferSize:      1000,
	})
	defer log.Close()

	log.Info().
		Str("logLevel", cfg.Logging.Level).
		Bool("developerMode", cfg.DeveloperMode).
		Msg("starting Cadenza")

	devDBPath := cfg.Database.Path[:len(cfg.Database.Path)-3] + "_dev.db"

	dbManager, err := database.NewManager(cfg.Database.Path, devDBPath, &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database manager")
	}
	defer dbManager.Close()

	log.Info().Msg("running database migrations")
	if err := dbManager.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	if cfg.DeveloperMode {
		if err := dbManager.SetDevMode(true); err != nil {
			log.Fatal().Err(err).Msg("failed to enable developer mode database")
		}
		log.Info().Msg("developer mode enabled at startup")
	}

	hub := websocket.NewHub()
	go hub.Run()

	// Stream log entries to connected clients now that the hub exists
	log.SetBroadcastHub(hub)

	sched, err := scheduler.New(log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create scheduler")
	}

	server, err := api.NewServer(dbManager, hub, cfg, log.Logger, sched)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create API server")
	}
	server.SetLogsProvider(log)

	if err := tasks.RegisterHistoryCleanupTask(sched, server.HistoryService()); err != nil {
		log.Error().Err(err).Msg("failed to register history cleanup task")
	}
	if err := tasks.RegisterCatalogWarmTask(sched, server.CatalogService(), server.HistoryService()); err != nil {
		log.Error().Err(err).Msg("failed to register catalog warm task")
	}
	if err := sched.Start(); err != nil {
		log.Error().Err(err).Msg("failed to start scheduler")
	}

	server.Echo().GET("/ws", hub.HandleWebSocket)

	go func() {
		addr := cfg.Server.Address()
		log.Info().Str("address", addr).Msg("HTTP server listening")
		if err := server.Start(addr); err != nil {
			log.Info().Msg("server stopped")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Info().Msg("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := sched.Stop(); err != nil {
		log.Error().Err(err).Msg("scheduler shutdown error")
	}
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}

	log.Info().Msg("server stopped")
}
