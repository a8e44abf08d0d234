package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sproutcare/engagement-engine/internal/bootstrap"
	"github.com/sproutcare/engagement-engine/internal/config"
	"github.com/sproutcare/engagement-engine/internal/database"
	"github.com/sproutcare/engagement-engine/internal/engine"
	"github.com/sproutcare/engagement-engine/internal/eventlog"
	"github.com/sproutcare/engagement-engine/internal/scheduler"
	"github.com/sproutcare/engagement-engine/internal/server"
	"github.com/sproutcare/engagement-engine/internal/worker"
)

// ShutdownTimeout bounds how long graceful shutdown may take
const ShutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Configuration failed", "error", err)
		os.Exit(1)
	}

	initLogger(cfg)
	slog.Info("Starting engagement engine",
		"version", cfg.Version,
		"environment", cfg.Environment,
		"port", cfg.Port)

	dbPool, err := database.NewPool(context.Background(), cfg.GetDBConnString(), bootstrap.DBMaxConnections, bootstrap.DBMaxIdleTime, bootstrap.DBMaxLifetime)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	repos := bootstrap.InitializeRepositories(dbPool)

	eventBus, publisher, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		slog.Error("Failed to initialize event system", "error", err)
		os.Exit(1)
	}

	eventLogService := eventlog.NewService(repos.EventLog)
	notifier := bootstrap.BuildNotifier(cfg)
	if err := bootstrap.RegisterEventHandlers(eventBus, eventLogService, notifier); err != nil {
		slog.Error("Failed to register event handlers", "error", err)
		os.Exit(1)
	}

	resetLocation := cfg.ResetLocation()

	eng, err := engine.NewEngine(repos.State, publisher, cfg.StateCacheSize,
		engine.WithLocation(resetLocation))
	if err != nil {
		slog.Error("Failed to create engine", "error", err)
		os.Exit(1)
	}

	// Background jobs run on a shared worker pool
	pool := worker.NewPool(cfg.WorkerCount, cfg.WorkerQueueSize)
	pool.Start()

	sched := scheduler.New(pool)
	sched.Schedule(cfg.SnapshotInterval, engine.NewSnapshotJob(eng))
	sched.Schedule(bootstrap.InactivityScanInterval, engine.NewInactivityScanJob(eng, cfg.InactivityThreshold))
	sched.Schedule(bootstrap.EventLogCleanupInterval, eventlog.NewCleanupJob(eventLogService, eventlog.DefaultRetentionDays))

	// The reset worker owns the local-midnight sweep
	resetWorker := worker.NewDailyResetWorker(eng, resetLocation)
	resetWorker.Start()

	srv := server.NewServer(cfg.Port, cfg.APIKey, cfg.Version, dbPool, eng, eventLogService, resetWorker)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		slog.Error("Server failed", "error", err)
	case sig := <-stop:
		slog.Info("Shutdown signal received", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	bootstrap.GracefulShutdown(ctx, bootstrap.ShutdownComponents{
		Server:             srv,
		Scheduler:          sched,
		DailyResetWorker:   resetWorker,
		WorkerPool:         pool,
		Engine:             eng,
		ResilientPublisher: publisher,
	})
}
