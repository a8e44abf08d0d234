package bootstrap

import (
	"context"
	"log/slog"

	"github.com/sproutcare/engagement-engine/internal/engine"
	"github.com/sproutcare/engagement-engine/internal/event"
	"github.com/sproutcare/engagement-engine/internal/scheduler"
	"github.com/sproutcare/engagement-engine/internal/server"
	"github.com/sproutcare/engagement-engine/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown.
type ShutdownComponents struct {
	Server             *server.Server
	Scheduler          *scheduler.Scheduler
	DailyResetWorker   *worker.DailyResetWorker
	WorkerPool         *worker.Pool
	Engine             *engine.Engine
	ResilientPublisher *event.ResilientPublisher
}

// GracefulShutdown stops all application components in dependency order:
// the HTTP server first so no new requests arrive, then the timed workers,
// then the engine (which flushes every cached state to the store), and the
// event publisher last so pending events still drain.
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if err := components.Server.Stop(ctx); err != nil {
		slog.Error(LogMsgServerForcedShutdown, "error", err)
	}

	if components.Scheduler != nil {
		components.Scheduler.Stop()
	}

	if components.DailyResetWorker != nil {
		if err := components.DailyResetWorker.Shutdown(ctx); err != nil {
			slog.Error(LogMsgResetWorkerShutdownFailed, "error", err)
		}
	}

	if components.WorkerPool != nil {
		components.WorkerPool.Stop()
	}

	if err := components.Engine.Shutdown(ctx); err != nil {
		slog.Error(LogMsgEngineShutdownFailed, "error", err)
	}

	slog.Info(LogMsgShuttingDownEventPublisher)
	if err := components.ResilientPublisher.Shutdown(ctx); err != nil {
		slog.Error(LogMsgResilientPublisherFailed, "error", err)
	}

	slog.Info(LogMsgServerStopped)
}
