package bootstrap

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sproutcare/engagement-engine/internal/config"
	"github.com/sproutcare/engagement-engine/internal/event"
	"github.com/sproutcare/engagement-engine/internal/eventlog"
	"github.com/sproutcare/engagement-engine/internal/notification"
)

// InitializeEventSystem creates and configures the event bus and resilient
// publisher. It ensures the dead-letter directory exists before the publisher
// opens its file.
func InitializeEventSystem(cfg *config.Config) (event.Bus, *event.ResilientPublisher, error) {
	eventBus := event.NewMemoryBus()

	if err := os.MkdirAll(filepath.Dir(cfg.DeadLetterPath), DirPermission); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", LogMsgFailedCreateDeadLetterDir, err)
	}

	resilientPublisher, err := event.NewResilientPublisher(eventBus, event.RetryMaxAttempts, event.RetryInitialDelay, cfg.DeadLetterPath)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", LogMsgFailedCreateResilientPublisher, err)
	}

	slog.Info(LogMsgEventSystemInitialized,
		"max_retries", event.RetryMaxAttempts,
		"retry_delay", event.RetryInitialDelay,
		"deadletter_path", cfg.DeadLetterPath)

	return eventBus, resilientPublisher, nil
}

// RegisterEventHandlers subscribes the event logger and the notification
// dispatcher to the bus. Every published domain event lands in the audit log;
// celebration events additionally fan out to the notification sinks.
func RegisterEventHandlers(bus event.Bus, eventLogService eventlog.Service, notifier *notification.Dispatcher) error {
	if err := eventLogService.Subscribe(bus); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedSubscribeEventLogger, err)
	}
	slog.Info(LogMsgEventLoggerInitialized)

	notifier.Subscribe(bus)
	slog.Info(LogMsgNotifierInitialized)

	return nil
}

// BuildNotifier assembles the notification dispatcher. The log sink is always
// present; a webhook sink is added when a URL is configured.
func BuildNotifier(cfg *config.Config) *notification.Dispatcher {
	sinks := []notification.Sink{notification.NewLogSink()}
	if cfg.NotifyWebhookURL != "" {
		sinks = append(sinks, notification.NewWebhookSink(cfg.NotifyWebhookURL))
	}
	return notification.NewDispatcher(sinks...)
}
