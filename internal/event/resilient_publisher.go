package event

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sproutcare/engagement-engine/internal/logger"
	"github.com/sproutcare/engagement-engine/internal/metrics"
)

// ResilientPublisher wraps an Event Bus with retry and dead-letter handling.
// A downstream publish failure never propagates to the caller: the first
// attempt is synchronous, failures go to a background retry queue, and
// exhausted events are written to the dead-letter file.
type ResilientPublisher struct {
	inner      Bus
	maxRetries int
	retryDelay time.Duration
	deadLetter *DeadLetterWriter

	queue    chan retryItem
	shutdown chan struct{}
	once     sync.Once
	wg       sync.WaitGroup
}

type retryItem struct {
	event    Event
	attempt  int
	lastErr  error
	notAfter time.Time
}

// NewResilientPublisher creates a new ResilientPublisher and starts its retry worker
func NewResilientPublisher(inner Bus, maxRetries int, retryDelay time.Duration, deadLetterPath string) (*ResilientPublisher, error) {
	dlw, err := NewDeadLetterWriter(deadLetterPath)
	if err != nil {
		return nil, err
	}

	p := &ResilientPublisher{
		inner:      inner,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		deadLetter: dlw,
		queue:      make(chan retryItem, RetryQueueBufferSize),
		shutdown:   make(chan struct{}),
	}

	p.wg.Add(1)
	go p.retryWorker()

	return p, nil
}

// PublishWithRetry attempts to publish an event. On failure the event is
// queued for background retry; the caller is never blocked on the outcome.
func (p *ResilientPublisher) PublishWithRetry(ctx context.Context, event Event) {
	err := p.inner.Publish(ctx, event)
	if err == nil {
		metrics.EventsPublished.WithLabelValues(string(event.Type)).Inc()
		return
	}

	log := logger.FromContext(ctx)
	log.Warn(LogMsgEventPublishFailed, "event_type", event.Type, "error", err)

	p.enqueue(retryItem{
		event:    event,
		attempt:  1,
		lastErr:  err,
		notAfter: time.Now().Add(CalculateRetryDelay(p.retryDelay, 1)),
	})
}

// Subscribe delegates to the inner bus
func (p *ResilientPublisher) Subscribe(eventType Type, handler Handler) {
	p.inner.Subscribe(eventType, handler)
}

func (p *ResilientPublisher) enqueue(item retryItem) {
	select {
	case p.queue <- item:
	default:
		// Queue full: dead-letter rather than block the mutation path
		log := logger.FromContext(context.Background())
		log.Error(LogMsgRetryQueueFull, "event_type", item.event.Type)
		if err := p.deadLetter.Write(item.event, item.attempt, item.lastErr); err != nil {
			log.Error(LogMsgDeadLetterWriteFailed, "error", err)
		}
	}
}

func (p *ResilientPublisher) retryWorker() {
	defer p.wg.Done()

	ctx := context.Background()
	log := logger.FromContext(ctx)

	for {
		select {
		case item := <-p.queue:
			if wait := time.Until(item.notAfter); wait > 0 {
				select {
				case <-time.After(wait):
				case <-p.shutdown:
					p.drainItem(item)
					return
				}
			}

			err := p.inner.Publish(ctx, item.event)
			if err == nil {
				metrics.EventsPublished.WithLabelValues(string(item.event.Type)).Inc()
				log.Info(LogMsgEventRetrySucceeded, "event_type", item.event.Type, "attempt", item.attempt)
				continue
			}

			if item.attempt >= p.maxRetries {
				log.Warn(LogMsgEventRetryExhausted, "event_type", item.event.Type, "attempts", item.attempt)
				if dlErr := p.deadLetter.Write(item.event, item.attempt, err); dlErr != nil {
					log.Error(LogMsgDeadLetterWriteFailed, "error", dlErr)
				}
				continue
			}

			next := item.attempt + 1
			log.Warn(LogMsgEventRetryFailed, "event_type", item.event.Type, "attempt", item.attempt, "error", err)
			p.enqueue(retryItem{
				event:    item.event,
				attempt:  next,
				lastErr:  err,
				notAfter: time.Now().Add(CalculateRetryDelay(p.retryDelay, next)),
			})

		case <-p.shutdown:
			p.drainQueue()
			return
		}
	}
}

// drainQueue writes all still-pending events to the dead-letter file on shutdown
func (p *ResilientPublisher) drainQueue() {
	for {
		select {
		case item := <-p.queue:
			p.drainItem(item)
		default:
			return
		}
	}
}

func (p *ResilientPublisher) drainItem(item retryItem) {
	log := logger.FromContext(context.Background())
	log.Warn(LogMsgEventDroppedShutdown, "event_type", item.event.Type)
	lastErr := item.lastErr
	if lastErr == nil {
		lastErr = errors.New("publisher shut down before retry")
	}
	if err := p.deadLetter.Write(item.event, item.attempt, lastErr); err != nil {
		log.Error(LogMsgDeadLetterWriteFailed, "error", err)
	}
}

// Shutdown stops the retry worker, dead-letters pending events and closes the writer
func (p *ResilientPublisher) Shutdown(ctx context.Context) error {
	p.once.Do(func() { close(p.shutdown) })

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return p.deadLetter.Close()
	case <-ctx.Done():
		logger.FromContext(ctx).Warn(LogMsgShutdownTimeout)
		return ctx.Err()
	}
}
