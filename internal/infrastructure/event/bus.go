package event

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/erp/platform/internal/domain/shared"
	"github.com/erp/platform/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ErrBusStopped is returned when publishing to an async bus that has been stopped
var ErrBusStopped = errors.New("event bus stopped")

const (
	defaultBufferSize = 256
	defaultWorkers    = 4
)

// queued pairs an event with the context values it was published under
type queued struct {
	ctx   context.Context
	event shared.DomainEvent
}

// InMemoryEventBus implements EventBus with in-memory pub/sub.
// In async mode events are queued and dispatched by a fixed worker pool.
type InMemoryEventBus struct {
	registry *HandlerRegistry
	logger   *zap.Logger
	running  atomic.Bool
	wg       sync.WaitGroup

	async   bool
	workers int
	queue   chan queued
	mu      sync.RWMutex
}

// Option configures an InMemoryEventBus
type Option func(*InMemoryEventBus)

// WithAsync dispatches events on a pool of workers fed by a buffered queue
func WithAsync(bufferSize, workers int) Option {
	return func(b *InMemoryEventBus) {
		if bufferSize <= 0 {
			bufferSize = defaultBufferSize
		}
		if workers <= 0 {
			workers = defaultWorkers
		}
		b.async = true
		b.workers = workers
		b.queue = make(chan queued, bufferSize)
	}
}

// FromConfig translates event settings into bus options
func FromConfig(cfg config.EventConfig) []Option {
	if !cfg.Async {
		return nil
	}
	return []Option{WithAsync(cfg.BufferSize, cfg.Workers)}
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger, opts ...Option) *InMemoryEventBus {
	b := &InMemoryEventBus{
		registry: NewHandlerRegistry(),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Publish delivers events to all registered handlers. Synchronous buses return
// after every handler ran; async buses return once the events are queued.
// Handler failures are logged and never reach the publisher.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if !b.async {
		for _, event := range events {
			b.dispatch(ctx, event)
		}
		return nil
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.running.Load() {
		return ErrBusStopped
	}
	// Handlers outlive the request, so only the context values are carried over
	detached := context.WithoutCancel(ctx)
	for _, event := range events {
		select {
		case b.queue <- queued{ctx: detached, event: event}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Subscribe registers a handler for specific event types
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	// If handler specifies its own event types, use those
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("handler subscribed",
		zap.Strings("event_types", eventTypes),
	)
}

// Unsubscribe removes a handler
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
	b.logger.Debug("handler unsubscribed")
}

// Start starts the event bus and, in async mode, its workers
func (b *InMemoryEventBus) Start(ctx context.Context) error {
	if !b.running.CompareAndSwap(false, true) {
		return nil
	}
	if b.async {
		for i := 0; i < b.workers; i++ {
			b.wg.Add(1)
			go b.work()
		}
	}
	b.logger.Info("event bus started",
		zap.Bool("async", b.async),
		zap.Int("workers", b.workers),
		zap.Strings("subscriptions", b.registry.EventTypes()),
	)
	return nil
}

// Stop stops the event bus gracefully. Queued events are drained before the
// workers exit unless ctx expires first.
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	b.mu.Lock()
	if !b.running.CompareAndSwap(true, false) {
		b.mu.Unlock()
		return nil
	}
	if b.async {
		close(b.queue)
	}
	b.mu.Unlock()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.logger.Info("event bus stopped")
		return nil
	case <-ctx.Done():
		b.logger.Warn("event bus stop timed out", zap.Int("pending", len(b.queue)))
		return ctx.Err()
	}
}

func (b *InMemoryEventBus) work() {
	defer b.wg.Done()
	for item := range b.queue {
		b.dispatch(item.ctx, item.event)
	}
}

func (b *InMemoryEventBus) dispatch(ctx context.Context, event shared.DomainEvent) {
	for _, handler := range b.registry.GetHandlers(event.EventType()) {
		if err := b.dispatchToHandler(ctx, handler, event); err != nil {
			b.logger.Error("handler failed to process event",
				zap.String("event_type", event.EventType()),
				zap.String("event_id", event.EventID().String()),
				zap.Error(err),
			)
		}
	}
}

// dispatchToHandler safely dispatches an event to a handler
func (b *InMemoryEventBus) dispatchToHandler(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("handler panicked",
				zap.String("event_type", event.EventType()),
				zap.Any("panic", r),
			)
		}
	}()

	return handler.Handle(ctx, event)
}

// Ensure InMemoryEventBus implements EventBus
var _ shared.EventPublisher = (*InMemoryEventBus)(nil)
