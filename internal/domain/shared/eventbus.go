package shared

import "context"

// EventHandler reacts to published domain events: alert streaming, the
// analytics event log, cache invalidation, metrics and the Kafka forwarder
// are all handlers.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes lists the events the handler wants; empty means all of them
	EventTypes() []string
}

// EventPublisher hands domain events to whatever transports them
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// PublishRecorded publishes the events agg recorded since it was loaded and
// clears them, so a retried save never publishes twice. A nil publisher
// still clears. It returns how many events were handed over.
func PublishRecorded(ctx context.Context, publisher EventPublisher, agg AggregateRoot) (int, error) {
	events := agg.GetDomainEvents()
	if len(events) == 0 {
		return 0, nil
	}
	agg.ClearDomainEvents()
	if publisher == nil {
		return 0, nil
	}
	return len(events), publisher.Publish(ctx, events...)
}
