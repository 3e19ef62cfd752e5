package shared

import "context"

// EventHandler consumes domain events from the bus.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes names the events the handler wants. Empty means all events.
	EventTypes() []string
}

// EventPublisher delivers domain events to subscribed handlers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventSubscriber manages handler registrations.
type EventSubscriber interface {
	// Subscribe registers a handler; without explicit types it falls back to
	// the handler's own EventTypes.
	Subscribe(handler EventHandler, eventTypes ...string)
	// SubscribeOrganization registers a handler that only sees events scoped
	// to one organization.
	SubscribeOrganization(orgID string, handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
}

// EventBus is the full publish/subscribe surface plus lifecycle.
type EventBus interface {
	EventPublisher
	EventSubscriber
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
