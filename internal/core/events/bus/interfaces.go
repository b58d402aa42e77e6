package bus

import "time"

// EventBus is a thread-safe, in-process pub/sub bus for lifecycle
// notifications (simulation started, input dropped, clock regression, ...).
//
// Delivery is synchronous in the publisher's goroutine, so handlers must be
// quick. Handler errors are joined and returned from Publish. A handler
// subscribed to the wildcard type "*" receives every event.
type EventBus interface {
	// Publish delivers event to every subscriber of event.Type() and of "*".
	Publish(event Event) error
	// PublishAsync publishes in a new goroutine. The returned channel receives
	// the joined handler error (or nil) and is then closed.
	PublishAsync(event Event) <-chan error

	// Subscribe registers handler for eventType.
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
	// Unsubscribe cancels sub. A nil sub is ignored.
	Unsubscribe(sub Subscription) error

	// Metrics returns counters accumulated since creation.
	Metrics() Metrics
}

// Event is an immutable notification.
type Event interface {
	Type() string
	Source() string
	Timestamp() time.Time
	Data() any
}

type EventHandler func(event Event) error

// Subscription is a registered handler. Cancel is safe to call repeatedly.
type Subscription interface {
	ID() string
	EventType() string
	IsActive() bool
	Cancel() error
}

// Metrics are best-effort delivery counters.
type Metrics struct {
	Published         uint64
	DeliveredHandlers uint64
	Errors            uint64
	SubscribersActive uint64
}

// Wildcard subscribes to every event type.
const Wildcard = "*"
