package v1

import (
	orderv1 "github.com/matyusmilan/xm-forex/internal/domain/order/v1"
	quotev1 "github.com/matyusmilan/xm-forex/internal/domain/quote/v1"
)

// Subscription is a live attachment to the bus. The Events channel is
// closed when the subscription ends; Err reports why.
//
//go:generate mockgen -source=interface.go -destination=mock/interface_mock.go -package=mock
type Subscription interface {
	// ID returns the unique subscription id.
	ID() string
	// Scope returns the scope the subscription was opened with.
	Scope() Scope
	// Events returns the delivery channel.
	Events() <-chan Message
	// Done is closed when the subscription ends.
	Done() <-chan struct{}
	// Err returns the reason the subscription ended, if any. A subscriber
	// dropped for not keeping up gets a subscriber overflow error.
	Err() error
}

// Bus fans order events and quotes out to subscribers. Publishing never
// blocks: a subscriber whose queue is full is dropped.
type Bus interface {
	// Subscribe opens a subscription for the given scope.
	Subscribe(scope Scope) (Subscription, error)
	// Unsubscribe ends the subscription with the given id. Unknown ids
	// are ignored.
	Unsubscribe(subscriptionID string)
	// PublishOrderEvent delivers an order event to matching subscribers.
	PublishOrderEvent(event orderv1.Event)
	// PublishQuote delivers a quote to matching subscribers.
	PublishQuote(q quotev1.Quote)
	// Close ends every subscription.
	Close()
}
