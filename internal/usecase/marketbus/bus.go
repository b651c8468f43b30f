package marketbus

import (
	"sync"

	"github.com/google/uuid"
	busv1 "github.com/matyusmilan/xm-forex/internal/domain/marketbus/v1"
	orderv1 "github.com/matyusmilan/xm-forex/internal/domain/order/v1"
	quotev1 "github.com/matyusmilan/xm-forex/internal/domain/quote/v1"
	"github.com/matyusmilan/xm-forex/pkg/errors"
	"github.com/matyusmilan/xm-forex/pkg/logger"
)

const defaultQueueCapacity = 64

// subscriber is one attachment to the bus with a bounded delivery queue.
// Its lock serializes sends against close so a send never hits a closed
// channel.
type subscriber struct {
	id    string
	scope busv1.Scope

	mu     sync.Mutex
	events chan busv1.Message
	done   chan struct{}
	err    error
	closed bool
}

// ID returns the unique subscription id.
func (s *subscriber) ID() string {
	return s.id
}

// Scope returns the scope the subscription was opened with.
func (s *subscriber) Scope() busv1.Scope {
	return s.scope
}

// Events returns the delivery channel.
func (s *subscriber) Events() <-chan busv1.Message {
	return s.events
}

// Done is closed when the subscription ends.
func (s *subscriber) Done() <-chan struct{} {
	return s.done
}

// Err returns the reason the subscription ended, if any.
func (s *subscriber) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// trySend queues the message without blocking. It reports false when the
// queue is full. Sends to a closed subscriber are silently discarded.
func (s *subscriber) trySend(msg busv1.Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return true
	}
	select {
	case s.events <- msg:
		return true
	default:
		return false
	}
}

// close ends the subscription exactly once with the given reason.
func (s *subscriber) close(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.err = err
	close(s.done)
	close(s.events)
}

// Bus fans order events and quotes out to subscribers over bounded
// queues. Publishing never blocks: a subscriber whose queue is full is
// dropped with a subscriber overflow error so slow consumers cannot
// stall the matching engine or each other.
type Bus struct {
	logger   logger.Interface
	capacity int

	mu          sync.RWMutex
	subscribers map[string]*subscriber
	closed      bool
}

// NewBus creates a bus whose subscribers each get a queue of the given
// capacity.
func NewBus(capacity int, logger logger.Interface) *Bus {
	if capacity <= 0 {
		capacity = defaultQueueCapacity
	}
	return &Bus{
		logger:      logger,
		capacity:    capacity,
		subscribers: make(map[string]*subscriber),
	}
}

// Subscribe opens a subscription for the given scope.
func (b *Bus) Subscribe(scope busv1.Scope) (busv1.Subscription, error) {
	sub := &subscriber{
		id:     uuid.NewString(),
		scope:  scope,
		events: make(chan busv1.Message, b.capacity),
		done:   make(chan struct{}),
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, errors.NewVenueClosed()
	}
	b.subscribers[sub.id] = sub
	b.mu.Unlock()

	b.logger.Debug("Subscriber attached",
		logger.Field{Key: "subscriptionID", Value: sub.id},
		logger.Field{Key: "scope", Value: scope.Kind},
	)

	return sub, nil
}

// Unsubscribe ends the subscription with the given id. Unknown ids are
// ignored, so repeated calls are safe.
func (b *Bus) Unsubscribe(subscriptionID string) {
	b.mu.Lock()
	sub, ok := b.subscribers[subscriptionID]
	if ok {
		delete(b.subscribers, subscriptionID)
	}
	b.mu.Unlock()

	if ok {
		sub.close(nil)
		b.logger.Debug("Subscriber detached", logger.Field{
			Key:   "subscriptionID",
			Value: subscriptionID,
		})
	}
}

// PublishOrderEvent delivers an order event to matching subscribers.
func (b *Bus) PublishOrderEvent(event orderv1.Event) {
	b.fanOut(busv1.Message{OrderEvent: &event}, func(scope busv1.Scope) bool {
		return scope.MatchesOrderEvent(event)
	})
}

// PublishQuote delivers a quote to matching subscribers.
func (b *Bus) PublishQuote(q quotev1.Quote) {
	b.fanOut(busv1.Message{Quote: &q}, func(scope busv1.Scope) bool {
		return scope.MatchesQuote(q)
	})
}

// Close ends every subscription.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	subscribers := make([]*subscriber, 0, len(b.subscribers))
	for _, sub := range b.subscribers {
		subscribers = append(subscribers, sub)
	}
	b.subscribers = make(map[string]*subscriber)
	b.mu.Unlock()

	for _, sub := range subscribers {
		sub.close(nil)
	}

	b.logger.Info("Market bus closed", logger.Field{
		Key:   "subscribers",
		Value: len(subscribers),
	})
}

// fanOut queues the message to every matching subscriber and drops the
// ones whose queues are full.
func (b *Bus) fanOut(msg busv1.Message, matches func(busv1.Scope) bool) {
	b.mu.RLock()
	targets := make([]*subscriber, 0, len(b.subscribers))
	for _, sub := range b.subscribers {
		if matches(sub.scope) {
			targets = append(targets, sub)
		}
	}
	b.mu.RUnlock()

	var dropped []*subscriber
	for _, sub := range targets {
		if !sub.trySend(msg) {
			dropped = append(dropped, sub)
		}
	}

	for _, sub := range dropped {
		b.drop(sub)
	}
}

// drop removes a subscriber that failed to keep up.
func (b *Bus) drop(sub *subscriber) {
	b.mu.Lock()
	delete(b.subscribers, sub.id)
	b.mu.Unlock()

	err := errors.NewSubscriberOverflow(sub.id)
	sub.close(err)

	b.logger.Warn("Subscriber dropped, queue full",
		logger.Field{Key: "subscriptionID", Value: sub.id},
		logger.Field{Key: "scope", Value: sub.scope.Kind},
		logger.Field{Key: "capacity", Value: b.capacity},
	)
}
