package order

import (
	"context"
	"sort"
	"sync"
	"time"

	orderv1 "github.com/matyusmilan/xm-forex/internal/domain/order/v1"
	"github.com/matyusmilan/xm-forex/pkg/errors"
	"github.com/matyusmilan/xm-forex/pkg/logger"
)

const (
	defaultListLimit = 50
	maxListLimit     = 100
)

// entry pairs an order with its own lock. Fills and cancels on the same
// order serialize on this lock; different orders proceed independently.
type entry struct {
	mu    sync.Mutex
	order *orderv1.Order
}

// Store is the in-memory order store. It is the only component that
// mutates order state. Every transition is checked against the order
// state machine under the order's lock, and the transition hook fires
// inside that critical section so events observe transition order.
type Store struct {
	logger       logger.Interface
	pairs        map[string]bool
	onTransition func(event orderv1.Event)

	mu     sync.RWMutex
	orders map[string]*entry
	seq    int64
	closed bool
}

// Option configures the store.
type Option func(*Store)

// WithTransitionHook registers a hook invoked on every state change,
// inside the order's critical section. The hook must not block.
func WithTransitionHook(fn func(event orderv1.Event)) Option {
	return func(s *Store) {
		s.onTransition = fn
	}
}

// NewStore creates an order store accepting orders for the given pairs.
func NewStore(pairs []string, logger logger.Interface, opts ...Option) *Store {
	supported := make(map[string]bool, len(pairs))
	for _, pair := range pairs {
		supported[pair] = true
	}

	s := &Store{
		logger: logger,
		pairs:  supported,
		orders: make(map[string]*entry),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Create validates the request and stores a new open order.
func (s *Store) Create(ctx context.Context, req orderv1.Request) (*orderv1.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if !s.pairs[req.Pair] {
		return nil, errors.NewInvalidOrder("pair is not supported", "pair")
	}

	e := &entry{}
	// Lock the entry before it becomes visible so the created event is
	// published before any fill or cancel event for this order.
	e.mu.Lock()
	defer e.mu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, errors.NewVenueClosed()
	}
	s.seq++
	order := orderv1.NewOrder(req, s.seq)
	e.order = order
	s.orders[order.ID] = e
	s.mu.Unlock()

	s.emit(order.Event())

	s.logger.DebugContext(ctx, "Order created",
		logger.Field{Key: "orderID", Value: order.ID},
		logger.Field{Key: "pair", Value: order.Pair},
		logger.Field{Key: "side", Value: order.Side},
		logger.Field{Key: "kind", Value: order.Kind},
		logger.Field{Key: "quantity", Value: order.Quantity},
	)

	return order.Clone(), nil
}

// Get returns the order with the given id.
func (s *Store) Get(ctx context.Context, id string) (*orderv1.Order, error) {
	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.order.Clone(), nil
}

// ApplyFill applies an executed quantity to the order atomically. It
// rejects fills on terminal orders and fills exceeding the remaining
// quantity.
func (s *Store) ApplyFill(ctx context.Context, fill orderv1.Fill) (*orderv1.Order, error) {
	e, err := s.lookup(fill.OrderID)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	order := e.order
	if order.Terminal() {
		return nil, errors.NewInvalidOrderState("order is in a terminal state")
	}
	if fill.Quantity <= 0 {
		return nil, errors.NewInvalidOrderState("fill quantity must be positive")
	}

	remaining := order.Remaining()
	if fill.Quantity > remaining {
		return nil, errors.NewInvalidOrderState("fill quantity exceeds remaining quantity")
	}

	// Track the remaining quantity through the subtraction so a full
	// fill lands on exactly zero.
	newRemaining := remaining - fill.Quantity
	next := orderv1.StatusPartiallyFilled
	if newRemaining == 0 {
		next = orderv1.StatusFilled
	}
	if !order.Status.CanTransition(next) {
		return nil, errors.NewInvalidOrderState("order cannot transition to " + string(next))
	}

	order.FilledQuantity = order.Quantity - newRemaining
	order.LastFillPrice = fill.Price
	order.Status = next
	order.UpdatedAt = fill.Timestamp

	s.emit(order.FillEvent(fill.Price))

	s.logger.DebugContext(ctx, "Fill applied",
		logger.Field{Key: "orderID", Value: order.ID},
		logger.Field{Key: "price", Value: fill.Price},
		logger.Field{Key: "quantity", Value: fill.Quantity},
		logger.Field{Key: "status", Value: order.Status},
	)

	return order.Clone(), nil
}

// Cancel moves a non-terminal order to the cancelled state.
func (s *Store) Cancel(ctx context.Context, id string) (*orderv1.Order, error) {
	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	order := e.order
	if !order.Status.CanTransition(orderv1.StatusCancelled) {
		return nil, errors.NewInvalidOrderState("order is in a terminal state")
	}

	order.Status = orderv1.StatusCancelled
	order.UpdatedAt = time.Now().UTC()

	s.emit(order.Event())

	s.logger.DebugContext(ctx, "Order cancelled",
		logger.Field{Key: "orderID", Value: order.ID},
		logger.Field{Key: "filledQuantity", Value: order.FilledQuantity},
	)

	return order.Clone(), nil
}

// List returns orders matching the filter, newest first.
func (s *Store) List(ctx context.Context, filter orderv1.Filter) ([]*orderv1.Order, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	matched := []*orderv1.Order{}
	for _, order := range s.snapshot() {
		if filter.ClientID != "" && order.ClientID != filter.ClientID {
			continue
		}
		if filter.Pair != "" && order.Pair != filter.Pair {
			continue
		}
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		matched = append(matched, order)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Sequence > matched[j].Sequence
	})

	if offset >= len(matched) {
		return []*orderv1.Order{}, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}

	return matched[offset:end], nil
}

// OpenOrders returns the non-terminal orders for a pair in creation order.
func (s *Store) OpenOrders(pair string) []*orderv1.Order {
	open := []*orderv1.Order{}
	for _, order := range s.snapshot() {
		if order.Pair != pair || order.Terminal() {
			continue
		}
		open = append(open, order)
	}

	sort.Slice(open, func(i, j int) bool {
		return open[i].Sequence < open[j].Sequence
	})

	return open
}

// Close rejects new orders. In-flight fills and cancels on existing
// orders still complete.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *Store) lookup(id string) (*entry, error) {
	s.mu.RLock()
	e, ok := s.orders[id]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.NewOrderNotFound(id)
	}
	return e, nil
}

// snapshot clones every order outside the store lock so readers never
// hold both the store lock and an entry lock.
func (s *Store) snapshot() []*orderv1.Order {
	s.mu.RLock()
	entries := make([]*entry, 0, len(s.orders))
	for _, e := range s.orders {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	orders := make([]*orderv1.Order, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		orders = append(orders, e.order.Clone())
		e.mu.Unlock()
	}
	return orders
}

func (s *Store) emit(event orderv1.Event) {
	if s.onTransition != nil {
		s.onTransition(event)
	}
}
