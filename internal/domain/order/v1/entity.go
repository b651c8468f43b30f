package v1

import (
	"time"

	"github.com/matyusmilan/xm-forex/pkg/errors"
	"github.com/oklog/ulid/v2"
)

// Side represents the direction of an order.
type Side string

const (
	// SideBuy represents a buy order.
	SideBuy Side = "buy"
	// SideSell represents a sell order.
	SideSell Side = "sell"
)

// Kind represents the execution type of an order.
type Kind string

const (
	// KindMarket represents a market order.
	KindMarket Kind = "market"
	// KindLimit represents a limit order.
	KindLimit Kind = "limit"
)

// Status represents the lifecycle state of an order.
type Status string

const (
	// StatusOpen is the initial state of an accepted order.
	StatusOpen Status = "OPEN"
	// StatusPartiallyFilled is the state of an order with some but not all quantity filled.
	StatusPartiallyFilled Status = "PARTIALLY_FILLED"
	// StatusFilled is the terminal state of a fully filled order.
	StatusFilled Status = "FILLED"
	// StatusCancelled is the terminal state of a cancelled order.
	StatusCancelled Status = "CANCELLED"
)

// transitions holds the allowed state changes. Terminal states have no entries.
var transitions = map[Status]map[Status]bool{
	StatusOpen: {
		StatusPartiallyFilled: true,
		StatusFilled:          true,
		StatusCancelled:       true,
	},
	StatusPartiallyFilled: {
		StatusPartiallyFilled: true,
		StatusFilled:          true,
		StatusCancelled:       true,
	},
}

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusFilled || s == StatusCancelled
}

// CanTransition reports whether a change from s to next is allowed.
func (s Status) CanTransition(next Status) bool {
	return transitions[s][next]
}

// Order represents a single order held by the venue.
type Order struct {
	ID             string    `json:"order_id"`
	Sequence       int64     `json:"-"`
	ClientID       string    `json:"client_id"`
	Pair           string    `json:"pair"`
	Side           Side      `json:"side"`
	Kind           Kind      `json:"kind"`
	Quantity       float64   `json:"quantity"`
	LimitPrice     float64   `json:"limit_price,omitempty"`
	Status         Status    `json:"status"`
	FilledQuantity float64   `json:"filled_quantity"`
	LastFillPrice  float64   `json:"last_fill_price,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewOrder creates an open order from an accepted request.
func NewOrder(req Request, sequence int64) *Order {
	now := time.Now().UTC()
	return &Order{
		ID:         ulid.Make().String(),
		Sequence:   sequence,
		ClientID:   req.ClientID,
		Pair:       req.Pair,
		Side:       req.Side,
		Kind:       req.Kind,
		Quantity:   req.Quantity,
		LimitPrice: req.LimitPrice,
		Status:     StatusOpen,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Remaining returns the unfilled quantity.
func (o *Order) Remaining() float64 {
	return o.Quantity - o.FilledQuantity
}

// Terminal reports whether the order is in a terminal state.
func (o *Order) Terminal() bool {
	return o.Status.Terminal()
}

// Clone returns a copy of the order so callers cannot mutate stored state.
func (o *Order) Clone() *Order {
	clone := *o
	return &clone
}

// Request represents a request to create an order.
type Request struct {
	ClientID   string  `json:"client_id"`
	Pair       string  `json:"pair"`
	Side       Side    `json:"side"`
	Kind       Kind    `json:"kind"`
	Quantity   float64 `json:"quantity"`
	LimitPrice float64 `json:"limit_price,omitempty"`
}

// Validate checks the request fields. Pair support is checked by the store,
// which owns the configured pair set.
func (r Request) Validate() error {
	if r.ClientID == "" {
		return errors.NewInvalidOrder("client id is required", "client_id")
	}
	if r.Pair == "" {
		return errors.NewInvalidOrder("pair is required", "pair")
	}
	if r.Side != SideBuy && r.Side != SideSell {
		return errors.NewInvalidOrder("side must be buy or sell", "side")
	}
	if r.Kind != KindMarket && r.Kind != KindLimit {
		return errors.NewInvalidOrder("kind must be market or limit", "kind")
	}
	if r.Quantity <= 0 {
		return errors.NewInvalidOrder("quantity must be positive", "quantity")
	}
	if r.Kind == KindLimit && r.LimitPrice <= 0 {
		return errors.NewInvalidOrder("limit price must be positive for limit orders", "limit_price")
	}
	if r.Kind == KindMarket && r.LimitPrice != 0 {
		return errors.NewInvalidOrder("limit price is not allowed for market orders", "limit_price")
	}
	return nil
}

// Fill represents a quantity executed against an order at a price.
type Fill struct {
	OrderID   string    `json:"order_id"`
	Pair      string    `json:"pair"`
	Side      Side      `json:"side"`
	Price     float64   `json:"price"`
	Quantity  float64   `json:"quantity"`
	Timestamp time.Time `json:"timestamp"`
}

// Filter represents the filter criteria for listing orders.
type Filter struct {
	ClientID string
	Pair     string
	Status   Status
	Limit    int
	Offset   int
}
