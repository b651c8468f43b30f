package v1

import (
	"context"
)

// Store is the interface for the order store. It is the only component that
// mutates order state, and every state change goes through its per-order
// transition checks.
//
//go:generate mockgen -source=interface.go -destination=mock/interface_mock.go -package=mock
type Store interface {
	// Create validates the request and stores a new open order.
	Create(ctx context.Context, req Request) (*Order, error)
	// Get returns the order with the given id.
	Get(ctx context.Context, id string) (*Order, error)
	// ApplyFill applies an executed quantity to the order atomically.
	ApplyFill(ctx context.Context, fill Fill) (*Order, error)
	// Cancel moves a non-terminal order to the cancelled state.
	Cancel(ctx context.Context, id string) (*Order, error)
	// List returns orders matching the filter, newest first.
	List(ctx context.Context, filter Filter) ([]*Order, error)
	// OpenOrders returns the non-terminal orders for a pair in creation order.
	OpenOrders(pair string) []*Order
	// Close rejects new orders while letting in-flight fills complete.
	Close()
}
