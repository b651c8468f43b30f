package order

import "context"

//go:generate mockgen -source=interface.go -destination=mock/repository_mock.go -package=mock

// OrderRepository is the repository for archived orders.
type OrderRepository interface {
	GetByID(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context, filter Filter) ([]*Order, error)
	Upsert(ctx context.Context, order *Order) error
}
