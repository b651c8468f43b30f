package tick

import (
	"context"
)

// TickRepository is the interface for the tick archive.
//
//go:generate mockgen -source=interface.go -destination=mock/repository_mock.go -package=mock
type TickRepository interface {
	GetByFilter(ctx context.Context, filter Filter) ([]*Tick, error)
	GetLatestByPair(ctx context.Context, pair string) (*Tick, error)
	Store(ctx context.Context, tick *Tick) error
	StoreBatch(ctx context.Context, ticks []*Tick) error
}
