package archive

import (
	"context"
	"sync"

	busv1 "github.com/matyusmilan/xm-forex/internal/domain/marketbus/v1"
	orderv1 "github.com/matyusmilan/xm-forex/internal/domain/order/v1"
	"github.com/matyusmilan/xm-forex/internal/infrastructure/postgresql/order"
	"github.com/matyusmilan/xm-forex/pkg/errors"
	"github.com/matyusmilan/xm-forex/pkg/logger"
)

// OrderArchiver mirrors every order transition into the Postgres archive.
// Archiving is best effort: a failed upsert is logged and dropped, the
// matching path never waits on the database.
type OrderArchiver struct {
	repo   order.OrderRepository
	bus    busv1.Bus
	logger logger.Interface

	subscription busv1.Subscription
	wg           sync.WaitGroup
}

// NewOrderArchiver creates an archiver over the given repository.
func NewOrderArchiver(repo order.OrderRepository, bus busv1.Bus, logger logger.Interface) *OrderArchiver {
	return &OrderArchiver{
		repo:   repo,
		bus:    bus,
		logger: logger,
	}
}

// Start subscribes to all order events and begins archiving.
func (a *OrderArchiver) Start(ctx context.Context) error {
	subscription, err := a.bus.Subscribe(busv1.AllOrders())
	if err != nil {
		return errors.TracerFromError(err)
	}
	a.subscription = subscription

	a.wg.Add(1)
	go a.run(ctx, subscription)

	a.logger.InfoContext(ctx, "Order archiver started", logger.Field{
		Key:   "action",
		Value: "order_archiver_start",
	})
	return nil
}

// Stop detaches from the bus and waits for the archive loop.
func (a *OrderArchiver) Stop() {
	if a.subscription != nil {
		a.bus.Unsubscribe(a.subscription.ID())
	}
	a.wg.Wait()
}

func (a *OrderArchiver) run(ctx context.Context, subscription busv1.Subscription) {
	defer a.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-subscription.Events():
			if !ok {
				if err := subscription.Err(); err != nil {
					a.logger.Error(err, logger.Field{
						Key:   "action",
						Value: "order_archiver_detached",
					})
				}
				return
			}
			if msg.OrderEvent == nil {
				continue
			}
			a.archive(ctx, msg.OrderEvent)
		}
	}
}

func (a *OrderArchiver) archive(ctx context.Context, event *orderv1.Event) {
	row := &order.Order{}
	row.FromOrderEvent(event)

	if err := a.repo.Upsert(ctx, row); err != nil {
		a.logger.ErrorContext(ctx, err,
			logger.Field{Key: "action", Value: "archive_order"},
			logger.Field{Key: "order_id", Value: event.OrderID},
		)
	}
}
