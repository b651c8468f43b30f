package order

import (
	"context"
	"sync"
	"testing"
	"time"

	orderv1 "github.com/matyusmilan/xm-forex/internal/domain/order/v1"
	"github.com/matyusmilan/xm-forex/pkg/errors"
	"github.com/matyusmilan/xm-forex/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPairs = []string{"EURUSD", "GBPUSD"}

func newTestStore(opts ...Option) *Store {
	return NewStore(testPairs, logger.NewNop(), opts...)
}

func marketBuy(qty float64) orderv1.Request {
	return orderv1.Request{
		ClientID: "client-1",
		Pair:     "EURUSD",
		Side:     orderv1.SideBuy,
		Kind:     orderv1.KindMarket,
		Quantity: qty,
	}
}

func fillFor(order *orderv1.Order, qty, price float64) orderv1.Fill {
	return orderv1.Fill{
		OrderID:   order.ID,
		Pair:      order.Pair,
		Side:      order.Side,
		Price:     price,
		Quantity:  qty,
		Timestamp: time.Now().UTC(),
	}
}

func TestStore_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("accepts a valid order", func(t *testing.T) {
		store := newTestStore()
		order, err := store.Create(ctx, marketBuy(100))
		require.NoError(t, err)
		assert.NotEmpty(t, order.ID)
		assert.Equal(t, orderv1.StatusOpen, order.Status)
		assert.Equal(t, 0.0, order.FilledQuantity)
	})

	t.Run("rejects invalid quantity", func(t *testing.T) {
		store := newTestStore()
		_, err := store.Create(ctx, marketBuy(0))
		assert.True(t, errors.ErrorCodeEquals(err, errors.InvalidOrder))
	})

	t.Run("rejects unsupported pair", func(t *testing.T) {
		store := newTestStore()
		req := marketBuy(100)
		req.Pair = "USDCHF"
		_, err := store.Create(ctx, req)
		assert.True(t, errors.ErrorCodeEquals(err, errors.InvalidOrder))
	})

	t.Run("assigns increasing sequences", func(t *testing.T) {
		store := newTestStore()
		first, err := store.Create(ctx, marketBuy(10))
		require.NoError(t, err)
		second, err := store.Create(ctx, marketBuy(20))
		require.NoError(t, err)
		assert.Greater(t, second.Sequence, first.Sequence)
	})
}

func TestStore_Get(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	t.Run("returns stored order", func(t *testing.T) {
		created, err := store.Create(ctx, marketBuy(100))
		require.NoError(t, err)

		got, err := store.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := store.Get(ctx, "missing")
		assert.True(t, errors.ErrorCodeEquals(err, errors.OrderNotFound))
	})

	t.Run("returned order is a copy", func(t *testing.T) {
		created, err := store.Create(ctx, marketBuy(100))
		require.NoError(t, err)

		got, err := store.Get(ctx, created.ID)
		require.NoError(t, err)
		got.Status = orderv1.StatusCancelled

		again, err := store.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, orderv1.StatusOpen, again.Status)
	})
}

func TestStore_ApplyFill(t *testing.T) {
	ctx := context.Background()

	t.Run("partial then full fill", func(t *testing.T) {
		store := newTestStore()
		order, err := store.Create(ctx, marketBuy(100))
		require.NoError(t, err)

		updated, err := store.ApplyFill(ctx, fillFor(order, 40, 1.1000))
		require.NoError(t, err)
		assert.Equal(t, orderv1.StatusPartiallyFilled, updated.Status)
		assert.Equal(t, 40.0, updated.FilledQuantity)
		assert.Equal(t, 1.1000, updated.LastFillPrice)

		updated, err = store.ApplyFill(ctx, fillFor(order, 60, 1.1002))
		require.NoError(t, err)
		assert.Equal(t, orderv1.StatusFilled, updated.Status)
		assert.Equal(t, 100.0, updated.FilledQuantity)
		assert.Equal(t, 0.0, updated.Remaining())
	})

	t.Run("fractional quantities land on exactly filled", func(t *testing.T) {
		store := newTestStore()
		order, err := store.Create(ctx, marketBuy(0.3))
		require.NoError(t, err)

		current := order
		for current.Status != orderv1.StatusFilled {
			remaining := current.Remaining()
			qty := 0.1
			if qty > remaining {
				qty = remaining
			}
			var err error
			current, err = store.ApplyFill(ctx, fillFor(order, qty, 1.1))
			require.NoError(t, err)
		}
		assert.Equal(t, 0.0, current.Remaining())
	})

	t.Run("fill on terminal order", func(t *testing.T) {
		store := newTestStore()
		order, err := store.Create(ctx, marketBuy(100))
		require.NoError(t, err)

		_, err = store.ApplyFill(ctx, fillFor(order, 100, 1.1000))
		require.NoError(t, err)

		_, err = store.ApplyFill(ctx, fillFor(order, 1, 1.1000))
		assert.True(t, errors.ErrorCodeEquals(err, errors.InvalidOrderState))
	})

	t.Run("fill exceeding remaining", func(t *testing.T) {
		store := newTestStore()
		order, err := store.Create(ctx, marketBuy(100))
		require.NoError(t, err)

		_, err = store.ApplyFill(ctx, fillFor(order, 101, 1.1000))
		assert.True(t, errors.ErrorCodeEquals(err, errors.InvalidOrderState))
	})

	t.Run("non-positive fill quantity", func(t *testing.T) {
		store := newTestStore()
		order, err := store.Create(ctx, marketBuy(100))
		require.NoError(t, err)

		_, err = store.ApplyFill(ctx, fillFor(order, 0, 1.1000))
		assert.True(t, errors.ErrorCodeEquals(err, errors.InvalidOrderState))
	})

	t.Run("unknown order", func(t *testing.T) {
		store := newTestStore()
		_, err := store.ApplyFill(ctx, orderv1.Fill{OrderID: "missing", Quantity: 1, Price: 1})
		assert.True(t, errors.ErrorCodeEquals(err, errors.OrderNotFound))
	})
}

func TestStore_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("cancels open order", func(t *testing.T) {
		store := newTestStore()
		order, err := store.Create(ctx, marketBuy(100))
		require.NoError(t, err)

		cancelled, err := store.Cancel(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, orderv1.StatusCancelled, cancelled.Status)
	})

	t.Run("cancels partially filled order keeping fills", func(t *testing.T) {
		store := newTestStore()
		order, err := store.Create(ctx, marketBuy(100))
		require.NoError(t, err)

		_, err = store.ApplyFill(ctx, fillFor(order, 30, 1.1000))
		require.NoError(t, err)

		cancelled, err := store.Cancel(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, orderv1.StatusCancelled, cancelled.Status)
		assert.Equal(t, 30.0, cancelled.FilledQuantity)
	})

	t.Run("cancel of cancelled order", func(t *testing.T) {
		store := newTestStore()
		order, err := store.Create(ctx, marketBuy(100))
		require.NoError(t, err)

		_, err = store.Cancel(ctx, order.ID)
		require.NoError(t, err)

		_, err = store.Cancel(ctx, order.ID)
		assert.True(t, errors.ErrorCodeEquals(err, errors.InvalidOrderState))
	})

	t.Run("cancel of filled order", func(t *testing.T) {
		store := newTestStore()
		order, err := store.Create(ctx, marketBuy(100))
		require.NoError(t, err)

		_, err = store.ApplyFill(ctx, fillFor(order, 100, 1.1000))
		require.NoError(t, err)

		_, err = store.Cancel(ctx, order.ID)
		assert.True(t, errors.ErrorCodeEquals(err, errors.InvalidOrderState))
	})

	t.Run("unknown order", func(t *testing.T) {
		store := newTestStore()
		_, err := store.Cancel(ctx, "missing")
		assert.True(t, errors.ErrorCodeEquals(err, errors.OrderNotFound))
	})
}

func TestStore_ConcurrentCancelAndFill(t *testing.T) {
	ctx := context.Background()

	// A full fill and a cancel race on the same order. Exactly one must
	// win; the loser must get an invalid state error.
	for range 50 {
		store := newTestStore()
		order, err := store.Create(ctx, marketBuy(100))
		require.NoError(t, err)

		var wg sync.WaitGroup
		var fillErr, cancelErr error

		wg.Add(2)
		go func() {
			defer wg.Done()
			_, fillErr = store.ApplyFill(ctx, fillFor(order, 100, 1.1000))
		}()
		go func() {
			defer wg.Done()
			_, cancelErr = store.Cancel(ctx, order.ID)
		}()
		wg.Wait()

		final, err := store.Get(ctx, order.ID)
		require.NoError(t, err)

		switch final.Status {
		case orderv1.StatusFilled:
			require.NoError(t, fillErr)
			assert.True(t, errors.ErrorCodeEquals(cancelErr, errors.InvalidOrderState))
			assert.Equal(t, 100.0, final.FilledQuantity)
		case orderv1.StatusCancelled:
			require.NoError(t, cancelErr)
			assert.True(t, errors.ErrorCodeEquals(fillErr, errors.InvalidOrderState))
			assert.Equal(t, 0.0, final.FilledQuantity)
		default:
			t.Fatalf("unexpected final status %s", final.Status)
		}
	}
}

func TestStore_TransitionHook(t *testing.T) {
	ctx := context.Background()

	var mu sync.Mutex
	var events []orderv1.Event
	store := newTestStore(WithTransitionHook(func(event orderv1.Event) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, event)
	}))

	order, err := store.Create(ctx, marketBuy(100))
	require.NoError(t, err)
	_, err = store.ApplyFill(ctx, fillFor(order, 40, 1.1000))
	require.NoError(t, err)
	_, err = store.ApplyFill(ctx, fillFor(order, 60, 1.1002))
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, events, 3)

	assert.Equal(t, orderv1.StatusOpen, events[0].Status)
	assert.Nil(t, events[0].LastFillPrice)

	assert.Equal(t, orderv1.StatusPartiallyFilled, events[1].Status)
	require.NotNil(t, events[1].LastFillPrice)
	assert.Equal(t, 1.1000, *events[1].LastFillPrice)
	assert.Equal(t, 40.0, events[1].FilledQuantity)

	assert.Equal(t, orderv1.StatusFilled, events[2].Status)
	require.NotNil(t, events[2].LastFillPrice)
	assert.Equal(t, 1.1002, *events[2].LastFillPrice)
	assert.Equal(t, 100.0, events[2].FilledQuantity)

	// Filled quantities never decrease across the event stream.
	for i := 1; i < len(events); i++ {
		assert.GreaterOrEqual(t, events[i].FilledQuantity, events[i-1].FilledQuantity)
	}
}

func TestStore_OpenOrders(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	first, err := store.Create(ctx, marketBuy(10))
	require.NoError(t, err)
	second, err := store.Create(ctx, marketBuy(20))
	require.NoError(t, err)

	gbp := marketBuy(30)
	gbp.Pair = "GBPUSD"
	_, err = store.Create(ctx, gbp)
	require.NoError(t, err)

	third, err := store.Create(ctx, marketBuy(40))
	require.NoError(t, err)

	t.Run("creation order per pair", func(t *testing.T) {
		open := store.OpenOrders("EURUSD")
		require.Len(t, open, 3)
		assert.Equal(t, first.ID, open[0].ID)
		assert.Equal(t, second.ID, open[1].ID)
		assert.Equal(t, third.ID, open[2].ID)
	})

	t.Run("terminal orders excluded", func(t *testing.T) {
		_, err := store.Cancel(ctx, second.ID)
		require.NoError(t, err)

		open := store.OpenOrders("EURUSD")
		require.Len(t, open, 2)
		assert.Equal(t, first.ID, open[0].ID)
		assert.Equal(t, third.ID, open[1].ID)
	})

	t.Run("unknown pair is empty", func(t *testing.T) {
		assert.Empty(t, store.OpenOrders("USDJPY"))
	})
}

func TestStore_List(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	for range 5 {
		_, err := store.Create(ctx, marketBuy(10))
		require.NoError(t, err)
	}
	other := marketBuy(10)
	other.ClientID = "client-2"
	_, err := store.Create(ctx, other)
	require.NoError(t, err)

	t.Run("filters by client", func(t *testing.T) {
		orders, err := store.List(ctx, orderv1.Filter{ClientID: "client-2"})
		require.NoError(t, err)
		assert.Len(t, orders, 1)
	})

	t.Run("newest first", func(t *testing.T) {
		orders, err := store.List(ctx, orderv1.Filter{})
		require.NoError(t, err)
		require.Len(t, orders, 6)
		for i := 1; i < len(orders); i++ {
			assert.Greater(t, orders[i-1].Sequence, orders[i].Sequence)
		}
	})

	t.Run("pagination", func(t *testing.T) {
		page, err := store.List(ctx, orderv1.Filter{Limit: 2, Offset: 2})
		require.NoError(t, err)
		assert.Len(t, page, 2)

		tail, err := store.List(ctx, orderv1.Filter{Limit: 2, Offset: 100})
		require.NoError(t, err)
		assert.Empty(t, tail)
	})

	t.Run("limit is clamped", func(t *testing.T) {
		store := newTestStore()
		for range 120 {
			_, err := store.Create(ctx, marketBuy(1))
			require.NoError(t, err)
		}

		orders, err := store.List(ctx, orderv1.Filter{Limit: 500})
		require.NoError(t, err)
		assert.Len(t, orders, maxListLimit)
	})
}

func TestStore_Close(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	order, err := store.Create(ctx, marketBuy(100))
	require.NoError(t, err)

	store.Close()

	t.Run("new orders rejected", func(t *testing.T) {
		_, err := store.Create(ctx, marketBuy(10))
		assert.True(t, errors.ErrorCodeEquals(err, errors.VenueClosed))
	})

	t.Run("in-flight fills still apply", func(t *testing.T) {
		updated, err := store.ApplyFill(ctx, fillFor(order, 100, 1.1000))
		require.NoError(t, err)
		assert.Equal(t, orderv1.StatusFilled, updated.Status)
	})
}

func TestStore_IndependentOrderLocks(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	orders := make([]*orderv1.Order, 20)
	for i := range orders {
		order, err := store.Create(ctx, marketBuy(100))
		require.NoError(t, err)
		orders[i] = order
	}

	// Fills on distinct orders run concurrently without interference.
	var wg sync.WaitGroup
	for _, order := range orders {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 10 {
				_, err := store.ApplyFill(ctx, fillFor(order, 10, 1.1000))
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	for _, order := range orders {
		final, err := store.Get(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, orderv1.StatusFilled, final.Status)
		assert.Equal(t, 100.0, final.FilledQuantity)
	}
}
