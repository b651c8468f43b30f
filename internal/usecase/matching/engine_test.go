package matching

import (
	"context"
	"sync"
	"testing"
	"time"

	orderv1 "github.com/matyusmilan/xm-forex/internal/domain/order/v1"
	ordermock "github.com/matyusmilan/xm-forex/internal/domain/order/v1/mock"
	quotev1 "github.com/matyusmilan/xm-forex/internal/domain/quote/v1"
	"github.com/matyusmilan/xm-forex/internal/usecase/order"
	"github.com/matyusmilan/xm-forex/pkg/errors"
	"github.com/matyusmilan/xm-forex/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type testFixture struct {
	store  *order.Store
	engine *Engine

	mu     sync.Mutex
	events []orderv1.Event
}

func setupTestFixture(t *testing.T, options *Options) *testFixture {
	t.Helper()

	f := &testFixture{}
	f.store = order.NewStore(
		[]string{"EURUSD", "GBPUSD"},
		logger.NewNop(),
		order.WithTransitionHook(func(event orderv1.Event) {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.events = append(f.events, event)
		}),
	)
	f.engine = NewEngineWithOptions(f.store, []string{"EURUSD", "GBPUSD"}, logger.NewNop(), options)
	return f
}

func (f *testFixture) capturedEvents() []orderv1.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]orderv1.Event{}, f.events...)
}

func (f *testFixture) createOrder(t *testing.T, req orderv1.Request) *orderv1.Order {
	t.Helper()
	created, err := f.store.Create(context.Background(), req)
	require.NoError(t, err)
	return created
}

func quoteAt(pair string, bid, ask float64) quotev1.Quote {
	return quotev1.Quote{Pair: pair, Bid: bid, Ask: ask, Timestamp: time.Now().UTC()}
}

func TestEngine_MarketOrders(t *testing.T) {
	t.Run("market buy fills fully at the ask", func(t *testing.T) {
		f := setupTestFixture(t, DefaultEngineOptions())
		created := f.createOrder(t, orderv1.Request{
			ClientID: "client-1",
			Pair:     "EURUSD",
			Side:     orderv1.SideBuy,
			Kind:     orderv1.KindMarket,
			Quantity: 100,
		})

		f.engine.processQuote(quoteAt("EURUSD", 1.0998, 1.1000))

		final, err := f.store.Get(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, orderv1.StatusFilled, final.Status)
		assert.Equal(t, 100.0, final.FilledQuantity)
		assert.Equal(t, 1.1000, final.LastFillPrice)

		// One creation event plus exactly one fill event.
		events := f.capturedEvents()
		require.Len(t, events, 2)
		assert.Equal(t, orderv1.StatusOpen, events[0].Status)
		assert.Equal(t, orderv1.StatusFilled, events[1].Status)
		require.NotNil(t, events[1].LastFillPrice)
		assert.Equal(t, 1.1000, *events[1].LastFillPrice)
	})

	t.Run("market sell fills at the bid", func(t *testing.T) {
		f := setupTestFixture(t, DefaultEngineOptions())
		created := f.createOrder(t, orderv1.Request{
			ClientID: "client-1",
			Pair:     "EURUSD",
			Side:     orderv1.SideSell,
			Kind:     orderv1.KindMarket,
			Quantity: 50,
		})

		f.engine.processQuote(quoteAt("EURUSD", 1.0998, 1.1000))

		final, err := f.store.Get(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, orderv1.StatusFilled, final.Status)
		assert.Equal(t, 1.0998, final.LastFillPrice)
	})
}

func TestEngine_LimitOrders(t *testing.T) {
	t.Run("limit sell waits for the bid to reach the limit", func(t *testing.T) {
		f := setupTestFixture(t, DefaultEngineOptions())
		created := f.createOrder(t, orderv1.Request{
			ClientID:   "client-1",
			Pair:       "EURUSD",
			Side:       orderv1.SideSell,
			Kind:       orderv1.KindLimit,
			Quantity:   100,
			LimitPrice: 1.1050,
		})

		f.engine.processQuote(quoteAt("EURUSD", 1.1040, 1.1044))

		open, err := f.store.Get(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, orderv1.StatusOpen, open.Status)

		f.engine.processQuote(quoteAt("EURUSD", 1.1060, 1.1064))

		final, err := f.store.Get(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, orderv1.StatusFilled, final.Status)
		assert.Equal(t, 1.1060, final.LastFillPrice)
	})

	t.Run("limit buy fills when the ask crosses down", func(t *testing.T) {
		f := setupTestFixture(t, DefaultEngineOptions())
		created := f.createOrder(t, orderv1.Request{
			ClientID:   "client-1",
			Pair:       "EURUSD",
			Side:       orderv1.SideBuy,
			Kind:       orderv1.KindLimit,
			Quantity:   100,
			LimitPrice: 1.1000,
		})

		f.engine.processQuote(quoteAt("EURUSD", 1.1001, 1.1005))

		open, err := f.store.Get(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, orderv1.StatusOpen, open.Status)

		f.engine.processQuote(quoteAt("EURUSD", 1.0991, 1.0995))

		final, err := f.store.Get(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, orderv1.StatusFilled, final.Status)
		assert.Equal(t, 1.0995, final.LastFillPrice)
	})

	t.Run("limit fill at exact limit price", func(t *testing.T) {
		f := setupTestFixture(t, DefaultEngineOptions())
		created := f.createOrder(t, orderv1.Request{
			ClientID:   "client-1",
			Pair:       "EURUSD",
			Side:       orderv1.SideSell,
			Kind:       orderv1.KindLimit,
			Quantity:   100,
			LimitPrice: 1.1050,
		})

		f.engine.processQuote(quoteAt("EURUSD", 1.1050, 1.1054))

		final, err := f.store.Get(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, orderv1.StatusFilled, final.Status)
		assert.Equal(t, 1.1050, final.LastFillPrice)
	})
}

func TestEngine_CrossedQuoteSkipped(t *testing.T) {
	f := setupTestFixture(t, DefaultEngineOptions())
	buy := f.createOrder(t, orderv1.Request{
		ClientID: "client-1",
		Pair:     "EURUSD",
		Side:     orderv1.SideBuy,
		Kind:     orderv1.KindMarket,
		Quantity: 100,
	})
	sell := f.createOrder(t, orderv1.Request{
		ClientID: "client-1",
		Pair:     "EURUSD",
		Side:     orderv1.SideSell,
		Kind:     orderv1.KindMarket,
		Quantity: 100,
	})

	f.engine.processQuote(quoteAt("EURUSD", 1.1010, 1.1000))

	for _, id := range []string{buy.ID, sell.ID} {
		final, err := f.store.Get(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, orderv1.StatusOpen, final.Status)
		assert.Equal(t, 0.0, final.FilledQuantity)
	}
}

func TestEngine_MaxFillPerTick(t *testing.T) {
	f := setupTestFixture(t, &Options{MaxFillPerTick: 30, QuoteBuffer: 16})
	created := f.createOrder(t, orderv1.Request{
		ClientID: "client-1",
		Pair:     "EURUSD",
		Side:     orderv1.SideBuy,
		Kind:     orderv1.KindMarket,
		Quantity: 100,
	})

	q := quoteAt("EURUSD", 1.0998, 1.1000)

	f.engine.processQuote(q)
	partial, err := f.store.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, orderv1.StatusPartiallyFilled, partial.Status)
	assert.Equal(t, 30.0, partial.FilledQuantity)

	f.engine.processQuote(q)
	f.engine.processQuote(q)
	f.engine.processQuote(q)

	final, err := f.store.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, orderv1.StatusFilled, final.Status)
	assert.Equal(t, 100.0, final.FilledQuantity)

	// Creation event, three partial fills, one final fill, all monotonic.
	events := f.capturedEvents()
	require.Len(t, events, 5)
	for i := 1; i < len(events); i++ {
		assert.GreaterOrEqual(t, events[i].FilledQuantity, events[i-1].FilledQuantity)
	}
}

func TestEngine_FIFOFairness(t *testing.T) {
	f := setupTestFixture(t, DefaultEngineOptions())
	first := f.createOrder(t, orderv1.Request{
		ClientID: "client-1",
		Pair:     "EURUSD",
		Side:     orderv1.SideBuy,
		Kind:     orderv1.KindMarket,
		Quantity: 40,
	})
	second := f.createOrder(t, orderv1.Request{
		ClientID: "client-2",
		Pair:     "EURUSD",
		Side:     orderv1.SideBuy,
		Kind:     orderv1.KindMarket,
		Quantity: 40,
	})

	f.engine.processQuote(quoteAt("EURUSD", 1.0998, 1.1000))

	events := f.capturedEvents()
	fills := []orderv1.Event{}
	for _, event := range events {
		if event.LastFillPrice != nil {
			fills = append(fills, event)
		}
	}

	require.Len(t, fills, 2)
	assert.Equal(t, first.ID, fills[0].OrderID)
	assert.Equal(t, second.ID, fills[1].OrderID)
}

func TestEngine_NoQuotesKeepOrdersOpen(t *testing.T) {
	f := setupTestFixture(t, DefaultEngineOptions())
	created := f.createOrder(t, orderv1.Request{
		ClientID: "client-1",
		Pair:     "GBPUSD",
		Side:     orderv1.SideBuy,
		Kind:     orderv1.KindMarket,
		Quantity: 10,
	})

	// Quotes for another pair leave this order untouched.
	f.engine.processQuote(quoteAt("EURUSD", 1.0998, 1.1000))

	final, err := f.store.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, orderv1.StatusOpen, final.Status)
}

func TestEngine_FillRaceSkipped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := ordermock.NewMockStore(ctrl)
	engine := NewEngine(store, []string{"EURUSD"}, logger.NewNop())

	cancelled := orderv1.NewOrder(orderv1.Request{
		ClientID: "client-1",
		Pair:     "EURUSD",
		Side:     orderv1.SideBuy,
		Kind:     orderv1.KindMarket,
		Quantity: 100,
	}, 1)
	next := orderv1.NewOrder(orderv1.Request{
		ClientID: "client-2",
		Pair:     "EURUSD",
		Side:     orderv1.SideBuy,
		Kind:     orderv1.KindMarket,
		Quantity: 50,
	}, 2)

	// The first order was cancelled between the snapshot and the fill.
	// The engine must skip it and still fill the next order.
	store.EXPECT().OpenOrders("EURUSD").Return([]*orderv1.Order{cancelled, next})
	store.EXPECT().
		ApplyFill(gomock.Any(), gomock.Any()).
		Return(nil, errors.NewInvalidOrderState("order is in a terminal state"))
	store.EXPECT().
		ApplyFill(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fill orderv1.Fill) (*orderv1.Order, error) {
			assert.Equal(t, next.ID, fill.OrderID)
			assert.Equal(t, 50.0, fill.Quantity)
			return next, nil
		})

	engine.processQuote(quoteAt("EURUSD", 1.0998, 1.1000))
}

func TestEngine_Lifecycle(t *testing.T) {
	f := setupTestFixture(t, DefaultEngineOptions())
	eur := f.createOrder(t, orderv1.Request{
		ClientID: "client-1",
		Pair:     "EURUSD",
		Side:     orderv1.SideBuy,
		Kind:     orderv1.KindMarket,
		Quantity: 100,
	})
	gbp := f.createOrder(t, orderv1.Request{
		ClientID: "client-1",
		Pair:     "GBPUSD",
		Side:     orderv1.SideSell,
		Kind:     orderv1.KindMarket,
		Quantity: 100,
	})

	require.NoError(t, f.engine.Start(context.Background()))

	f.engine.Submit(quoteAt("EURUSD", 1.0998, 1.1000))
	f.engine.Submit(quoteAt("GBPUSD", 1.2698, 1.2702))
	f.engine.Submit(quoteAt("USDCHF", 0.9000, 0.9004))

	assert.Eventually(t, func() bool {
		eurOrder, err := f.store.Get(context.Background(), eur.ID)
		if err != nil || eurOrder.Status != orderv1.StatusFilled {
			return false
		}
		gbpOrder, err := f.store.Get(context.Background(), gbp.ID)
		return err == nil && gbpOrder.Status == orderv1.StatusFilled
	}, 2*time.Second, 10*time.Millisecond)

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, f.engine.Stop(stopCtx))
}
