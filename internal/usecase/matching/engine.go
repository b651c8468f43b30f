package matching

import (
	"context"
	"sync"
	"time"

	orderv1 "github.com/matyusmilan/xm-forex/internal/domain/order/v1"
	quotev1 "github.com/matyusmilan/xm-forex/internal/domain/quote/v1"
	"github.com/matyusmilan/xm-forex/pkg/errors"
	"github.com/matyusmilan/xm-forex/pkg/logger"
)

// Engine matches open orders against incoming quotes. Each pair gets its
// own worker goroutine and bounded quote channel, so pairs progress
// concurrently while quotes within a pair are processed one at a time in
// arrival order.
type Engine struct {
	store  orderv1.Store
	logger logger.Interface

	maxFillPerTick float64
	pairQueues     map[string]chan quotev1.Quote

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewEngine creates a matching engine for the given pairs.
func NewEngine(store orderv1.Store, pairs []string, logger logger.Interface) *Engine {
	return NewEngineWithOptions(store, pairs, logger, DefaultEngineOptions())
}

// NewEngineWithOptions creates a matching engine with custom options.
func NewEngineWithOptions(store orderv1.Store, pairs []string, logger logger.Interface, options *Options) *Engine {
	buffer := options.QuoteBuffer
	if buffer <= 0 {
		buffer = DefaultEngineOptions().QuoteBuffer
	}

	queues := make(map[string]chan quotev1.Quote, len(pairs))
	for _, pair := range pairs {
		queues[pair] = make(chan quotev1.Quote, buffer)
	}

	return &Engine{
		store:          store,
		logger:         logger,
		maxFillPerTick: options.MaxFillPerTick,
		pairQueues:     queues,
		ctx:            context.Background(),
	}
}

// Start spawns one worker per pair.
func (e *Engine) Start(ctx context.Context) error {
	e.ctx, e.cancel = context.WithCancel(ctx)

	for pair, queue := range e.pairQueues {
		e.wg.Add(1)
		go e.runPair(pair, queue)
	}

	e.logger.Info("Matching engine started", logger.Field{
		Key:   "pairs",
		Value: len(e.pairQueues),
	})

	return nil
}

// Stop shuts the workers down, letting the quote each is processing
// finish so in-flight fills complete.
func (e *Engine) Stop(ctx context.Context) error {
	if e.cancel != nil {
		e.cancel()
	}

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		e.logger.Info("Matching engine stopped gracefully")
		return nil
	case <-ctx.Done():
		e.logger.Warn("Matching engine stop timeout exceeded")
		return ctx.Err()
	}
}

// Submit routes a quote to its pair worker without blocking. Quotes for
// unknown pairs are ignored; quotes arriving faster than the worker can
// match are dropped.
func (e *Engine) Submit(q quotev1.Quote) {
	queue, ok := e.pairQueues[q.Pair]
	if !ok {
		e.logger.Debug("Quote for unsupported pair ignored", logger.Field{
			Key:   "pair",
			Value: q.Pair,
		})
		return
	}

	select {
	case queue <- q:
	default:
		e.logger.Warn("Quote dropped, pair queue full", logger.Field{
			Key:   "pair",
			Value: q.Pair,
		})
	}
}

// runPair processes one pair's quotes sequentially.
func (e *Engine) runPair(pair string, quotes <-chan quotev1.Quote) {
	defer e.wg.Done()

	e.logger.Debug("Pair worker started", logger.Field{
		Key:   "pair",
		Value: pair,
	})

	for {
		select {
		case <-e.ctx.Done():
			e.logger.Debug("Pair worker shutting down", logger.Field{
				Key:   "pair",
				Value: pair,
			})
			return
		case q := <-quotes:
			e.processQuote(q)
		}
	}
}

// processQuote walks the pair's open orders in creation order and applies
// every fill the quote allows.
func (e *Engine) processQuote(q quotev1.Quote) {
	if q.Crossed() {
		e.logger.Warn("Crossed quote skipped",
			logger.Field{Key: "pair", Value: q.Pair},
			logger.Field{Key: "bid", Value: q.Bid},
			logger.Field{Key: "ask", Value: q.Ask},
		)
		return
	}

	for _, order := range e.store.OpenOrders(q.Pair) {
		quantity, price, ok := e.decide(order, q)
		if !ok {
			continue
		}

		fill := orderv1.Fill{
			OrderID:   order.ID,
			Pair:      order.Pair,
			Side:      order.Side,
			Price:     price,
			Quantity:  quantity,
			Timestamp: time.Now().UTC(),
		}

		if _, err := e.store.ApplyFill(e.ctx, fill); err != nil {
			// A cancel that won the race leaves the order terminal. The
			// store already rejected the fill, nothing to roll back.
			if errors.ErrorCodeEquals(err, errors.InvalidOrderState) {
				e.logger.Debug("Fill lost to concurrent transition",
					logger.Field{Key: "orderID", Value: order.ID},
					logger.Field{Key: "pair", Value: order.Pair},
				)
				continue
			}
			e.logger.Error(errors.TracerFromError(err),
				logger.Field{Key: "orderID", Value: order.ID},
				logger.Field{Key: "action", Value: "apply_fill"},
			)
		}
	}
}

// decide returns the quantity and price the quote allows for the order.
// Buys execute against the ask, sells against the bid. Limit orders fill
// only when the quote crosses the limit, at the quote's price, which can
// only improve on the limit.
func (e *Engine) decide(order *orderv1.Order, q quotev1.Quote) (float64, float64, bool) {
	var price float64

	switch order.Side {
	case orderv1.SideBuy:
		if order.Kind == orderv1.KindLimit && q.Ask > order.LimitPrice {
			return 0, 0, false
		}
		price = q.Ask
	case orderv1.SideSell:
		if order.Kind == orderv1.KindLimit && q.Bid < order.LimitPrice {
			return 0, 0, false
		}
		price = q.Bid
	default:
		return 0, 0, false
	}

	quantity := order.Remaining()
	if quantity <= 0 {
		return 0, 0, false
	}
	if e.maxFillPerTick > 0 && quantity > e.maxFillPerTick {
		quantity = e.maxFillPerTick
	}

	return quantity, price, true
}
