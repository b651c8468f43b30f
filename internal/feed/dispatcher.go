package feed

import (
	"context"

	quotev1 "github.com/matyusmilan/xm-forex/internal/domain/quote/v1"
	"github.com/matyusmilan/xm-forex/pkg/logger"
)

// Dispatcher validates each inbound quote and fans it out to the
// matching engine, the event bus and the configured sinks. Invalid and
// crossed quotes are logged and dropped before they reach any consumer.
type Dispatcher struct {
	logger   logger.Interface
	engine   MatchSubmitter
	bus      QuotePublisher
	candles  CandleSink
	snapshot SnapshotSink
	cache    CacheSink
	archive  ArchiveSink
}

// Option configures optional dispatcher sinks.
type Option func(*Dispatcher)

// WithQuoteCache attaches an external quote cache.
func WithQuoteCache(cache CacheSink) Option {
	return func(d *Dispatcher) {
		d.cache = cache
	}
}

// WithTickArchive attaches a tick history sink.
func WithTickArchive(archive ArchiveSink) Option {
	return func(d *Dispatcher) {
		d.archive = archive
	}
}

// NewDispatcher creates a dispatcher over the required consumers.
func NewDispatcher(
	engine MatchSubmitter,
	bus QuotePublisher,
	candles CandleSink,
	snapshot SnapshotSink,
	logger logger.Interface,
	opts ...Option,
) *Dispatcher {
	d := &Dispatcher{
		logger:   logger,
		engine:   engine,
		bus:      bus,
		candles:  candles,
		snapshot: snapshot,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Handle applies one quote in arrival order. Duplicate timestamps and
// gaps are tolerated; rejected quotes produce no downstream effect.
func (d *Dispatcher) Handle(ctx context.Context, q quotev1.Quote) {
	if err := q.Validate(); err != nil {
		d.logger.WarnContext(ctx, "Quote rejected",
			logger.Field{Key: "pair", Value: q.Pair},
			logger.Field{Key: "reason", Value: err.Error()},
		)
		return
	}

	if q.Crossed() {
		d.logger.WarnContext(ctx, "Crossed quote skipped",
			logger.Field{Key: "pair", Value: q.Pair},
			logger.Field{Key: "bid", Value: q.Bid},
			logger.Field{Key: "ask", Value: q.Ask},
		)
		return
	}

	d.snapshot.Update(q)
	d.engine.Submit(q)
	d.bus.PublishQuote(q)
	d.candles.Apply(q)

	if d.cache != nil {
		if err := d.cache.Store(ctx, q); err != nil {
			d.logger.WarnContext(ctx, "Quote cache write failed",
				logger.Field{Key: "pair", Value: q.Pair},
				logger.Field{Key: "error", Value: err.Error()},
			)
		}
	}
	if d.archive != nil {
		d.archive.Enqueue(q)
	}
}
