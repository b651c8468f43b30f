package bootstrap

import (
	"github.com/matyusmilan/xm-forex/internal/publisher"
	"github.com/matyusmilan/xm-forex/internal/usecase/archive"
	candleUc "github.com/matyusmilan/xm-forex/internal/usecase/candle"
	"github.com/matyusmilan/xm-forex/internal/usecase/marketbus"
	"github.com/matyusmilan/xm-forex/internal/usecase/matching"
	orderUc "github.com/matyusmilan/xm-forex/internal/usecase/order"
	quoteUc "github.com/matyusmilan/xm-forex/internal/usecase/quote"
)

// Usecase groups the long-lived venue services.
type Usecase struct {
	Bus      *marketbus.Bus
	Store    *orderUc.Store
	Engine   *matching.Engine
	Snapshot *quoteUc.Snapshot
	Candles  *candleUc.Aggregator

	OrderArchiver *archive.OrderArchiver
	TickArchiver  *archive.TickArchiver
	FillPublisher *publisher.FillPublisher
}

// registerUsecase builds the core services. Order transitions reach the
// bus from inside the store's critical section, so subscribers observe
// them in transition order.
func (a *App) registerUsecase() error {
	pairs := make([]string, 0, len(a.pairSpecs))
	for _, spec := range a.pairSpecs {
		pairs = append(pairs, spec.Symbol)
	}

	a.Usecase.Bus = marketbus.NewBus(a.Config.Venue.QueueCapacity, a.Logger)
	a.Usecase.Store = orderUc.NewStore(pairs, a.Logger,
		orderUc.WithTransitionHook(a.Usecase.Bus.PublishOrderEvent))
	a.Usecase.Engine = matching.NewEngineWithOptions(a.Usecase.Store, pairs, a.Logger, &matching.Options{
		MaxFillPerTick: a.Config.Venue.MaxFillPerTick,
		QuoteBuffer:    a.Config.Venue.TickBuffer,
	})
	a.Usecase.Snapshot = quoteUc.NewSnapshot()

	candles, err := candleUc.NewAggregator(a.Config.Candle.Intervals, a.Config.Candle.History, a.Logger)
	if err != nil {
		return err
	}
	a.Usecase.Candles = candles

	if a.Repository.Order != nil {
		a.Usecase.OrderArchiver = archive.NewOrderArchiver(a.Repository.Order, a.Usecase.Bus, a.Logger)
	}
	if a.Repository.Tick != nil {
		a.Usecase.TickArchiver = archive.NewTickArchiver(a.Repository.Tick, a.Config.QuestDB, a.Logger)
	}
	if a.Config.Kafka.PublishFills {
		a.Usecase.FillPublisher = publisher.NewFillPublisher(a.Config.Kafka, a.Usecase.Bus, a.Logger)
	}

	return nil
}
