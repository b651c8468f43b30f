package bootstrap

import (
	"fmt"

	"github.com/matyusmilan/xm-forex/internal/feed"
	"github.com/matyusmilan/xm-forex/pkg/config"
)

// registerFeed builds the dispatcher over the configured sinks and the
// source selected by the feed mode.
func (a *App) registerFeed() error {
	opts := []feed.Option{}
	if a.Repository.Quote != nil {
		opts = append(opts, feed.WithQuoteCache(a.Repository.Quote))
	}
	if a.Usecase.TickArchiver != nil {
		opts = append(opts, feed.WithTickArchive(a.Usecase.TickArchiver))
	}

	dispatcher := feed.NewDispatcher(
		a.Usecase.Engine,
		a.Usecase.Bus,
		a.Usecase.Candles,
		a.Usecase.Snapshot,
		a.Logger,
		opts...,
	)

	switch a.Config.Feed.Mode {
	case config.FeedModeSynthetic:
		a.source = feed.NewSyntheticSource(a.pairSpecs, a.Config.Feed, dispatcher, a.Logger)
	case config.FeedModeKafka:
		a.source = feed.NewKafkaSource(a.Config.Kafka, dispatcher, a.Logger)
	default:
		return fmt.Errorf("unknown feed mode %q", a.Config.Feed.Mode)
	}

	return nil
}
