package feed

import (
	"context"

	quotev1 "github.com/matyusmilan/xm-forex/internal/domain/quote/v1"
)

//go:generate mockgen -source=interface.go -destination=mock/interface_mock.go -package=feed_mock

// Source produces quotes and pushes them into a Handler until the
// context is cancelled.
type Source interface {
	Run(ctx context.Context) error
}

// Handler consumes quotes produced by a Source.
type Handler interface {
	Handle(ctx context.Context, q quotev1.Quote)
}

// MatchSubmitter receives accepted quotes for matching.
type MatchSubmitter interface {
	Submit(q quotev1.Quote)
}

// QuotePublisher fans accepted quotes out to streaming subscribers.
type QuotePublisher interface {
	PublishQuote(q quotev1.Quote)
}

// CandleSink folds accepted quotes into OHLC buckets.
type CandleSink interface {
	Apply(q quotev1.Quote)
}

// SnapshotSink records the latest quote per pair.
type SnapshotSink interface {
	Update(q quotev1.Quote)
}

// CacheSink persists the latest quote per pair, best effort.
type CacheSink interface {
	Store(ctx context.Context, q quotev1.Quote) error
}

// ArchiveSink buffers accepted quotes for history storage, best effort.
type ArchiveSink interface {
	Enqueue(q quotev1.Quote)
}
