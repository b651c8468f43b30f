package quote

import (
	"context"
	"strconv"
	"time"

	quotev1 "github.com/matyusmilan/xm-forex/internal/domain/quote/v1"
	"github.com/matyusmilan/xm-forex/pkg/errors"
	"github.com/matyusmilan/xm-forex/pkg/redis"
)

const (
	fieldBid       = "bid"
	fieldAsk       = "ask"
	fieldTimestamp = "timestamp"
)

// Repository stores the latest quote per pair as a Redis hash with a TTL,
// so a stalled feed ages out of the cache instead of serving forever.
type Repository struct {
	client redis.Client
	prefix string
	ttl    time.Duration
}

// NewRepository creates a new quote cache repository.
func NewRepository(client redis.Client, cfg redis.Config) *Repository {
	return &Repository{
		client: client,
		prefix: cfg.PrefixKey,
		ttl:    cfg.DefaultTTL,
	}
}

func (r *Repository) key(pair string) string {
	return r.prefix + "quote:" + pair
}

// Store writes the quote hash and refreshes its TTL.
func (r *Repository) Store(ctx context.Context, q quotev1.Quote) error {
	key := r.key(q.Pair)

	_, err := r.client.HSet(ctx, key, map[string]any{
		fieldBid:       strconv.FormatFloat(q.Bid, 'f', -1, 64),
		fieldAsk:       strconv.FormatFloat(q.Ask, 'f', -1, 64),
		fieldTimestamp: q.Timestamp.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return errors.TracerFromError(err)
	}

	if r.ttl > 0 {
		if _, err := r.client.Expire(ctx, key, r.ttl); err != nil {
			return errors.TracerFromError(err)
		}
	}

	return nil
}

// Latest reads the cached quote for the pair. It fails with a
// QuoteUnavailable error when the hash is missing or expired.
func (r *Repository) Latest(ctx context.Context, pair string) (*quotev1.Quote, error) {
	values, err := r.client.HGetAll(ctx, r.key(pair))
	if err != nil {
		return nil, errors.TracerFromError(err)
	}
	if len(values) == 0 {
		return nil, errors.NewQuoteUnavailable(pair)
	}

	bid, err := strconv.ParseFloat(values[fieldBid], 64)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}
	ask, err := strconv.ParseFloat(values[fieldAsk], 64)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}
	timestamp, err := time.Parse(time.RFC3339Nano, values[fieldTimestamp])
	if err != nil {
		return nil, errors.TracerFromError(err)
	}

	return &quotev1.Quote{
		Pair:      pair,
		Bid:       bid,
		Ask:       ask,
		Timestamp: timestamp,
	}, nil
}
