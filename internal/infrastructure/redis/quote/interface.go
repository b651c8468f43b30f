package quote

import (
	"context"

	quotev1 "github.com/matyusmilan/xm-forex/internal/domain/quote/v1"
)

//go:generate mockgen -source=interface.go -destination=mock/repository_mock.go -package=mock

// QuoteRepository caches the latest quote per pair.
type QuoteRepository interface {
	Latest(ctx context.Context, pair string) (*quotev1.Quote, error)
	Store(ctx context.Context, q quotev1.Quote) error
}
