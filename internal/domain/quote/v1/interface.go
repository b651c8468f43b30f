package v1

import (
	"context"
)

//go:generate mockgen -source=interface.go -destination=mock/interface_mock.go -package=mock

// Reader serves the most recent quote per pair.
type Reader interface {
	// Latest returns the last quote seen for the pair. Fails with a
	// QuoteUnavailable error before the first tick.
	Latest(ctx context.Context, pair string) (*Quote, error)
}
