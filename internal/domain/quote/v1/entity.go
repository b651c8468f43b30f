package v1

import (
	"time"

	"github.com/matyusmilan/xm-forex/pkg/errors"
)

// Quote represents a bid/ask price update for a currency pair.
type Quote struct {
	Pair      string    `json:"pair"`
	Bid       float64   `json:"bid"`
	Ask       float64   `json:"ask"`
	Timestamp time.Time `json:"timestamp"`
}

// Validate checks that the quote carries a pair and positive prices.
// A crossed market is not a validation failure; Crossed reports it
// separately.
func (q Quote) Validate() error {
	if q.Pair == "" {
		return errors.NewErrorDetails("quote pair is required", string(errors.GeneralBadRequestError), "pair")
	}
	if q.Bid <= 0 {
		return errors.NewErrorDetails("quote bid must be positive", string(errors.GeneralBadRequestError), "bid")
	}
	if q.Ask <= 0 {
		return errors.NewErrorDetails("quote ask must be positive", string(errors.GeneralBadRequestError), "ask")
	}
	return nil
}

// Crossed reports whether the bid exceeds the ask.
func (q Quote) Crossed() bool {
	return q.Bid > q.Ask
}

// Mid returns the midpoint between bid and ask.
func (q Quote) Mid() float64 {
	return (q.Bid + q.Ask) / 2
}

// Spread returns the difference between ask and bid.
func (q Quote) Spread() float64 {
	return q.Ask - q.Bid
}
