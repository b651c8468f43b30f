package tick

import (
	"time"

	quotev1 "github.com/matyusmilan/xm-forex/internal/domain/quote/v1"
)

// Tick represents a single archived quote tick.
type Tick struct {
	Timestamp time.Time
	Pair      string
	Bid       float64
	Ask       float64
}

// FromQuote fills the tick from a validated quote.
func (t *Tick) FromQuote(quote *quotev1.Quote) {
	t.Timestamp = quote.Timestamp
	t.Pair = quote.Pair
	t.Bid = quote.Bid
	t.Ask = quote.Ask
}

// Filter represents the filter criteria for tick history.
type Filter struct {
	Pair   string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}
