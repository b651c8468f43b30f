package v1

import (
	"testing"

	orderv1 "github.com/matyusmilan/xm-forex/internal/domain/order/v1"
	quotev1 "github.com/matyusmilan/xm-forex/internal/domain/quote/v1"
	"github.com/stretchr/testify/assert"
)

func TestScope_MatchesOrderEvent(t *testing.T) {
	event := orderv1.Event{OrderID: "o-1", ClientID: "client-1", Pair: "EURUSD"}

	t.Run("all orders scope matches every event", func(t *testing.T) {
		assert.True(t, AllOrders().MatchesOrderEvent(event))
	})

	t.Run("client scope matches own events only", func(t *testing.T) {
		assert.True(t, ClientOrders("client-1").MatchesOrderEvent(event))
		assert.False(t, ClientOrders("client-2").MatchesOrderEvent(event))
	})

	t.Run("quote scope never matches order events", func(t *testing.T) {
		assert.False(t, PairQuotes("EURUSD").MatchesOrderEvent(event))
	})
}

func TestScope_MatchesQuote(t *testing.T) {
	q := quotev1.Quote{Pair: "EURUSD", Bid: 1.0998, Ask: 1.1002}

	assert.True(t, PairQuotes("EURUSD").MatchesQuote(q))
	assert.False(t, PairQuotes("GBPUSD").MatchesQuote(q))
	assert.False(t, AllOrders().MatchesQuote(q))
	assert.False(t, ClientOrders("client-1").MatchesQuote(q))
}
