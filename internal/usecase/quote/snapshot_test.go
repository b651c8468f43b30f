package quote

import (
	"context"
	"testing"
	"time"

	quotev1 "github.com/matyusmilan/xm-forex/internal/domain/quote/v1"
	"github.com/matyusmilan/xm-forex/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot(t *testing.T) {
	ctx := context.Background()

	t.Run("latest fails before the first tick", func(t *testing.T) {
		snapshot := NewSnapshot()

		_, err := snapshot.Latest(ctx, "EURUSD")
		require.Error(t, err)
		assert.True(t, errors.ErrorCodeEquals(err, errors.QuoteUnavailable))
	})

	t.Run("latest returns the most recent quote per pair", func(t *testing.T) {
		snapshot := NewSnapshot()
		now := time.Now().UTC()

		snapshot.Update(quotev1.Quote{Pair: "EURUSD", Bid: 1.0998, Ask: 1.1002, Timestamp: now})
		snapshot.Update(quotev1.Quote{Pair: "GBPUSD", Bid: 1.2698, Ask: 1.2702, Timestamp: now})
		snapshot.Update(quotev1.Quote{Pair: "EURUSD", Bid: 1.1008, Ask: 1.1012, Timestamp: now.Add(time.Second)})

		eur, err := snapshot.Latest(ctx, "EURUSD")
		require.NoError(t, err)
		assert.Equal(t, 1.1008, eur.Bid)
		assert.Equal(t, 1.1012, eur.Ask)

		gbp, err := snapshot.Latest(ctx, "GBPUSD")
		require.NoError(t, err)
		assert.Equal(t, 1.2698, gbp.Bid)
	})

	t.Run("returned quote is a copy", func(t *testing.T) {
		snapshot := NewSnapshot()
		snapshot.Update(quotev1.Quote{Pair: "EURUSD", Bid: 1.0998, Ask: 1.1002})

		first, err := snapshot.Latest(ctx, "EURUSD")
		require.NoError(t, err)
		first.Bid = 0

		second, err := snapshot.Latest(ctx, "EURUSD")
		require.NoError(t, err)
		assert.Equal(t, 1.0998, second.Bid)
	})
}
