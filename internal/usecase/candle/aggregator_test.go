package candle

import (
	"testing"
	"time"

	quotev1 "github.com/matyusmilan/xm-forex/internal/domain/quote/v1"
	"github.com/matyusmilan/xm-forex/pkg/errors"
	"github.com/matyusmilan/xm-forex/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAggregator(t *testing.T, intervals []string, history int) *Aggregator {
	t.Helper()
	aggregator, err := NewAggregator(intervals, history, logger.NewNop())
	require.NoError(t, err)
	return aggregator
}

func quoteAtTime(pair string, bid, ask float64, ts time.Time) quotev1.Quote {
	return quotev1.Quote{Pair: pair, Bid: bid, Ask: ask, Timestamp: ts}
}

func TestNewAggregator(t *testing.T) {
	t.Run("rejects unknown interval names", func(t *testing.T) {
		_, err := NewAggregator([]string{"1m", "7m"}, 100, logger.NewNop())
		assert.Error(t, err)
	})

	t.Run("deduplicates interval names", func(t *testing.T) {
		aggregator := newTestAggregator(t, []string{"1m", "1m", "5m"}, 100)
		assert.Equal(t, []string{"1m", "5m"}, aggregator.Intervals())
	})
}

func TestAggregator_Apply(t *testing.T) {
	base := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

	t.Run("builds OHLC over quote mids within one bucket", func(t *testing.T) {
		aggregator := newTestAggregator(t, []string{"1m"}, 100)

		aggregator.Apply(quoteAtTime("EURUSD", 1.0998, 1.1002, base))                    // mid 1.1000
		aggregator.Apply(quoteAtTime("EURUSD", 1.1008, 1.1012, base.Add(10*time.Second))) // mid 1.1010
		aggregator.Apply(quoteAtTime("EURUSD", 1.0988, 1.0992, base.Add(20*time.Second))) // mid 1.0990
		aggregator.Apply(quoteAtTime("EURUSD", 1.1003, 1.1007, base.Add(30*time.Second))) // mid 1.1005

		candles, err := aggregator.Candles("EURUSD", "1m", 0)
		require.NoError(t, err)
		require.Len(t, candles, 1)

		candle := candles[0]
		assert.Equal(t, "EURUSD", candle.Pair)
		assert.Equal(t, "1m", candle.Interval)
		assert.Equal(t, base, candle.OpenTime)
		assert.InDelta(t, 1.1000, candle.Open, 1e-9)
		assert.InDelta(t, 1.1010, candle.High, 1e-9)
		assert.InDelta(t, 1.0990, candle.Low, 1e-9)
		assert.InDelta(t, 1.1005, candle.Close, 1e-9)
		assert.Equal(t, int64(4), candle.TickCount)
	})

	t.Run("seals the open candle on bucket rollover", func(t *testing.T) {
		aggregator := newTestAggregator(t, []string{"1m"}, 100)

		aggregator.Apply(quoteAtTime("EURUSD", 1.0998, 1.1002, base))
		aggregator.Apply(quoteAtTime("EURUSD", 1.1018, 1.1022, base.Add(time.Minute)))

		candles, err := aggregator.Candles("EURUSD", "1m", 0)
		require.NoError(t, err)
		require.Len(t, candles, 2)

		// Newest first.
		assert.Equal(t, base.Add(time.Minute), candles[0].OpenTime)
		assert.InDelta(t, 1.1020, candles[0].Open, 1e-9)
		assert.Equal(t, base, candles[1].OpenTime)
		assert.InDelta(t, 1.1000, candles[1].Close, 1e-9)
	})

	t.Run("aggregates each configured interval independently", func(t *testing.T) {
		aggregator := newTestAggregator(t, []string{"1m", "5m"}, 100)

		aggregator.Apply(quoteAtTime("EURUSD", 1.0998, 1.1002, base))
		aggregator.Apply(quoteAtTime("EURUSD", 1.1018, 1.1022, base.Add(time.Minute)))

		oneMinute, err := aggregator.Candles("EURUSD", "1m", 0)
		require.NoError(t, err)
		assert.Len(t, oneMinute, 2)

		fiveMinute, err := aggregator.Candles("EURUSD", "5m", 0)
		require.NoError(t, err)
		require.Len(t, fiveMinute, 1)
		assert.Equal(t, int64(2), fiveMinute[0].TickCount)
	})

	t.Run("keeps pairs separate", func(t *testing.T) {
		aggregator := newTestAggregator(t, []string{"1m"}, 100)

		aggregator.Apply(quoteAtTime("EURUSD", 1.0998, 1.1002, base))
		aggregator.Apply(quoteAtTime("GBPUSD", 1.2698, 1.2702, base))

		eur, err := aggregator.Candles("EURUSD", "1m", 0)
		require.NoError(t, err)
		require.Len(t, eur, 1)
		assert.InDelta(t, 1.1000, eur[0].Open, 1e-9)

		gbp, err := aggregator.Candles("GBPUSD", "1m", 0)
		require.NoError(t, err)
		require.Len(t, gbp, 1)
		assert.InDelta(t, 1.2700, gbp[0].Open, 1e-9)
	})

	t.Run("trims closed history to the configured bound", func(t *testing.T) {
		aggregator := newTestAggregator(t, []string{"1m"}, 2)

		for i := range 5 {
			ts := base.Add(time.Duration(i) * time.Minute)
			aggregator.Apply(quoteAtTime("EURUSD", 1.0998, 1.1002, ts))
		}

		candles, err := aggregator.Candles("EURUSD", "1m", 0)
		require.NoError(t, err)
		// Two sealed candles plus the in-progress one.
		require.Len(t, candles, 3)
		assert.Equal(t, base.Add(4*time.Minute), candles[0].OpenTime)
		assert.Equal(t, base.Add(2*time.Minute), candles[2].OpenTime)
	})
}

func TestAggregator_Candles(t *testing.T) {
	base := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

	t.Run("limit returns the newest candles", func(t *testing.T) {
		aggregator := newTestAggregator(t, []string{"1m"}, 100)

		for i := range 4 {
			ts := base.Add(time.Duration(i) * time.Minute)
			aggregator.Apply(quoteAtTime("EURUSD", 1.0998, 1.1002, ts))
		}

		candles, err := aggregator.Candles("EURUSD", "1m", 2)
		require.NoError(t, err)
		require.Len(t, candles, 2)
		assert.Equal(t, base.Add(3*time.Minute), candles[0].OpenTime)
		assert.Equal(t, base.Add(2*time.Minute), candles[1].OpenTime)
	})

	t.Run("unsupported interval is rejected", func(t *testing.T) {
		aggregator := newTestAggregator(t, []string{"1m"}, 100)

		_, err := aggregator.Candles("EURUSD", "4h", 10)
		require.Error(t, err)
		assert.True(t, errors.ErrorCodeEquals(err, errors.GeneralBadRequestError))
	})

	t.Run("pair without quotes yields no candles", func(t *testing.T) {
		aggregator := newTestAggregator(t, []string{"1m"}, 100)

		candles, err := aggregator.Candles("USDJPY", "1m", 10)
		require.NoError(t, err)
		assert.Empty(t, candles)
	})
}
