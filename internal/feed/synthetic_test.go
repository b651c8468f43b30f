package feed

import (
	"context"
	"testing"
	"time"

	quotev1 "github.com/matyusmilan/xm-forex/internal/domain/quote/v1"
	feed_mock "github.com/matyusmilan/xm-forex/internal/feed/mock"
	"github.com/matyusmilan/xm-forex/pkg/config"
	"github.com/matyusmilan/xm-forex/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func testPairSpecs() []config.PairSpec {
	return []config.PairSpec{
		{Symbol: "EURUSD", Mid: 1.1000, Spread: 0.0004},
		{Symbol: "GBPUSD", Mid: 1.2700, Spread: 0.0006},
	}
}

func newTestSource(t *testing.T, seed int64) *SyntheticSource {
	t.Helper()
	cfg := config.FeedConfig{Mode: "synthetic", Interval: 500 * time.Millisecond, Seed: seed}
	return NewSyntheticSource(testPairSpecs(), cfg, nil, logger.NewNop())
}

func walk(source *SyntheticSource, rounds int) []quotev1.Quote {
	base := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	quotes := make([]quotev1.Quote, 0, rounds*2)
	for i := range rounds {
		quotes = append(quotes, source.tick(base.Add(time.Duration(i)*100*time.Millisecond))...)
	}
	return quotes
}

func TestSyntheticSource_Walk(t *testing.T) {
	t.Run("same seed reproduces the same bid and ask sequence", func(t *testing.T) {
		first := walk(newTestSource(t, 42), 50)
		second := walk(newTestSource(t, 42), 50)

		require.Equal(t, len(first), len(second))
		for i := range first {
			assert.Equal(t, first[i].Pair, second[i].Pair)
			assert.Equal(t, first[i].Bid, second[i].Bid)
			assert.Equal(t, first[i].Ask, second[i].Ask)
		}
	})

	t.Run("different seeds diverge", func(t *testing.T) {
		first := walk(newTestSource(t, 1), 20)
		second := walk(newTestSource(t, 2), 20)

		diverged := false
		for i := range first {
			if first[i].Bid != second[i].Bid {
				diverged = true
				break
			}
		}
		assert.True(t, diverged)
	})

	t.Run("spread stays positive and prices stay valid", func(t *testing.T) {
		quotes := walk(newTestSource(t, 7), 500)

		for _, q := range quotes {
			require.NoError(t, q.Validate())
			assert.Greater(t, q.Ask, q.Bid)
			assert.Greater(t, q.Bid, 0.0)
		}
	})

	t.Run("occasionally repeats a timestamp", func(t *testing.T) {
		quotes := walk(newTestSource(t, 1), 400)

		last := map[string]time.Time{}
		duplicates := 0
		for _, q := range quotes {
			if prev, ok := last[q.Pair]; ok && prev.Equal(q.Timestamp) {
				duplicates++
			}
			last[q.Pair] = q.Timestamp
		}
		assert.Greater(t, duplicates, 0)
	})
}

func TestSyntheticSource_Run(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler := feed_mock.NewMockHandler(ctrl)
	handler.EXPECT().Handle(gomock.Any(), gomock.Any()).AnyTimes()

	cfg := config.FeedConfig{Mode: "synthetic", Interval: 5 * time.Millisecond, Seed: 1}
	source := NewSyntheticSource(testPairSpecs(), cfg, handler, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- source.Run(ctx)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("source did not stop after cancellation")
	}
}
