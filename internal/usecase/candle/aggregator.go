package candle

import (
	"sync"
	"time"

	candlev1 "github.com/matyusmilan/xm-forex/internal/domain/candle/v1"
	quotev1 "github.com/matyusmilan/xm-forex/internal/domain/quote/v1"
	"github.com/matyusmilan/xm-forex/pkg/errors"
	"github.com/matyusmilan/xm-forex/pkg/interval"
	"github.com/matyusmilan/xm-forex/pkg/logger"
)

const defaultHistory = 500

// series holds the in-progress candle and the closed history for one
// pair and interval. Closed candles are kept oldest first.
type series struct {
	current *candlev1.Candle
	closed  []candlev1.Candle
}

// Aggregator folds quotes into OHLC candles over the quote mid price.
// One bucket per pair and interval is open at a time; when a quote
// lands in a different bucket the open candle is sealed into a bounded
// history ring.
type Aggregator struct {
	logger    logger.Interface
	intervals []interval.Interval
	history   int

	mu     sync.RWMutex
	series map[string]map[string]*series
}

// NewAggregator creates an aggregator for the given interval names.
func NewAggregator(intervalNames []string, history int, logger logger.Interface) (*Aggregator, error) {
	seen := make(map[string]bool, len(intervalNames))
	intervals := make([]interval.Interval, 0, len(intervalNames))
	for _, name := range intervalNames {
		if seen[name] {
			continue
		}
		iv, err := interval.GetInterval(name)
		if err != nil {
			return nil, errors.TracerFromError(err)
		}
		seen[name] = true
		intervals = append(intervals, iv)
	}

	if history <= 0 {
		history = defaultHistory
	}

	return &Aggregator{
		logger:    logger,
		intervals: intervals,
		history:   history,
		series:    make(map[string]map[string]*series),
	}, nil
}

// Apply folds one quote into every configured interval for its pair.
// Quotes are applied in arrival order; a quote whose bucket differs
// from the open one seals the open candle, even if its timestamp is
// older.
func (a *Aggregator) Apply(q quotev1.Quote) {
	price := q.Mid()

	a.mu.Lock()
	defer a.mu.Unlock()

	pairSeries, ok := a.series[q.Pair]
	if !ok {
		pairSeries = make(map[string]*series, len(a.intervals))
		a.series[q.Pair] = pairSeries
	}

	for _, iv := range a.intervals {
		s, ok := pairSeries[iv.Name]
		if !ok {
			s = &series{}
			pairSeries[iv.Name] = s
		}

		bucketTime := iv.CalculateBucketTime(q.Timestamp)
		switch {
		case s.current == nil:
			s.current = newCandle(q.Pair, iv.Name, bucketTime, price)
		case !s.current.OpenTime.Equal(bucketTime):
			s.closed = append(s.closed, *s.current)
			if len(s.closed) > a.history {
				s.closed = s.closed[len(s.closed)-a.history:]
			}
			s.current = newCandle(q.Pair, iv.Name, bucketTime, price)
		default:
			if price > s.current.High {
				s.current.High = price
			}
			if price < s.current.Low {
				s.current.Low = price
			}
			s.current.Close = price
			s.current.TickCount++
		}
	}
}

// Candles returns up to limit candles for the pair and interval, newest
// first, including the in-progress bucket. A pair that has not ticked
// yet yields an empty slice.
func (a *Aggregator) Candles(pair, intervalName string, limit int) ([]candlev1.Candle, error) {
	if !a.supports(intervalName) {
		return nil, errors.NewErrorDetails(
			"unsupported interval: "+intervalName,
			string(errors.GeneralBadRequestError),
			"interval",
		)
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	pairSeries, ok := a.series[pair]
	if !ok {
		return []candlev1.Candle{}, nil
	}
	s, ok := pairSeries[intervalName]
	if !ok {
		return []candlev1.Candle{}, nil
	}

	all := make([]candlev1.Candle, 0, len(s.closed)+1)
	all = append(all, s.closed...)
	if s.current != nil {
		all = append(all, *s.current)
	}

	if limit <= 0 || limit > len(all) {
		limit = len(all)
	}

	candles := make([]candlev1.Candle, 0, limit)
	for i := len(all) - 1; i >= len(all)-limit; i-- {
		candles = append(candles, all[i])
	}
	return candles, nil
}

// Intervals returns the configured interval names.
func (a *Aggregator) Intervals() []string {
	names := make([]string, 0, len(a.intervals))
	for _, iv := range a.intervals {
		names = append(names, iv.Name)
	}
	return names
}

func (a *Aggregator) supports(intervalName string) bool {
	for _, iv := range a.intervals {
		if iv.Name == intervalName {
			return true
		}
	}
	return false
}

func newCandle(pair, intervalName string, bucketTime time.Time, price float64) *candlev1.Candle {
	return &candlev1.Candle{
		Pair:      pair,
		Interval:  intervalName,
		OpenTime:  bucketTime,
		Open:      price,
		High:      price,
		Low:       price,
		Close:     price,
		TickCount: 1,
	}
}
