package interval

import (
	"time"
)

// PricePoint represents a single price observation for aggregation.
type PricePoint struct {
	Timestamp time.Time
	Price     float64
}

// OHLCData represents aggregated open/high/low/close data for one bucket.
type OHLCData struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Count     int64
}

// AggregateOHLC aggregates price points into OHLC for one bucket. Points
// are expected in arrival order; the first sets the open, the last the close.
func (i Interval) AggregateOHLC(points []PricePoint, bucketTime time.Time) OHLCData {
	if len(points) == 0 {
		return OHLCData{Timestamp: bucketTime}
	}

	ohlc := OHLCData{
		Timestamp: bucketTime,
		Open:      points[0].Price,
		High:      points[0].Price,
		Low:       points[0].Price,
		Close:     points[len(points)-1].Price,
		Count:     int64(len(points)),
	}

	for _, point := range points {
		if point.Price > ohlc.High {
			ohlc.High = point.Price
		}
		if point.Price < ohlc.Low {
			ohlc.Low = point.Price
		}
	}

	return ohlc
}

// ShouldAggregate determines whether a new bucket has started since the
// last aggregation.
func (i Interval) ShouldAggregate(lastAggregation, currentTime time.Time) bool {
	lastBucket := i.CalculateBucketTime(lastAggregation)
	currentBucket := i.CalculateBucketTime(currentTime)

	return !lastBucket.Equal(currentBucket)
}
