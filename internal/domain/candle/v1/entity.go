package v1

import (
	"fmt"
	"time"

	"github.com/matyusmilan/xm-forex/pkg/interval"
)

// Candle represents aggregated open/high/low/close prices for one pair,
// interval and bucket. Prices are quote midpoints.
type Candle struct {
	Pair      string    `json:"pair"`
	Interval  string    `json:"interval"`
	OpenTime  time.Time `json:"open_time"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	TickCount int64     `json:"tick_count"`
}

// ValidateInterval validates the interval field.
func (c *Candle) ValidateInterval() error {
	if !interval.IsValidInterval(c.Interval) {
		return fmt.Errorf("invalid interval: %s, supported: %v",
			c.Interval, interval.GetAllIntervalNames())
	}
	return nil
}

// BucketTime calculates the correct bucket time for this candle.
func (c *Candle) BucketTime() (time.Time, error) {
	return interval.CalculateBucketTime(c.OpenTime, c.Interval)
}
