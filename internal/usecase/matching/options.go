package matching

// Options represents configuration options for the Engine.
type Options struct {
	// MaxFillPerTick caps the quantity filled per order on one quote.
	// 0 disables the cap.
	MaxFillPerTick float64
	// QuoteBuffer bounds each pair's inbound quote channel.
	QuoteBuffer int
}

// DefaultEngineOptions returns the default engine options.
func DefaultEngineOptions() *Options {
	return &Options{
		MaxFillPerTick: 0,
		QuoteBuffer:    256,
	}
}
