package v1

//go:generate mockgen -source=interface.go -destination=mock/interface_mock.go -package=mock

// History serves recent candles per pair and interval.
type History interface {
	// Candles returns up to limit candles for the pair and interval,
	// newest first, including the in-progress bucket. Fails with a bad
	// request error for an interval the venue does not aggregate.
	Candles(pair, interval string, limit int) ([]Candle, error)
}
