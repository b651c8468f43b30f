package v1

import "time"

// Event represents a single order state change published to subscribers.
// It carries the full order snapshot so consumers never have to read
// the store. LastFillPrice is set only on events produced by a fill.
type Event struct {
	OrderID        string    `json:"order_id"`
	ClientID       string    `json:"client_id"`
	Pair           string    `json:"pair"`
	Side           Side      `json:"side"`
	Kind           Kind      `json:"kind"`
	Quantity       float64   `json:"quantity"`
	LimitPrice     float64   `json:"limit_price,omitempty"`
	Status         Status    `json:"status"`
	FilledQuantity float64   `json:"filled_quantity"`
	LastFillPrice  *float64  `json:"last_fill_price,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	Timestamp      time.Time `json:"timestamp"`
}

// Event returns an event snapshot of the order without a fill price.
func (o *Order) Event() Event {
	return Event{
		OrderID:        o.ID,
		ClientID:       o.ClientID,
		Pair:           o.Pair,
		Side:           o.Side,
		Kind:           o.Kind,
		Quantity:       o.Quantity,
		LimitPrice:     o.LimitPrice,
		Status:         o.Status,
		FilledQuantity: o.FilledQuantity,
		CreatedAt:      o.CreatedAt,
		Timestamp:      time.Now().UTC(),
	}
}

// FillEvent returns an event snapshot carrying the price of the fill
// that produced this state.
func (o *Order) FillEvent(price float64) Event {
	event := o.Event()
	event.LastFillPrice = &price
	return event
}
