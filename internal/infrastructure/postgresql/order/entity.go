package order

import (
	"time"

	orderv1 "github.com/matyusmilan/xm-forex/internal/domain/order/v1"
)

// Order represents a single archived order row.
type Order struct {
	ID             string    `json:"id"`
	ClientID       string    `json:"client_id"`
	Pair           string    `json:"pair"`
	Side           string    `json:"side"`
	Kind           string    `json:"kind"`
	Quantity       float64   `json:"quantity"`
	LimitPrice     float64   `json:"limit_price"`
	Status         string    `json:"status"`
	FilledQuantity float64   `json:"filled_quantity"`
	LastFillPrice  *float64  `json:"last_fill_price"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// FromOrderEvent fills the row from an order event snapshot. The event
// timestamp becomes the row's updated_at.
func (o *Order) FromOrderEvent(event *orderv1.Event) {
	o.ID = event.OrderID
	o.ClientID = event.ClientID
	o.Pair = event.Pair
	o.Side = string(event.Side)
	o.Kind = string(event.Kind)
	o.Quantity = event.Quantity
	o.LimitPrice = event.LimitPrice
	o.Status = string(event.Status)
	o.FilledQuantity = event.FilledQuantity
	o.LastFillPrice = event.LastFillPrice
	o.CreatedAt = event.CreatedAt
	o.UpdatedAt = event.Timestamp
}

// Filter represents the filter criteria for archived orders.
type Filter struct {
	ClientID string `json:"client_id"`
	Pair     string `json:"pair"`
	Status   string `json:"status"`
	Limit    int    `json:"limit"`
	Offset   int    `json:"offset"`
}
