// Package domain holds the persistence/API-facing order and trade records.
// These are deliberately distinct from internal/book's node/Trade: the
// kernel only ever sees Price/Qty/OrderID/TimeNs ticks on one symbol, while
// domain.Order additionally carries the account and lifecycle bookkeeping
// (ClientID, Status, CreatedAt) the non-core harness needs to persist,
// cache and serve per spec.md §1 ("feed adapters ... persistence ... are
// external collaborators, not part of this spec").
package domain

import (
	"time"

	"github.com/olyamironova/exchange-engine/internal/book"
)

type OrderType string

const (
	Limit  OrderType = "LIMIT"
	Market OrderType = "MARKET"
)

type OrderStatus string

const (
	Open      OrderStatus = "OPEN"
	Filled    OrderStatus = "FILLED"
	Cancelled OrderStatus = "CANCELLED"
)

// Order is the durable record of one order-entry command, independent of
// whatever the kernel currently holds resident for it.
type Order struct {
	ID            uint64
	ClientID      string
	ClientOrderID string // caller-supplied idempotency key for HTTP dedup
	Symbol        string
	Side          book.Side
	Type          OrderType
	Price         int64 // ticks; zero/ignored for Market orders
	Quantity      int64
	Remaining     int64
	Status        OrderStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (o *Order) Filled() bool {
	return o.Remaining <= 0
}

func (o *Order) PartiallyFilled() bool {
	return o.Remaining > 0 && o.Remaining < o.Quantity
}
