package domain

import (
	"time"

	"github.com/olyamironova/exchange-engine/internal/book"
)

// Trade is the durable record of one fill; Price/Quantity mirror
// book.Trade but are named for persistence column parity with the teacher's
// schema (price, quantity, timestamp).
type Trade struct {
	ID        string
	Symbol    string
	BuyOrder  uint64
	SellOrder uint64
	TakerSide book.Side
	Price     int64
	Quantity  int64
	Timestamp time.Time
}

// FromBookTrade converts a book.Trade produced by a taker on takerSide into
// a persistable domain.Trade, resolving which leg is the buy order and
// which is the sell order.
func FromBookTrade(id, symbol string, takerSide book.Side, t book.Trade, ts time.Time) *Trade {
	d := &Trade{
		ID:        id,
		Symbol:    symbol,
		TakerSide: takerSide,
		Price:     t.Price,
		Quantity:  t.Qty,
		Timestamp: ts,
	}
	if takerSide == book.Buy {
		d.BuyOrder = t.TakerID
		d.SellOrder = t.MakerID
	} else {
		d.BuyOrder = t.MakerID
		d.SellOrder = t.TakerID
	}
	return d
}
