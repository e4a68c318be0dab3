package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/olyamironova/exchange-engine/internal/book"
)

func TestOrderFilled(t *testing.T) {
	o := &Order{Quantity: 10, Remaining: 0}
	assert.True(t, o.Filled())
	o.Remaining = 1
	assert.False(t, o.Filled())
}

func TestOrderPartiallyFilled(t *testing.T) {
	o := &Order{Quantity: 10, Remaining: 10}
	assert.False(t, o.PartiallyFilled())
	o.Remaining = 4
	assert.True(t, o.PartiallyFilled())
	o.Remaining = 0
	assert.False(t, o.PartiallyFilled())
}

func TestFromBookTradeBuyTaker(t *testing.T) {
	bt := book.Trade{TakerID: 10, MakerID: 5, TakerSide: book.Buy, Price: 100, Qty: 20, Ts: 1}
	ts := time.Now()
	tr := FromBookTrade("t1", "BTC-USD", book.Buy, bt, ts)

	assert.Equal(t, uint64(10), tr.BuyOrder)
	assert.Equal(t, uint64(5), tr.SellOrder)
	assert.Equal(t, int64(100), tr.Price)
	assert.Equal(t, int64(20), tr.Quantity)
	assert.Equal(t, "BTC-USD", tr.Symbol)
	assert.Equal(t, book.Buy, tr.TakerSide)
}

func TestFromBookTradeSellTaker(t *testing.T) {
	bt := book.Trade{TakerID: 10, MakerID: 5, TakerSide: book.Sell, Price: 100, Qty: 20, Ts: 1}
	tr := FromBookTrade("t2", "BTC-USD", book.Sell, bt, time.Now())

	assert.Equal(t, uint64(5), tr.BuyOrder)
	assert.Equal(t, uint64(10), tr.SellOrder)
}

func TestSnapshotDeepCopyIsIndependent(t *testing.T) {
	orig := &OrderbookSnapshot{
		Symbol: "BTC-USD",
		Bids:   []Order{{ID: 1, Price: 100}},
		Asks:   []Order{{ID: 2, Price: 200}},
	}
	cp := orig.DeepCopy()

	cp.Bids[0].Price = 999
	assert.Equal(t, int64(100), orig.Bids[0].Price, "mutating the copy must not affect the original")

	orig.Asks[0].Price = 111
	assert.Equal(t, int64(200), cp.Asks[0].Price, "mutating the original must not affect the copy")
}

func TestSnapshotDeepCopyHandlesNilSlices(t *testing.T) {
	orig := &OrderbookSnapshot{Symbol: "BTC-USD"}
	cp := orig.DeepCopy()
	assert.Nil(t, cp.Bids)
	assert.Nil(t, cp.Asks)
}
