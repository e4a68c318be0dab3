package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func depth(b *Book, side Side, price Price) Qty {
	return b.DepthAt(side, price)
}

// Scenario 1-5 from the end-to-end walkthrough: a single book driven
// through a resting cross, a partial fill, a second resting level, a
// cancel, and a market sweep across two levels.
func TestEndToEndScenario(t *testing.T) {
	b := New()

	trades := b.AddLimit(101, Sell, 1010, 100, 1)
	require.Empty(t, trades)
	trades = b.AddLimit(201, Buy, 1000, 50, 2)
	require.Empty(t, trades)

	bid, ok := b.BestBid()
	require.True(t, ok)
	assert.Equal(t, Price(1000), bid)
	ask, ok := b.BestAsk()
	require.True(t, ok)
	assert.Equal(t, Price(1010), ask)
	assert.Equal(t, Qty(50), depth(b, Buy, 1000))
	assert.Equal(t, Qty(100), depth(b, Sell, 1010))

	trades = b.AddLimit(202, Buy, 1015, 75, 3)
	require.Len(t, trades, 1)
	assert.Equal(t, Trade{TakerID: 202, MakerID: 101, TakerSide: Buy, Price: 1010, Qty: 75, Ts: 3}, trades[0])
	ask, ok = b.BestAsk()
	require.True(t, ok)
	assert.Equal(t, Price(1010), ask)
	assert.Equal(t, Qty(25), depth(b, Sell, 1010))
	bid, ok = b.BestBid()
	require.True(t, ok)
	assert.Equal(t, Price(1000), bid)

	trades = b.AddLimit(103, Sell, 1020, 50, 4)
	require.Empty(t, trades)
	ask, ok = b.BestAsk()
	require.True(t, ok)
	assert.Equal(t, Price(1010), ask)
	assert.Equal(t, Qty(50), depth(b, Sell, 1020))

	assert.True(t, b.Cancel(201))
	_, ok = b.BestBid()
	assert.False(t, ok)
	assert.False(t, b.Cancel(201))

	trades = b.AddMarket(104, Buy, 60, 5)
	require.Len(t, trades, 2)
	assert.Equal(t, Trade{TakerID: 104, MakerID: 101, TakerSide: Buy, Price: 1010, Qty: 25, Ts: 5}, trades[0])
	assert.Equal(t, Trade{TakerID: 104, MakerID: 103, TakerSide: Buy, Price: 1020, Qty: 35, Ts: 5}, trades[1])
	ask, ok = b.BestAsk()
	require.True(t, ok)
	assert.Equal(t, Price(1020), ask)
	assert.Equal(t, Qty(15), depth(b, Sell, 1020))
}

// Scenario 6: shrink-in-place preserves FIFO position.
func TestReplaceShrinkPreservesPriority(t *testing.T) {
	b := New()

	require.Empty(t, b.AddLimit(1, Buy, 100, 10, 1))
	require.Empty(t, b.AddLimit(2, Buy, 100, 10, 2))

	newQty := Qty(5)
	ok := b.Replace(1, nil, &newQty, 3)
	require.True(t, ok)

	trades := b.AddLimit(3, Sell, 100, 12, 4)
	require.Len(t, trades, 2)
	assert.Equal(t, OrderID(1), trades[0].MakerID)
	assert.Equal(t, Qty(5), trades[0].Qty)
	assert.Equal(t, OrderID(2), trades[1].MakerID)
	assert.Equal(t, Qty(7), trades[1].Qty)
}

func TestAddLimitNonPositiveQtyIsNoop(t *testing.T) {
	b := New()
	assert.Empty(t, b.AddLimit(1, Buy, 100, 0, 1))
	assert.Empty(t, b.AddLimit(2, Buy, 100, -5, 1))
	_, ok := b.BestBid()
	assert.False(t, ok)
}

func TestCancelUnknownIDReturnsFalse(t *testing.T) {
	b := New()
	assert.False(t, b.Cancel(999))
}

func TestReplaceUnknownIDReturnsFalse(t *testing.T) {
	b := New()
	q := Qty(1)
	assert.False(t, b.Replace(999, nil, &q, 1))
}

func TestMarketAgainstEmptyBookProducesNoTrades(t *testing.T) {
	b := New()
	trades := b.AddMarket(1, Buy, 100, 1)
	assert.Empty(t, trades)
}

func TestMarketOrderNeverRests(t *testing.T) {
	b := New()
	trades := b.AddMarket(1, Buy, 100, 1)
	assert.Empty(t, trades)
	_, ok := b.BestBid()
	assert.False(t, ok, "unmatched market order must not rest")
}

// Add-then-cancel of a non-crossing limit restores the pre-add state.
func TestAddThenCancelRestoresState(t *testing.T) {
	b := New()
	require.Empty(t, b.AddLimit(1, Sell, 1010, 100, 1))

	bidBefore, bidOkBefore := b.BestBid()
	askBefore, askOkBefore := b.BestAsk()

	require.Empty(t, b.AddLimit(2, Buy, 1000, 20, 2))
	require.True(t, b.Cancel(2))

	bidAfter, bidOkAfter := b.BestBid()
	askAfter, askOkAfter := b.BestAsk()
	assert.Equal(t, bidOkBefore, bidOkAfter)
	assert.Equal(t, bidBefore, bidAfter)
	assert.Equal(t, askOkBefore, askOkAfter)
	assert.Equal(t, askBefore, askAfter)
	assert.Equal(t, Qty(100), depth(b, Sell, 1010))
}

// N identical non-crossing limits, then a full-size aggressor, fill in
// insertion order.
func TestFIFOPriorityAcrossIdenticalLimits(t *testing.T) {
	b := New()
	const n = 5
	var total Qty
	for i := OrderID(1); i <= n; i++ {
		require.Empty(t, b.AddLimit(i, Sell, 500, 10, TimeNs(i)))
		total += 10
	}

	trades := b.AddLimit(100, Buy, 500, total, TimeNs(n+1))
	require.Len(t, trades, n)
	for i, tr := range trades {
		assert.Equal(t, OrderID(i+1), tr.MakerID, "trade %d should fill maker %d first", i, i+1)
		assert.Equal(t, Qty(10), tr.Qty)
	}
}

func TestLimitAtBestOppositePriceCrosses(t *testing.T) {
	b := New()
	require.Empty(t, b.AddLimit(1, Sell, 1000, 10, 1))
	trades := b.AddLimit(2, Buy, 1000, 10, 2)
	require.Len(t, trades, 1)
	assert.Equal(t, Price(1000), trades[0].Price)
}

func TestBestBidNeverExceedsBestAsk(t *testing.T) {
	b := New()
	require.Empty(t, b.AddLimit(1, Buy, 990, 10, 1))
	require.Empty(t, b.AddLimit(2, Sell, 1000, 10, 2))
	bid, _ := b.BestBid()
	ask, _ := b.BestAsk()
	assert.Less(t, int64(bid), int64(ask))
}

// Self-trade is explicitly out of scope (spec §9c): reusing an id across
// taker and maker matches against itself without panicking.
func TestSelfTradeIsNotPrevented(t *testing.T) {
	b := New()
	require.Empty(t, b.AddLimit(1, Sell, 100, 10, 1))
	trades := b.AddLimit(1, Buy, 100, 10, 2)
	require.Len(t, trades, 1)
	assert.Equal(t, OrderID(1), trades[0].TakerID)
	assert.Equal(t, OrderID(1), trades[0].MakerID)
}

func TestTakerIDAlwaysPropagated(t *testing.T) {
	b := New()
	require.Empty(t, b.AddLimit(1, Sell, 100, 10, 1))
	trades := b.AddMarket(42, Buy, 10, 2)
	require.Len(t, trades, 1)
	assert.Equal(t, OrderID(42), trades[0].TakerID)
}
