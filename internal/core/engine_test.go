package core

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olyamironova/exchange-engine/internal/adapter/in_memory"
	"github.com/olyamironova/exchange-engine/internal/book"
	"github.com/olyamironova/exchange-engine/internal/domain"
)

func newTestEngine() *Engine {
	repo := in_memory.NewMemoryRepo()
	cache := in_memory.NewCache()
	return NewEngine(repo, cache, nil)
}

func TestSubmitOrderRestsWhenNonCrossing(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()

	o := &domain.Order{ClientID: "alice", Symbol: "BTC-USD", Side: book.Buy, Type: domain.Limit, Price: 100, Quantity: 10}
	trades, err := e.SubmitOrder(ctx, o)
	require.NoError(t, err)
	assert.Empty(t, trades)
	assert.NotZero(t, o.ID)
	assert.Equal(t, domain.Open, o.Status)
	assert.Equal(t, int64(10), o.Remaining)
}

func TestSubmitOrderMatchesAcrossTwoSymbolsIndependently(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()

	sell := &domain.Order{ClientID: "a", Symbol: "BTC-USD", Side: book.Sell, Type: domain.Limit, Price: 100, Quantity: 10}
	_, err := e.SubmitOrder(ctx, sell)
	require.NoError(t, err)

	otherSell := &domain.Order{ClientID: "a", Symbol: "ETH-USD", Side: book.Sell, Type: domain.Limit, Price: 5, Quantity: 10}
	_, err = e.SubmitOrder(ctx, otherSell)
	require.NoError(t, err)

	buy := &domain.Order{ClientID: "b", Symbol: "BTC-USD", Side: book.Buy, Type: domain.Limit, Price: 100, Quantity: 10}
	trades, err := e.SubmitOrder(ctx, buy)
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, "BTC-USD", trades[0].Symbol)

	ob, err := e.GetOrderbook(ctx, "ETH-USD")
	require.NoError(t, err)
	require.Len(t, ob.Asks, 1)
	assert.Equal(t, int64(10), ob.Asks[0].Remaining)
}

func TestCancelOrderRemovesFromBookAndMarksCancelled(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()

	o := &domain.Order{ClientID: "alice", Symbol: "BTC-USD", Side: book.Buy, Type: domain.Limit, Price: 100, Quantity: 10}
	_, err := e.SubmitOrder(ctx, o)
	require.NoError(t, err)

	ok, err := e.CancelOrder(ctx, o.ID, "alice")
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := e.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Cancelled, got.Status)

	ok, err = e.CancelOrder(ctx, o.ID, "alice")
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestCancelOrderWrongClientIsRejected(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()

	o := &domain.Order{ClientID: "alice", Symbol: "BTC-USD", Side: book.Buy, Type: domain.Limit, Price: 100, Quantity: 10}
	_, err := e.SubmitOrder(ctx, o)
	require.NoError(t, err)

	ok, err := e.CancelOrder(ctx, o.ID, "mallory")
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	got, err := e.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Open, got.Status)
}

func TestModifyOrderShrinkPreservesID(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()

	o := &domain.Order{ClientID: "alice", Symbol: "BTC-USD", Side: book.Buy, Type: domain.Limit, Price: 100, Quantity: 10}
	_, err := e.SubmitOrder(ctx, o)
	require.NoError(t, err)

	ok, err := e.ModifyOrder(ctx, o.ID, "alice", 100, 5)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := e.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.Remaining)
}

func TestGetOrderUnknownIDReturnsError(t *testing.T) {
	e := newTestEngine()
	_, err := e.GetOrder(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestGetTradesForOrderFallsBackToRepository(t *testing.T) {
	repo := in_memory.NewMemoryRepo()
	ctx := context.Background()
	tr := &domain.Trade{ID: "t1", Symbol: "BTC-USD", BuyOrder: 1, SellOrder: 2, TakerSide: book.Buy, Price: 100, Quantity: 5}
	require.NoError(t, repo.SaveTrade(ctx, tr))

	e := NewEngine(repo, in_memory.NewCache(), nil)
	trades, err := e.GetTradesForOrder(ctx, 1)
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, "t1", trades[0].ID)
}

func TestSnapshotAndRestoreRoundTrip(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()

	o := &domain.Order{ClientID: "alice", Symbol: "BTC-USD", Side: book.Buy, Type: domain.Limit, Price: 100, Quantity: 10}
	_, err := e.SubmitOrder(ctx, o)
	require.NoError(t, err)

	id, err := e.SnapshotOrderbook(ctx, "BTC-USD")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	ok, err := e.CancelOrder(ctx, o.ID, "alice")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = e.RestoreOrderbook(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)

	ob, err := e.GetOrderbook(ctx, "BTC-USD")
	require.NoError(t, err)
	require.Len(t, ob.Bids, 1)
	assert.Equal(t, o.ID, ob.Bids[0].ID)
}

func TestSnapshotUsesCacheBeforeRepository(t *testing.T) {
	repo := in_memory.NewMemoryRepo()
	cache := in_memory.NewCache()
	e := NewEngine(repo, cache, nil)
	ctx := context.Background()

	o := &domain.Order{ClientID: "alice", Symbol: "BTC-USD", Side: book.Buy, Type: domain.Limit, Price: 100, Quantity: 10}
	_, err := e.SubmitOrder(ctx, o)
	require.NoError(t, err)

	id, err := e.SnapshotOrderbook(ctx, "BTC-USD")
	require.NoError(t, err)

	cached, err := cache.GetSnapshot(ctx, id)
	require.NoError(t, err)
	assert.NotNil(t, cached, "SnapshotOrderbook should populate the cache-aside snapshot entry")

	ok, err := e.RestoreOrderbook(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRefreshCacheInvalidatesEmptyBook(t *testing.T) {
	repo := in_memory.NewMemoryRepo()
	cache := in_memory.NewCache()
	e := NewEngine(repo, cache, nil)
	ctx := context.Background()

	o := &domain.Order{ClientID: "alice", Symbol: "BTC-USD", Side: book.Buy, Type: domain.Limit, Price: 100, Quantity: 10}
	_, err := e.SubmitOrder(ctx, o)
	require.NoError(t, err)

	ob, err := cache.GetOrderbook(ctx, "BTC-USD")
	require.NoError(t, err)
	require.NotNil(t, ob)

	ok, err := e.CancelOrder(ctx, o.ID, "alice")
	require.NoError(t, err)
	require.True(t, ok)

	ob, err = cache.GetOrderbook(ctx, "BTC-USD")
	require.NoError(t, err)
	assert.Nil(t, ob, "an emptied book should be invalidated rather than cached as an empty snapshot")
}

type fakeBroadcaster struct {
	mu     sync.Mutex
	trades []*domain.Trade
	depths int
}

func (f *fakeBroadcaster) BroadcastTrade(symbol string, t *domain.Trade) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trades = append(f.trades, t)
}

func (f *fakeBroadcaster) BroadcastDepth(symbol string, ob *domain.OrderbookSnapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.depths++
}

func TestSubmitOrderBroadcastsTradesAndDepth(t *testing.T) {
	e := newTestEngine()
	feed := &fakeBroadcaster{}
	e.WithBroadcaster(feed)
	ctx := context.Background()

	sell := &domain.Order{ClientID: "a", Symbol: "BTC-USD", Side: book.Sell, Type: domain.Limit, Price: 100, Quantity: 10}
	_, err := e.SubmitOrder(ctx, sell)
	require.NoError(t, err)

	buy := &domain.Order{ClientID: "b", Symbol: "BTC-USD", Side: book.Buy, Type: domain.Limit, Price: 100, Quantity: 10}
	_, err = e.SubmitOrder(ctx, buy)
	require.NoError(t, err)

	feed.mu.Lock()
	defer feed.mu.Unlock()
	assert.Len(t, feed.trades, 1)
	assert.Equal(t, "BTC-USD", feed.trades[0].Symbol)
	assert.Positive(t, feed.depths)
}

func TestLoadOpenOrdersFromRepoRestoresRestingOrders(t *testing.T) {
	repo := in_memory.NewMemoryRepo()
	cache := in_memory.NewCache()
	ctx := context.Background()

	o := &domain.Order{ID: 1, ClientID: "alice", Symbol: "BTC-USD", Side: book.Buy, Type: domain.Limit,
		Price: 100, Quantity: 10, Remaining: 10, Status: domain.Open}
	require.NoError(t, repo.SaveOrder(ctx, o))

	e := NewEngine(repo, cache, nil)
	require.NoError(t, e.LoadOpenOrdersFromRepo(ctx, []string{"BTC-USD"}))

	ob, err := e.GetOrderbook(ctx, "BTC-USD")
	require.NoError(t, err)
	require.Len(t, ob.Bids, 1)
	assert.Equal(t, uint64(1), ob.Bids[0].ID)
}
