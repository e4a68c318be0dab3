// Package core wires the matching kernel (internal/book) to persistence,
// caching and the time/id services the kernel itself stays free of.
package core

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/olyamironova/exchange-engine/internal/book"
	"github.com/olyamironova/exchange-engine/internal/domain"
	"github.com/olyamironova/exchange-engine/internal/port"
)

// snapshotCacheTTL bounds how long a restorable snapshot's serialized bytes
// stay in the cache; the repository remains the durable source of truth.
const snapshotCacheTTL = 10 * time.Minute

// Metrics is the subset of internal/api/metrics.Metrics the engine reports
// to, kept as an interface so core never imports the prometheus client
// directly.
type Metrics interface {
	ObserveSubmit(tradeCount int, latencyNs float64)
}

// Broadcaster is the subset of internal/api/ws.Server the engine pushes
// market-data updates to, kept as an interface so core never imports
// gorilla/websocket directly.
type Broadcaster interface {
	BroadcastTrade(symbol string, t *domain.Trade)
	BroadcastDepth(symbol string, ob *domain.OrderbookSnapshot)
}

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrSymbolNotFound = errors.New("symbol not found")
	ErrNotOpen        = errors.New("order is not open")
)

// symbolBook pairs one matching kernel with its own lock, so that two
// symbols never contend and a slow persistence write for AAPL never stalls
// matching on MSFT.
type symbolBook struct {
	mu sync.Mutex
	bk *book.Book
}

// Engine is the application-facing order-entry surface: it assigns ids and
// timestamps, delegates matching to internal/book, persists the result and
// refreshes the cache. None of that bookkeeping lives inside internal/book
// itself.
type Engine struct {
	repo    port.Repository
	cache   port.Cache
	log     *zap.Logger
	metrics Metrics
	feed    Broadcaster

	booksMu sync.RWMutex
	books   map[string]*symbolBook

	ordersMu sync.RWMutex
	orders   map[uint64]*domain.Order
	byTaker  map[uint64][]*domain.Trade

	nextID uint64
	idMu   sync.Mutex
}

func NewEngine(repo port.Repository, cache port.Cache, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		repo:    repo,
		cache:   cache,
		log:     log,
		books:   make(map[string]*symbolBook),
		orders:  make(map[uint64]*domain.Order),
		byTaker: make(map[uint64][]*domain.Trade),
	}
}

// WithMetrics attaches a metrics sink; optional, defaults to a no-op.
func (e *Engine) WithMetrics(m Metrics) *Engine {
	e.metrics = m
	return e
}

// WithBroadcaster attaches a market-data push feed; optional, defaults to
// a no-op.
func (e *Engine) WithBroadcaster(b Broadcaster) *Engine {
	e.feed = b
	return e
}

func (e *Engine) bookFor(symbol string) *symbolBook {
	e.booksMu.RLock()
	sb, ok := e.books[symbol]
	e.booksMu.RUnlock()
	if ok {
		return sb
	}
	e.booksMu.Lock()
	defer e.booksMu.Unlock()
	if sb, ok = e.books[symbol]; ok {
		return sb
	}
	sb = &symbolBook{bk: book.New()}
	e.books[symbol] = sb
	return sb
}

// allocID hands out monotonically increasing ids for the kernel's OrderID
// space; client-facing order identity is ClientOrderID, not this value.
func (e *Engine) allocID() uint64 {
	e.idMu.Lock()
	defer e.idMu.Unlock()
	e.nextID++
	return e.nextID
}

// LoadOpenOrdersFromRepo restores resting orders for the given symbols into
// both the per-symbol kernel and the in-memory order index, used on startup
// to recover from the last persisted state.
func (e *Engine) LoadOpenOrdersFromRepo(ctx context.Context, symbols []string) error {
	if e.repo == nil {
		return nil
	}
	for _, symbol := range symbols {
		orders, err := e.repo.LoadOpenOrders(ctx, symbol)
		if err != nil {
			return err
		}
		sb := e.bookFor(symbol)
		sb.mu.Lock()
		for _, o := range orders {
			ts := book.TimeNs(o.CreatedAt.UnixNano())
			if o.ID > e.nextID {
				e.nextID = o.ID
			}
			sb.bk.AddLimit(o.ID, o.Side, o.Price, o.Remaining, ts)
			e.ordersMu.Lock()
			e.orders[o.ID] = o
			e.ordersMu.Unlock()
		}
		sb.mu.Unlock()
	}
	return nil
}

// SubmitOrder assigns the order an id and timestamp, runs it through the
// symbol's kernel, persists the order and any resulting trades, and
// refreshes the cached depth snapshot.
func (e *Engine) SubmitOrder(ctx context.Context, o *domain.Order) ([]*domain.Trade, error) {
	if o.ID == 0 {
		o.ID = e.allocID()
	}
	o.Remaining = o.Quantity
	o.Status = domain.Open
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	ts := book.TimeNs(o.CreatedAt.UnixNano())

	start := time.Now()
	sb := e.bookFor(o.Symbol)
	sb.mu.Lock()
	var fills []book.Trade
	if o.Type == domain.Market {
		fills = sb.bk.AddMarket(o.ID, o.Side, o.Quantity, ts)
	} else {
		fills = sb.bk.AddLimit(o.ID, o.Side, o.Price, o.Quantity, ts)
	}
	sb.mu.Unlock()
	if e.metrics != nil {
		e.metrics.ObserveSubmit(len(fills), float64(time.Since(start).Nanoseconds()))
	}

	filled := o.Quantity
	for _, f := range fills {
		filled -= f.Qty
	}
	o.Remaining = filled
	if o.Remaining <= 0 {
		o.Status = domain.Filled
	}

	e.ordersMu.Lock()
	e.orders[o.ID] = o
	e.ordersMu.Unlock()

	trades := make([]*domain.Trade, 0, len(fills))
	for _, f := range fills {
		tr := domain.FromBookTrade(uuid.NewString(), o.Symbol, o.Side, f, time.Unix(0, int64(f.Ts)))
		trades = append(trades, tr)
		e.recordFill(ctx, tr, f, o.Side)
	}

	if e.repo != nil {
		if err := e.repo.SaveOrder(ctx, o); err != nil {
			e.log.Warn("save order failed", zap.Uint64("order_id", o.ID), zap.Error(err))
		}
	}
	e.refreshCache(ctx, o.Symbol)

	e.log.Debug("order submitted",
		zap.Uint64("order_id", o.ID), zap.String("symbol", o.Symbol),
		zap.String("side", o.Side.String()), zap.Int("trades", len(trades)))
	return trades, nil
}

func (e *Engine) recordFill(ctx context.Context, tr *domain.Trade, f book.Trade, takerSide book.Side) {
	e.ordersMu.Lock()
	e.byTaker[f.TakerID] = append(e.byTaker[f.TakerID], tr)
	e.byTaker[f.MakerID] = append(e.byTaker[f.MakerID], tr)
	if maker, ok := e.orders[f.MakerID]; ok {
		maker.Remaining -= f.Qty
		if maker.Remaining <= 0 {
			maker.Status = domain.Filled
		}
		maker.UpdatedAt = time.Now()
	}
	e.ordersMu.Unlock()
	if e.repo != nil {
		if err := e.repo.SaveTrade(ctx, tr); err != nil {
			e.log.Warn("save trade failed", zap.String("trade_id", tr.ID), zap.Error(err))
		}
	}
	if e.feed != nil {
		e.feed.BroadcastTrade(tr.Symbol, tr)
	}
}

// ModifyOrder applies an in-place shrink or a cancel/replace via
// internal/book.Replace, keyed by the book's own O(1) id index.
func (e *Engine) ModifyOrder(ctx context.Context, orderID uint64, clientID string, newPrice, newQty int64) (bool, error) {
	e.ordersMu.Lock()
	o, ok := e.orders[orderID]
	e.ordersMu.Unlock()
	if !ok || o.ClientID != clientID {
		return false, ErrOrderNotFound
	}
	if o.Status != domain.Open {
		return false, ErrNotOpen
	}

	sb := e.bookFor(o.Symbol)
	sb.mu.Lock()
	ok = sb.bk.Replace(orderID, &newPrice, &newQty, book.TimeNs(time.Now().UnixNano()))
	sb.mu.Unlock()
	if !ok {
		return false, ErrOrderNotFound
	}

	e.ordersMu.Lock()
	o.Price = newPrice
	o.Quantity = newQty
	o.Remaining = newQty
	o.UpdatedAt = time.Now()
	e.ordersMu.Unlock()

	if e.repo != nil {
		if err := e.repo.ModifyOrder(ctx, orderID, clientID, newPrice, newQty); err != nil {
			e.log.Warn("modify order failed", zap.Uint64("order_id", orderID), zap.Error(err))
		}
	}
	e.refreshCache(ctx, o.Symbol)
	return true, nil
}

// CancelOrder removes the order from its symbol's kernel in O(1) via the id
// index and marks it cancelled.
func (e *Engine) CancelOrder(ctx context.Context, orderID uint64, clientID string) (bool, error) {
	e.ordersMu.Lock()
	o, ok := e.orders[orderID]
	e.ordersMu.Unlock()
	if !ok || o.ClientID != clientID {
		return false, ErrOrderNotFound
	}
	if o.Status != domain.Open {
		return false, ErrNotOpen
	}

	sb := e.bookFor(o.Symbol)
	sb.mu.Lock()
	removed := sb.bk.Cancel(orderID)
	sb.mu.Unlock()
	if !removed {
		return false, ErrOrderNotFound
	}

	e.ordersMu.Lock()
	o.Status = domain.Cancelled
	o.Remaining = 0
	o.UpdatedAt = time.Now()
	e.ordersMu.Unlock()

	if e.repo != nil {
		if err := e.repo.CancelOrder(ctx, orderID, clientID); err != nil {
			e.log.Warn("cancel order failed", zap.Uint64("order_id", orderID), zap.Error(err))
		}
	}
	e.refreshCache(ctx, o.Symbol)
	return true, nil
}

func (e *Engine) GetOrder(ctx context.Context, orderID uint64) (*domain.Order, error) {
	e.ordersMu.RLock()
	defer e.ordersMu.RUnlock()
	o, ok := e.orders[orderID]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

// GetTradesForOrder returns trades from the live in-memory taker index, or
// falls back to the repository for orders whose fills predate the current
// process (e.g. after a restart, since only open orders are restored by
// LoadOpenOrdersFromRepo).
func (e *Engine) GetTradesForOrder(ctx context.Context, orderID uint64) ([]*domain.Trade, error) {
	e.ordersMu.RLock()
	trades, ok := e.byTaker[orderID]
	e.ordersMu.RUnlock()
	if ok || e.repo == nil {
		return trades, nil
	}
	return e.repo.LoadTradesForOrder(ctx, orderID)
}

// GetOrderbook returns the cached depth snapshot if present, otherwise
// builds one fresh from the engine's open order records for the symbol.
func (e *Engine) GetOrderbook(ctx context.Context, symbol string) (*domain.OrderbookSnapshot, error) {
	if e.cache != nil {
		if ob, err := e.cache.GetOrderbook(ctx, symbol); err == nil && ob != nil {
			return ob, nil
		}
	}
	return e.buildSnapshot(symbol)
}

func (e *Engine) buildSnapshot(symbol string) (*domain.OrderbookSnapshot, error) {
	e.booksMu.RLock()
	sb, ok := e.books[symbol]
	e.booksMu.RUnlock()
	if !ok {
		return nil, ErrSymbolNotFound
	}

	ob := &domain.OrderbookSnapshot{Symbol: symbol, Timestamp: time.Now()}
	e.ordersMu.RLock()
	defer e.ordersMu.RUnlock()

	sb.mu.Lock()
	defer sb.mu.Unlock()
	for _, o := range e.orders {
		if o.Symbol != symbol || o.Status != domain.Open || o.Remaining <= 0 {
			continue
		}
		if o.Side == book.Buy {
			ob.Bids = append(ob.Bids, *o)
		} else {
			ob.Asks = append(ob.Asks, *o)
		}
	}
	return ob, nil
}

func (e *Engine) refreshCache(ctx context.Context, symbol string) {
	if e.cache == nil && e.feed == nil {
		return
	}
	ob, err := e.buildSnapshot(symbol)
	if err != nil {
		return
	}
	if e.cache != nil {
		if len(ob.Bids) == 0 && len(ob.Asks) == 0 {
			if err := e.cache.Invalidate(ctx, symbol); err != nil {
				e.log.Warn("cache invalidate failed", zap.String("symbol", symbol), zap.Error(err))
			}
		} else if err := e.cache.SetOrderbook(ctx, symbol, ob); err != nil {
			e.log.Warn("cache refresh failed", zap.String("symbol", symbol), zap.Error(err))
		}
	}
	if e.feed != nil {
		e.feed.BroadcastDepth(symbol, ob)
	}
}

// SnapshotOrderbook persists the current book state under a fresh id so it
// can later be restored with RestoreOrderbook.
func (e *Engine) SnapshotOrderbook(ctx context.Context, symbol string) (string, error) {
	ob, err := e.buildSnapshot(symbol)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	if e.repo != nil {
		if err := e.repo.SaveSnapshot(ctx, id, symbol, ob); err != nil {
			return "", err
		}
	}
	if e.cache != nil {
		if data, err := json.Marshal(ob); err == nil {
			if err := e.cache.SetSnapshot(ctx, id, data, snapshotCacheTTL); err != nil {
				e.log.Warn("snapshot cache write failed", zap.String("snapshot_id", id), zap.Error(err))
			}
		}
	}
	return id, nil
}

// RestoreOrderbook replays a previously saved snapshot's resting orders back
// into a fresh kernel for the symbol, replacing whatever is currently live.
func (e *Engine) RestoreOrderbook(ctx context.Context, snapshotID string) (bool, error) {
	if e.repo == nil {
		return false, errors.New("no repository configured")
	}

	var snap *domain.OrderbookSnapshot
	if e.cache != nil {
		if data, err := e.cache.GetSnapshot(ctx, snapshotID); err == nil && data != nil {
			var cached domain.OrderbookSnapshot
			if err := json.Unmarshal(data, &cached); err == nil {
				snap = &cached
			}
		}
	}
	if snap == nil {
		loaded, err := e.repo.LoadSnapshot(ctx, snapshotID)
		if err != nil {
			return false, err
		}
		snap = loaded
	}

	sb := e.bookFor(snap.Symbol)
	fresh := book.New()
	ts := book.TimeNs(time.Now().UnixNano())

	e.ordersMu.Lock()
	for _, o := range snap.Bids {
		oc := o
		fresh.AddLimit(oc.ID, book.Buy, oc.Price, oc.Remaining, ts)
		e.orders[oc.ID] = &oc
	}
	for _, o := range snap.Asks {
		oc := o
		fresh.AddLimit(oc.ID, book.Sell, oc.Price, oc.Remaining, ts)
		e.orders[oc.ID] = &oc
	}
	e.ordersMu.Unlock()

	sb.mu.Lock()
	sb.bk = fresh
	sb.mu.Unlock()

	e.refreshCache(ctx, snap.Symbol)
	return true, nil
}
