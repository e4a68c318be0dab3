// Package in_memory provides a Repository/Cache implementation backed by
// plain maps, used in tests. cmd/server does not fall back to it; it always
// uses the Postgres and Redis adapters.
package in_memory

import (
	"context"
	"errors"
	"sync"

	"github.com/olyamironova/exchange-engine/internal/domain"
)

type MemoryRepo struct {
	mu        sync.Mutex
	orders    map[uint64]*domain.Order
	trades    map[uint64][]*domain.Trade
	snapshots map[string]*domain.OrderbookSnapshot
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		orders:    make(map[uint64]*domain.Order),
		trades:    make(map[uint64][]*domain.Trade),
		snapshots: make(map[string]*domain.OrderbookSnapshot),
	}
}

func (r *MemoryRepo) SaveOrder(ctx context.Context, o *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[o.ID] = o
	return nil
}

func (r *MemoryRepo) SaveTrade(ctx context.Context, t *domain.Trade) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trades[t.BuyOrder] = append(r.trades[t.BuyOrder], t)
	r.trades[t.SellOrder] = append(r.trades[t.SellOrder], t)
	return nil
}

func (r *MemoryRepo) LoadOpenOrders(ctx context.Context, symbol string) ([]*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []*domain.Order
	for _, o := range r.orders {
		if o.Symbol == symbol && o.Status == domain.Open && o.Remaining > 0 {
			res = append(res, o)
		}
	}
	return res, nil
}

func (r *MemoryRepo) LoadOrderByIDForClient(ctx context.Context, orderID uint64, clientID string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok || o.ClientID != clientID {
		return nil, errors.New("order not found")
	}
	return o, nil
}

func (r *MemoryRepo) CancelOrder(ctx context.Context, orderID uint64, clientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok || o.ClientID != clientID {
		return errors.New("order not found")
	}
	o.Status = domain.Cancelled
	o.Remaining = 0
	return nil
}

func (r *MemoryRepo) ModifyOrder(ctx context.Context, orderID uint64, clientID string, newPrice, newQty int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok || o.ClientID != clientID {
		return errors.New("order not found")
	}
	o.Price = newPrice
	o.Quantity = newQty
	o.Remaining = newQty
	return nil
}

func (r *MemoryRepo) LoadTradesForOrder(ctx context.Context, orderID uint64) ([]*domain.Trade, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.trades[orderID], nil
}

func (r *MemoryRepo) SaveSnapshot(ctx context.Context, snapshotID, symbol string, ob *domain.OrderbookSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots[snapshotID] = ob.DeepCopy()
	return nil
}

func (r *MemoryRepo) LoadSnapshot(ctx context.Context, snapshotID string) (*domain.OrderbookSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ob, ok := r.snapshots[snapshotID]
	if !ok {
		return nil, errors.New("snapshot not found")
	}
	return ob, nil
}

func (r *MemoryRepo) Close(ctx context.Context) {}
