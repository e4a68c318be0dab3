package in_memory

import (
	"context"
	"sync"
	"time"

	"github.com/olyamironova/exchange-engine/internal/domain"
	"github.com/olyamironova/exchange-engine/internal/port"
)

type Cache struct {
	mu        sync.Mutex
	store     map[string]*domain.OrderbookSnapshot
	snapshots map[string][]byte
}

var _ port.Cache = (*Cache)(nil)

func NewCache() *Cache {
	return &Cache{
		store:     make(map[string]*domain.OrderbookSnapshot),
		snapshots: make(map[string][]byte),
	}
}

func (c *Cache) SetOrderbook(ctx context.Context, symbol string, ob *domain.OrderbookSnapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[symbol] = ob.DeepCopy()
	return nil
}

func (c *Cache) GetOrderbook(ctx context.Context, symbol string) (*domain.OrderbookSnapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ob, ok := c.store[symbol]
	if !ok {
		return nil, nil
	}
	return ob.DeepCopy(), nil
}

func (c *Cache) Invalidate(ctx context.Context, symbol string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, symbol)
	return nil
}

// SetSnapshot ignores ttl; the in-memory adapter has no expiry mechanism and
// is only used in tests and as a Redis stand-in for local development.
func (c *Cache) SetSnapshot(ctx context.Context, snapshotID string, data []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	c.snapshots[snapshotID] = cp
	return nil
}

func (c *Cache) GetSnapshot(ctx context.Context, snapshotID string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.snapshots[snapshotID]
	if !ok {
		return nil, nil
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}
