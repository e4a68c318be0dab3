package port

import (
	"context"

	"github.com/olyamironova/exchange-engine/internal/domain"
)

// Repository persists orders, trades and snapshots. The matching kernel
// (internal/book) never depends on this interface — persistence is the
// external collaborator spec.md §1 names, wired in only by internal/core.
type Repository interface {
	SaveOrder(ctx context.Context, o *domain.Order) error
	SaveTrade(ctx context.Context, t *domain.Trade) error
	LoadOpenOrders(ctx context.Context, symbol string) ([]*domain.Order, error)
	LoadOrderByIDForClient(ctx context.Context, orderID uint64, clientID string) (*domain.Order, error)
	CancelOrder(ctx context.Context, orderID uint64, clientID string) error
	ModifyOrder(ctx context.Context, orderID uint64, clientID string, price, qty int64) error
	LoadTradesForOrder(ctx context.Context, orderID uint64) ([]*domain.Trade, error)
	SaveSnapshot(ctx context.Context, snapshotID, symbol string, ob *domain.OrderbookSnapshot) error
	LoadSnapshot(ctx context.Context, snapshotID string) (*domain.OrderbookSnapshot, error)
	Close(ctx context.Context)
}
