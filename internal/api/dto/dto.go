// Package dto defines the wire shapes for the HTTP and gRPC surfaces. The
// kernel and internal/domain deal exclusively in integer ticks; this is the
// one place prices cross into shopspring/decimal for human-readable JSON.
package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TickScale is the number of ticks per unit price (e.g. 100 means a tick is
// one cent on a two-decimal-place instrument). It is a package variable
// rather than a per-request field because every symbol on one deployment
// shares a wire scale; callers needing per-symbol scales convert at a
// higher layer before these types are populated.
var TickScale int64 = 100

func TicksToDecimal(ticks int64) decimal.Decimal {
	return decimal.New(ticks, 0).Div(decimal.New(TickScale, 0))
}

func DecimalToTicks(d decimal.Decimal) int64 {
	return d.Mul(decimal.New(TickScale, 0)).Round(0).IntPart()
}

type OrderType string

const (
	Limit  OrderType = "LIMIT"
	Market OrderType = "MARKET"
)

type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

type SubmitOrderRequest struct {
	ClientOrderID string          `json:"client_order_id,omitempty"` // for dedup
	ClientID      string          `json:"client_id" binding:"required"`
	Symbol        string          `json:"symbol" binding:"required"`
	Side          Side            `json:"side" binding:"required"`
	Type          OrderType       `json:"type" binding:"required"`
	Price         decimal.Decimal `json:"price,omitempty"` // required for LIMIT
	Quantity      decimal.Decimal `json:"quantity" binding:"required"`
}

type SubmitOrderResponse struct {
	OrderID   uint64  `json:"order_id"`
	Trades    []Trade `json:"trades"`
	Remaining decimal.Decimal `json:"remaining"`
	Message   string          `json:"message,omitempty"`
}

type ModifyOrderRequest struct {
	OrderID  uint64          `json:"order_id" binding:"required"`
	ClientID string          `json:"client_id" binding:"required"`
	NewPrice decimal.Decimal `json:"new_price"`
	NewQty   decimal.Decimal `json:"new_qty"`
}

type ModifyOrderResponse struct {
	OrderID  uint64 `json:"order_id"`
	Modified bool   `json:"modified"`
	Message  string `json:"message,omitempty"`
}

type CancelOrderRequest struct {
	OrderID  uint64 `json:"order_id" binding:"required"`
	ClientID string `json:"client_id" binding:"required"`
}

type CancelOrderResponse struct {
	OrderID   uint64 `json:"order_id"`
	Cancelled bool   `json:"cancelled"`
	Message   string `json:"message,omitempty"`
}

type GetOrderResponse struct {
	Order Order `json:"order"`
}

type GetTradesResponse struct {
	Trades []Trade `json:"trades"`
}

type GetOrderbookResponse struct {
	Bids      []Order   `json:"bids"`
	Asks      []Order   `json:"asks"`
	Timestamp time.Time `json:"timestamp"`
}

type SnapshotRequest struct {
	Symbol string `json:"symbol" binding:"required"`
}

type SnapshotResponse struct {
	SnapshotID string `json:"snapshot_id"`
	Message    string `json:"message,omitempty"`
}

type RestoreRequest struct {
	SnapshotID string `json:"snapshot_id" binding:"required"`
}

type RestoreResponse struct {
	Ok      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

type Order struct {
	ID        uint64          `json:"id"`
	ClientID  string          `json:"client_id"`
	Symbol    string          `json:"symbol"`
	Side      Side            `json:"side"`
	Type      OrderType       `json:"type"`
	Price     decimal.Decimal `json:"price"`
	Quantity  decimal.Decimal `json:"quantity"`
	Remaining decimal.Decimal `json:"remaining"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

type Trade struct {
	ID        string          `json:"id"`
	BuyOrder  uint64          `json:"buy_order"`
	SellOrder uint64          `json:"sell_order"`
	Price     decimal.Decimal `json:"price"`
	Quantity  decimal.Decimal `json:"quantity"`
	Timestamp time.Time       `json:"timestamp"`
}
