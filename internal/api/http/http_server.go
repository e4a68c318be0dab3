package http

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/olyamironova/exchange-engine/internal/api/dto"
	"github.com/olyamironova/exchange-engine/internal/book"
	"github.com/olyamironova/exchange-engine/internal/core"
	"github.com/olyamironova/exchange-engine/internal/domain"
	"github.com/olyamironova/exchange-engine/internal/middleware"
)

type HTTPServer struct {
	Eng             *core.Engine
	RateLimitWindow time.Duration
	seenCOID        sync.Map // ClientOrderID -> assigned order id, for dedup
}

func NewHTTPServer(eng *core.Engine) *HTTPServer {
	return &HTTPServer{Eng: eng, RateLimitWindow: 100 * time.Millisecond}
}

func (s *HTTPServer) Run(addr string) error {
	r := gin.Default()

	rl := middleware.NewRateLimiter(s.RateLimitWindow)
	r.Use(rl.Middleware())

	r.POST("/orders", s.submitOrder)
	r.POST("/orders/modify", s.modifyOrder)
	r.POST("/orders/cancel", s.cancelOrder)
	r.GET("/orders/:id", s.getOrder)
	r.GET("/orders/:id/trades", s.getTrades)
	r.GET("/orderbook", s.getOrderbook)
	r.POST("/orderbook/snapshot", s.snapshotOrderbook)
	r.POST("/orderbook/restore", s.restoreOrderbook)

	return r.Run(addr)
}

func (s *HTTPServer) submitOrder(c *gin.Context) {
	var req dto.SubmitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := ValidateOrder(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.ClientOrderID != "" {
		if existing, dup := s.seenCOID.Load(req.ClientOrderID); dup {
			c.JSON(http.StatusOK, gin.H{"message": "duplicate order", "order_id": existing})
			return
		}
	}

	side := book.Buy
	if req.Side == dto.Sell {
		side = book.Sell
	}
	orderType := domain.Limit
	if req.Type == dto.Market {
		orderType = domain.Market
	}

	o := &domain.Order{
		ClientID:      req.ClientID,
		ClientOrderID: req.ClientOrderID,
		Symbol:        req.Symbol,
		Side:          side,
		Type:          orderType,
		Price:         dto.DecimalToTicks(req.Price),
		Quantity:      dto.DecimalToTicks(req.Quantity),
	}

	trades, err := s.Eng.SubmitOrder(c, o)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if req.ClientOrderID != "" {
		s.seenCOID.Store(req.ClientOrderID, o.ID)
	}

	c.JSON(http.StatusOK, dto.SubmitOrderResponse{
		OrderID:   o.ID,
		Trades:    convertTrades(trades),
		Remaining: dto.TicksToDecimal(o.Remaining),
	})
}

func (s *HTTPServer) modifyOrder(c *gin.Context) {
	var req dto.ModifyOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ok, err := s.Eng.ModifyOrder(c, req.OrderID, req.ClientID,
		dto.DecimalToTicks(req.NewPrice), dto.DecimalToTicks(req.NewQty))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.ModifyOrderResponse{OrderID: req.OrderID, Modified: ok})
}

func (s *HTTPServer) cancelOrder(c *gin.Context) {
	var req dto.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ok, err := s.Eng.CancelOrder(c, req.OrderID, req.ClientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.CancelOrderResponse{OrderID: req.OrderID, Cancelled: ok})
}

func (s *HTTPServer) getOrder(c *gin.Context) {
	id, err := parseOrderID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	o, err := s.Eng.GetOrder(c, id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.GetOrderResponse{Order: convertOrder(o)})
}

func (s *HTTPServer) getTrades(c *gin.Context) {
	id, err := parseOrderID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	trades, _ := s.Eng.GetTradesForOrder(c.Request.Context(), id)
	c.JSON(http.StatusOK, dto.GetTradesResponse{Trades: convertTrades(trades)})
}

func (s *HTTPServer) getOrderbook(c *gin.Context) {
	symbol := c.Query("symbol")
	ob, err := s.Eng.GetOrderbook(c.Request.Context(), symbol)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	snap := ob.DeepCopy()
	c.JSON(http.StatusOK, dto.GetOrderbookResponse{
		Bids:      convertOrders(snap.Bids),
		Asks:      convertOrders(snap.Asks),
		Timestamp: snap.Timestamp,
	})
}

func (s *HTTPServer) snapshotOrderbook(c *gin.Context) {
	var req dto.SnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := s.Eng.SnapshotOrderbook(c.Request.Context(), req.Symbol)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.SnapshotResponse{SnapshotID: id})
}

func (s *HTTPServer) restoreOrderbook(c *gin.Context) {
	var req dto.RestoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ok, err := s.Eng.RestoreOrderbook(c.Request.Context(), req.SnapshotID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.RestoreResponse{Ok: ok})
}

func parseOrderID(s string) (uint64, error) {
	var id uint64
	_, err := fmt.Sscanf(s, "%d", &id)
	if err != nil {
		return 0, fmt.Errorf("invalid order id: %s", s)
	}
	return id, nil
}

func convertOrder(o *domain.Order) dto.Order {
	side := dto.Buy
	if o.Side == book.Sell {
		side = dto.Sell
	}
	typ := dto.Limit
	if o.Type == domain.Market {
		typ = dto.Market
	}
	return dto.Order{
		ID:        o.ID,
		ClientID:  o.ClientID,
		Symbol:    o.Symbol,
		Side:      side,
		Type:      typ,
		Price:     dto.TicksToDecimal(o.Price),
		Quantity:  dto.TicksToDecimal(o.Quantity),
		Remaining: dto.TicksToDecimal(o.Remaining),
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt,
	}
}

func convertOrders(orders []domain.Order) []dto.Order {
	res := make([]dto.Order, len(orders))
	for i, o := range orders {
		res[i] = convertOrder(&o)
	}
	return res
}

func convertTrades(trades []*domain.Trade) []dto.Trade {
	res := make([]dto.Trade, len(trades))
	for i, t := range trades {
		res[i] = dto.Trade{
			ID:        t.ID,
			BuyOrder:  t.BuyOrder,
			SellOrder: t.SellOrder,
			Price:     dto.TicksToDecimal(t.Price),
			Quantity:  dto.TicksToDecimal(t.Quantity),
			Timestamp: t.Timestamp,
		}
	}
	return res
}

func ValidateOrder(req *dto.SubmitOrderRequest) error {
	switch req.Side {
	case dto.Buy, dto.Sell:
	default:
		return fmt.Errorf("invalid side: %s", req.Side)
	}
	switch req.Type {
	case dto.Limit, dto.Market:
	default:
		return fmt.Errorf("invalid order type: %s", req.Type)
	}
	if req.Quantity.Sign() <= 0 {
		return fmt.Errorf("quantity must be > 0")
	}
	if req.Type == dto.Limit && req.Price.Sign() <= 0 {
		return fmt.Errorf("price must be > 0 for LIMIT orders")
	}
	return nil
}
