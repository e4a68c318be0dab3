// Package ws pushes market-data updates (trades, depth) to subscribed
// clients over a websocket, adapted from luxfi-dex's WebSocketServer down
// to the read-only market-data feed this engine needs.
package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/olyamironova/exchange-engine/internal/api/dto"
	"github.com/olyamironova/exchange-engine/internal/core"
	"github.com/olyamironova/exchange-engine/internal/domain"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type client struct {
	conn    *websocket.Conn
	send    chan []byte
	symbols map[string]bool
	mu      sync.RWMutex
}

type message struct {
	Type      string      `json:"type"`
	Symbol    string      `json:"symbol,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// Server pushes trade and depth updates to subscribed clients.
type Server struct {
	eng *core.Engine
	log *zap.Logger

	mu      sync.RWMutex
	clients map[*client]struct{}
}

func NewServer(eng *core.Engine, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{eng: eng, log: log, clients: make(map[*client]struct{})}
}

func (s *Server) HandleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	c := &client{conn: conn, send: make(chan []byte, 64), symbols: make(map[string]bool)}

	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()

	go s.writePump(c)
	s.readPump(c)
}

func (s *Server) readPump(c *client) {
	defer s.removeClient(c)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})
	for {
		var req struct {
			Type   string `json:"type"`
			Symbol string `json:"symbol"`
		}
		if err := c.conn.ReadJSON(&req); err != nil {
			return
		}
		c.mu.Lock()
		switch req.Type {
		case "subscribe":
			c.symbols[req.Symbol] = true
		case "unsubscribe":
			delete(c.symbols, req.Symbol)
		}
		c.mu.Unlock()
	}
}

func (s *Server) writePump(c *client) {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Server) removeClient(c *client) {
	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()
	close(c.send)
}

// BroadcastTrade pushes a trade fill to every client subscribed to its
// symbol.
func (s *Server) BroadcastTrade(symbol string, t *domain.Trade) {
	msg := message{
		Type:   "trade",
		Symbol: symbol,
		Data: dto.Trade{
			ID:        t.ID,
			BuyOrder:  t.BuyOrder,
			SellOrder: t.SellOrder,
			Price:     dto.TicksToDecimal(t.Price),
			Quantity:  dto.TicksToDecimal(t.Quantity),
			Timestamp: t.Timestamp,
		},
		Timestamp: time.Now().Unix(),
	}
	s.broadcast(symbol, msg)
}

// BroadcastDepth pushes a refreshed order book snapshot for one symbol.
func (s *Server) BroadcastDepth(symbol string, ob *domain.OrderbookSnapshot) {
	msg := message{
		Type:      "depth",
		Symbol:    symbol,
		Data:      ob,
		Timestamp: time.Now().Unix(),
	}
	s.broadcast(symbol, msg)
}

func (s *Server) broadcast(symbol string, msg message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for c := range s.clients {
		c.mu.RLock()
		subscribed := c.symbols[symbol]
		c.mu.RUnlock()
		if !subscribed {
			continue
		}
		select {
		case c.send <- data:
		default:
			s.log.Warn("ws client send buffer full, dropping update", zap.String("symbol", symbol))
		}
	}
}

// Run serves the websocket endpoint on addr.
func (s *Server) Run(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.HandleConnection)
	return http.ListenAndServe(addr, mux)
}
