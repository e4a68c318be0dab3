package domain

import "time"

// OrderbookSnapshot is a point-in-time view of one symbol's resting orders,
// the unit cached in Redis and persisted as JSONB by the pg adapter.
type OrderbookSnapshot struct {
	Symbol    string
	Bids      []Order
	Asks      []Order
	Timestamp time.Time
}

// DeepCopy returns a snapshot whose slices share no backing array with the
// receiver, so callers (cache, HTTP/gRPC handlers) can hand out copies that
// won't be mutated by a concurrent SubmitOrder.
func (s *OrderbookSnapshot) DeepCopy() *OrderbookSnapshot {
	out := &OrderbookSnapshot{
		Symbol:    s.Symbol,
		Timestamp: s.Timestamp,
	}
	if s.Bids != nil {
		out.Bids = make([]Order, len(s.Bids))
		copy(out.Bids, s.Bids)
	}
	if s.Asks != nil {
		out.Asks = make([]Order, len(s.Asks))
		copy(out.Asks, s.Asks)
	}
	return out
}
