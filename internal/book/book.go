package book

// Book is the façade that owns both ladders and the id->node index, and
// exposes the public order-entry and query operations. A Book is not safe
// for concurrent use: the caller serializes access, and one command (plus
// whatever matching it triggers) completes before the next is accepted.
type Book struct {
	buy   *ladder // descending: best bid is the highest price
	sell  *ladder // ascending: best ask is the lowest price
	index map[OrderID]*node
}

// New creates an empty book.
func New() *Book {
	return &Book{
		buy:   newLadder(true),
		sell:  newLadder(false),
		index: make(map[OrderID]*node),
	}
}

// AddLimit matches the incoming order against the opposite ladder under its
// own price as the taker cap, then rests any remainder. qty<=0 is a no-op.
//
// The caller must not reuse an id still resident in the index when any
// taker quantity would come to rest; duplicate ids are undefined behavior
// the kernel does not detect when the order fully fills.
func (b *Book) AddLimit(id OrderID, side Side, price Price, qty Qty, ts TimeNs) []Trade {
	if qty <= 0 {
		return nil
	}
	trades := b.match(side, price, &qty, ts, id)
	if qty > 0 {
		b.rest(id, side, price, qty, ts)
	}
	validate(b)
	return trades
}

// AddMarket matches with an unbounded taker price cap and discards any
// residual quantity — a market order never rests and its id is never
// indexed.
func (b *Book) AddMarket(id OrderID, side Side, qty Qty, ts TimeNs) []Trade {
	if qty <= 0 {
		return nil
	}
	cap := maxPrice
	if side == Sell {
		cap = minPrice
	}
	trades := b.match(side, cap, &qty, ts, id)
	validate(b)
	return trades
}

// Cancel removes a resting order by id. Returns false if the id is not
// resident.
func (b *Book) Cancel(id OrderID) bool {
	n, ok := b.index[id]
	if !ok {
		return false
	}
	b.removeNode(n)
	validate(b)
	return true
}

// Replace changes a resting order's price and/or quantity. Returns false if
// the id is not resident.
//
// A shrink-in-place (same price, strictly smaller positive quantity)
// preserves the order's position in its FIFO. Any other change — a new
// price, an increased quantity, or a quantity dropping to zero or below —
// cancels the order and, if the resulting quantity is positive, re-adds it
// at the tail of its (possibly new) price level with a fresh timestamp;
// this loses time priority, which is the intended behavior for price
// improvement or size increase.
func (b *Book) Replace(id OrderID, newPrice *Price, newQty *Qty, ts TimeNs) bool {
	n, ok := b.index[id]
	if !ok {
		return false
	}

	oldPrice, oldQty, side := n.price, n.remaining, n.side

	priceChanged := newPrice != nil && *newPrice != oldPrice
	qtyIncreased := newQty != nil && *newQty > oldQty

	if !priceChanged && !qtyIncreased {
		if newQty == nil || *newQty == oldQty {
			return true // no-op
		}
		if *newQty > 0 {
			// shrink in place
			delta := oldQty - *newQty
			n.remaining = *newQty
			n.level.totalQty -= delta
			validate(b)
			return true
		}
		// falls through to cancel + no re-add below
	}

	b.removeNode(n)

	effPrice := oldPrice
	if newPrice != nil {
		effPrice = *newPrice
	}
	effQty := oldQty
	if newQty != nil {
		effQty = *newQty
	}
	if effQty > 0 {
		b.AddLimit(id, side, effPrice, effQty, ts)
	}
	validate(b)
	return true
}

// BestBid returns the highest resting buy price, and whether one exists.
func (b *Book) BestBid() (Price, bool) {
	l := b.buy.Best()
	if l == nil {
		return 0, false
	}
	return l.price, true
}

// BestAsk returns the lowest resting sell price, and whether one exists.
func (b *Book) BestAsk() (Price, bool) {
	l := b.sell.Best()
	if l == nil {
		return 0, false
	}
	return l.price, true
}

// DepthAt returns the total resting quantity at price on side, or zero if
// no level exists there.
func (b *Book) DepthAt(side Side, price Price) Qty {
	l := b.ladderFor(side).Get(price)
	if l == nil {
		return 0
	}
	return l.totalQty
}

func (b *Book) ladderFor(side Side) *ladder {
	if side == Buy {
		return b.buy
	}
	return b.sell
}

func (b *Book) rest(id OrderID, side Side, price Price, qty Qty, ts TimeNs) {
	n := &node{id: id, side: side, price: price, remaining: qty, ts: ts}
	lvl := b.ladderFor(side).GetOrCreate(price)
	lvl.pushTail(n)
	b.index[id] = n
}

func (b *Book) removeNode(n *node) {
	lvl := n.level
	side := n.side
	price := lvl.price
	lvl.unlink(n)
	delete(b.index, n.id)
	if lvl.empty() {
		b.ladderFor(side).EraseIfEmpty(price)
	}
}
