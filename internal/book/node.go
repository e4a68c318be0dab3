package book

// node is the leaf record describing one resting order and its place in a
// per-level FIFO. It is intrusive: the same struct instance is threaded
// into the level's doubly linked list and indexed by id, rather than boxed
// behind a separate list element type.
//
// Invariant: if a node is reachable from either ladder, level points at the
// exact *level whose price equals the node's price and whose side matches
// the node's side, and the node is linked into exactly that level's FIFO.
type node struct {
	id        OrderID
	side      Side
	price     Price
	remaining Qty
	ts        TimeNs

	prev  *node
	next  *node
	level *level
}
