package book

// ladder is a price-keyed, price-ordered map from Price to *level,
// implemented as a red-black tree so that lookup, insert and erase of a
// price are all O(log n) and the best price is O(1) via a cached pointer.
//
// No sorted-map or balanced-tree library appears in any example go.mod in
// the retrieval pack, so this is grounded directly on the red-black tree in
// rishavpaul-system-design/order-matching-engine/internal/orderbook/rbtree.go
// (adapted: nodes carry a *level instead of a *PriceLevel, and the type is
// renamed and folded into the book package rather than exported standalone).
//
// descending controls iteration and "best" direction: the buy ladder uses
// descending=true so its best price is the highest; the sell ladder uses
// descending=false so its best price is the lowest.
type ladder struct {
	root       *rbnode
	size       int
	minNode    *rbnode
	maxNode    *rbnode
	descending bool
}

type rbcolor bool

const (
	red   rbcolor = true
	black rbcolor = false
)

type rbnode struct {
	price  Price
	lvl    *level
	color  rbcolor
	left   *rbnode
	right  *rbnode
	parent *rbnode
}

func newLadder(descending bool) *ladder {
	return &ladder{descending: descending}
}

func (t *ladder) Size() int { return t.size }

func (t *ladder) Empty() bool { return t.size == 0 }

// Best returns the level at the ladder's best price, or nil if empty. O(1).
func (t *ladder) Best() *level {
	if t.descending {
		if t.maxNode == nil {
			return nil
		}
		return t.maxNode.lvl
	}
	if t.minNode == nil {
		return nil
	}
	return t.minNode.lvl
}

// Get returns the level at price, or nil if absent. O(log n).
func (t *ladder) Get(price Price) *level {
	n := t.search(price)
	if n == nil {
		return nil
	}
	return n.lvl
}

// GetOrCreate returns the level at price, creating and inserting an empty
// one if absent. O(log n).
func (t *ladder) GetOrCreate(price Price) *level {
	n := t.search(price)
	if n != nil {
		return n.lvl
	}
	lvl := newLevel(price)
	t.insert(lvl)
	return lvl
}

// EraseIfEmpty removes the level at price from the ladder if it is present
// and empty. O(log n).
func (t *ladder) EraseIfEmpty(price Price) {
	n := t.search(price)
	if n == nil || !n.lvl.empty() {
		return
	}
	t.delete(n)
}

// ForEach walks levels best-first, stopping early if fn returns false.
func (t *ladder) ForEach(fn func(*level) bool) {
	if t.descending {
		t.reverseInOrder(t.root, fn)
	} else {
		t.inOrder(t.root, fn)
	}
}

func (t *ladder) search(price Price) *rbnode {
	cur := t.root
	for cur != nil {
		switch {
		case price < cur.price:
			cur = cur.left
		case price > cur.price:
			cur = cur.right
		default:
			return cur
		}
	}
	return nil
}

func (t *ladder) insert(lvl *level) {
	z := &rbnode{price: lvl.price, lvl: lvl, color: red}

	if t.root == nil {
		z.color = black
		t.root = z
		t.minNode = z
		t.maxNode = z
		t.size = 1
		return
	}

	var parent *rbnode
	cur := t.root
	for cur != nil {
		parent = cur
		if lvl.price < cur.price {
			cur = cur.left
		} else {
			cur = cur.right
		}
	}
	z.parent = parent
	if lvl.price < parent.price {
		parent.left = z
	} else {
		parent.right = z
	}
	t.size++

	if lvl.price < t.minNode.price {
		t.minNode = z
	}
	if lvl.price > t.maxNode.price {
		t.maxNode = z
	}

	t.insertFixup(z)
}

func (t *ladder) delete(z *rbnode) {
	t.size--
	if z == t.minNode {
		t.minNode = t.successor(z)
	}
	if z == t.maxNode {
		t.maxNode = t.predecessor(z)
	}
	t.deleteNode(z)
}

func (t *ladder) inOrder(n *rbnode, fn func(*level) bool) bool {
	if n == nil {
		return true
	}
	if !t.inOrder(n.left, fn) {
		return false
	}
	if !fn(n.lvl) {
		return false
	}
	return t.inOrder(n.right, fn)
}

func (t *ladder) reverseInOrder(n *rbnode, fn func(*level) bool) bool {
	if n == nil {
		return true
	}
	if !t.reverseInOrder(n.right, fn) {
		return false
	}
	if !fn(n.lvl) {
		return false
	}
	return t.reverseInOrder(n.left, fn)
}

func (t *ladder) successor(n *rbnode) *rbnode {
	if n.right != nil {
		cur := n.right
		for cur.left != nil {
			cur = cur.left
		}
		return cur
	}
	parent := n.parent
	for parent != nil && n == parent.right {
		n = parent
		parent = parent.parent
	}
	return parent
}

func (t *ladder) predecessor(n *rbnode) *rbnode {
	if n.left != nil {
		cur := n.left
		for cur.right != nil {
			cur = cur.right
		}
		return cur
	}
	parent := n.parent
	for parent != nil && n == parent.left {
		n = parent
		parent = parent.parent
	}
	return parent
}

func (t *ladder) rotateLeft(x *rbnode) {
	y := x.right
	x.right = y.left
	if y.left != nil {
		y.left.parent = x
	}
	y.parent = x.parent
	if x.parent == nil {
		t.root = y
	} else if x == x.parent.left {
		x.parent.left = y
	} else {
		x.parent.right = y
	}
	y.left = x
	x.parent = y
}

func (t *ladder) rotateRight(x *rbnode) {
	y := x.left
	x.left = y.right
	if y.right != nil {
		y.right.parent = x
	}
	y.parent = x.parent
	if x.parent == nil {
		t.root = y
	} else if x == x.parent.right {
		x.parent.right = y
	} else {
		x.parent.left = y
	}
	y.right = x
	x.parent = y
}

func (t *ladder) insertFixup(z *rbnode) {
	for z.parent != nil && z.parent.color == red {
		if z.parent == z.parent.parent.left {
			y := z.parent.parent.right
			if y != nil && y.color == red {
				z.parent.color = black
				y.color = black
				z.parent.parent.color = red
				z = z.parent.parent
			} else {
				if z == z.parent.right {
					z = z.parent
					t.rotateLeft(z)
				}
				z.parent.color = black
				z.parent.parent.color = red
				t.rotateRight(z.parent.parent)
			}
		} else {
			y := z.parent.parent.left
			if y != nil && y.color == red {
				z.parent.color = black
				y.color = black
				z.parent.parent.color = red
				z = z.parent.parent
			} else {
				if z == z.parent.left {
					z = z.parent
					t.rotateRight(z)
				}
				z.parent.color = black
				z.parent.parent.color = red
				t.rotateLeft(z.parent.parent)
			}
		}
	}
	t.root.color = black
}

func (t *ladder) transplant(u, v *rbnode) {
	if u.parent == nil {
		t.root = v
	} else if u == u.parent.left {
		u.parent.left = v
	} else {
		u.parent.right = v
	}
	if v != nil {
		v.parent = u.parent
	}
}

func (t *ladder) deleteNode(z *rbnode) {
	var x, xParent *rbnode
	y := z
	yOriginalColor := y.color

	switch {
	case z.left == nil:
		x = z.right
		xParent = z.parent
		t.transplant(z, z.right)
	case z.right == nil:
		x = z.left
		xParent = z.parent
		t.transplant(z, z.left)
	default:
		y = z.right
		for y.left != nil {
			y = y.left
		}
		yOriginalColor = y.color
		x = y.right
		if y.parent == z {
			xParent = y
		} else {
			xParent = y.parent
			t.transplant(y, y.right)
			y.right = z.right
			y.right.parent = y
		}
		t.transplant(z, y)
		y.left = z.left
		y.left.parent = y
		y.color = z.color
	}

	if yOriginalColor == black {
		t.deleteFixup(x, xParent)
	}
}

func (t *ladder) deleteFixup(x *rbnode, xParent *rbnode) {
	for x != t.root && (x == nil || x.color == black) {
		if x == xParent.left {
			w := xParent.right
			if w != nil && w.color == red {
				w.color = black
				xParent.color = red
				t.rotateLeft(xParent)
				w = xParent.right
			}
			if w == nil || ((w.left == nil || w.left.color == black) && (w.right == nil || w.right.color == black)) {
				if w != nil {
					w.color = red
				}
				x = xParent
				xParent = x.parent
			} else {
				if w.right == nil || w.right.color == black {
					if w.left != nil {
						w.left.color = black
					}
					w.color = red
					t.rotateRight(w)
					w = xParent.right
				}
				w.color = xParent.color
				xParent.color = black
				if w.right != nil {
					w.right.color = black
				}
				t.rotateLeft(xParent)
				x = t.root
			}
		} else {
			w := xParent.left
			if w != nil && w.color == red {
				w.color = black
				xParent.color = red
				t.rotateRight(xParent)
				w = xParent.left
			}
			if w == nil || ((w.right == nil || w.right.color == black) && (w.left == nil || w.left.color == black)) {
				if w != nil {
					w.color = red
				}
				x = xParent
				xParent = x.parent
			} else {
				if w.left == nil || w.left.color == black {
					if w.right != nil {
						w.right.color = black
					}
					w.color = red
					t.rotateLeft(w)
					w = xParent.left
				}
				w.color = xParent.color
				xParent.color = black
				if w.left != nil {
					w.left.color = black
				}
				t.rotateRight(xParent)
				x = t.root
			}
		}
	}
	if x != nil {
		x.color = black
	}
}
