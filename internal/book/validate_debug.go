//go:build debug

package book

import "fmt"

// validate walks both ladders and the index in one pass and panics on the
// first invariant violation found. It is wired into every state-mutating
// Book operation but compiles to nothing unless built with -tags debug,
// mirroring original_source's `#ifndef NDEBUG validate()`.
func validate(b *Book) {
	checkSide(b, b.buy, Buy, true)
	checkSide(b, b.sell, Sell, false)

	for id, n := range b.index {
		if n == nil {
			panic(fmt.Sprintf("book: index id %d maps to nil node", id))
		}
		if n.level == nil {
			panic(fmt.Sprintf("book: index id %d node has no level", id))
		}
	}
}

func checkSide(b *Book, lad *ladder, side Side, descending bool) {
	last, haveLast := Price(0), false
	lad.ForEach(func(lvl *level) bool {
		if haveLast {
			if descending && lvl.price > last {
				panic("book: buy ladder not descending")
			}
			if !descending && lvl.price < last {
				panic("book: sell ladder not ascending")
			}
		}
		last, haveLast = lvl.price, true

		if lvl.empty() {
			panic(fmt.Sprintf("book: level at price %d is empty but still in ladder", lvl.price))
		}

		var sum Qty
		for n := lvl.head; n != nil; n = n.next {
			if n.level != lvl {
				panic("book: node back-reference does not match its level")
			}
			if n.side != side {
				panic("book: node side does not match its level's side")
			}
			if n.price != lvl.price {
				panic("book: node price does not match its level's price")
			}
			if n.next != nil && n.next.prev != n {
				panic("book: FIFO prev/next chain inconsistent")
			}
			if idx, ok := b.index[n.id]; !ok || idx != n {
				panic(fmt.Sprintf("book: resident order %d missing from index", n.id))
			}
			sum += n.remaining
		}
		if sum != lvl.totalQty {
			panic(fmt.Sprintf("book: level %d total_qty %d != sum of node quantities %d", lvl.price, lvl.totalQty, sum))
		}
		return true
	})
}
