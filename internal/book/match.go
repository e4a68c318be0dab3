package book

// match dispatches to the side-specific matching routine. The two routines
// below are kept textually separate — mirroring original_source's
// match_buy_against_sell / match_sell_against_buy — rather than merged into
// one routine parameterized on side, matching the original's choice to keep
// the hot loop monomorphic.
func (b *Book) match(side Side, takerPriceCap Price, takerQty *Qty, ts TimeNs, takerID OrderID) []Trade {
	var trades []Trade
	if side == Buy {
		b.matchBuyAgainstSell(takerQty, takerPriceCap, ts, takerID, &trades)
	} else {
		b.matchSellAgainstBuy(takerQty, takerPriceCap, ts, takerID, &trades)
	}
	return trades
}

// matchBuyAgainstSell crosses a buy taker against the sell ladder. Trades
// execute at the resting (ask) level's price, never at the taker's price;
// a taker crossing several levels produces trades at non-decreasing prices.
func (b *Book) matchBuyAgainstSell(takerQty *Qty, takerPrice Price, ts TimeNs, takerID OrderID, out *[]Trade) {
	for *takerQty > 0 && !b.sell.Empty() {
		askLvl := b.sell.Best()
		if askLvl.price > takerPrice {
			break // no cross
		}

		for *takerQty > 0 && askLvl.head != nil {
			maker := askLvl.head
			traded := minQty(*takerQty, maker.remaining)

			*out = append(*out, Trade{
				TakerID:   takerID,
				MakerID:   maker.id,
				TakerSide: Buy,
				Price:     askLvl.price,
				Qty:       traded,
				Ts:        ts,
			})

			maker.remaining -= traded
			askLvl.totalQty -= traded
			*takerQty -= traded

			if maker.remaining == 0 {
				askLvl.unlink(maker)
				delete(b.index, maker.id)
			}
		}

		if askLvl.empty() {
			b.sell.EraseIfEmpty(askLvl.price)
		}
	}
}

// matchSellAgainstBuy is the mirror of matchBuyAgainstSell: it crosses a
// sell taker against the buy ladder, inverting the price comparison and the
// taker side stamped on trades.
func (b *Book) matchSellAgainstBuy(takerQty *Qty, takerPrice Price, ts TimeNs, takerID OrderID, out *[]Trade) {
	for *takerQty > 0 && !b.buy.Empty() {
		bidLvl := b.buy.Best()
		if bidLvl.price < takerPrice {
			break // no cross
		}

		for *takerQty > 0 && bidLvl.head != nil {
			maker := bidLvl.head
			traded := minQty(*takerQty, maker.remaining)

			*out = append(*out, Trade{
				TakerID:   takerID,
				MakerID:   maker.id,
				TakerSide: Sell,
				Price:     bidLvl.price,
				Qty:       traded,
				Ts:        ts,
			})

			maker.remaining -= traded
			bidLvl.totalQty -= traded
			*takerQty -= traded

			if maker.remaining == 0 {
				bidLvl.unlink(maker)
				delete(b.index, maker.id)
			}
		}

		if bidLvl.empty() {
			b.buy.EraseIfEmpty(bidLvl.price)
		}
	}
}

func minQty(a, b Qty) Qty {
	if a < b {
		return a
	}
	return b
}
