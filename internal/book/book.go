package book

// Book is the live order book for one tracked symbol: two price-time
// ordered sides, an order-reference index, and the append-only trade,
// cross-trade, and snapshot logs (§3). A Book exclusively owns all of
// its own state; nothing outside it ever mutates an Order directly.
type Book struct {
	Symbol string
	Depth  int

	orders map[uint64]*Order
	buy    *side
	sell   *side

	trades      []TradeRecord
	crossTrades []TradeRecord
	history     []Snapshot
}

// New creates an empty book for symbol with the given snapshot depth.
// depth must be positive (§3).
func New(symbol string, depth int) *Book {
	return &Book{
		Symbol: symbol,
		Depth:  depth,
		orders: make(map[uint64]*Order),
		buy:    newBuySide(),
		sell:   newSellSide(),
	}
}

func (b *Book) sideFor(s Side) *side {
	if s == Buy {
		return b.buy
	}
	return b.sell
}

// AddOrder inserts a new resting order (§4.2, Add/Add-with-MPID). It
// returns ErrDuplicateRef without mutating state if Ref is already
// resting; the engine decides the replace-and-warn policy (§7).
func (b *Book) AddOrder(o Order) error {
	if _, exists := b.orders[o.Ref]; exists {
		return ErrDuplicateRef
	}
	stored := o
	b.orders[o.Ref] = &stored
	b.sideFor(o.Side).insert(&stored)
	return nil
}

// RemoveOrder deletes ref from its side and the reference index.
func (b *Book) RemoveOrder(ref uint64) error {
	o, ok := b.orders[ref]
	if !ok {
		return ErrUnknownRef
	}
	b.sideFor(o.Side).remove(o.key())
	delete(b.orders, ref)
	return nil
}

// ExecuteResult reports what Execute actually did, since an
// over-sized execution is not itself an error (§4.2).
type ExecuteResult struct {
	Removed bool
}

// Execute applies an Order Executed ('E') or Order Executed With Price
// ('C') event. price is nil for 'E', where the resting order's own
// price is used for the trade print. If printable, (ts, shares, price)
// is appended to the trade log regardless of whether the order was
// fully consumed.
func (b *Book) Execute(ref uint64, ts uint64, shares uint32, price *uint32, printable bool) (ExecuteResult, error) {
	o, ok := b.orders[ref]
	if !ok {
		return ExecuteResult{}, ErrUnknownRef
	}

	tradePrice := o.Price
	if price != nil {
		tradePrice = *price
	}

	var result ExecuteResult
	if int64(o.Shares)-int64(shares) <= 0 {
		_ = b.RemoveOrder(ref)
		result.Removed = true
	} else {
		o.Shares -= shares
	}

	if printable {
		b.trades = append(b.trades, TradeRecord{TS: ts, Shares: uint64(shares), Price: tradePrice})
	}
	return result, nil
}

// CancelResult reports what Cancel did, including the InvalidShares
// condition (§7): cancelling more shares than are resting.
type CancelResult struct {
	Removed        bool
	ExceededShares bool
}

// Cancel applies an Order Cancel ('X') event: a partial reduction of
// resting shares. A cancel that would drive shares to zero or below is
// treated as full removal (§4.2, §7's InvalidShares policy).
func (b *Book) Cancel(ref uint64, shares uint32) (CancelResult, error) {
	o, ok := b.orders[ref]
	if !ok {
		return CancelResult{}, ErrUnknownRef
	}

	remaining := int64(o.Shares) - int64(shares)
	result := CancelResult{ExceededShares: remaining < 0}
	if remaining <= 0 {
		_ = b.RemoveOrder(ref)
		result.Removed = true
	} else {
		o.Shares = uint32(remaining)
	}
	return result, nil
}

// Delete applies an Order Delete ('D') event.
func (b *Book) Delete(ref uint64) error {
	return b.RemoveOrder(ref)
}

// Replace applies an Order Replace ('U') event: remove oldRef and
// insert a fresh order under newRef, same side, with new shares and
// price and the replace event's own timestamp. This resets time
// priority even when the price is unchanged (§4.2, §9).
func (b *Book) Replace(oldRef, newRef uint64, newShares uint32, newPrice uint32, ts uint64) error {
	old, ok := b.orders[oldRef]
	if !ok {
		return ErrUnknownRef
	}
	side := old.Side
	if err := b.RemoveOrder(oldRef); err != nil {
		return err
	}
	return b.AddOrder(Order{Ref: newRef, Side: side, Shares: newShares, Price: newPrice, TS: ts})
}

// RecordTrade appends a non-cross print (message 'P') to the trade log.
func (b *Book) RecordTrade(ts uint64, shares uint64, price uint32) {
	b.trades = append(b.trades, TradeRecord{TS: ts, Shares: shares, Price: price})
}

// RecordCrossTrade appends an auction print (message 'Q') to the
// cross-trade log, kept separate from regular trades (§9).
func (b *Book) RecordCrossTrade(ts uint64, shares uint64, price uint32) {
	b.crossTrades = append(b.crossTrades, TradeRecord{TS: ts, Shares: shares, Price: price})
}

// Snapshot materializes up to Depth price levels per side (§4.3),
// appends the result to the book's history, and returns it.
func (b *Book) Snapshot(ts uint64) Snapshot {
	snap := Snapshot{
		TS:   ts,
		Buy:  b.buy.levels(b.Depth),
		Sell: b.sell.levels(b.Depth),
	}
	b.history = append(b.history, snap)
	return snap
}

// History returns every snapshot taken so far, in feed order.
func (b *Book) History() []Snapshot { return b.history }

// Trades returns the non-cross trade log, in feed order.
func (b *Book) Trades() []TradeRecord { return b.trades }

// CrossTrades returns the cross-trade log, in feed order.
func (b *Book) CrossTrades() []TradeRecord { return b.crossTrades }

// OrderCount returns the number of resting orders, for tests and metrics.
func (b *Book) OrderCount() int { return len(b.orders) }

// HasOrder reports whether ref is currently resting, for tests.
func (b *Book) HasOrder(ref uint64) bool {
	_, ok := b.orders[ref]
	return ok
}
