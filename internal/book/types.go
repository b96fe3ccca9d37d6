// Package book maintains per-symbol limit order book state reconstructed
// from a decoded ITCH event stream: two price-time ordered sides, an
// order-reference index, and append-only trade and snapshot logs.
package book

import "github.com/ludics1828/itch-order-book/internal/itch"

// Side is re-exported from the decoder package so callers never need
// to import both for a single order's direction.
type Side = itch.Side

const (
	Buy  = itch.Buy
	Sell = itch.Sell
)

// OrderKey is the composite sort key for a resting order: price first,
// then insertion time, then reference number, per §3/§4.2. It is never
// recomputed except on Replace, which re-keys with a new timestamp.
type OrderKey struct {
	Price uint32
	TS    uint64
	Ref   uint64
}

// Order is a single resting order. It doubles as the order-reference
// index's handle: a *Order already carries everything (Side, Key)
// needed to locate and remove it from its side's tree in O(log n)
// without a scan, so the index is simply map[ref]*Order.
type Order struct {
	Ref    uint64
	Side   Side
	Shares uint32
	Price  uint32
	// TS is the ORIGINAL insertion timestamp and is also the side key's
	// timestamp component. Execute and Cancel never touch it; only
	// Replace re-keys with a fresh timestamp (§9).
	TS uint64
}

func (o *Order) key() OrderKey {
	return OrderKey{Price: o.Price, TS: o.TS, Ref: o.Ref}
}

// Level is one aggregated price level in a Snapshot: the sum of resting
// shares across every order at Price.
type Level struct {
	Price  uint32
	Shares uint64
}

// Snapshot is one row of top-of-book depth, taken after a state-changing
// event (§4.3). Buy and Sell hold up to Depth levels each, best first;
// a side with fewer than Depth distinct prices simply has a shorter slice.
type Snapshot struct {
	TS   uint64
	Buy  []Level
	Sell []Level
}

// TradeRecord is one printed execution, shared by the regular trade log
// and the cross-trade log (§4.2, §9 — the two logs differ in which
// message type populates them, not in shape).
type TradeRecord struct {
	TS     uint64
	Shares uint64
	Price  uint32
}
