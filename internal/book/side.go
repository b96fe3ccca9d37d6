package book

import (
	"github.com/emirpasic/gods/trees/redblacktree"
)

// side is one price-time ordered multimap, implemented over a
// red-black tree keyed by OrderKey (§9: "Sorted map with composite
// key replaces negated-price tricks"). buyComparator and sellComparator
// make the tree's natural (ascending) iteration order equal to each
// side's "best first" order, so both sides share the same traversal
// code in levels().
type side struct {
	tree *redblacktree.Tree
}

func newBuySide() *side {
	return &side{tree: redblacktree.NewWith(buyComparator)}
}

func newSellSide() *side {
	return &side{tree: redblacktree.NewWith(sellComparator)}
}

// buyComparator orders keys so the highest price is smallest (and
// therefore first in iteration), ties broken by earliest timestamp
// then lowest reference number.
func buyComparator(a, b interface{}) int {
	ka, kb := a.(OrderKey), b.(OrderKey)
	switch {
	case ka.Price != kb.Price:
		return cmpUint32(kb.Price, ka.Price) // higher price sorts first
	case ka.TS != kb.TS:
		return cmpUint64(ka.TS, kb.TS)
	default:
		return cmpUint64(ka.Ref, kb.Ref)
	}
}

// sellComparator orders keys by natural (ascending) price, the same
// tie-breakers as buyComparator.
func sellComparator(a, b interface{}) int {
	ka, kb := a.(OrderKey), b.(OrderKey)
	switch {
	case ka.Price != kb.Price:
		return cmpUint32(ka.Price, kb.Price)
	case ka.TS != kb.TS:
		return cmpUint64(ka.TS, kb.TS)
	default:
		return cmpUint64(ka.Ref, kb.Ref)
	}
}

func cmpUint32(a, b uint32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpUint64(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// insert adds o under its current key. Callers must ensure the key is
// not already present (AddOrder checks the order-reference index first).
func (s *side) insert(o *Order) {
	s.tree.Put(o.key(), o)
}

// remove drops the order at key. It is a no-op if the key is absent.
func (s *side) remove(key OrderKey) {
	s.tree.Remove(key)
}

// levels walks the side from its best end, folding consecutive entries
// that share a price into one aggregated Level, stopping after depth
// distinct prices (§4.3).
func (s *side) levels(depth int) []Level {
	if depth <= 0 {
		return nil
	}
	levels := make([]Level, 0, depth)
	it := s.tree.Iterator()
	for it.Next() {
		o := it.Value().(*Order)
		if n := len(levels); n > 0 && levels[n-1].Price == o.Price {
			levels[n-1].Shares += uint64(o.Shares)
			continue
		}
		if len(levels) == depth {
			break
		}
		levels = append(levels, Level{Price: o.Price, Shares: uint64(o.Shares)})
	}
	return levels
}

func (s *side) size() int { return s.tree.Size() }
