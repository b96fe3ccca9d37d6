package book

import "strings"

// Registry resolves the session-local stock-locate identifier assigned
// by Stock Directory ('R') messages to a tracked symbol's Book (§3).
// It is the only place that knows the configured symbol filter.
type Registry struct {
	tracked map[string]bool
	depth   int
	books   map[uint16]*Book
}

// NewRegistry builds a registry that will create a Book of the given
// depth for each configured symbol the first time its 'R' message
// arrives. Symbols are normalized (right-trimmed, upper-cased) to match
// the wire format's right-space-padded 8-byte field.
func NewRegistry(symbols []string, depth int) *Registry {
	tracked := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		tracked[normalizeSymbol(s)] = true
	}
	return &Registry{
		tracked: tracked,
		depth:   depth,
		books:   make(map[uint16]*Book),
	}
}

func normalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimRight(strings.TrimSpace(s), " "))
}

// Observe processes a Stock Directory message. If symbol is in the
// configured filter, it creates and registers a Book for locate
// (idempotently — a re-announced locate just returns the existing
// book) and returns it with ok=true. Unknown symbols are silently
// ignored (§4.4, §6).
func (r *Registry) Observe(locate uint16, symbol string) (*Book, bool) {
	if !r.tracked[normalizeSymbol(symbol)] {
		return nil, false
	}
	if b, exists := r.books[locate]; exists {
		return b, true
	}
	b := New(symbol, r.depth)
	r.books[locate] = b
	return b, true
}

// BookFor resolves a locate to its Book. ok is false if the locate was
// never announced as tracked, meaning the event should be dropped
// (§4.4 step 1).
func (r *Registry) BookFor(locate uint16) (*Book, bool) {
	b, ok := r.books[locate]
	return b, ok
}

// Books returns every registered book, for end-of-run flush. Order is
// unspecified.
func (r *Registry) Books() []*Book {
	out := make([]*Book, 0, len(r.books))
	for _, b := range r.books {
		out = append(out, b)
	}
	return out
}
