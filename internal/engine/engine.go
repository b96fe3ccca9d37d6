// Package engine drives decoded ITCH events into the book registry and
// the output sink. It owns no order state itself — a Book exclusively
// owns its own state (§4.4) — and is the only place that applies the
// non-fatal data-integrity policy described in §7.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ludics1828/itch-order-book/internal/book"
	"github.com/ludics1828/itch-order-book/internal/itch"
)

// Logger is the minimal structured-logging surface the engine needs.
// *zap.SugaredLogger satisfies this; tests can supply a no-op stub.
type Logger interface {
	Warnw(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
}

// Sink receives the per-book output at end-of-run (§6, §12). It is
// implemented by internal/sink's CSV writer.
type Sink interface {
	WriteBook(b *book.Book) error
}

// Stats tallies the non-fatal conditions the engine encounters while
// running, surfaced at end-of-run per §7's "counted and reported"
// propagation rule.
type Stats struct {
	EventsProcessed int64
	DuplicateRef    int64
	UnknownRef      int64
	InvalidShares   int64
	SymbolsTracked  int64
}

// Config carries the engine's run parameters (§6).
type Config struct {
	Symbols        []string
	Depth          int
	LengthPrefixed bool
}

// Engine is a single-pass driver over a decoded event stream (§4.4,
// §5). It holds a Registry of per-symbol books, dispatches each event
// to the right Book method, and takes a snapshot after every
// state-changing event.
type Engine struct {
	registry *book.Registry
	log      Logger
	stats    Stats
}

// New builds an Engine that will create a book for each symbol in
// cfg.Symbols, at cfg.Depth, the first time its Stock Directory record
// arrives.
func New(cfg Config, log Logger) *Engine {
	return &Engine{
		registry: book.NewRegistry(cfg.Symbols, cfg.Depth),
		log:      log,
	}
}

// Stats returns a copy of the running counters, safe to read after Run
// returns (or, for a live progress display, from another goroutine
// once Run's single writer has exited — Run does not run concurrently
// with itself).
func (e *Engine) Stats() Stats { return e.stats }

// Run consumes events from dec until the stream ends, ctx is
// cancelled, or a fatal decode error occurs. On a clean end-of-stream
// (io.EOF) it returns nil. On cancellation it returns ctx.Err() after
// leaving every book in a consistent, flushable state — no partial
// event is ever applied (§5's cancellation rule).
func (e *Engine) Run(ctx context.Context, dec *itch.Decoder) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		ev, err := dec.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			var decErr *itch.DecodeError
			if errors.As(err, &decErr) {
				e.log.Errorw("fatal decode error", "offset", decErr.Offset, "err", decErr.Err)
			}
			return err
		}

		e.stats.EventsProcessed++
		e.dispatch(ev)
	}
}

// Flush writes every tracked book to sink, for use after Run returns
// (cleanly or via cancellation) — the engine's only interaction with
// the output boundary (§5: "suspension points only at input read and
// output write boundaries").
func (e *Engine) Flush(sink Sink) error {
	for _, b := range e.registry.Books() {
		if err := sink.WriteBook(b); err != nil {
			return fmt.Errorf("engine: flush %s: %w", b.Symbol, err)
		}
	}
	return nil
}

func (e *Engine) dispatch(ev itch.Event) {
	switch m := ev.(type) {
	case itch.StockDirectory:
		if _, created := e.registry.Observe(m.Locate, m.Symbol); created {
			e.stats.SymbolsTracked++
		}

	case itch.AddOrder:
		b, ok := e.registry.BookFor(m.Locate)
		if !ok {
			return
		}
		o := book.Order{Ref: m.Ref, Side: m.Side, Shares: m.Shares, Price: m.Price, TS: m.TS}
		if err := b.AddOrder(o); err != nil {
			if errors.Is(err, book.ErrDuplicateRef) {
				e.stats.DuplicateRef++
				e.log.Warnw("duplicate order reference, replacing", "ref", m.Ref, "locate", m.Locate, "offset", m.Offset())
				_ = b.RemoveOrder(m.Ref)
				_ = b.AddOrder(o)
			}
		}
		b.Snapshot(m.TS)

	case itch.OrderExecuted:
		b, ok := e.registry.BookFor(m.Locate)
		if !ok {
			return
		}
		if _, err := b.Execute(m.Ref, m.TS, m.Shares, nil, true); err != nil {
			e.warnUnknownRef(err, m.Ref, m.Locate, m.Offset())
			return
		}
		b.Snapshot(m.TS)

	case itch.OrderExecutedWithPrice:
		b, ok := e.registry.BookFor(m.Locate)
		if !ok {
			return
		}
		price := m.Price
		if _, err := b.Execute(m.Ref, m.TS, m.Shares, &price, m.Printable); err != nil {
			e.warnUnknownRef(err, m.Ref, m.Locate, m.Offset())
			return
		}
		b.Snapshot(m.TS)

	case itch.OrderCancel:
		b, ok := e.registry.BookFor(m.Locate)
		if !ok {
			return
		}
		result, err := b.Cancel(m.Ref, m.CancelShares)
		if err != nil {
			e.warnUnknownRef(err, m.Ref, m.Locate, m.Offset())
			return
		}
		if result.ExceededShares {
			e.stats.InvalidShares++
			e.log.Warnw("cancel exceeded resting shares, treating as full removal", "ref", m.Ref, "locate", m.Locate, "offset", m.Offset())
		}
		b.Snapshot(m.TS)

	case itch.OrderDelete:
		b, ok := e.registry.BookFor(m.Locate)
		if !ok {
			return
		}
		if err := b.Delete(m.Ref); err != nil {
			e.warnUnknownRef(err, m.Ref, m.Locate, m.Offset())
			return
		}
		b.Snapshot(m.TS)

	case itch.OrderReplace:
		b, ok := e.registry.BookFor(m.Locate)
		if !ok {
			return
		}
		if err := b.Replace(m.OldRef, m.NewRef, m.Shares, m.Price, m.TS); err != nil {
			e.warnUnknownRef(err, m.OldRef, m.Locate, m.Offset())
			return
		}
		b.Snapshot(m.TS)

	case itch.Trade:
		b, ok := e.registry.BookFor(m.Locate)
		if !ok {
			return
		}
		b.RecordTrade(m.TS, uint64(m.Shares), m.Price)

	case itch.CrossTrade:
		b, ok := e.registry.BookFor(m.Locate)
		if !ok {
			return
		}
		b.RecordCrossTrade(m.TS, m.Shares, m.Price)

	case itch.Ignored:
		// Decoded by skipping (§4.1); nothing to dispatch.
	}
}

func (e *Engine) warnUnknownRef(err error, ref uint64, locate uint16, offset int64) {
	if errors.Is(err, book.ErrUnknownRef) {
		e.stats.UnknownRef++
		e.log.Warnw("event referenced unknown order, dropping", "ref", ref, "locate", locate, "offset", offset)
	}
}
