package engine

import (
	"bytes"
	"context"
	"testing"

	"github.com/ludics1828/itch-order-book/internal/itch"
	"github.com/ludics1828/itch-order-book/internal/itch/itchtest"
)

func runBytes(t *testing.T, e *Engine, msgs [][]byte) {
	t.Helper()
	var buf bytes.Buffer
	for _, m := range msgs {
		buf.Write(m)
	}
	dec := itch.NewDecoder(&buf, false)
	if err := e.Run(context.Background(), dec); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

// TestAddThenSnapshot covers §8 scenario 1, driven through the engine.
func TestAddThenSnapshot(t *testing.T) {
	e := New(Config{Symbols: []string{"TEST"}, Depth: 5}, testLogger{})
	runBytes(t, e, [][]byte{
		itchtest.StockDirectory(1, 0, 0, "TEST"),
		itchtest.AddOrder(1, 0, 1, 10, itch.Buy, 100, "TEST", 1000000),
	})

	b, ok := e.registry.BookFor(1)
	if !ok {
		t.Fatalf("expected book for locate 1")
	}
	history := b.History()
	if len(history) != 1 {
		t.Fatalf("expected one snapshot, got %d", len(history))
	}
	if len(history[0].Buy) != 1 || history[0].Buy[0].Shares != 100 {
		t.Errorf("unexpected buy levels: %+v", history[0].Buy)
	}
}

// TestNonTrackedSymbolDropped covers §8 scenario 6.
func TestNonTrackedSymbolDropped(t *testing.T) {
	e := New(Config{Symbols: []string{"TEST"}, Depth: 5}, testLogger{})
	runBytes(t, e, [][]byte{
		itchtest.StockDirectory(1, 0, 0, "OTHER"),
		itchtest.AddOrder(1, 0, 1, 10, itch.Buy, 100, "OTHER", 1000000),
	})
	if _, ok := e.registry.BookFor(1); ok {
		t.Fatalf("untracked symbol must not produce a book")
	}
	if e.Stats().EventsProcessed != 2 {
		t.Errorf("expected 2 events processed, got %d", e.Stats().EventsProcessed)
	}
}

func TestDuplicateRefReplacesAndWarns(t *testing.T) {
	e := New(Config{Symbols: []string{"TEST"}, Depth: 5}, testLogger{})
	runBytes(t, e, [][]byte{
		itchtest.StockDirectory(1, 0, 0, "TEST"),
		itchtest.AddOrder(1, 0, 1, 10, itch.Buy, 100, "TEST", 1000000),
		itchtest.AddOrder(1, 0, 2, 10, itch.Buy, 50, "TEST", 2000000),
	})
	if e.Stats().DuplicateRef != 1 {
		t.Errorf("expected DuplicateRef=1, got %d", e.Stats().DuplicateRef)
	}
	b, _ := e.registry.BookFor(1)
	if b.OrderCount() != 1 {
		t.Fatalf("expected exactly one resting order after replace, got %d", b.OrderCount())
	}
}

func TestUnknownRefDroppedAndCounted(t *testing.T) {
	e := New(Config{Symbols: []string{"TEST"}, Depth: 5}, testLogger{})
	runBytes(t, e, [][]byte{
		itchtest.StockDirectory(1, 0, 0, "TEST"),
		itchtest.OrderDelete(1, 0, 1, 999),
	})
	if e.Stats().UnknownRef != 1 {
		t.Errorf("expected UnknownRef=1, got %d", e.Stats().UnknownRef)
	}
}

func TestCancelOverflowCountedAsInvalidShares(t *testing.T) {
	e := New(Config{Symbols: []string{"TEST"}, Depth: 5}, testLogger{})
	runBytes(t, e, [][]byte{
		itchtest.StockDirectory(1, 0, 0, "TEST"),
		itchtest.AddOrder(1, 0, 1, 10, itch.Sell, 50, "TEST", 2000000),
		itchtest.OrderCancel(1, 0, 2, 10, 75),
	})
	if e.Stats().InvalidShares != 1 {
		t.Errorf("expected InvalidShares=1, got %d", e.Stats().InvalidShares)
	}
	b, _ := e.registry.BookFor(1)
	if b.HasOrder(10) {
		t.Fatalf("order should have been fully removed")
	}
}

func TestTradeAndCrossTradeDoNotSnapshot(t *testing.T) {
	e := New(Config{Symbols: []string{"TEST"}, Depth: 5}, testLogger{})
	runBytes(t, e, [][]byte{
		itchtest.StockDirectory(1, 0, 0, "TEST"),
		itchtest.Trade(1, 0, 1, 1, itch.Buy, 10, "TEST", 1000000, 1),
		itchtest.CrossTrade(1, 0, 2, 500, "TEST", 1000000, 2, 'O'),
	})
	b, _ := e.registry.BookFor(1)
	if len(b.History()) != 0 {
		t.Errorf("expected no snapshots from trade/cross-trade events, got %d", len(b.History()))
	}
	if len(b.Trades()) != 1 || len(b.CrossTrades()) != 1 {
		t.Errorf("expected one trade and one cross trade logged")
	}
}
