// Package sink writes a reconstructed book's snapshot, trade, and
// cross-trade logs to CSV, the output format named in §6.
package sink

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/klauspost/compress/gzip"
	"github.com/shopspring/decimal"

	"github.com/ludics1828/itch-order-book/internal/book"
)

// FormatPrice converts a raw fixed-point ITCH price (4 implied decimal
// places) into a decimal.Decimal for display. This is the only place
// in the module decimal.Decimal is used as a value — internal
// arithmetic and ordering in internal/book stay on the raw uint32 (§9,
// §11).
func FormatPrice(raw uint32) decimal.Decimal {
	return decimal.New(int64(raw), -4)
}

// CSVSink writes one snapshot file, one trade file, and one cross-trade
// file per symbol into Dir. When Compress is set the files carry a
// .csv.gz suffix and are gzip-compressed (§11, §12).
type CSVSink struct {
	Dir      string
	Compress bool
}

// WriteBook flushes b's full snapshot history, trade log, and
// cross-trade log to three CSV files named after b.Symbol. Per §5, this
// is a single write at end-of-run, not a streaming per-event write.
func (s *CSVSink) WriteBook(b *book.Book) error {
	if err := s.writeSnapshots(b); err != nil {
		return fmt.Errorf("sink: snapshots for %s: %w", b.Symbol, err)
	}
	if err := s.writeTrades(b.Symbol, "trades", b.Trades()); err != nil {
		return fmt.Errorf("sink: trades for %s: %w", b.Symbol, err)
	}
	if err := s.writeTrades(b.Symbol, "cross_trades", b.CrossTrades()); err != nil {
		return fmt.Errorf("sink: cross trades for %s: %w", b.Symbol, err)
	}
	return nil
}

func (s *CSVSink) create(symbol, suffix string) (*os.File, io.WriteCloser, *csv.Writer, error) {
	name := fmt.Sprintf("%s.%s.csv", symbol, suffix)
	if s.Compress {
		name += ".gz"
	}
	f, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return nil, nil, nil, err
	}

	var w io.Writer = f
	var closer io.WriteCloser = f
	if s.Compress {
		gz := gzip.NewWriter(f)
		w = gz
		closer = &multiCloser{primary: gz, secondary: f}
	}
	return f, closer, csv.NewWriter(w), nil
}

// multiCloser closes the gzip writer before the underlying file, so the
// gzip trailer is flushed before the file descriptor is released.
type multiCloser struct {
	primary   io.Closer
	secondary io.Closer
}

func (c *multiCloser) Close() error {
	if err := c.primary.Close(); err != nil {
		c.secondary.Close()
		return err
	}
	return c.secondary.Close()
}

func (s *CSVSink) writeSnapshots(b *book.Book) error {
	_, closer, w, err := s.create(b.Symbol, "snapshots")
	if err != nil {
		return err
	}
	defer closer.Close()

	header := []string{"timestamp"}
	for i := 1; i <= b.Depth; i++ {
		header = append(header,
			fmt.Sprintf("buy_price_%d", i), fmt.Sprintf("buy_shares_%d", i),
			fmt.Sprintf("sell_price_%d", i), fmt.Sprintf("sell_shares_%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, snap := range b.History() {
		row := []string{strconv.FormatUint(snap.TS, 10)}
		for i := 0; i < b.Depth; i++ {
			row = append(row, levelFields(snap.Buy, i)...)
			row = append(row, levelFields(snap.Sell, i)...)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// levelFields renders the price/shares pair at index i of levels, or
// two empty fields if the side has fewer than i+1 distinct prices
// (§6's "absent levels render as empty fields").
func levelFields(levels []book.Level, i int) []string {
	if i >= len(levels) {
		return []string{"", ""}
	}
	return []string{FormatPrice(levels[i].Price).StringFixed(4), strconv.FormatUint(levels[i].Shares, 10)}
}

func (s *CSVSink) writeTrades(symbol, suffix string, records []book.TradeRecord) error {
	_, closer, w, err := s.create(symbol, suffix)
	if err != nil {
		return err
	}
	defer closer.Close()

	if err := w.Write([]string{"timestamp", "shares", "price"}); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			strconv.FormatUint(r.TS, 10),
			strconv.FormatUint(r.Shares, 10),
			FormatPrice(r.Price).StringFixed(4),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
