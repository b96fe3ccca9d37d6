package sink

import (
	"bufio"
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ludics1828/itch-order-book/internal/book"
)

func TestFormatPriceFourDecimals(t *testing.T) {
	got := FormatPrice(1000000).StringFixed(4)
	if got != "100.0000" {
		t.Errorf("FormatPrice(1000000) = %q, want 100.0000", got)
	}
	got = FormatPrice(1).StringFixed(4)
	if got != "0.0001" {
		t.Errorf("FormatPrice(1) = %q, want 0.0001", got)
	}
}

func buildBook(t *testing.T) *book.Book {
	t.Helper()
	b := book.New("TEST", 2)
	if err := b.AddOrder(book.Order{Ref: 1, Side: book.Buy, Shares: 100, Price: 1000000, TS: 1}); err != nil {
		t.Fatal(err)
	}
	b.Snapshot(1)
	b.RecordTrade(2, 10, 1000000)
	b.RecordCrossTrade(3, 500, 2000000)
	return b
}

func TestWriteBookPlainCSV(t *testing.T) {
	dir := t.TempDir()
	s := &CSVSink{Dir: dir}
	if err := s.WriteBook(buildBook(t)); err != nil {
		t.Fatalf("WriteBook: %v", err)
	}

	snapData, err := os.ReadFile(filepath.Join(dir, "TEST.snapshots.csv"))
	if err != nil {
		t.Fatalf("reading snapshot file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(snapData)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines: %q", len(lines), lines)
	}
	wantHeader := "timestamp,buy_price_1,buy_shares_1,sell_price_1,sell_shares_1,buy_price_2,buy_shares_2,sell_price_2,sell_shares_2"
	if lines[0] != wantHeader {
		t.Errorf("header = %q, want %q", lines[0], wantHeader)
	}
	wantRow := strings.Join([]string{"1", "100.0000", "100", "", "", "", "", "", ""}, ",")
	if lines[1] != wantRow {
		t.Errorf("row = %q, want %q", lines[1], wantRow)
	}

	tradeData, err := os.ReadFile(filepath.Join(dir, "TEST.trades.csv"))
	if err != nil {
		t.Fatalf("reading trades file: %v", err)
	}
	if !strings.Contains(string(tradeData), "2,10,100.0000") {
		t.Errorf("trades file missing expected row: %q", string(tradeData))
	}

	crossData, err := os.ReadFile(filepath.Join(dir, "TEST.cross_trades.csv"))
	if err != nil {
		t.Fatalf("reading cross trades file: %v", err)
	}
	if !strings.Contains(string(crossData), "3,500,200.0000") {
		t.Errorf("cross trades file missing expected row: %q", string(crossData))
	}
}

func TestWriteBookCompressed(t *testing.T) {
	dir := t.TempDir()
	s := &CSVSink{Dir: dir, Compress: true}
	if err := s.WriteBook(buildBook(t)); err != nil {
		t.Fatalf("WriteBook: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "TEST.snapshots.csv.gz"))
	if err != nil {
		t.Fatalf("opening compressed snapshot file: %v", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(bufio.NewReader(f))
	if err != nil {
		t.Fatalf("gzip.NewReader: %v", err)
	}
	defer gz.Close()

	var sb strings.Builder
	buf := make([]byte, 4096)
	for {
		n, err := gz.Read(buf)
		sb.Write(buf[:n])
		if err != nil {
			break
		}
	}
	if !strings.HasPrefix(sb.String(), "timestamp,buy_price_1") {
		t.Errorf("decompressed content missing header: %q", sb.String())
	}
}
