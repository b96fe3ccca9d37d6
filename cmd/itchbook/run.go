package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/ludics1828/itch-order-book/internal/engine"
	"github.com/ludics1828/itch-order-book/internal/itch"
	"github.com/ludics1828/itch-order-book/internal/sink"
)

func runReconstruct() error {
	log, err := newLogger(logLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat input: %w", err)
	}

	var reader = interface {
		Read([]byte) (int, error)
	}(f)
	if strings.HasSuffix(inputPath, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("opening gzip input: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	dec := itch.NewDecoder(reader, lengthPrefixed)
	eng := engine.New(engine.Config{Symbols: symbols, Depth: depth}, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	progress := newProgressReporter(info.Size(), dec.Offset, 500*time.Millisecond)
	progress.Start()
	defer progress.Stop()

	runErr := eng.Run(ctx, dec)
	progress.Stop()

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return fmt.Errorf("run: %w", runErr)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := eng.Flush(&sink.CSVSink{Dir: outDir, Compress: compressOutput}); err != nil {
		return fmt.Errorf("flushing output: %w", err)
	}

	stats := eng.Stats()
	log.Infow("run complete",
		"events", stats.EventsProcessed,
		"symbols_tracked", stats.SymbolsTracked,
		"duplicate_ref", stats.DuplicateRef,
		"unknown_ref", stats.UnknownRef,
		"invalid_shares", stats.InvalidShares,
	)
	if errors.Is(runErr, context.Canceled) {
		log.Warnw("run stopped early by signal")
	}
	return nil
}
