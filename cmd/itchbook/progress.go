package main

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
)

// progressReporter prints a periodic one-line progress indicator to
// stderr, the idiomatic Go replacement for the Python original's
// tqdm(total=total_size, unit="B", unit_scale=True) bar in
// reconstruct.py (§12). offset is polled rather than pushed so the
// decoder needs no knowledge of progress reporting.
type progressReporter struct {
	total    int64
	offset   func() int64
	interval time.Duration

	stopOnce sync.Once
	done     chan struct{}
}

func newProgressReporter(total int64, offset func() int64, interval time.Duration) *progressReporter {
	return &progressReporter{
		total:    total,
		offset:   offset,
		interval: interval,
		done:     make(chan struct{}),
	}
}

func (p *progressReporter) Start() {
	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		start := time.Now()
		for {
			select {
			case <-ticker.C:
				p.print(start)
			case <-p.done:
				p.print(start)
				fmt.Fprintln(os.Stderr)
				return
			}
		}
	}()
}

func (p *progressReporter) Stop() {
	p.stopOnce.Do(func() { close(p.done) })
}

func (p *progressReporter) print(start time.Time) {
	n := p.offset()
	elapsed := time.Since(start).Seconds()
	rate := float64(0)
	if elapsed > 0 {
		rate = float64(n) / elapsed
	}

	var pct string
	if p.total > 0 {
		pct = fmt.Sprintf("%5.1f%%", 100*float64(n)/float64(p.total))
	} else {
		pct = "  ?  "
	}

	fmt.Fprintf(os.Stderr, "\rprocessing: %s  %s / %s  (%s/s)   ",
		pct, humanize.Bytes(uint64(n)), humanize.Bytes(uint64(p.total)), humanize.Bytes(uint64(rate)))
}
