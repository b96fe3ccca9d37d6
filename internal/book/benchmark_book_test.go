package book

import (
	"math/rand/v2"
	"runtime"
	"runtime/debug"
	"testing"
)

var benchOrders = make([]Order, 0, 200000)

func init() {
	debug.SetGCPercent(-1)
	for i := 0; i < 200000; i++ {
		side := Buy
		if rand.Int32()%2 == 0 {
			side = Sell
		}
		benchOrders = append(benchOrders, Order{
			Ref:    uint64(i + 1),
			Side:   side,
			Shares: uint32(rand.Int32N(10000) + 1),
			Price:  uint32(rand.Int32N(500000) + 1),
			TS:     uint64(i),
		})
	}
	runtime.GC()
}

func BenchmarkAddOrder(b *testing.B) {
	bk := New("BENCH", 10)
	for i := 0; i < b.N; i++ {
		o := benchOrders[i%len(benchOrders)]
		o.Ref = uint64(i) + 1
		_ = bk.AddOrder(o)
	}
}

func BenchmarkSnapshot(b *testing.B) {
	bk := New("BENCH", 10)
	for _, o := range benchOrders {
		_ = bk.AddOrder(o)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		bk.Snapshot(uint64(i))
	}
}
