package parallel

import (
	"sync/atomic"
	"testing"
)

func TestFor(t *testing.T) {
	cfg := DefaultConfig()

	var counter int64
	n := 10000

	For(n, func(start, end int) {
		atomic.AddInt64(&counter, int64(end-start))
	}, cfg)

	if counter != int64(n) {
		t.Errorf("Expected %d, got %d", n, counter)
	}
}

func TestForSequentialFallback(t *testing.T) {
	cfg := Config{Enabled: false}

	var calls int
	For(100, func(start, end int) {
		calls++
		if start != 0 || end != 100 {
			t.Errorf("Expected single chunk [0, 100), got [%d, %d)", start, end)
		}
	}, cfg)

	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
}

func TestForCoversDisjointRanges(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 1}

	n := 1037
	hits := make([]int32, n)
	For(n, func(start, end int) {
		for i := start; i < end; i++ {
			atomic.AddInt32(&hits[i], 1)
		}
	}, cfg)

	for i, h := range hits {
		if h != 1 {
			t.Fatalf("Index %d visited %d times", i, h)
		}
	}
}

func TestForZeroN(t *testing.T) {
	For(0, func(_, _ int) {
		t.Error("f should not be called for n = 0")
	}, DefaultConfig())
}
