package parallel

import (
	"sync/atomic"
	"testing"
)

// forced always fans out, even for tiny n.
var forced = Config{Enabled: true, NumWorkers: 4, MinChunkSize: 1}

func TestFor(t *testing.T) {
	for _, cfg := range []Config{DefaultConfig(), Serial(), forced} {
		var counter int64
		seen := make([]int32, 1000)

		For(len(seen), func(i int) {
			atomic.AddInt64(&counter, 1)
			atomic.AddInt32(&seen[i], 1)
		}, cfg)

		if counter != int64(len(seen)) {
			t.Errorf("%+v: expected %d calls, got %d", cfg, len(seen), counter)
		}
		for i, n := range seen {
			if n != 1 {
				t.Fatalf("%+v: index %d visited %d times", cfg, i, n)
			}
		}
	}
}

func TestForGrid(t *testing.T) {
	rows, cols := 5, 7
	results := make([][]bool, rows)
	for r := range results {
		results[r] = make([]bool, cols)
	}

	ForGrid(rows, cols, func(r, c int) {
		results[r][c] = true
	}, forced)

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if !results[r][c] {
				t.Errorf("Missing result at [%d][%d]", r, c)
			}
		}
	}
}

func TestFor_SmallWorkStaysSequential(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 8, MinChunkSize: 16}

	// Fewer than two chunks of work: every call must happen in order on
	// the calling goroutine.
	var order []int
	For(31, func(i int) {
		order = append(order, i)
	}, cfg)

	if len(order) != 31 {
		t.Fatalf("Expected 31 calls, got %d", len(order))
	}
	for i, v := range order {
		if v != i {
			t.Fatalf("Call %d ran index %d", i, v)
		}
	}
}

func TestFor_Empty(t *testing.T) {
	For(0, func(int) { t.Fatal("called for n = 0") }, forced)
	ForGrid(0, 3, func(int, int) { t.Fatal("called for empty grid") }, forced)
}

func BenchmarkFor(b *testing.B) {
	cfg := DefaultConfig()
	n := 10000

	b.Run("parallel", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			var sum int64
			For(n, func(i int) {
				atomic.AddInt64(&sum, int64(i))
			}, cfg)
		}
	})

	b.Run("sequential", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			var sum int64
			For(n, func(i int) {
				atomic.AddInt64(&sum, int64(i))
			}, Serial())
		}
	})
}
