package plot

import (
	"math"
	"math/rand"
	"testing"
)

func TestBinCountDefaults(t *testing.T) {
	cases := []struct {
		name string
		in   []float64
		want int
	}{
		{"empty", nil, defaultBins},
		{"single value", []float64{3.3}, defaultBins},
		{"zero iqr", []float64{5, 5, 5, 5, 5, 5, 5, 5}, defaultBins},
		{"two identical", []float64{1, 1}, defaultBins},
	}
	for _, c := range cases {
		if got := BinCount(c.in); got != c.want {
			t.Errorf("%s: BinCount=%d want %d", c.name, got, c.want)
		}
	}
}

func TestBinCountClamped(t *testing.T) {
	// Wide span relative to IQR forces a large raw count, clamped to 60.
	wide := []float64{0, 0.001, 0.002, 0.003, 1000}
	if got := BinCount(wide); got != maxBins {
		t.Errorf("wide: BinCount=%d want %d", got, maxBins)
	}
	// A compact uniform sample yields a small raw count, clamped to 10.
	compact := make([]float64, 100)
	for i := range compact {
		compact[i] = float64(i) * 0.01
	}
	if got := BinCount(compact); got != minBins {
		t.Errorf("compact: BinCount=%d want %d", got, minBins)
	}
}

func TestBinCountRange(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 50; trial++ {
		n := 2 + rng.Intn(500)
		vals := make([]float64, n)
		for i := range vals {
			vals[i] = rng.NormFloat64() * float64(1+trial)
		}
		got := BinCount(vals)
		if got < minBins || got > maxBins {
			t.Fatalf("trial %d: BinCount=%d outside [%d,%d]", trial, got, minBins, maxBins)
		}
	}
}

func TestBinCountOrderIndependent(t *testing.T) {
	vals := []float64{9, 1, 4, 7, 2, 8, 3, 6, 5, 2.5, 7.5, 0.5}
	want := BinCount(vals)
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 20; trial++ {
		shuffled := append([]float64(nil), vals...)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		if got := BinCount(shuffled); got != want {
			t.Fatalf("trial %d: BinCount=%d want %d", trial, got, want)
		}
	}
}

func TestHistogramEdges(t *testing.T) {
	edges := HistogramEdges(0, 10, 5)
	if len(edges) != 6 {
		t.Fatalf("len(edges)=%d want 6", len(edges))
	}
	if edges[0] != 0 || edges[5] != 10 {
		t.Errorf("edges span [%v,%v] want [0,10]", edges[0], edges[5])
	}
	// Degenerate range is widened.
	edges = HistogramEdges(3, 3, 4)
	if edges[len(edges)-1] <= edges[0] {
		t.Errorf("degenerate range not widened: %v", edges)
	}
}

func TestBinValues(t *testing.T) {
	edges := HistogramEdges(0, 10, 5)
	heights := BinValues([]float64{1, 1, 3, 9, 10, math.NaN()}, nil, edges)
	var total float64
	for _, h := range heights {
		total += h
	}
	if total != 5 {
		t.Errorf("total count=%v want 5 (NaN dropped)", total)
	}
	if heights[0] != 2 {
		t.Errorf("first bin=%v want 2", heights[0])
	}
	// Max value lands in the last bin, not out of range.
	if heights[4] != 2 {
		t.Errorf("last bin=%v want 2", heights[4])
	}

	weighted := BinValues([]float64{1, 1}, []float64{0.25, 0.5}, edges)
	if weighted[0] != 0.75 {
		t.Errorf("weighted first bin=%v want 0.75", weighted[0])
	}
}
