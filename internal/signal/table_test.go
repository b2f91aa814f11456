package signal

import (
	"math"
	"testing"
)

func TestCleanValues(t *testing.T) {
	tbl := &Table{Values: []float64{1, math.NaN(), 2, math.NaN(), 3}}
	got := tbl.CleanValues()
	if len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Errorf("CleanValues = %v", got)
	}
}

func TestDurations(t *testing.T) {
	tbl := &Table{
		Time:   []float64{5.0, 5.1, 5.3, 5.35},
		Values: []float64{1, 2, 3, 4},
	}
	d := tbl.Durations()
	if d[0] != 0 {
		t.Errorf("first duration = %v, want 0", d[0])
	}
	want := []float64{0, 0.1, 0.2, 0.05}
	for i := range want {
		if math.Abs(d[i]-want[i]) > 1e-9 {
			t.Errorf("duration[%d] = %v, want %v", i, d[i], want[i])
		}
	}
}

func TestDurationsNoTime(t *testing.T) {
	tbl := &Table{Values: []float64{1, 2, 3}}
	for i, d := range tbl.Durations() {
		if d != 0 {
			t.Errorf("duration[%d] = %v, want 0", i, d)
		}
	}
}

func TestNormalizeTime(t *testing.T) {
	orig := &Table{
		Signal: "s",
		Time:   []float64{100.5, 101.0, 102.0},
		Values: []float64{1, 2, 3},
	}
	norm := NormalizeTime(orig)
	if norm.Time[0] != 0 || norm.Time[2] != 1.5 {
		t.Errorf("normalized time = %v", norm.Time)
	}
	if orig.Time[0] != 100.5 {
		t.Error("input table modified")
	}
}

func TestNormalizeTimeNoColumn(t *testing.T) {
	orig := &Table{Signal: "s", Values: []float64{1, 2}}
	if got := NormalizeTime(orig); got != orig {
		t.Error("untimed table should be returned as-is")
	}
}

func TestMergeSortsByTime(t *testing.T) {
	a := &Table{Signal: "s", Time: []float64{0, 2}, Values: []float64{10, 30}}
	b := &Table{Signal: "s", Time: []float64{1, 3}, Values: []float64{20, 40}}
	m := Merge([]*Table{a, b}, "s")
	if m.Len() != 4 {
		t.Fatalf("merged length = %d", m.Len())
	}
	wantV := []float64{10, 20, 30, 40}
	for i := range wantV {
		if m.Values[i] != wantV[i] {
			t.Errorf("values = %v, want %v", m.Values, wantV)
			break
		}
	}
}

func TestMergeDropsTimeWhenMixed(t *testing.T) {
	a := &Table{Signal: "s", Time: []float64{0, 1}, Values: []float64{1, 2}}
	b := &Table{Signal: "s", Values: []float64{3}}
	m := Merge([]*Table{a, b}, "s")
	if m.Time != nil {
		t.Errorf("mixed merge should drop time, got %v", m.Time)
	}
	if m.Len() != 3 {
		t.Errorf("merged length = %d", m.Len())
	}
}

func TestMergeNaNTimeLast(t *testing.T) {
	a := &Table{Signal: "s", Time: []float64{math.NaN(), 0}, Values: []float64{9, 1}}
	m := Merge([]*Table{a}, "s")
	if !math.IsNaN(m.Time[1]) || m.Values[1] != 9 {
		t.Errorf("NaN time should sort last: time=%v values=%v", m.Time, m.Values)
	}
}
