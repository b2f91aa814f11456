// Package signal holds the two-column measurement tables the analysis
// pipeline operates on, plus the file readers that produce them.
package signal

import (
	"math"
	"sort"
)

// Table is an ordered series of (time, value) samples for one signal.
// Time is in seconds; it may be nil for sources without a time column.
type Table struct {
	Signal string
	Time   []float64
	Values []float64
}

func (t *Table) Len() int {
	return len(t.Values)
}

// HasTime reports whether the table carries a usable time column.
func (t *Table) HasTime() bool {
	return len(t.Time) == len(t.Values) && len(t.Time) > 0
}

// CleanValues returns the values with NaN samples dropped.
func (t *Table) CleanValues() []float64 {
	out := make([]float64, 0, len(t.Values))
	for _, v := range t.Values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Durations returns the per-sample time delta, with the first sample at 0.
// Tables without a time column get all-zero durations.
func (t *Table) Durations() []float64 {
	out := make([]float64, t.Len())
	if !t.HasTime() {
		return out
	}
	for i := 1; i < len(t.Time); i++ {
		out[i] = t.Time[i] - t.Time[i-1]
	}
	return out
}

// NormalizeTime returns a copy of the table with the time column rebased so
// it starts at zero. Tables without a time column are returned unchanged.
func NormalizeTime(t *Table) *Table {
	if !t.HasTime() {
		return t
	}
	out := &Table{
		Signal: t.Signal,
		Time:   make([]float64, len(t.Time)),
		Values: append([]float64(nil), t.Values...),
	}
	base := t.Time[0]
	for i, v := range t.Time {
		out.Time[i] = v - base
	}
	return out
}

// Merge concatenates the given tables and, when every input carries time,
// sorts the combined rows by time. Inputs are not modified.
func Merge(tables []*Table, signal string) *Table {
	out := &Table{Signal: signal}
	timed := len(tables) > 0
	for _, t := range tables {
		out.Values = append(out.Values, t.Values...)
		if t.HasTime() {
			out.Time = append(out.Time, t.Time...)
		} else {
			timed = false
		}
	}
	if !timed {
		out.Time = nil
		return out
	}
	idx := make([]int, len(out.Time))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ta, tb := out.Time[idx[a]], out.Time[idx[b]]
		if math.IsNaN(tb) {
			return !math.IsNaN(ta)
		}
		if math.IsNaN(ta) {
			return false
		}
		return ta < tb
	})
	st := make([]float64, len(idx))
	sv := make([]float64, len(idx))
	for i, j := range idx {
		st[i] = out.Time[j]
		sv[i] = out.Values[j]
	}
	out.Time, out.Values = st, sv
	return out
}
