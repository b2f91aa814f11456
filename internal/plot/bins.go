package plot

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

const (
	defaultBins = 50
	minBins     = 10
	maxBins     = 60
)

// BinCount picks a histogram bin count for the given values using the
// Freedman-Diaconis rule. With fewer than two values, or when the
// interquartile range collapses to zero, it falls back to 50 bins.
// The result is always clamped to [10, 60].
//
// This is the single binning implementation shared by the directive
// executor's built-in recipe and the deterministic fallback plotters, so
// the two paths can never disagree on binning math.
func BinCount(values []float64) int {
	bins := defaultBins
	if len(values) >= 2 {
		sorted := make([]float64, len(values))
		copy(sorted, values)
		sort.Float64s(sorted)
		q25 := stat.Quantile(0.25, stat.LinInterp, sorted, nil)
		q75 := stat.Quantile(0.75, stat.LinInterp, sorted, nil)
		iqr := q75 - q25
		if iqr > 0 {
			bw := 2 * iqr / math.Cbrt(float64(len(values)))
			span := sorted[len(sorted)-1] - sorted[0]
			if bw > 0 && span > 0 {
				bins = int(math.Ceil(span / bw))
			}
		}
	}
	if bins < minBins {
		bins = minBins
	}
	if bins > maxBins {
		bins = maxBins
	}
	return bins
}

// HistogramEdges returns bins+1 evenly spaced edges covering [min, max].
// A zero-width range is widened slightly so every value lands in a bin.
func HistogramEdges(min, max float64, bins int) []float64 {
	if bins < 1 {
		bins = 1
	}
	if max <= min {
		max = min + 1
	}
	edges := make([]float64, bins+1)
	width := (max - min) / float64(bins)
	for i := range edges {
		edges[i] = min + width*float64(i)
	}
	return edges
}

// BinValues accumulates the weight of every value into the bin defined by
// edges. Weights may be nil, in which case each value counts as 1.
// Values outside the edge range are clamped into the first/last bin.
func BinValues(values, weights, edges []float64) []float64 {
	heights := make([]float64, len(edges)-1)
	if len(heights) == 0 {
		return heights
	}
	lo := edges[0]
	width := edges[1] - edges[0]
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		idx := 0
		if width > 0 {
			idx = int((v - lo) / width)
		}
		if idx < 0 {
			idx = 0
		}
		if idx >= len(heights) {
			idx = len(heights) - 1
		}
		w := 1.0
		if weights != nil {
			w = weights[i]
		}
		if math.IsNaN(w) {
			continue
		}
		heights[idx] += w
	}
	return heights
}
