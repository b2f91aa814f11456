package plot

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/plotloom-cli/internal/signal"
)

// Fallback chart dimensions, matching the generated-path scaffold.
const (
	SingleWidth       = 1000
	SingleHeight      = 600
	ComparativeWidth  = 1200
	ComparativeHeight = 700
)

func minMax(values []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// Histogram renders the deterministic single-series histogram and returns
// the written PNG path.
func Histogram(t *signal.Table, outDir string, st Style) (string, error) {
	data := t.CleanValues()
	if len(data) == 0 {
		return "", fmt.Errorf("histogram %s: no numeric samples", t.Signal)
	}
	bins := BinCount(data)
	lo, hi := minMax(data)
	edges := HistogramEdges(lo, hi, bins)
	heights := BinValues(data, nil, edges)

	fig := NewFigure(SingleWidth, SingleHeight, st)
	fig.AddHist(HistLayer{Edges: edges, Heights: heights, Color: PaletteColor(0), Alpha: st.FillAlpha})

	label, unit := LabelAndUnit(t.Signal)
	fig.Title = label
	fig.TitleSize = 16
	fig.XLabel = AxisLabel(label, unit)
	fig.YLabel = "Frequency"
	fig.SetSubtitleIfEmpty("Histogram of " + label)

	out := filepath.Join(outDir, "histogram_"+t.Signal+".png")
	if err := fig.SavePNG(out); err != nil {
		return "", err
	}
	return out, nil
}

// ComparativeHistogram renders the duration-weighted layered histogram
// across every input file: one hue layer per file, shared bins, and a legend
// entry listing each file's label and value range.
func ComparativeHistogram(paths []string, signalName, outDir string, read signal.ReadFunc, st Style) (string, error) {
	if len(paths) == 0 {
		return "", fmt.Errorf("comparative histogram %s: no input files", signalName)
	}
	label, unit := LabelAndUnit(signalName)
	unitDisp, scale := DisplayScale(unit)

	type series struct {
		label     string
		values    []float64
		durations []float64
	}
	var all []float64
	var layers []series
	for _, path := range paths {
		t, err := read(path, signalName)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", filepath.Base(path), err)
		}
		t = signal.NormalizeTime(t)
		vals := make([]float64, t.Len())
		for i, v := range t.Values {
			vals[i] = v * scale
		}
		base := filepath.Base(path)
		name := strings.TrimSuffix(base, filepath.Ext(base))
		layers = append(layers, series{label: name, values: vals, durations: t.Durations()})
		all = append(all, vals...)
	}

	cleaned := all[:0]
	for _, v := range all {
		if !math.IsNaN(v) {
			cleaned = append(cleaned, v)
		}
	}
	if len(cleaned) == 0 {
		return "", fmt.Errorf("comparative histogram %s: no numeric samples", signalName)
	}
	bins := BinCount(cleaned)
	lo, hi := minMax(cleaned)
	edges := HistogramEdges(lo, hi, bins)

	fig := NewFigure(ComparativeWidth, ComparativeHeight, st)
	fig.LegendTitle = "Vehicle"
	for i, s := range layers {
		lo2, hi2 := minMax(s.values)
		fig.AddHist(HistLayer{
			Label:   fmt.Sprintf("%d. %s [%.2f;%.2f]", i+1, s.label, lo2, hi2),
			Edges:   edges,
			Heights: BinValues(s.values, s.durations, edges),
			Color:   PaletteColor(i),
			Alpha:   st.FillAlpha,
		})
	}

	fig.Title = label
	fig.TitleSize = 18
	fig.XLabel = AxisLabel(label, unitDisp)
	fig.YLabel = "Duration [s]"
	fig.SetSubtitleIfEmpty("Comparative Histogram of " + label)

	out := filepath.Join(outDir, "comparative_"+signalName+".png")
	if err := fig.SavePNG(out); err != nil {
		return "", err
	}
	return out, nil
}
