package plot

import (
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Style is the explicit styling configuration threaded into every render.
// It replaces the process-wide theme state the earlier implementation relied
// on: each figure gets its own copy and ambient state is never mutated.
type Style struct {
	// Major/minor grid appearance.
	GridMajorAlpha float64
	GridMinorAlpha float64
	// Tick caps, mirroring a bounded major locator.
	MaxXTicks int
	MaxYTicks int
	// Default fill alpha for histogram layers.
	FillAlpha float64
	// Base colors.
	Foreground drawing.Color
	GridColor  drawing.Color
	Subtitle   drawing.Color
}

// DefaultStyle returns the shared paper-like theme: dashed major grid at
// alpha 0.7, dotted minor grid at alpha 0.4, capped major tick counts.
func DefaultStyle() Style {
	return Style{
		GridMajorAlpha: 0.7,
		GridMinorAlpha: 0.4,
		MaxXTicks:      8,
		MaxYTicks:      6,
		FillAlpha:      0.6,
		Foreground:     drawing.Color{R: 51, G: 51, B: 51, A: 255},
		GridColor:      drawing.Color{R: 180, G: 180, B: 180, A: 255},
		Subtitle:       drawing.Color{R: 128, G: 128, B: 128, A: 255},
	}
}

func (s Style) gridMajor() chart.Style {
	return chart.Style{
		Hidden:          false,
		StrokeColor:     s.GridColor.WithAlpha(uint8(255 * s.GridMajorAlpha)),
		StrokeWidth:     1.0,
		StrokeDashArray: []float64{5.0, 5.0},
	}
}

func (s Style) gridMinor() chart.Style {
	return chart.Style{
		Hidden:          false,
		StrokeColor:     s.GridColor.WithAlpha(uint8(255 * s.GridMinorAlpha)),
		StrokeWidth:     1.0,
		StrokeDashArray: []float64{1.0, 3.0},
	}
}

// palette is the colorblind-safe cycle used for layered series.
var palette = []drawing.Color{
	{R: 0x01, G: 0x73, B: 0xB2, A: 0xFF},
	{R: 0xDE, G: 0x8F, B: 0x05, A: 0xFF},
	{R: 0x02, G: 0x9E, B: 0x73, A: 0xFF},
	{R: 0xD5, G: 0x5E, B: 0x00, A: 0xFF},
	{R: 0xCC, G: 0x78, B: 0xBC, A: 0xFF},
	{R: 0xCA, G: 0x91, B: 0x61, A: 0xFF},
	{R: 0xFB, G: 0xAF, B: 0xE4, A: 0xFF},
	{R: 0x94, G: 0x94, B: 0x94, A: 0xFF},
	{R: 0xEC, G: 0xE1, B: 0x33, A: 0xFF},
	{R: 0x56, G: 0xB4, B: 0xE9, A: 0xFF},
}

// PaletteColor returns the i-th color of the colorblind palette, cycling.
func PaletteColor(i int) drawing.Color {
	if i < 0 {
		i = 0
	}
	return palette[i%len(palette)]
}

// niceTicks computes at most maxN "nice" major ticks spanning [min, max],
// pruning ticks that would land outside the range.
func niceTicks(min, max float64, maxN int) []chart.Tick {
	if maxN < 2 {
		maxN = 2
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	rawStep := span / float64(maxN-1)
	mag := math.Pow(10, math.Floor(math.Log10(rawStep)))
	var step float64
	for _, m := range []float64{1, 2, 2.5, 5, 10} {
		step = m * mag
		if step >= rawStep {
			break
		}
	}
	start := math.Ceil(min/step) * step
	var ticks []chart.Tick
	for v := start; v <= max+step*1e-9 && len(ticks) < maxN; v += step {
		ticks = append(ticks, chart.Tick{Value: v, Label: formatTick(v)})
	}
	if len(ticks) < 2 {
		ticks = []chart.Tick{
			{Value: min, Label: formatTick(min)},
			{Value: max, Label: formatTick(max)},
		}
	}
	return ticks
}

func formatTick(v float64) string {
	av := math.Abs(v)
	switch {
	case v == 0:
		return "0"
	case av >= 1000:
		return fmt.Sprintf("%.0f", v)
	case av >= 10:
		return fmt.Sprintf("%.1f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}
