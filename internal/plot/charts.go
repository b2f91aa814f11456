package plot

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/KaramelBytes/plotloom-cli/internal/signal"
)

// Pie renders a value-frequency pie chart for the signal.
func Pie(t *signal.Table, outDir string, st Style) (string, error) {
	counts := map[float64]int{}
	for _, v := range t.Values {
		if !math.IsNaN(v) {
			counts[v]++
		}
	}
	if len(counts) == 0 {
		return "", fmt.Errorf("pie %s: no numeric samples", t.Signal)
	}
	keys := make([]float64, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Float64s(keys)

	values := make([]chart.Value, 0, len(keys))
	for _, k := range keys {
		values = append(values, chart.Value{
			Value: float64(counts[k]),
			Label: strconv.FormatFloat(k, 'g', -1, 64),
		})
	}

	label, _ := LabelAndUnit(t.Signal)
	pie := chart.PieChart{
		Title:  label,
		Width:  600,
		Height: 600,
		Values: values,
	}
	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return "", fmt.Errorf("render pie: %w", err)
	}
	out := filepath.Join(outDir, "pie_"+t.Signal+".png")
	if err := writeWithSubtitle(out, buf.Bytes(), "Distribution of "+label, st); err != nil {
		return "", err
	}
	return out, nil
}

// TimeSeries renders the signal against its time column, falling back to
// sample index when no time column exists.
func TimeSeries(t *signal.Table, outDir string, st Style) (string, error) {
	if t.Len() == 0 {
		return "", fmt.Errorf("time series %s: no samples", t.Signal)
	}
	x := t.Time
	if !t.HasTime() {
		x = make([]float64, t.Len())
		for i := range x {
			x[i] = float64(i)
		}
	}

	fig := NewFigure(1200, 600, st)
	fig.AddLine(LineLayer{X: x, Y: t.Values, Color: PaletteColor(0)})

	label, unit := LabelAndUnit(t.Signal)
	fig.Title = label
	fig.TitleSize = 16
	fig.XLabel = "Time [s]"
	fig.YLabel = AxisLabel(label, unit)
	fig.SetSubtitleIfEmpty("Time Series of " + label)

	out := filepath.Join(outDir, "time_series_"+t.Signal+".png")
	if err := fig.SavePNG(out); err != nil {
		return "", err
	}
	return out, nil
}

// SummaryBar renders a bar chart of labeled summary statistics.
func SummaryBar(names []string, vals []float64, signalName, outDir string, st Style) (string, error) {
	if len(names) == 0 || len(names) != len(vals) {
		return "", fmt.Errorf("summary bar %s: mismatched stats", signalName)
	}
	bars := make([]chart.Value, len(names))
	for i := range names {
		bars[i] = chart.Value{
			Value: vals[i],
			Label: names[i],
			Style: chart.Style{FillColor: PaletteColor(i), StrokeColor: PaletteColor(i)},
		}
	}
	label, _ := LabelAndUnit(signalName)
	bc := chart.BarChart{
		Title:      label,
		TitleStyle: chart.Style{FontSize: 16, FontColor: st.Foreground},
		Width:      600,
		Height:     400,
		BarWidth:   60,
		Background: chart.Style{Padding: chart.Box{Top: 24, Bottom: 36}},
		Bars:       bars,
	}
	var buf bytes.Buffer
	if err := bc.Render(chart.PNG, &buf); err != nil {
		return "", fmt.Errorf("render summary bars: %w", err)
	}
	out := filepath.Join(outDir, "summary_stats_"+signalName+".png")
	if err := writeWithSubtitle(out, buf.Bytes(), "Key summary statistics", st); err != nil {
		return "", err
	}
	return out, nil
}

func writeWithSubtitle(path string, rendered []byte, subtitle string, st Style) error {
	var buf bytes.Buffer
	if err := finishPNG(&buf, rendered, subtitle, st.Subtitle); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	return nil
}
