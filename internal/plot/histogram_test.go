package plot

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/plotloom-cli/internal/signal"
)

func sampleTable(name string, n int) *signal.Table {
	t := &signal.Table{Signal: name}
	for i := 0; i < n; i++ {
		t.Time = append(t.Time, float64(i)*0.1)
		t.Values = append(t.Values, 3.0+0.5*math.Sin(float64(i)/7)+0.01*float64(i%13))
	}
	return t
}

func assertPNG(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if len(data) < 8 || string(data[1:4]) != "PNG" {
		t.Fatalf("%s is not a PNG (%d bytes)", path, len(data))
	}
}

func TestHistogram(t *testing.T) {
	dir := t.TempDir()
	out, err := Histogram(sampleTable("batt_voltage", 100), dir, DefaultStyle())
	if err != nil {
		t.Fatalf("Histogram: %v", err)
	}
	if filepath.Base(out) != "histogram_batt_voltage.png" {
		t.Errorf("unexpected name %q", filepath.Base(out))
	}
	assertPNG(t, out)
}

func TestHistogramEmpty(t *testing.T) {
	empty := &signal.Table{Signal: "x", Values: []float64{math.NaN(), math.NaN()}, Time: []float64{0, 1}}
	if _, err := Histogram(empty, t.TempDir(), DefaultStyle()); err == nil {
		t.Fatal("expected error for all-NaN table")
	}
}

func TestComparativeHistogram(t *testing.T) {
	dir := t.TempDir()
	read := func(path, sig string) (*signal.Table, error) {
		return sampleTable(sig, 60), nil
	}
	out, err := ComparativeHistogram([]string{"/data/run_a.csv", "/data/run_b.csv"}, "batt_voltage", dir, read, DefaultStyle())
	if err != nil {
		t.Fatalf("ComparativeHistogram: %v", err)
	}
	if filepath.Base(out) != "comparative_batt_voltage.png" {
		t.Errorf("unexpected name %q", filepath.Base(out))
	}
	assertPNG(t, out)
}

func TestComparativeHistogramReadError(t *testing.T) {
	read := func(path, sig string) (*signal.Table, error) {
		return nil, fmt.Errorf("boom")
	}
	if _, err := ComparativeHistogram([]string{"/data/run_a.csv"}, "s", t.TempDir(), read, DefaultStyle()); err == nil {
		t.Fatal("expected read error to propagate")
	}
}

func TestTimeSeriesAndPieAndSummary(t *testing.T) {
	dir := t.TempDir()
	tbl := sampleTable("wheel_speed", 50)

	out, err := TimeSeries(tbl, dir, DefaultStyle())
	if err != nil {
		t.Fatalf("TimeSeries: %v", err)
	}
	assertPNG(t, out)

	small := &signal.Table{Signal: "gear", Values: []float64{1, 1, 2, 2, 2, 3}}
	out, err = Pie(small, dir, DefaultStyle())
	if err != nil {
		t.Fatalf("Pie: %v", err)
	}
	assertPNG(t, out)

	out, err = SummaryBar([]string{"mean", "std", "min", "max"}, []float64{3.1, 0.2, 2.5, 3.9}, "wheel_speed", dir, DefaultStyle())
	if err != nil {
		t.Fatalf("SummaryBar: %v", err)
	}
	assertPNG(t, out)
}

func TestFigureSubtitlePreserved(t *testing.T) {
	fig := NewFigure(SingleWidth, SingleHeight, DefaultStyle())
	fig.Subtitle = "already set"
	fig.SetSubtitleIfEmpty("should not replace")
	if fig.Subtitle != "already set" {
		t.Errorf("subtitle overwritten: %q", fig.Subtitle)
	}
}
