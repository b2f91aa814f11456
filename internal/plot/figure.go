package plot

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"os"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// HistLayer is one filled step histogram: bins+1 edges and a height per bin.
type HistLayer struct {
	Label   string
	Edges   []float64
	Heights []float64
	Color   drawing.Color
	Alpha   float64
}

// LineLayer is a plain polyline series.
type LineLayer struct {
	Label string
	X, Y  []float64
	Color drawing.Color
}

// Figure is the chart handle produced by both the directive executor and the
// fallback plotters. It accumulates layers and text, then renders once.
type Figure struct {
	Width, Height int
	Style         Style

	Title       string
	TitleSize   float64
	Subtitle    string
	XLabel      string
	YLabel      string
	LegendTitle string

	hists []HistLayer
	lines []LineLayer
}

// NewFigure creates an empty figure of the given pixel size.
func NewFigure(width, height int, style Style) *Figure {
	return &Figure{Width: width, Height: height, Style: style, TitleSize: 16}
}

func (f *Figure) AddHist(l HistLayer) {
	if l.Alpha == 0 {
		l.Alpha = f.Style.FillAlpha
	}
	f.hists = append(f.hists, l)
}

func (f *Figure) AddLine(l LineLayer) {
	f.lines = append(f.lines, l)
}

// SetSubtitleIfEmpty keeps any subtitle the snippet already set.
func (f *Figure) SetSubtitleIfEmpty(s string) {
	if f.Subtitle == "" {
		f.Subtitle = s
	}
}

// LayerCount reports how many data layers the figure holds.
func (f *Figure) LayerCount() int {
	return len(f.hists) + len(f.lines)
}

// histSeries converts a layer into a filled step outline so layered
// histograms render the way stepfilled bars do.
func histSeries(l HistLayer) chart.Series {
	n := len(l.Heights)
	xs := make([]float64, 0, 2*n+2)
	ys := make([]float64, 0, 2*n+2)
	xs = append(xs, l.Edges[0])
	ys = append(ys, 0)
	for i := 0; i < n; i++ {
		xs = append(xs, l.Edges[i], l.Edges[i+1])
		ys = append(ys, l.Heights[i], l.Heights[i])
	}
	xs = append(xs, l.Edges[n])
	ys = append(ys, 0)
	alpha := uint8(255 * l.Alpha)
	return chart.ContinuousSeries{
		Name:    l.Label,
		XValues: xs,
		YValues: ys,
		Style: chart.Style{
			StrokeColor: l.Color,
			StrokeWidth: 1.2,
			FillColor:   l.Color.WithAlpha(alpha),
		},
	}
}

func (f *Figure) extents() (xmin, xmax, ymax float64) {
	xmin, xmax, ymax = math.Inf(1), math.Inf(-1), 0
	for _, h := range f.hists {
		if len(h.Edges) == 0 {
			continue
		}
		xmin = math.Min(xmin, h.Edges[0])
		xmax = math.Max(xmax, h.Edges[len(h.Edges)-1])
		for _, v := range h.Heights {
			ymax = math.Max(ymax, v)
		}
	}
	for _, l := range f.lines {
		for _, v := range l.X {
			xmin = math.Min(xmin, v)
			xmax = math.Max(xmax, v)
		}
		for _, v := range l.Y {
			ymax = math.Max(ymax, v)
		}
	}
	if math.IsInf(xmin, 1) {
		xmin, xmax = 0, 1
	}
	if ymax <= 0 {
		ymax = 1
	}
	return xmin, xmax, ymax
}

// Render draws the figure as a PNG, overlaying the subtitle text under the
// plot area when one is set.
func (f *Figure) Render(w io.Writer) error {
	if f.LayerCount() == 0 {
		return fmt.Errorf("render: figure has no layers")
	}
	xmin, xmax, ymax := f.extents()

	series := make([]chart.Series, 0, f.LayerCount())
	for _, h := range f.hists {
		series = append(series, histSeries(h))
	}
	for _, l := range f.lines {
		series = append(series, chart.ContinuousSeries{
			Name:    l.Label,
			XValues: l.X,
			YValues: l.Y,
			Style:   chart.Style{StrokeColor: l.Color, StrokeWidth: 1.5},
		})
	}

	padBottom := 16
	if f.Subtitle != "" {
		padBottom = 36
	}
	ch := chart.Chart{
		Title:      f.Title,
		TitleStyle: chart.Style{FontSize: f.TitleSize, FontColor: f.Style.Foreground},
		Width:      f.Width,
		Height:     f.Height,
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 16, Right: 16, Bottom: padBottom}},
		XAxis: chart.XAxis{
			Name:           f.XLabel,
			Ticks:          niceTicks(xmin, xmax, f.Style.MaxXTicks),
			Range:          &chart.ContinuousRange{Min: xmin, Max: xmax},
			GridMajorStyle: f.Style.gridMajor(),
			GridMinorStyle: f.Style.gridMinor(),
		},
		YAxis: chart.YAxis{
			Name:           f.YLabel,
			Ticks:          niceTicks(0, ymax*1.05, f.Style.MaxYTicks),
			Range:          &chart.ContinuousRange{Min: 0, Max: ymax * 1.05},
			GridMajorStyle: f.Style.gridMajor(),
			GridMinorStyle: f.Style.gridMinor(),
		},
		Series: series,
	}
	if f.legendWanted() {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return finishPNG(w, buf.Bytes(), f.Subtitle, f.Style.Subtitle)
}

func (f *Figure) legendWanted() bool {
	named := 0
	for _, h := range f.hists {
		if h.Label != "" {
			named++
		}
	}
	for _, l := range f.lines {
		if l.Label != "" {
			named++
		}
	}
	return named > 0
}

// SavePNG renders the figure into path.
func (f *Figure) SavePNG(path string) error {
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write figure: %w", err)
	}
	return nil
}

// finishPNG re-encodes the rendered chart, drawing subtitle text centered
// near the bottom edge when present.
func finishPNG(w io.Writer, rendered []byte, subtitle string, col drawing.Color) error {
	if subtitle == "" {
		_, err := w.Write(rendered)
		return err
	}
	img, err := png.Decode(bytes.NewReader(rendered))
	if err != nil {
		return fmt.Errorf("decode rendered chart: %w", err)
	}
	out := drawSubtitle(img, subtitle, col)
	if err := png.Encode(w, out); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// drawSubtitle stamps gray caption text centered near the bottom of img.
func drawSubtitle(img image.Image, text string, col drawing.Color) image.Image {
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)
	face := basicfont.Face7x13
	src := image.NewUniform(color.RGBA{R: col.R, G: col.G, B: col.B, A: col.A})
	dr := &font.Drawer{Dst: rgba, Src: src, Face: face}
	tw := dr.MeasureString(text).Ceil()
	x := b.Min.X + (b.Dx()-tw)/2
	y := b.Max.Y - 10
	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	dr.DrawString(text)
	return rgba
}
