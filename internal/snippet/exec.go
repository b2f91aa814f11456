package snippet

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/plotloom-cli/internal/plot"
	"github.com/KaramelBytes/plotloom-cli/internal/signal"
)

// Marker is the plotting call every usable snippet must contain. Snippets
// without it get the built-in recipe substituted in place of their body.
const Marker = "histplot("

// Env is the binding set visible to a snippet while it runs. A fresh Env is
// built per request and nothing of the orchestrator's own state leaks in.
type Env struct {
	Table       *signal.Table
	Signal      string
	DataPaths   []string
	Comparative bool
	Read        signal.ReadFunc
	Style       plot.Style
}

// Execute runs sanitized directive code inside the fixed plotting scaffold
// and returns the populated figure. It errors when no code survived
// sanitization, when a statement fails to parse or run, or when execution
// produces no drawable layers.
func Execute(code string, env Env) (*plot.Figure, error) {
	if strings.TrimSpace(code) == "" {
		return nil, errors.New("no usable code survived sanitization")
	}

	fig := scaffold(env)
	if !strings.Contains(code, Marker) {
		// Substitute the built-in recipe for the whole body; the generated
		// statements are not run at all in this case.
		if err := addHistogram(fig, env, 0, 1.0); err != nil {
			return nil, err
		}
	} else {
		ns := &namespace{fig: fig, env: env, vars: map[string]Value{}}
		for i, line := range strings.Split(code, "\n") {
			stmt, err := ParseLine(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", i+1, err)
			}
			if stmt == nil {
				continue
			}
			if err := ns.run(stmt); err != nil {
				return nil, fmt.Errorf("line %d: %w", i+1, err)
			}
		}
		if fig.LayerCount() == 0 {
			return nil, errors.New("snippet produced no drawable layers")
		}
	}

	applyAxisText(fig, env)
	return fig, nil
}

// scaffold creates the fixed figure every snippet draws into: 12x7 for
// comparative goals, 10x6 otherwise, with the shared styling config.
func scaffold(env Env) *plot.Figure {
	if env.Comparative {
		return plot.NewFigure(plot.ComparativeWidth, plot.ComparativeHeight, env.Style)
	}
	return plot.NewFigure(plot.SingleWidth, plot.SingleHeight, env.Style)
}

// applyAxisText sets axis labels and title after execution. The unit comes
// from the substring lookup table; a subtitle the snippet already drew is
// left alone.
func applyAxisText(fig *plot.Figure, env Env) {
	unit := plot.UnitFor(env.Signal)
	fig.XLabel = plot.AxisLabel(env.Signal, unit)
	if env.Comparative {
		fig.YLabel = "Total Duration [s]"
		fig.Title = "Comparative Histogram of " + env.Signal
		fig.TitleSize = 18
	} else {
		fig.YLabel = "Frequency"
		fig.Title = "Histogram of " + env.Signal
		fig.TitleSize = 16
	}
}

// addHistogram renders the histogram recipe into fig: a duration-weighted
// layer per input file for comparative goals, a single layer of the merged
// table otherwise. bins <= 0 selects Freedman-Diaconis binning.
func addHistogram(fig *plot.Figure, env Env, bins int, alpha float64) error {
	if env.Comparative {
		return addComparative(fig, env, bins, alpha)
	}
	data := env.Table.CleanValues()
	if len(data) == 0 {
		return fmt.Errorf("signal %q has no numeric samples", env.Signal)
	}
	if bins <= 0 {
		bins = plot.BinCount(data)
	}
	lo, hi := rangeOf(data)
	edges := plot.HistogramEdges(lo, hi, bins)
	fig.AddHist(plot.HistLayer{
		Edges:   edges,
		Heights: plot.BinValues(data, nil, edges),
		Color:   plot.PaletteColor(0),
		Alpha:   alpha,
	})
	return nil
}

func addComparative(fig *plot.Figure, env Env, bins int, alpha float64) error {
	if len(env.DataPaths) == 0 {
		return errors.New("comparative goal with no input files")
	}
	type layer struct {
		label     string
		values    []float64
		durations []float64
	}
	var layers []layer
	var all []float64
	for _, path := range env.DataPaths {
		t, err := env.Read(path, env.Signal)
		if err != nil {
			return fmt.Errorf("read %s: %w", filepath.Base(path), err)
		}
		t = signal.NormalizeTime(t)
		base := filepath.Base(path)
		layers = append(layers, layer{
			label:     strings.TrimSuffix(base, filepath.Ext(base)),
			values:    t.Values,
			durations: t.Durations(),
		})
		for _, v := range t.Values {
			if !math.IsNaN(v) {
				all = append(all, v)
			}
		}
	}
	if len(all) == 0 {
		return fmt.Errorf("signal %q has no numeric samples", env.Signal)
	}
	if bins <= 0 {
		bins = plot.BinCount(all)
	}
	lo, hi := rangeOf(all)
	edges := plot.HistogramEdges(lo, hi, bins)
	for i, l := range layers {
		fig.AddHist(plot.HistLayer{
			Label:   l.label,
			Edges:   edges,
			Heights: plot.BinValues(l.values, l.durations, edges),
			Color:   plot.PaletteColor(i),
			Alpha:   alpha,
		})
	}
	fig.LegendTitle = "Vehicle"
	return nil
}

func rangeOf(values []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// namespace is the per-request scope statements run in.
type namespace struct {
	fig  *plot.Figure
	env  Env
	vars map[string]Value
}

func (ns *namespace) run(stmt *Statement) error {
	if stmt.Assign != "" {
		v, err := ns.resolve(stmt.Value)
		if err != nil {
			return err
		}
		ns.vars[stmt.Assign] = v
		return nil
	}
	return ns.call(stmt.Call)
}

// resolve follows identifier references through the namespace bindings.
func (ns *namespace) resolve(v Value) (Value, error) {
	if v.Kind != ValIdent {
		return v, nil
	}
	switch v.Ident {
	case "auto", "none", "null":
		return v, nil
	case "signal":
		return Value{Kind: ValString, Str: ns.env.Signal}, nil
	}
	if bound, ok := ns.vars[v.Ident]; ok {
		return bound, nil
	}
	return Value{}, fmt.Errorf("undefined name %q", v.Ident)
}

func (ns *namespace) call(c *Call) error {
	switch strings.ToLower(c.Name) {
	case "histplot":
		return ns.histplot(c)
	case "lineplot":
		return ns.lineplot()
	case "subtitle":
		s, err := ns.stringArg(c, 0, "text")
		if err != nil {
			return err
		}
		ns.fig.Subtitle = s
		return nil
	case "title":
		s, err := ns.stringArg(c, 0, "text")
		if err != nil {
			return err
		}
		ns.fig.Title = s
		return nil
	case "xlabel":
		s, err := ns.stringArg(c, 0, "text")
		if err != nil {
			return err
		}
		ns.fig.XLabel = s
		return nil
	case "ylabel":
		s, err := ns.stringArg(c, 0, "text")
		if err != nil {
			return err
		}
		ns.fig.YLabel = s
		return nil
	case "figsize":
		return ns.figsize(c)
	default:
		return fmt.Errorf("unknown function %q", c.Name)
	}
}

func (ns *namespace) histplot(c *Call) error {
	bins := 0
	if v, ok := c.kwarg("bins"); ok {
		rv, err := ns.resolve(v)
		if err != nil {
			return err
		}
		if rv.Kind == ValNumber && rv.Num > 0 {
			bins = int(rv.Num)
		}
	}
	alpha := 1.0
	if v, ok := c.kwarg("alpha"); ok {
		rv, err := ns.resolve(v)
		if err != nil {
			return err
		}
		if rv.Kind == ValNumber {
			alpha = rv.Num
		}
	}
	return addHistogram(ns.fig, ns.env, bins, alpha)
}

func (ns *namespace) lineplot() error {
	t := ns.env.Table
	if t.Len() == 0 {
		return fmt.Errorf("signal %q has no samples", ns.env.Signal)
	}
	x := t.Time
	if !t.HasTime() {
		x = make([]float64, t.Len())
		for i := range x {
			x[i] = float64(i)
		}
	}
	ns.fig.AddLine(plot.LineLayer{X: x, Y: t.Values, Color: plot.PaletteColor(0)})
	return nil
}

func (ns *namespace) figsize(c *Call) error {
	w, okW := c.positional(0)
	h, okH := c.positional(1)
	if !okW || !okH || w.Kind != ValNumber || h.Kind != ValNumber {
		return errors.New("figsize expects two numbers")
	}
	// Sizes arrive in inches; render at 100 px per inch.
	ns.fig.Width = int(w.Num * 100)
	ns.fig.Height = int(h.Num * 100)
	return nil
}

func (ns *namespace) stringArg(c *Call, pos int, key string) (string, error) {
	v, ok := c.kwarg(key)
	if !ok {
		v, ok = c.positional(pos)
	}
	if !ok {
		return "", fmt.Errorf("%s: missing %s argument", c.Name, key)
	}
	rv, err := ns.resolve(v)
	if err != nil {
		return "", err
	}
	if rv.Kind != ValString {
		return "", fmt.Errorf("%s: %s must be a string", c.Name, key)
	}
	return rv.Str, nil
}
