// Package pipeline drives the generate, sanitize, execute and fallback flow
// for a batch of (signal, goal) analysis requests.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/KaramelBytes/plotloom-cli/internal/plot"
	"github.com/KaramelBytes/plotloom-cli/internal/report"
	"github.com/KaramelBytes/plotloom-cli/internal/signal"
	"github.com/KaramelBytes/plotloom-cli/internal/snippet"
	"github.com/KaramelBytes/plotloom-cli/internal/utils"
)

// Generator produces raw plot-script text for one (signal, goal) pair.
// *ai.Client satisfies this; tests substitute stubs.
type Generator interface {
	GenerateCode(ctx context.Context, signalName, goal string) (string, error)
}

// Pair is one analysis request: a signal name and a free-text goal.
type Pair struct {
	Signal string
	Goal   string
}

// Request is one analysis batch.
type Request struct {
	DataPaths   []string
	Pairs       []Pair
	OutputDir   string
	UseFallback bool
}

// Results maps artifact name to a file path, or to inline error text for
// failure artifacts.
type Results map[string]string

// Pipeline processes batches strictly sequentially. Each pair gets its own
// execution environment and figure; a failure in one pair never aborts the
// rest of the batch.
type Pipeline struct {
	Gen   Generator
	Read  signal.ReadFunc
	Style plot.Style
}

func New(gen Generator) *Pipeline {
	return &Pipeline{
		Gen:   gen,
		Read:  signal.Read,
		Style: plot.DefaultStyle(),
	}
}

var (
	whitespaceRe = regexp.MustCompile(`[\s\n]+`)
	unsafeRe     = regexp.MustCompile(`[^0-9A-Za-z_-]`)
)

// sanitizeName turns free goal text into a filesystem-safe artifact name
// component. An empty result falls back to a fixed placeholder.
func sanitizeName(s string) string {
	s = strings.TrimSpace(s)
	s = whitespaceRe.ReplaceAllString(s, "_")
	s = unsafeRe.ReplaceAllString(s, "")
	if s == "" {
		return "analysis"
	}
	return s
}

// IsComparative classifies a goal by a case-insensitive substring check.
func IsComparative(goal string) bool {
	return strings.Contains(strings.ToLower(goal), "comparative")
}

// readFrame loads and merges one signal across every input file:
// format-dispatched read, time-normalized, concatenated, time-sorted.
func (p *Pipeline) readFrame(paths []string, signalName string) (*signal.Table, error) {
	var tables []*signal.Table
	for _, path := range paths {
		t, err := p.Read(path, signalName)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
		}
		tables = append(tables, signal.NormalizeTime(t))
	}
	return signal.Merge(tables, signalName), nil
}

// Run processes every pair in order and returns the accumulated artifact
// mapping. The returned error covers batch setup only; per-pair failures
// are recorded as named error artifacts instead.
func (p *Pipeline) Run(ctx context.Context, req Request) (Results, error) {
	if err := utils.EnsureDir(req.OutputDir); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	results := Results{}
	for _, pair := range req.Pairs {
		p.runPair(ctx, req, pair, results)
	}
	return results, nil
}

func (p *Pipeline) runPair(ctx context.Context, req Request, pair Pair, results Results) {
	pairDir := filepath.Join(req.OutputDir, pair.Signal+"_"+sanitizeName(pair.Goal))
	if err := utils.EnsureDir(pairDir); err != nil {
		results[pair.Signal+"_error.txt"] = err.Error()
		return
	}

	isComp := IsComparative(pair.Goal)
	frame, err := p.readFrame(req.DataPaths, pair.Signal)
	if err != nil {
		p.fail(req, pair, nil, isComp, pairDir, err, results)
		return
	}

	fname := "histogram_" + pair.Signal + ".png"
	if isComp {
		fname = "comparative_" + pair.Signal + ".png"
	}

	raw, err := p.Gen.GenerateCode(ctx, pair.Signal, pair.Goal)
	if err != nil {
		p.fail(req, pair, frame, isComp, pairDir, err, results)
		return
	}

	fig, err := snippet.Execute(snippet.Sanitize(raw), snippet.Env{
		Table:       frame,
		Signal:      pair.Signal,
		DataPaths:   req.DataPaths,
		Comparative: isComp,
		Read:        p.Read,
		Style:       p.Style,
	})
	if err != nil {
		p.fail(req, pair, frame, isComp, pairDir, err, results)
		return
	}

	outPath := filepath.Join(pairDir, fname)
	if err := fig.SavePNG(outPath); err != nil {
		p.fail(req, pair, frame, isComp, pairDir, err, results)
		return
	}
	results[fname] = outPath

	p.writeReport(frame, pairDir, pair.Signal, results)
}

// fail handles a pair-scoped failure: run the deterministic fallback when
// the caller enables it, otherwise record the error verbatim.
func (p *Pipeline) fail(req Request, pair Pair, frame *signal.Table, isComp bool, pairDir string, cause error, results Results) {
	if !req.UseFallback {
		results[pair.Signal+"_error.txt"] = cause.Error()
		return
	}

	var (
		png string
		err error
	)
	if isComp {
		png, err = plot.ComparativeHistogram(req.DataPaths, pair.Signal, pairDir, p.Read, p.Style)
	} else {
		if frame == nil {
			frame, err = p.readFrame(req.DataPaths, pair.Signal)
		}
		if err == nil {
			png, err = plot.Histogram(frame, pairDir, p.Style)
		}
	}
	if err != nil {
		results[pair.Signal+"_fallback_error.txt"] = err.Error()
		return
	}
	results[filepath.Base(png)] = png

	if frame == nil {
		var rerr error
		frame, rerr = p.readFrame(req.DataPaths, pair.Signal)
		if rerr != nil {
			results[pair.Signal+"_report_error.txt"] = rerr.Error()
			return
		}
	}
	p.writeReport(frame, pairDir, pair.Signal, results)
}

// writeReport records the statistics artifact, or its own error artifact.
// A report failure never undoes a successfully produced chart.
func (p *Pipeline) writeReport(frame *signal.Table, pairDir, signalName string, results Results) {
	rpt, err := report.Write(frame, pairDir)
	if err != nil {
		results[signalName+"_report_error.txt"] = err.Error()
		return
	}
	results[filepath.Base(rpt)] = rpt
}
