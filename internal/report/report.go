// Package report computes and serializes summary statistics for a signal.
package report

import (
	"fmt"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/plotloom-cli/internal/signal"
	"github.com/KaramelBytes/plotloom-cli/internal/utils"
)

// Summary holds the six statistics reported per signal.
type Summary struct {
	Mean     float64
	Std      float64
	Min      float64
	Max      float64
	Skewness float64
	Kurtosis float64
}

// Compute derives the summary over the non-null samples of the table. It
// errors when nothing numeric remains; guarding against empty series is the
// caller's job.
func Compute(t *signal.Table) (*Summary, error) {
	vals := t.CleanValues()
	if len(vals) == 0 {
		return nil, fmt.Errorf("signal %q has no numeric values", t.Signal)
	}
	s := &Summary{
		Mean:     stat.Mean(vals, nil),
		Std:      stat.StdDev(vals, nil),
		Skewness: stat.Skew(vals, nil),
		Kurtosis: stat.ExKurtosis(vals, nil),
	}
	s.Min, s.Max = vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	return s, nil
}

// Names returns the statistic labels in report order.
func (s *Summary) Names() []string {
	return []string{"mean", "std", "min", "max", "skewness", "kurtosis"}
}

// Values returns the statistics in the same order as Names.
func (s *Summary) Values() []float64 {
	return []float64{s.Mean, s.Std, s.Min, s.Max, s.Skewness, s.Kurtosis}
}

// Text renders the summary one statistic per line, three decimals each.
func (s *Summary) Text() string {
	names := s.Names()
	vals := s.Values()
	lines := make([]string, len(names))
	for i := range names {
		lines[i] = fmt.Sprintf("%s: %.3f", names[i], vals[i])
	}
	return strings.Join(lines, "\n")
}

// Write computes the summary and writes <signal>_analysis.txt into outDir,
// returning the written path.
func Write(t *signal.Table, outDir string) (string, error) {
	s, err := Compute(t)
	if err != nil {
		return "", err
	}
	path := filepath.Join(outDir, t.Signal+"_analysis.txt")
	if err := utils.SafeWriteFile(path, []byte(s.Text())); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}
