package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/plotloom-cli/internal/ai"
	"github.com/KaramelBytes/plotloom-cli/internal/pipeline"
	"github.com/KaramelBytes/plotloom-cli/internal/utils"
)

var (
	anaSignals  []string
	anaGoals    []string
	anaOutDir   string
	anaFallback bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>...",
	Short: "Analyze measurement files and render charts + reports",
	Long: `Analyze runs the full pipeline over local measurement files. Signals and
goals are paired by position: the first --signal gets the first --goal, and
so on. Goals containing the word "comparative" switch to the cross-file
comparison chart.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(anaSignals) == 0 {
			return fmt.Errorf("at least one --signal is required")
		}
		if len(anaGoals) != len(anaSignals) {
			return fmt.Errorf("got %d --goal values for %d --signal values", len(anaGoals), len(anaSignals))
		}
		for _, p := range args {
			if _, err := os.Stat(p); err != nil {
				return fmt.Errorf("input file: %w", err)
			}
		}

		client, err := newAIClient()
		if err != nil {
			return err
		}
		if debug {
			system, _ := ai.BuildCodePrompt(anaSignals[0], anaGoals[0])
			fmt.Fprintf(os.Stderr, "prompt ≈ %d tokens\n", utils.CountTokens(system))
		}

		pairs := make([]pipeline.Pair, len(anaSignals))
		for i := range anaSignals {
			pairs[i] = pipeline.Pair{Signal: anaSignals[i], Goal: anaGoals[i]}
		}

		results, err := pipeline.New(client).Run(context.Background(), pipeline.Request{
			DataPaths:   args,
			Pairs:       pairs,
			OutputDir:   anaOutDir,
			UseFallback: anaFallback,
		})
		if err != nil {
			return err
		}

		names := make([]string, 0, len(results))
		for name := range results {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("%s\t%s\n", name, results[name])
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringArrayVar(&anaSignals, "signal", nil, "signal name to analyze (repeatable)")
	analyzeCmd.Flags().StringArrayVar(&anaGoals, "goal", nil, "analysis goal text, paired with --signal by position (repeatable)")
	analyzeCmd.Flags().StringVarP(&anaOutDir, "out", "o", "plotloom-out", "output directory for artifacts")
	analyzeCmd.Flags().BoolVar(&anaFallback, "fallback", true, "use the deterministic plotter when generated code fails")
	rootCmd.AddCommand(analyzeCmd)
}
