package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/plotloom-cli/internal/ai"
	cfgpkg "github.com/KaramelBytes/plotloom-cli/internal/config"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	// HTTP flag (overrides config if set)
	flagHTTPTimeoutSec int

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "plotloom",
	Short: "PlotLoom CLI: AI-assisted charts and reports from measurement files",
	Long: `PlotLoom takes time-series measurement files plus a natural-language
analysis goal, asks a code model for the plotting logic, and renders chart
images and a statistics report, with a deterministic fallback when the
generated code is unusable.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// A local .env can carry PLOTLOOM_API_KEY during development.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.plotloom/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().IntVar(&flagHTTPTimeoutSec, "http-timeout", 0, "HTTP client timeout in seconds (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c

	if rootCmd.PersistentFlags().Changed("http-timeout") && flagHTTPTimeoutSec > 0 {
		cfg.HTTPTimeoutSec = flagHTTPTimeoutSec
	}
}

// newAIClient builds the generation client from the effective config.
func newAIClient() (*ai.Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	key := cfg.APIKey
	if env := os.Getenv("PLOTLOOM_API_KEY"); env != "" {
		key = env
	}
	if key == "" {
		return nil, fmt.Errorf("no API key: set PLOTLOOM_API_KEY or run 'plotloom config set api_key <key>'")
	}
	return ai.NewClient(key, cfg.BaseURL, cfg.Model, time.Duration(cfg.HTTPTimeoutSec)*time.Second, cfg.MaxTokens), nil
}
