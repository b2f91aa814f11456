package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/plotloom-cli/internal/pipeline"
	"github.com/KaramelBytes/plotloom-cli/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP analysis service",
	Long: `Serve exposes POST /analyze: multipart measurement files plus signal
names and goals in, a ZIP of chart and report artifacts out.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAIClient()
		if err != nil {
			return err
		}
		addr := serveAddr
		if addr == "" && cfg != nil {
			addr = cfg.ListenAddr
		}
		if addr == "" {
			addr = ":8080"
		}
		r := server.NewRouter(pipeline.New(client))
		fmt.Printf("plotloom listening on %s\n", addr)
		return r.Run(addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, then :8080)")
	rootCmd.AddCommand(serveCmd)
}
