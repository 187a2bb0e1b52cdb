// Package cmd provides the CLI commands for CityGuide.
package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/tutar/city-guide-sub000/pkg/version"
)

// Persistent flags shared by all commands.
var (
	configDir string
	debugMode bool
)

// NewRootCmd creates the root command for the cityguide CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cityguide",
		Short: "Hybrid retrieval for city service documents",
		Long: `CityGuide indexes municipal service documents and answers queries
with hybrid search: BM25 keyword matching and dense embedding retrieval,
combined with Reciprocal Rank Fusion.

Put your corpus (JSON files) in the corpus directory, then:

  cityguide ingest
  cityguide search "trash pickup schedule"`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.SetVersionTemplate("cityguide version {{.Version}}\n")

	cmd.PersistentFlags().StringVarP(&configDir, "config-dir", "c", ".", "Directory containing cityguide.yaml")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newIngestCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newStatsCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command with the given context.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
