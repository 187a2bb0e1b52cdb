package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tutar/city-guide-sub000/configs"
	"github.com/tutar/city-guide-sub000/internal/output"
)

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter configuration",
		Long: `Initialize CityGuide in the config directory.

Writes a commented cityguide.yaml template and creates the corpus
directory. Existing configuration is left alone unless --force is
given.`,
		Example: `  # Initialize in the current directory
  cityguide init

  # Overwrite an existing cityguide.yaml
  cityguide init --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing cityguide.yaml")

	return cmd
}

func runInit(cmd *cobra.Command, force bool) error {
	out := output.New(cmd.OutOrStdout())

	cfgPath := filepath.Join(configDir, "cityguide.yaml")
	if _, err := os.Stat(cfgPath); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", cfgPath)
	}

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("creating config dir %s: %w", configDir, err)
	}
	if err := os.WriteFile(cfgPath, []byte(configs.ConfigTemplate), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", cfgPath, err)
	}
	out.Successf("Wrote %s", cfgPath)

	corpusDir := filepath.Join(configDir, "corpus")
	if err := os.MkdirAll(corpusDir, 0o755); err != nil {
		return fmt.Errorf("creating corpus dir %s: %w", corpusDir, err)
	}
	out.Statusf("📁", "Corpus dir ready at %s", corpusDir)
	out.Statusf("➡️ ", "Drop JSON documents in the corpus dir, then run 'cityguide ingest'")

	return nil
}
