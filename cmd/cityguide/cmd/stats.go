package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tutar/city-guide-sub000/internal/output"
)

// StatsOutput is the JSON output format for index statistics.
type StatsOutput struct {
	Documents    int     `json:"documents"`
	UniqueTerms  int     `json:"unique_terms"`
	AvgDocLength float64 `json:"avg_doc_length"`
	Provider     string  `json:"embedding_provider"`
	Model        string  `json:"embedding_model,omitempty"`
	DataDir      string  `json:"data_dir"`
	CorpusDir    string  `json:"corpus_dir"`
}

func newStatsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show catalog and index statistics",
		Long: `Display statistics about the ingested corpus: document count,
vocabulary size, average document length, and the configured
embedding provider.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStats(cmd.Context(), cmd, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func runStats(ctx context.Context, cmd *cobra.Command, jsonOutput bool) error {
	cfg, logger, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	env, err := openEnvironment(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	if err := env.loader.RebuildFromCatalog(ctx); err != nil {
		return err
	}

	stats := env.hybrid.Stats()

	payload := StatsOutput{
		Documents:    stats.DocumentCount,
		UniqueTerms:  stats.TermCount,
		AvgDocLength: stats.AvgDocLength,
		Provider:     cfg.Embeddings.Provider,
		Model:        cfg.Embeddings.Model,
		DataDir:      cfg.Paths.DataDir,
		CorpusDir:    cfg.Paths.CorpusDir,
	}

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}

	out := output.New(cmd.OutOrStdout())
	out.Statusf("📊", "CityGuide index statistics")
	out.Field("Documents", payload.Documents)
	out.Field("Unique terms", payload.UniqueTerms)
	out.Field("Avg doc length", fmt.Sprintf("%.1f tokens", payload.AvgDocLength))
	out.Field("Provider", payload.Provider)
	if payload.Model != "" {
		out.Field("Model", payload.Model)
	}
	out.Field("Data dir", payload.DataDir)
	out.Field("Corpus dir", payload.CorpusDir)
	return nil
}
