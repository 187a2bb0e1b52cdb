package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tutar/city-guide-sub000/internal/output"
	"github.com/tutar/city-guide-sub000/pkg/searcher"
)

// searchOptions holds CLI flags for search.
type searchOptions struct {
	limit       int
	lexicalOnly bool
	denseOnly   bool
	format      string // "text", "json"
}

// searchOutput is the JSON output format for search results.
type searchOutput struct {
	Query           string      `json:"query"`
	Degraded        bool        `json:"degraded"`
	DegradedSources []string    `json:"degraded_sources,omitempty"`
	Hits            []searchHit `json:"hits"`
}

type searchHit struct {
	ID        string   `json:"id"`
	Title     string   `json:"title,omitempty"`
	Category  string   `json:"category,omitempty"`
	SourceURL string   `json:"source_url,omitempty"`
	Score     float64  `json:"score"`
	Sources   []string `json:"sources"`
	LexRank   int      `json:"lex_rank,omitempty"`
	DenseRank int      `json:"dense_rank,omitempty"`
}

func newSearchCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the ingested corpus",
		Long: `Search the ingested corpus with hybrid retrieval.

Combines BM25 (keyword) and dense (embedding) search with Reciprocal
Rank Fusion. If one retrieval path fails, results from the surviving
path are returned and the response is marked degraded.

Examples:
  cityguide search "trash pickup schedule"
  cityguide search "parking permit" --limit 5
  cityguide search "library hours" --lexical-only
  cityguide search "pool opening times" --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return runSearch(cmd.Context(), cmd, query, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "Maximum number of results (0 uses the configured default)")
	cmd.Flags().BoolVar(&opts.lexicalOnly, "lexical-only", false, "Use keyword search only")
	cmd.Flags().BoolVar(&opts.denseOnly, "dense-only", false, "Use embedding search only")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")

	return cmd
}

func runSearch(ctx context.Context, cmd *cobra.Command, query string, opts searchOptions) error {
	if opts.lexicalOnly && opts.denseOnly {
		return fmt.Errorf("--lexical-only and --dense-only are mutually exclusive")
	}

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

	total, err := env.catalog.Count(ctx)
	if err != nil {
		return err
	}
	if total == 0 {
		return fmt.Errorf("no documents ingested. Run 'cityguide ingest' first")
	}

	// Indexes live in memory. Rebuild them from the catalog before
	// serving the query.
	if err := env.loader.RebuildFromCatalog(ctx); err != nil {
		return err
	}

	logger.Info("search_started", slog.String("query", query), slog.Int("limit", opts.limit))

	searchOpts := searcher.Options{Limit: opts.limit}
	if opts.lexicalOnly {
		searchOpts.UseLexical = true
	}
	if opts.denseOnly {
		searchOpts.UseDense = true
	}

	resp, err := env.searcher.Search(ctx, query, searchOpts)
	if err != nil {
		return err
	}

	if opts.format == "json" {
		return writeSearchJSON(cmd, query, resp)
	}
	return writeSearchText(cmd, query, resp)
}

func writeSearchText(cmd *cobra.Command, query string, resp *searcher.Response) error {
	out := output.New(cmd.OutOrStdout())

	if resp.Degraded {
		out.Warningf("partial results: %s path failed", strings.Join(resp.DegradedSources, ", "))
	}
	if len(resp.Hits) == 0 {
		out.Statusf("🔍", "No results for %q", query)
		return nil
	}

	out.Statusf("🔍", "%d results for %q", len(resp.Hits), query)
	out.Newline()
	for i, hit := range resp.Hits {
		out.Result(i+1, hit.Title, hit.ID, hit.Score, hit.Sources)
	}
	return nil
}

func writeSearchJSON(cmd *cobra.Command, query string, resp *searcher.Response) error {
	payload := searchOutput{
		Query:           query,
		Degraded:        resp.Degraded,
		DegradedSources: resp.DegradedSources,
		Hits:            make([]searchHit, 0, len(resp.Hits)),
	}
	for _, hit := range resp.Hits {
		payload.Hits = append(payload.Hits, searchHit{
			ID:        hit.ID,
			Title:     hit.Title,
			Category:  hit.Category,
			SourceURL: hit.SourceURL,
			Score:     hit.Score,
			Sources:   hit.Sources,
			LexRank:   hit.LexRank,
			DenseRank: hit.DenseRank,
		})
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
