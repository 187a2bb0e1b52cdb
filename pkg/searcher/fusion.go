package searcher

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tutar/city-guide-sub000/internal/search"
	"github.com/tutar/city-guide-sub000/internal/store"
)

// Limit defaults for the orchestrator.
const (
	DefaultLimit = 10
	MaxLimit     = 100

	// minFetchLimit is the floor on per-path candidate fetches. Fusion
	// over very short lists loses documents each path ranked mid-list.
	minFetchLimit = 20
)

// FusionSearcher orchestrates hybrid search: it runs the lexical and
// dense paths concurrently, merges their rankings with RRF, and
// enriches hits from the catalog.
//
// If one path fails, the response degrades to the surviving path and is
// marked accordingly. The search only errors when every enabled path
// fails. Thread-safe for concurrent use.
type FusionSearcher struct {
	lexical LexicalSearcher
	dense   DenseRetriever

	fusion  *search.RRFFusion
	weights search.Weights
	cache   *search.ResultCache
	catalog store.Catalog
	logger  *slog.Logger

	defaultLimit int
	maxLimit     int
}

// FusionOption configures FusionSearcher.
type FusionOption func(*FusionSearcher)

// WithLexical sets the lexical retrieval path.
func WithLexical(s LexicalSearcher) FusionOption {
	return func(f *FusionSearcher) {
		f.lexical = s
	}
}

// WithDense sets the dense retrieval path.
func WithDense(s DenseRetriever) FusionOption {
	return func(f *FusionSearcher) {
		f.dense = s
	}
}

// WithFusion overrides the RRF fusion engine (custom k).
func WithFusion(fu *search.RRFFusion) FusionOption {
	return func(f *FusionSearcher) {
		if fu != nil {
			f.fusion = fu
		}
	}
}

// WithWeights overrides the per-path fusion weights.
func WithWeights(w search.Weights) FusionOption {
	return func(f *FusionSearcher) {
		f.weights = w
	}
}

// WithResultCache enables query result caching.
func WithResultCache(c *search.ResultCache) FusionOption {
	return func(f *FusionSearcher) {
		f.cache = c
	}
}

// WithCatalog enables hit enrichment from the document catalog.
func WithCatalog(c store.Catalog) FusionOption {
	return func(f *FusionSearcher) {
		f.catalog = c
	}
}

// WithSearchLogger sets the structured logger.
func WithSearchLogger(l *slog.Logger) FusionOption {
	return func(f *FusionSearcher) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithLimits overrides the default and maximum result limits.
func WithLimits(def, max int) FusionOption {
	return func(f *FusionSearcher) {
		if def > 0 {
			f.defaultLimit = def
		}
		if max >= f.defaultLimit {
			f.maxLimit = max
		}
	}
}

// NewFusionSearcher creates the hybrid orchestrator. At least one
// retrieval path must be configured.
func NewFusionSearcher(opts ...FusionOption) (*FusionSearcher, error) {
	f := &FusionSearcher{
		fusion:       search.NewRRFFusion(0),
		weights:      search.DefaultWeights(),
		logger:       slog.Default(),
		defaultLimit: DefaultLimit,
		maxLimit:     MaxLimit,
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.lexical == nil && f.dense == nil {
		return nil, ErrNoSearchers
	}

	return f, nil
}

// Search executes one hybrid search request.
func (f *FusionSearcher) Search(ctx context.Context, query string, opts Options) (*Response, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	useLexical, useDense := opts.UseLexical, opts.UseDense
	if !useLexical && !useDense {
		useLexical, useDense = true, true
	}
	useLexical = useLexical && f.lexical != nil
	useDense = useDense && f.dense != nil
	if !useLexical && !useDense {
		return nil, ErrNoSearchers
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = f.defaultLimit
	}
	if limit > f.maxLimit {
		limit = f.maxLimit
	}

	key := search.CacheKey(query, limit, useLexical, useDense)
	if f.cache != nil {
		if fused, ok := f.cache.Get(key); ok {
			return f.buildResponse(ctx, fused, nil)
		}
	}

	start := time.Now()

	// Over-fetch per path so fusion sees enough of each ranking.
	fetchLimit := limit * 2
	if fetchLimit < minFetchLimit {
		fetchLimit = minFetchLimit
	}

	var (
		lexResults   []*store.BM25Result
		denseResults []*store.VectorResult
		lexErr       error
		denseErr     error
	)

	// Path errors are collected, not propagated through the group: one
	// failing path must not cancel the other.
	g, gctx := errgroup.WithContext(ctx)

	if useLexical {
		g.Go(func() error {
			lexResults, lexErr = f.lexical.Search(gctx, query, fetchLimit)
			return nil
		})
	}
	if useDense {
		g.Go(func() error {
			denseResults, denseErr = f.dense.Search(gctx, query, fetchLimit)
			return nil
		})
	}
	_ = g.Wait()

	var failed []string
	if useLexical && lexErr != nil {
		failed = append(failed, "lexical")
		f.logger.Warn("lexical_path_failed", slog.String("query", query), slog.Any("error", lexErr))
		lexResults = nil
	}
	if useDense && denseErr != nil {
		failed = append(failed, "dense")
		f.logger.Warn("dense_path_failed", slog.String("query", query), slog.Any("error", denseErr))
		denseResults = nil
	}

	enabled := 0
	if useLexical {
		enabled++
	}
	if useDense {
		enabled++
	}
	if len(failed) == enabled {
		return nil, fmt.Errorf("%w: lexical: %v, dense: %v", ErrRetrievalFailed, lexErr, denseErr)
	}

	fused := f.fusion.Fuse(lexResults, denseResults, f.weights)
	fused = search.Truncate(fused, limit)

	// Degraded responses are never cached: the failed path may recover
	// before the TTL runs out.
	if f.cache != nil && len(failed) == 0 {
		f.cache.Put(key, fused)
	}

	resp, err := f.buildResponse(ctx, fused, failed)
	if err != nil {
		return nil, err
	}

	f.logger.Debug("search_complete",
		slog.String("query", query),
		slog.Int("hits", len(resp.Hits)),
		slog.Bool("degraded", resp.Degraded),
		slog.Duration("elapsed", time.Since(start)))

	return resp, nil
}

// buildResponse converts fused results into hits, pulling titles and
// source links from the catalog when one is configured.
func (f *FusionSearcher) buildResponse(ctx context.Context, fused []*search.FusedResult, failed []string) (*Response, error) {
	hits := make([]Hit, 0, len(fused))
	for _, r := range fused {
		hit := Hit{
			ID:         r.DocID,
			Score:      r.FusedScore,
			LexScore:   r.LexScore,
			LexRank:    r.LexRank,
			DenseScore: r.DenseScore,
			DenseRank:  r.DenseRank,
		}
		if r.LexRank > 0 {
			hit.Sources = append(hit.Sources, "lexical")
		}
		if r.DenseRank > 0 {
			hit.Sources = append(hit.Sources, "dense")
		}
		hits = append(hits, hit)
	}

	if f.catalog != nil && len(hits) > 0 {
		ids := make([]string, len(hits))
		for i, h := range hits {
			ids[i] = h.ID
		}

		entries, err := f.catalog.GetDocuments(ctx, ids)
		if err != nil {
			// Enrichment is best effort; ranked IDs are still useful.
			f.logger.Warn("catalog_enrichment_failed", slog.Any("error", err))
		} else {
			byID := make(map[string]*store.CatalogEntry, len(entries))
			for _, e := range entries {
				byID[e.ID] = e
			}
			for i := range hits {
				if e, ok := byID[hits[i].ID]; ok {
					hits[i].Title = e.Title
					hits[i].SourceURL = e.SourceURL
					hits[i].Category = e.Category
				}
			}
		}
	}

	return &Response{
		Hits:            hits,
		Degraded:        len(failed) > 0,
		DegradedSources: failed,
	}, nil
}
