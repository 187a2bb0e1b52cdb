package searcher

import (
	"context"
	"errors"

	"github.com/tutar/city-guide-sub000/internal/store"
)

// ErrNilBM25Index is returned when creating a BM25Searcher without an index.
var ErrNilBM25Index = errors.New("BM25 index is required")

// ErrNilEmbedder is returned when creating a DenseSearcher without an embedder.
var ErrNilEmbedder = errors.New("embedder is required")

// ErrNilVectorStore is returned when creating a DenseSearcher without a store.
var ErrNilVectorStore = errors.New("vector store is required")

// ErrNoSearchers is returned when no retrieval path is available for a request.
var ErrNoSearchers = errors.New("at least one searcher is required")

// ErrEmptyQuery is returned for blank queries.
var ErrEmptyQuery = errors.New("query must not be empty")

// ErrRetrievalFailed is returned when every enabled retrieval path failed.
var ErrRetrievalFailed = errors.New("all retrieval paths failed")

// LexicalSearcher is the lexical retrieval leg.
type LexicalSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]*store.BM25Result, error)
}

// DenseRetriever is the semantic retrieval leg.
type DenseRetriever interface {
	Search(ctx context.Context, query string, limit int) ([]*store.VectorResult, error)
}

// Options shapes a single search request.
type Options struct {
	// Limit is the maximum number of hits. Zero or negative uses the
	// orchestrator's default limit; values above its maximum are capped.
	Limit int

	// UseLexical and UseDense select retrieval paths. Both false is
	// treated as both true, so the zero value means full hybrid search.
	UseLexical bool
	UseDense   bool
}

// DefaultOptions requests hybrid search with the default limit.
func DefaultOptions() Options {
	return Options{UseLexical: true, UseDense: true}
}

// Hit is a single fused search result, enriched from the catalog when
// one is configured.
type Hit struct {
	ID    string
	Score float64 // Fused RRF score

	// Sources names the retrieval paths that ranked this document
	// ("lexical", "dense").
	Sources []string

	// Per-path diagnostics. Ranks are 1-indexed, 0 means the path did
	// not return the document. Scores are on their native scales.
	LexScore   float64
	LexRank    int
	DenseScore float64
	DenseRank  int

	// Catalog fields, empty without a catalog.
	Title     string
	SourceURL string
	Category  string
}

// Response is the result of one search request.
type Response struct {
	Hits []Hit

	// Degraded is true when a retrieval path failed and the response
	// was built from the surviving path alone.
	Degraded bool

	// DegradedSources names the failed paths.
	DegradedSources []string
}

// Searcher executes search requests. Implementations must be safe for
// concurrent use.
type Searcher interface {
	Search(ctx context.Context, query string, opts Options) (*Response, error)
}
