package indexer

import (
	"context"
	"errors"

	"github.com/tutar/city-guide-sub000/internal/store"
)

// ErrNilIndex is returned when creating a BM25Indexer without an index.
var ErrNilIndex = errors.New("BM25 index is required")

// ErrNilEmbedder is returned when creating a VectorIndexer without an embedder.
var ErrNilEmbedder = errors.New("embedder is required")

// ErrNilVectorStore is returned when creating a VectorIndexer without a store.
var ErrNilVectorStore = errors.New("vector store is required")

// ErrNoIndexers is returned when creating a HybridIndexer without components.
var ErrNoIndexers = errors.New("at least one indexer is required")

// Indexer defines the contract for indexing operations.
//
// Implementations must be thread-safe for concurrent use.
type Indexer interface {
	// Index adds documents. Re-indexing an existing ID replaces the
	// previous content. An empty slice is a no-op.
	Index(ctx context.Context, docs []*store.Document) error

	// Delete removes documents by ID. Unknown IDs are ignored.
	Delete(ctx context.Context, ids []string) error

	// Clear removes all indexed content.
	Clear(ctx context.Context) error

	// Stats returns a snapshot of index statistics.
	Stats() IndexStats

	// Close releases resources. Idempotent.
	Close() error
}

// IndexStats holds statistics about an index.
type IndexStats struct {
	// DocumentCount is the number of indexed documents.
	DocumentCount int

	// TermCount is the number of unique terms (lexical index only).
	TermCount int

	// AvgDocLength is the average document length in tokens (lexical
	// index only).
	AvgDocLength float64
}
