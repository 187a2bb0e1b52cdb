// Package store provides the retrieval-side persistence layer: the in-memory
// BM25 index, the HNSW vector store, and the SQLite document catalog.
package store

import (
	"context"
	"fmt"
	"time"
)

// Document is a service document submitted for indexing.
type Document struct {
	ID      string // Stable opaque identifier (UUID for ingested documents)
	Title   string // Document title (indexed together with Content)
	Content string // Document body text
}

// Text returns the concatenated text fields used for scoring.
func (d *Document) Text() string {
	if d.Title == "" {
		return d.Content
	}
	return d.Title + " " + d.Content
}

// BM25Result is a single lexical search hit.
type BM25Result struct {
	DocID string
	Score float64
	Rank  int // 1-indexed position in the BM25 ordering
}

// IndexStats describes the state of the BM25 index.
type IndexStats struct {
	DocumentCount  int
	VocabularySize int
	AvgDocLength   float64
	TotalTerms     int
	K1             float64
	B              float64
}

// BM25Index provides keyword search using the BM25 ranking function.
//
// Mutating operations (IndexDocuments, AddDocument, RemoveDocument) require
// exclusive access; Search is safe to run concurrently against a stable
// index. Implementations enforce this with a single-writer/multi-reader
// discipline.
type BM25Index interface {
	// IndexDocuments replaces the entire index content with docs.
	// An empty slice resets the index without error.
	IndexDocuments(ctx context.Context, docs []*Document) error

	// AddDocument appends one document incrementally. Re-adding an existing
	// ID replaces the previous document. Returns a validation error if the
	// document has no ID.
	AddDocument(ctx context.Context, doc *Document) error

	// RemoveDocument removes a document's contribution to all aggregate
	// statistics. Returns false if the ID is not indexed; the index state is
	// untouched in that case.
	RemoveDocument(ctx context.Context, id string) (bool, error)

	// Search scores every indexed document against query and returns the top
	// limit hits with a nonzero score, ordered by descending score with ties
	// broken by insertion order.
	Search(ctx context.Context, query string, limit int) ([]*BM25Result, error)

	// Stats returns index statistics.
	Stats() *IndexStats

	Close() error
}

// BM25Config configures the BM25 index parameters. Both values are fixed at
// index construction.
type BM25Config struct {
	// K1 is the term-frequency saturation parameter (default: 1.5).
	K1 float64

	// B is the length-normalization strength (default: 0.75).
	B float64
}

// DefaultBM25Config returns the parameters the original deployment ran with.
// They are conventional defaults, not corpus-tuned values.
func DefaultBM25Config() BM25Config {
	return BM25Config{
		K1: 1.5,
		B:  0.75,
	}
}

// VectorResult is a single dense search hit.
type VectorResult struct {
	ID       string  // Document ID
	Distance float32 // Raw distance (0-2 for cosine)
	Score    float32 // Similarity remapped to [0,1]
}

// VectorStoreConfig configures the vector store.
type VectorStoreConfig struct {
	// Dimensions is the embedding dimension agreed with the embedder.
	Dimensions int

	// Metric is the distance metric: "cos" (cosine) or "l2" (default: "cos").
	Metric string

	// M is HNSW max connections per layer (default: 16).
	M int

	// EfSearch is HNSW query-time search width (default: 20).
	EfSearch int
}

// DefaultVectorStoreConfig returns sensible defaults for the vector store.
func DefaultVectorStoreConfig(dimensions int) VectorStoreConfig {
	return VectorStoreConfig{
		Dimensions: dimensions,
		Metric:     "cos",
		M:          16,
		EfSearch:   20,
	}
}

// VectorStore provides dense similarity search. This is the seam behind
// which any vector database sits; HNSWStore is the in-process default.
type VectorStore interface {
	// Add inserts vectors with their IDs. If an ID exists, it is replaced.
	Add(ctx context.Context, ids []string, vectors [][]float32) error

	// Search finds the k nearest neighbors to the query vector, highest
	// similarity first.
	Search(ctx context.Context, query []float32, k int) ([]*VectorResult, error)

	// Delete removes vectors by ID. Unknown IDs are ignored.
	Delete(ctx context.Context, ids []string) error

	// Clear removes all vectors.
	Clear(ctx context.Context) error

	// Contains checks if an ID exists.
	Contains(id string) bool

	// Count returns the number of vectors.
	Count() int

	Close() error
}

// ErrDimensionMismatch indicates a vector dimension mismatch between the
// embedder and the store.
type ErrDimensionMismatch struct {
	Expected int
	Got      int
}

func (e ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Got)
}

// CatalogEntry is the persisted record for a service document. The catalog
// is the system of record; both indexes are rebuilt from it on startup.
type CatalogEntry struct {
	ID        string
	Title     string
	Content   string
	SourceURL string
	Category  string
	UpdatedAt time.Time
}

// Document converts the entry to its indexable form.
func (e *CatalogEntry) Document() *Document {
	return &Document{ID: e.ID, Title: e.Title, Content: e.Content}
}

// Catalog persists service documents in SQLite.
type Catalog interface {
	// SaveDocuments inserts or replaces catalog entries.
	SaveDocuments(ctx context.Context, entries []*CatalogEntry) error

	// GetDocument returns one entry, or nil if absent.
	GetDocument(ctx context.Context, id string) (*CatalogEntry, error)

	// GetDocuments returns entries for the given IDs, skipping unknown ones.
	GetDocuments(ctx context.Context, ids []string) ([]*CatalogEntry, error)

	// ListDocuments returns all entries in insertion order.
	ListDocuments(ctx context.Context) ([]*CatalogEntry, error)

	// DeleteDocument removes an entry. Returns false if the ID is unknown.
	DeleteDocument(ctx context.Context, id string) (bool, error)

	// Count returns the number of entries.
	Count(ctx context.Context) (int, error)

	Close() error
}
