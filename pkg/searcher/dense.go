package searcher

import (
	"context"
	"fmt"
	"time"

	"github.com/tutar/city-guide-sub000/internal/embed"
	"github.com/tutar/city-guide-sub000/internal/store"
)

// DefaultDenseTimeout bounds the embed-plus-search leg of a query. The
// embedding call may cross the network; the lexical path must not wait
// on it indefinitely.
const DefaultDenseTimeout = 5 * time.Second

// DenseSearcher performs semantic search: the query is embedded, then
// matched against the vector store. Thread-safe for concurrent use.
type DenseSearcher struct {
	embedder embed.Embedder
	store    store.VectorStore
	timeout  time.Duration
}

// DenseOption configures DenseSearcher.
type DenseOption func(*DenseSearcher)

// WithDenseEmbedder sets the embedder for query embedding.
func WithDenseEmbedder(e embed.Embedder) DenseOption {
	return func(s *DenseSearcher) {
		s.embedder = e
	}
}

// WithDenseVectorStore sets the vector store backend.
func WithDenseVectorStore(vs store.VectorStore) DenseOption {
	return func(s *DenseSearcher) {
		s.store = vs
	}
}

// WithDenseTimeout overrides the per-query timeout.
func WithDenseTimeout(d time.Duration) DenseOption {
	return func(s *DenseSearcher) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewDenseSearcher creates a semantic searcher. Requires both
// WithDenseEmbedder and WithDenseVectorStore.
func NewDenseSearcher(opts ...DenseOption) (*DenseSearcher, error) {
	s := &DenseSearcher{timeout: DefaultDenseTimeout}

	for _, opt := range opts {
		opt(s)
	}

	if s.embedder == nil {
		return nil, ErrNilEmbedder
	}
	if s.store == nil {
		return nil, ErrNilVectorStore
	}

	return s, nil
}

// Search embeds the query and returns the nearest documents.
func (s *DenseSearcher) Search(ctx context.Context, query string, limit int) ([]*store.VectorResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query failed: %w", err)
	}

	results, err := s.store.Search(ctx, embedding, limit)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	return results, nil
}
