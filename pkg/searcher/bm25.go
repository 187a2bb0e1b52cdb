package searcher

import (
	"context"
	"fmt"

	"github.com/tutar/city-guide-sub000/internal/store"
)

// BM25Searcher performs lexical search against a store.BM25Index.
// Thread-safe for concurrent use.
type BM25Searcher struct {
	index store.BM25Index
}

// BM25Option configures BM25Searcher.
type BM25Option func(*BM25Searcher)

// WithBM25Index sets the BM25 index backend.
func WithBM25Index(idx store.BM25Index) BM25Option {
	return func(s *BM25Searcher) {
		s.index = idx
	}
}

// NewBM25Searcher creates a lexical searcher. Requires WithBM25Index.
func NewBM25Searcher(opts ...BM25Option) (*BM25Searcher, error) {
	s := &BM25Searcher{}

	for _, opt := range opts {
		opt(s)
	}

	if s.index == nil {
		return nil, ErrNilBM25Index
	}

	return s, nil
}

// Search executes a BM25 search and returns ranked results.
func (s *BM25Searcher) Search(ctx context.Context, query string, limit int) ([]*store.BM25Result, error) {
	results, err := s.index.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("BM25 search failed: %w", err)
	}
	return results, nil
}
