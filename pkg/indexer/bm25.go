package indexer

import (
	"context"
	"fmt"

	"github.com/tutar/city-guide-sub000/internal/store"
)

// BM25Indexer maintains the lexical index. It wraps a store.BM25Index
// and applies writes incrementally so searches stay available during
// updates. Thread-safe for concurrent use.
type BM25Indexer struct {
	index store.BM25Index
}

// BM25Option configures BM25Indexer.
type BM25Option func(*BM25Indexer)

// WithIndex sets the BM25 index backend.
func WithIndex(idx store.BM25Index) BM25Option {
	return func(i *BM25Indexer) {
		i.index = idx
	}
}

// NewBM25Indexer creates a lexical indexer. Requires WithIndex.
func NewBM25Indexer(opts ...BM25Option) (*BM25Indexer, error) {
	i := &BM25Indexer{}

	for _, opt := range opts {
		opt(i)
	}

	if i.index == nil {
		return nil, ErrNilIndex
	}

	return i, nil
}

// Index adds documents incrementally.
func (i *BM25Indexer) Index(ctx context.Context, docs []*store.Document) error {
	if len(docs) == 0 {
		return nil
	}

	for _, doc := range docs {
		if err := i.index.AddDocument(ctx, doc); err != nil {
			return fmt.Errorf("bm25 index %q: %w", doc.ID, err)
		}
	}
	return nil
}

// Delete removes documents by ID. Unknown IDs are ignored.
func (i *BM25Indexer) Delete(ctx context.Context, ids []string) error {
	for _, id := range ids {
		if _, err := i.index.RemoveDocument(ctx, id); err != nil {
			return fmt.Errorf("bm25 delete %q: %w", id, err)
		}
	}
	return nil
}

// Clear resets the index to empty.
func (i *BM25Indexer) Clear(ctx context.Context) error {
	return i.index.IndexDocuments(ctx, nil)
}

// Stats returns lexical index statistics.
func (i *BM25Indexer) Stats() IndexStats {
	s := i.index.Stats()
	return IndexStats{
		DocumentCount: s.DocumentCount,
		TermCount:     s.VocabularySize,
		AvgDocLength:  s.AvgDocLength,
	}
}

// Close closes the underlying index.
func (i *BM25Indexer) Close() error {
	return i.index.Close()
}

var _ Indexer = (*BM25Indexer)(nil)
