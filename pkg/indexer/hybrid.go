package indexer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/tutar/city-guide-sub000/internal/store"
)

// HybridIndexer fans writes out to the lexical and vector indexers.
// Either component may be nil for single-index deployments.
//
// Index and Clear fail fast so both indexes stay consistent for the
// current batch. Delete is best effort: an orphaned entry in one index
// is filtered at search time and removed on the next full rebuild.
type HybridIndexer struct {
	bm25   Indexer
	vector Indexer

	mu     sync.Mutex
	closed bool
}

// HybridOption configures a HybridIndexer.
type HybridOption func(*HybridIndexer)

// WithBM25 sets the lexical indexer component.
func WithBM25(idx Indexer) HybridOption {
	return func(h *HybridIndexer) {
		h.bm25 = idx
	}
}

// WithVector sets the vector indexer component.
func WithVector(idx Indexer) HybridOption {
	return func(h *HybridIndexer) {
		h.vector = idx
	}
}

// NewHybridIndexer creates a hybrid indexer. At least one component
// must be provided.
func NewHybridIndexer(opts ...HybridOption) (*HybridIndexer, error) {
	h := &HybridIndexer{}

	for _, opt := range opts {
		opt(h)
	}

	if h.bm25 == nil && h.vector == nil {
		return nil, ErrNoIndexers
	}

	return h, nil
}

// Index sends documents to both indexers, lexical first.
func (h *HybridIndexer) Index(ctx context.Context, docs []*store.Document) error {
	if len(docs) == 0 {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.bm25 != nil {
		if err := h.bm25.Index(ctx, docs); err != nil {
			return fmt.Errorf("hybrid bm25 index: %w", err)
		}
	}
	if h.vector != nil {
		if err := h.vector.Index(ctx, docs); err != nil {
			return fmt.Errorf("hybrid vector index: %w", err)
		}
	}
	return nil
}

// Delete removes documents from both indexers, attempting both even if
// one fails.
func (h *HybridIndexer) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	var errs []error
	if h.bm25 != nil {
		if err := h.bm25.Delete(ctx, ids); err != nil {
			errs = append(errs, fmt.Errorf("hybrid bm25 delete: %w", err))
		}
	}
	if h.vector != nil {
		if err := h.vector.Delete(ctx, ids); err != nil {
			errs = append(errs, fmt.Errorf("hybrid vector delete: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Clear empties both indexes.
func (h *HybridIndexer) Clear(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.bm25 != nil {
		if err := h.bm25.Clear(ctx); err != nil {
			return fmt.Errorf("hybrid bm25 clear: %w", err)
		}
	}
	if h.vector != nil {
		if err := h.vector.Clear(ctx); err != nil {
			return fmt.Errorf("hybrid vector clear: %w", err)
		}
	}
	return nil
}

// Stats aggregates statistics. Term info comes from the lexical index;
// the document count is the larger of the two, which only diverges when
// the indexes are inconsistent.
func (h *HybridIndexer) Stats() IndexStats {
	var stats IndexStats

	if h.bm25 != nil {
		stats = h.bm25.Stats()
	}
	if h.vector != nil {
		if c := h.vector.Stats().DocumentCount; c > stats.DocumentCount {
			stats.DocumentCount = c
		}
	}
	return stats
}

// Close closes both components, accumulating errors.
func (h *HybridIndexer) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true

	var errs []error
	if h.bm25 != nil {
		if err := h.bm25.Close(); err != nil {
			errs = append(errs, fmt.Errorf("hybrid bm25 close: %w", err))
		}
	}
	if h.vector != nil {
		if err := h.vector.Close(); err != nil {
			errs = append(errs, fmt.Errorf("hybrid vector close: %w", err))
		}
	}
	return errors.Join(errs...)
}

var _ Indexer = (*HybridIndexer)(nil)
