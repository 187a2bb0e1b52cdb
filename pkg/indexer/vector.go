package indexer

import (
	"context"
	"fmt"

	"github.com/tutar/city-guide-sub000/internal/embed"
	"github.com/tutar/city-guide-sub000/internal/errors"
	"github.com/tutar/city-guide-sub000/internal/store"
)

// VectorIndexer embeds documents and maintains the vector store.
// Embedding batches retry with backoff since the provider may sit
// across the network. Thread-safe for concurrent use.
type VectorIndexer struct {
	embedder  embed.Embedder
	store     store.VectorStore
	batchSize int
	retry     errors.RetryConfig
}

// VectorOption configures VectorIndexer.
type VectorOption func(*VectorIndexer)

// WithEmbedder sets the embedder.
func WithEmbedder(e embed.Embedder) VectorOption {
	return func(i *VectorIndexer) {
		i.embedder = e
	}
}

// WithVectorStore sets the vector store backend.
func WithVectorStore(vs store.VectorStore) VectorOption {
	return func(i *VectorIndexer) {
		i.store = vs
	}
}

// WithBatchSize overrides the embedding batch size.
func WithBatchSize(n int) VectorOption {
	return func(i *VectorIndexer) {
		if n > 0 && n <= embed.MaxBatchSize {
			i.batchSize = n
		}
	}
}

// WithRetryConfig overrides the embedding retry policy.
func WithRetryConfig(cfg errors.RetryConfig) VectorOption {
	return func(i *VectorIndexer) {
		i.retry = cfg
	}
}

// NewVectorIndexer creates a vector indexer. Requires WithEmbedder and
// WithVectorStore.
func NewVectorIndexer(opts ...VectorOption) (*VectorIndexer, error) {
	i := &VectorIndexer{
		batchSize: embed.DefaultBatchSize,
		retry:     errors.DefaultRetryConfig(),
	}

	for _, opt := range opts {
		opt(i)
	}

	if i.embedder == nil {
		return nil, ErrNilEmbedder
	}
	if i.store == nil {
		return nil, ErrNilVectorStore
	}

	return i, nil
}

// Index embeds documents in batches and stores their vectors.
func (i *VectorIndexer) Index(ctx context.Context, docs []*store.Document) error {
	if len(docs) == 0 {
		return nil
	}

	for start := 0; start < len(docs); start += i.batchSize {
		end := start + i.batchSize
		if end > len(docs) {
			end = len(docs)
		}
		batch := docs[start:end]

		ids := make([]string, len(batch))
		texts := make([]string, len(batch))
		for j, doc := range batch {
			ids[j] = doc.ID
			texts[j] = doc.Text()
		}

		vectors, err := errors.RetryWithResult(ctx, i.retry, func() ([][]float32, error) {
			return i.embedder.EmbedBatch(ctx, texts)
		})
		if err != nil {
			return fmt.Errorf("vector index: embedding batch failed: %w", err)
		}

		if err := i.store.Add(ctx, ids, vectors); err != nil {
			return fmt.Errorf("vector index: store add failed: %w", err)
		}
	}

	return nil
}

// Delete removes vectors by ID. Unknown IDs are ignored.
func (i *VectorIndexer) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return i.store.Delete(ctx, ids)
}

// Clear removes all vectors.
func (i *VectorIndexer) Clear(ctx context.Context) error {
	return i.store.Clear(ctx)
}

// Stats returns the vector count.
func (i *VectorIndexer) Stats() IndexStats {
	return IndexStats{DocumentCount: i.store.Count()}
}

// Close closes the store and the embedder.
func (i *VectorIndexer) Close() error {
	storeErr := i.store.Close()
	embedErr := i.embedder.Close()
	if storeErr != nil {
		return storeErr
	}
	return embedErr
}

var _ Indexer = (*VectorIndexer)(nil)
