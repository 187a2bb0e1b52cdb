package indexer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutar/city-guide-sub000/internal/embed"
	"github.com/tutar/city-guide-sub000/internal/store"
)

func newTestHybrid(t *testing.T) (*HybridIndexer, store.BM25Index, store.VectorStore) {
	t.Helper()

	idx := store.NewMemoryBM25Index(store.DefaultBM25Config())
	embedder := embed.NewStaticEmbedder()
	vs, err := store.NewHNSWStore(store.DefaultVectorStoreConfig(embedder.Dimensions()))
	require.NoError(t, err)

	bm25, err := NewBM25Indexer(WithIndex(idx))
	require.NoError(t, err)
	vector, err := NewVectorIndexer(WithEmbedder(embedder), WithVectorStore(vs))
	require.NoError(t, err)

	hybrid, err := NewHybridIndexer(WithBM25(bm25), WithVector(vector))
	require.NoError(t, err)
	t.Cleanup(func() { _ = hybrid.Close() })

	return hybrid, idx, vs
}

func testDocs() []*store.Document {
	return []*store.Document{
		{ID: "doc-waste", Title: "Waste collection", Content: "household waste is collected every tuesday morning"},
		{ID: "doc-park", Title: "Parking permits", Content: "resident parking permits are issued at city hall"},
	}
}

func TestNewHybridIndexer_RequiresComponent(t *testing.T) {
	_, err := NewHybridIndexer()
	assert.ErrorIs(t, err, ErrNoIndexers)
}

func TestHybridIndexer_IndexWritesBothSides(t *testing.T) {
	// Given: a hybrid indexer over fresh stores
	hybrid, idx, vs := newTestHybrid(t)

	// When: indexing two documents
	require.NoError(t, hybrid.Index(context.Background(), testDocs()))

	// Then: both indexes hold them
	assert.Equal(t, 2, idx.Stats().DocumentCount)
	assert.Equal(t, 2, vs.Count())
	assert.True(t, vs.Contains("doc-waste"))
}

func TestHybridIndexer_Reindex_ReplacesContent(t *testing.T) {
	hybrid, idx, vs := newTestHybrid(t)
	require.NoError(t, hybrid.Index(context.Background(), testDocs()))

	updated := []*store.Document{
		{ID: "doc-waste", Title: "Waste collection", Content: "collection moves to wednesday"},
	}
	require.NoError(t, hybrid.Index(context.Background(), updated))

	// Counts are unchanged, content replaced
	assert.Equal(t, 2, idx.Stats().DocumentCount)
	assert.Equal(t, 2, vs.Count())

	results, err := idx.Search(context.Background(), "wednesday", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "doc-waste", results[0].DocID)
}

func TestHybridIndexer_Delete(t *testing.T) {
	hybrid, idx, vs := newTestHybrid(t)
	require.NoError(t, hybrid.Index(context.Background(), testDocs()))

	require.NoError(t, hybrid.Delete(context.Background(), []string{"doc-waste", "doc-missing"}))

	assert.Equal(t, 1, idx.Stats().DocumentCount)
	assert.Equal(t, 1, vs.Count())
	assert.False(t, vs.Contains("doc-waste"))
}

func TestHybridIndexer_Clear(t *testing.T) {
	hybrid, idx, vs := newTestHybrid(t)
	require.NoError(t, hybrid.Index(context.Background(), testDocs()))

	require.NoError(t, hybrid.Clear(context.Background()))

	assert.Zero(t, idx.Stats().DocumentCount)
	assert.Zero(t, vs.Count())
}

func TestHybridIndexer_Stats(t *testing.T) {
	hybrid, _, _ := newTestHybrid(t)
	require.NoError(t, hybrid.Index(context.Background(), testDocs()))

	stats := hybrid.Stats()
	assert.Equal(t, 2, stats.DocumentCount)
	assert.Greater(t, stats.TermCount, 0)
	assert.Greater(t, stats.AvgDocLength, 0.0)
}

func TestHybridIndexer_EmptyBatchIsNoOp(t *testing.T) {
	hybrid, idx, _ := newTestHybrid(t)

	require.NoError(t, hybrid.Index(context.Background(), nil))
	require.NoError(t, hybrid.Delete(context.Background(), nil))
	assert.Zero(t, idx.Stats().DocumentCount)
}

func TestHybridIndexer_CloseIdempotent(t *testing.T) {
	hybrid, _, _ := newTestHybrid(t)

	require.NoError(t, hybrid.Close())
	require.NoError(t, hybrid.Close())
}
