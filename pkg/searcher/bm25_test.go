package searcher

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutar/city-guide-sub000/internal/store"
)

func TestNewBM25Searcher_RequiresIndex(t *testing.T) {
	_, err := NewBM25Searcher()
	assert.ErrorIs(t, err, ErrNilBM25Index)
}

func TestBM25Searcher_Search(t *testing.T) {
	// Given: a populated index
	idx := store.NewMemoryBM25Index(store.DefaultBM25Config())
	defer idx.Close()

	docs := []*store.Document{
		{ID: "doc-a", Title: "Waste collection", Content: "household waste is collected every tuesday"},
		{ID: "doc-b", Title: "Dog registration", Content: "register your dog at the city office"},
	}
	require.NoError(t, idx.IndexDocuments(context.Background(), docs))

	s, err := NewBM25Searcher(WithBM25Index(idx))
	require.NoError(t, err)

	// When: searching for a term from one document
	results, err := s.Search(context.Background(), "waste tuesday", 10)
	require.NoError(t, err)

	// Then: only that document matches, with rank assigned
	require.Len(t, results, 1)
	assert.Equal(t, "doc-a", results[0].DocID)
	assert.Equal(t, 1, results[0].Rank)
	assert.Greater(t, results[0].Score, 0.0)
}
