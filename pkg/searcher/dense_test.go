package searcher

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutar/city-guide-sub000/internal/embed"
	"github.com/tutar/city-guide-sub000/internal/store"
)

func TestNewDenseSearcher_RequiresDependencies(t *testing.T) {
	_, err := NewDenseSearcher()
	assert.ErrorIs(t, err, ErrNilEmbedder)

	_, err = NewDenseSearcher(WithDenseEmbedder(embed.NewStaticEmbedder()))
	assert.ErrorIs(t, err, ErrNilVectorStore)
}

func TestDenseSearcher_EndToEnd(t *testing.T) {
	// Given: a vector store populated with static embeddings
	embedder := embed.NewStaticEmbedder()
	defer embedder.Close()

	vs, err := store.NewHNSWStore(store.DefaultVectorStoreConfig(embedder.Dimensions()))
	require.NoError(t, err)
	defer vs.Close()

	texts := map[string]string{
		"doc-trash":    "household waste collection schedule and sorting rules",
		"doc-passport": "passport renewal application at the city office",
	}
	for id, text := range texts {
		vec, err := embedder.Embed(context.Background(), text)
		require.NoError(t, err)
		require.NoError(t, vs.Add(context.Background(), []string{id}, [][]float32{vec}))
	}

	s, err := NewDenseSearcher(WithDenseEmbedder(embedder), WithDenseVectorStore(vs))
	require.NoError(t, err)

	// When: querying with wording close to one document
	results, err := s.Search(context.Background(), "waste collection schedule", 2)
	require.NoError(t, err)

	// Then: the matching document ranks first
	require.NotEmpty(t, results)
	assert.Equal(t, "doc-trash", results[0].ID)
}

// failingEmbedder always errors, standing in for an unreachable API.
type failingEmbedder struct {
	*embed.StaticEmbedder
}

func (f *failingEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return nil, fmt.Errorf("connection refused")
}

func TestDenseSearcher_EmbedFailure(t *testing.T) {
	vs, err := store.NewHNSWStore(store.DefaultVectorStoreConfig(embed.StaticDimensions))
	require.NoError(t, err)
	defer vs.Close()

	s, err := NewDenseSearcher(
		WithDenseEmbedder(&failingEmbedder{embed.NewStaticEmbedder()}),
		WithDenseVectorStore(vs),
	)
	require.NoError(t, err)

	_, err = s.Search(context.Background(), "anything", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedding query failed")
}
