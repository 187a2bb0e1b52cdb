package embed

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticEmbedder_Deterministic(t *testing.T) {
	// Given: a static embedder
	e := NewStaticEmbedder()
	defer e.Close()

	// When: embedding the same text twice
	v1, err := e.Embed(context.Background(), "how do I renew my passport")
	require.NoError(t, err)
	v2, err := e.Embed(context.Background(), "how do I renew my passport")
	require.NoError(t, err)

	// Then: the vectors are identical
	assert.Equal(t, v1, v2)
}

func TestStaticEmbedder_Dimensions(t *testing.T) {
	e := NewStaticEmbedder()
	defer e.Close()

	assert.Equal(t, StaticDimensions, e.Dimensions())

	v, err := e.Embed(context.Background(), "waste collection schedule")
	require.NoError(t, err)
	assert.Len(t, v, StaticDimensions)
}

func TestStaticEmbedder_UnitNorm(t *testing.T) {
	// Given: a non-empty text
	e := NewStaticEmbedder()
	defer e.Close()

	v, err := e.Embed(context.Background(), "resident parking permit application")
	require.NoError(t, err)

	// Then: the embedding has unit length
	var sumSquares float64
	for _, val := range v {
		sumSquares += float64(val) * float64(val)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sumSquares), 1e-5)
}

func TestStaticEmbedder_EmptyText(t *testing.T) {
	e := NewStaticEmbedder()
	defer e.Close()

	v, err := e.Embed(context.Background(), "   ")
	require.NoError(t, err)
	assert.Len(t, v, StaticDimensions)
	for _, val := range v {
		assert.Zero(t, val)
	}
}

func TestStaticEmbedder_DifferentTextsDiffer(t *testing.T) {
	e := NewStaticEmbedder()
	defer e.Close()

	v1, err := e.Embed(context.Background(), "passport renewal")
	require.NoError(t, err)
	v2, err := e.Embed(context.Background(), "library opening hours")
	require.NoError(t, err)

	assert.NotEqual(t, v1, v2)
}

func TestStaticEmbedder_CJKText(t *testing.T) {
	// CJK input must produce a usable vector, not an all-zero one.
	e := NewStaticEmbedder()
	defer e.Close()

	v, err := e.Embed(context.Background(), "住民票の写しの請求")
	require.NoError(t, err)

	var nonZero bool
	for _, val := range v {
		if val != 0 {
			nonZero = true
			break
		}
	}
	assert.True(t, nonZero)
}

func TestStaticEmbedder_EmbedBatch(t *testing.T) {
	e := NewStaticEmbedder()
	defer e.Close()

	texts := []string{"trash pickup", "dog license", "trash pickup"}
	vecs, err := e.EmbedBatch(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, vecs, 3)

	// Same text, same vector
	assert.Equal(t, vecs[0], vecs[2])
	assert.NotEqual(t, vecs[0], vecs[1])
}

func TestStaticEmbedder_EmbedBatch_Empty(t *testing.T) {
	e := NewStaticEmbedder()
	defer e.Close()

	vecs, err := e.EmbedBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, vecs)
}

func TestStaticEmbedder_Closed(t *testing.T) {
	e := NewStaticEmbedder()
	require.NoError(t, e.Close())

	_, err := e.Embed(context.Background(), "anything")
	assert.Error(t, err)
	assert.False(t, e.Available(context.Background()))
}
