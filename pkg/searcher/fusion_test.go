package searcher

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutar/city-guide-sub000/internal/search"
	"github.com/tutar/city-guide-sub000/internal/store"
)

// fakeLexical returns canned BM25 results or an error.
type fakeLexical struct {
	results []*store.BM25Result
	err     error
	calls   int64
}

func (f *fakeLexical) Search(_ context.Context, _ string, _ int) ([]*store.BM25Result, error) {
	atomic.AddInt64(&f.calls, 1)
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

// fakeDense returns canned vector results or an error.
type fakeDense struct {
	results []*store.VectorResult
	err     error
	calls   int64
}

func (f *fakeDense) Search(_ context.Context, _ string, _ int) ([]*store.VectorResult, error) {
	atomic.AddInt64(&f.calls, 1)
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

// fakeCatalog serves entries from a map.
type fakeCatalog struct {
	entries map[string]*store.CatalogEntry
	err     error
}

func (f *fakeCatalog) SaveDocuments(_ context.Context, _ []*store.CatalogEntry) error { return nil }
func (f *fakeCatalog) GetDocument(_ context.Context, id string) (*store.CatalogEntry, error) {
	return f.entries[id], nil
}
func (f *fakeCatalog) GetDocuments(_ context.Context, ids []string) ([]*store.CatalogEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*store.CatalogEntry
	for _, id := range ids {
		if e, ok := f.entries[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}
func (f *fakeCatalog) ListDocuments(_ context.Context) ([]*store.CatalogEntry, error) {
	return nil, nil
}
func (f *fakeCatalog) DeleteDocument(_ context.Context, _ string) (bool, error) { return false, nil }
func (f *fakeCatalog) Count(_ context.Context) (int, error)                     { return len(f.entries), nil }
func (f *fakeCatalog) Close() error                                             { return nil }

func lexResults(ids ...string) []*store.BM25Result {
	out := make([]*store.BM25Result, len(ids))
	for i, id := range ids {
		out[i] = &store.BM25Result{DocID: id, Score: float64(len(ids) - i), Rank: i + 1}
	}
	return out
}

func denseResults(ids ...string) []*store.VectorResult {
	out := make([]*store.VectorResult, len(ids))
	for i, id := range ids {
		out[i] = &store.VectorResult{ID: id, Score: float32(1.0 - 0.1*float32(i))}
	}
	return out
}

func TestNewFusionSearcher_RequiresAPath(t *testing.T) {
	_, err := NewFusionSearcher()
	assert.ErrorIs(t, err, ErrNoSearchers)
}

func TestFusionSearcher_EmptyQuery(t *testing.T) {
	f, err := NewFusionSearcher(WithLexical(&fakeLexical{}))
	require.NoError(t, err)

	_, err = f.Search(context.Background(), "   ", DefaultOptions())
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestFusionSearcher_HybridFavorsAgreement(t *testing.T) {
	// Given: doc-b ranked by both paths, doc-a and doc-c by one each
	f, err := NewFusionSearcher(
		WithLexical(&fakeLexical{results: lexResults("doc-a", "doc-b")}),
		WithDense(&fakeDense{results: denseResults("doc-b", "doc-c")}),
	)
	require.NoError(t, err)

	// When: searching in hybrid mode
	resp, err := f.Search(context.Background(), "garbage collection", DefaultOptions())
	require.NoError(t, err)

	// Then: doc-b wins with contributions from both lists
	require.Len(t, resp.Hits, 3)
	assert.Equal(t, "doc-b", resp.Hits[0].ID)
	assert.ElementsMatch(t, []string{"lexical", "dense"}, resp.Hits[0].Sources)
	assert.False(t, resp.Degraded)

	// 1/(60+2) from lexical plus 1/(60+1) from dense
	expected := 1.0/62.0 + 1.0/61.0
	assert.InDelta(t, expected, resp.Hits[0].Score, 1e-12)
}

func TestFusionSearcher_DegradesWhenDenseFails(t *testing.T) {
	f, err := NewFusionSearcher(
		WithLexical(&fakeLexical{results: lexResults("doc-a", "doc-b")}),
		WithDense(&fakeDense{err: fmt.Errorf("embedding API down")}),
	)
	require.NoError(t, err)

	resp, err := f.Search(context.Background(), "parking permit", DefaultOptions())
	require.NoError(t, err)

	// Lexical ordering survives untouched
	require.Len(t, resp.Hits, 2)
	assert.Equal(t, "doc-a", resp.Hits[0].ID)
	assert.Equal(t, "doc-b", resp.Hits[1].ID)
	assert.True(t, resp.Degraded)
	assert.Equal(t, []string{"dense"}, resp.DegradedSources)
}

func TestFusionSearcher_DegradesWhenLexicalFails(t *testing.T) {
	f, err := NewFusionSearcher(
		WithLexical(&fakeLexical{err: fmt.Errorf("index closed")}),
		WithDense(&fakeDense{results: denseResults("doc-c", "doc-d")}),
	)
	require.NoError(t, err)

	resp, err := f.Search(context.Background(), "library hours", DefaultOptions())
	require.NoError(t, err)

	require.Len(t, resp.Hits, 2)
	assert.Equal(t, "doc-c", resp.Hits[0].ID)
	assert.True(t, resp.Degraded)
	assert.Equal(t, []string{"lexical"}, resp.DegradedSources)
}

func TestFusionSearcher_ErrorWhenAllPathsFail(t *testing.T) {
	f, err := NewFusionSearcher(
		WithLexical(&fakeLexical{err: fmt.Errorf("lex boom")}),
		WithDense(&fakeDense{err: fmt.Errorf("dense boom")}),
	)
	require.NoError(t, err)

	_, err = f.Search(context.Background(), "anything", DefaultOptions())
	assert.ErrorIs(t, err, ErrRetrievalFailed)
}

func TestFusionSearcher_LexicalOnlyOption(t *testing.T) {
	dense := &fakeDense{results: denseResults("doc-z")}
	f, err := NewFusionSearcher(
		WithLexical(&fakeLexical{results: lexResults("doc-a")}),
		WithDense(dense),
	)
	require.NoError(t, err)

	resp, err := f.Search(context.Background(), "passport", Options{UseLexical: true})
	require.NoError(t, err)

	require.Len(t, resp.Hits, 1)
	assert.Equal(t, "doc-a", resp.Hits[0].ID)
	assert.Zero(t, atomic.LoadInt64(&dense.calls))
}

func TestFusionSearcher_ZeroOptionsMeansHybrid(t *testing.T) {
	lex := &fakeLexical{results: lexResults("doc-a")}
	dense := &fakeDense{results: denseResults("doc-b")}
	f, err := NewFusionSearcher(WithLexical(lex), WithDense(dense))
	require.NoError(t, err)

	resp, err := f.Search(context.Background(), "dog license", Options{})
	require.NoError(t, err)

	assert.Len(t, resp.Hits, 2)
	assert.EqualValues(t, 1, atomic.LoadInt64(&lex.calls))
	assert.EqualValues(t, 1, atomic.LoadInt64(&dense.calls))
}

func TestFusionSearcher_LimitCapped(t *testing.T) {
	ids := make([]string, 30)
	for i := range ids {
		ids[i] = fmt.Sprintf("doc-%02d", i)
	}
	f, err := NewFusionSearcher(
		WithLexical(&fakeLexical{results: lexResults(ids...)}),
		WithLimits(5, 10),
	)
	require.NoError(t, err)

	// Zero limit uses the default
	resp, err := f.Search(context.Background(), "q", Options{UseLexical: true})
	require.NoError(t, err)
	assert.Len(t, resp.Hits, 5)

	// Oversized limit is capped at the maximum
	resp, err = f.Search(context.Background(), "q", Options{UseLexical: true, Limit: 500})
	require.NoError(t, err)
	assert.Len(t, resp.Hits, 10)
}

func TestFusionSearcher_CacheSkipsPaths(t *testing.T) {
	lex := &fakeLexical{results: lexResults("doc-a")}
	f, err := NewFusionSearcher(
		WithLexical(lex),
		WithResultCache(search.NewResultCache(0, 0)),
	)
	require.NoError(t, err)

	_, err = f.Search(context.Background(), "snow removal", Options{UseLexical: true})
	require.NoError(t, err)
	resp, err := f.Search(context.Background(), "snow removal", Options{UseLexical: true})
	require.NoError(t, err)

	assert.Len(t, resp.Hits, 1)
	assert.EqualValues(t, 1, atomic.LoadInt64(&lex.calls))
}

func TestFusionSearcher_DegradedResponseNotCached(t *testing.T) {
	// Given: a dense path that fails on the first call only
	lex := &fakeLexical{results: lexResults("doc-a")}
	dense := &fakeDense{err: fmt.Errorf("temporarily down")}
	f, err := NewFusionSearcher(
		WithLexical(lex),
		WithDense(dense),
		WithResultCache(search.NewResultCache(0, 0)),
	)
	require.NoError(t, err)

	resp, err := f.Search(context.Background(), "bus routes", DefaultOptions())
	require.NoError(t, err)
	assert.True(t, resp.Degraded)

	// When: the dense path recovers
	dense.err = nil
	dense.results = denseResults("doc-b")

	resp, err = f.Search(context.Background(), "bus routes", DefaultOptions())
	require.NoError(t, err)

	// Then: the second request ran the paths again and is not degraded
	assert.False(t, resp.Degraded)
	assert.Len(t, resp.Hits, 2)
}

func TestFusionSearcher_CatalogEnrichment(t *testing.T) {
	catalog := &fakeCatalog{entries: map[string]*store.CatalogEntry{
		"doc-a": {ID: "doc-a", Title: "Passport renewal", SourceURL: "https://city.example/passport", Category: "documents"},
	}}
	f, err := NewFusionSearcher(
		WithLexical(&fakeLexical{results: lexResults("doc-a", "doc-x")}),
		WithCatalog(catalog),
	)
	require.NoError(t, err)

	resp, err := f.Search(context.Background(), "passport", Options{UseLexical: true})
	require.NoError(t, err)

	require.Len(t, resp.Hits, 2)
	assert.Equal(t, "Passport renewal", resp.Hits[0].Title)
	assert.Equal(t, "https://city.example/passport", resp.Hits[0].SourceURL)
	assert.Equal(t, "documents", resp.Hits[0].Category)
	// Unknown IDs stay unenriched but keep their rank
	assert.Empty(t, resp.Hits[1].Title)
}

func TestFusionSearcher_CatalogFailureIsBestEffort(t *testing.T) {
	catalog := &fakeCatalog{err: fmt.Errorf("db locked")}
	f, err := NewFusionSearcher(
		WithLexical(&fakeLexical{results: lexResults("doc-a")}),
		WithCatalog(catalog),
	)
	require.NoError(t, err)

	resp, err := f.Search(context.Background(), "voting", Options{UseLexical: true})
	require.NoError(t, err)
	require.Len(t, resp.Hits, 1)
	assert.Equal(t, "doc-a", resp.Hits[0].ID)
}
