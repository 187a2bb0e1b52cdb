// Package search provides the rank-fusion stage of hybrid retrieval.
// Lexical (BM25) and dense (vector) rankings are merged with Reciprocal
// Rank Fusion (RRF), which combines lists by rank position rather than raw
// score — BM25 scores and cosine similarities live on incomparable scales.
package search

import (
	"sort"

	"github.com/tutar/city-guide-sub000/internal/store"
)

// DefaultRRFConstant is the standard RRF smoothing parameter. k=60 is the
// widely used default; a larger constant flattens the influence of top ranks.
const DefaultRRFConstant = 60

// Weights scale each source's RRF contribution. Equal weights keep the
// fusion purely rank-based; deployments wanting to bias one retriever can
// tune them per config.
type Weights struct {
	Lexical float64
	Dense   float64
}

// DefaultWeights treats both retrievers symmetrically.
func DefaultWeights() Weights {
	return Weights{Lexical: 1.0, Dense: 1.0}
}

// FusedResult is a single result after RRF fusion.
type FusedResult struct {
	DocID       string
	FusedScore  float64 // Sum of per-list RRF contributions
	LexScore    float64 // Original BM25 score (preserved, not comparable)
	LexRank     int     // Position in the lexical list (1-indexed, 0 if absent)
	DenseScore  float64 // Original similarity score (preserved)
	DenseRank   int     // Position in the dense list (1-indexed, 0 if absent)
	InBothLists bool
}

// bestRank returns the smaller of the two input-list ranks, ignoring
// absence. Used for deterministic tie-breaking.
func (r *FusedResult) bestRank() int {
	switch {
	case r.LexRank == 0:
		return r.DenseRank
	case r.DenseRank == 0:
		return r.LexRank
	case r.LexRank < r.DenseRank:
		return r.LexRank
	default:
		return r.DenseRank
	}
}

// RRFFusion merges two ranked lists using Reciprocal Rank Fusion:
//
//	fused(d) = Σ weight_i / (k + rank_i)
//
// summed over the lists that contain d, with rank 1-indexed. A document
// missing from a list simply receives no contribution from it.
type RRFFusion struct {
	K int
}

// NewRRFFusion creates a fusion instance. A non-positive k falls back to
// the default of 60.
func NewRRFFusion(k int) *RRFFusion {
	if k <= 0 {
		k = DefaultRRFConstant
	}
	return &RRFFusion{K: k}
}

// Fuse combines lexical and dense results. Either list may be empty; both
// empty yields an empty (non-nil) slice. Ordering is fused score
// descending, then best input rank ascending, then document ID — fully
// deterministic across runs.
func (f *RRFFusion) Fuse(lexical []*store.BM25Result, dense []*store.VectorResult, weights Weights) []*FusedResult {
	if len(lexical) == 0 && len(dense) == 0 {
		return []*FusedResult{}
	}

	merged := make(map[string]*FusedResult, len(lexical)+len(dense))

	for rank, r := range lexical {
		result := f.getOrCreate(merged, r.DocID)
		result.LexScore = r.Score
		result.LexRank = rank + 1
		result.FusedScore += weights.Lexical / float64(f.K+rank+1)
	}

	for rank, r := range dense {
		result := f.getOrCreate(merged, r.ID)
		result.DenseScore = float64(r.Score)
		result.DenseRank = rank + 1
		result.FusedScore += weights.Dense / float64(f.K+rank+1)
		if result.LexRank > 0 {
			result.InBothLists = true
		}
	}

	results := make([]*FusedResult, 0, len(merged))
	for _, r := range merged {
		results = append(results, r)
	}

	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.FusedScore != b.FusedScore {
			return a.FusedScore > b.FusedScore
		}
		if ar, br := a.bestRank(), b.bestRank(); ar != br {
			return ar < br
		}
		return a.DocID < b.DocID
	})

	return results
}

func (f *RRFFusion) getOrCreate(m map[string]*FusedResult, id string) *FusedResult {
	if r, ok := m[id]; ok {
		return r
	}
	r := &FusedResult{DocID: id}
	m[id] = r
	return r
}

// Truncate returns at most limit results.
func Truncate(results []*FusedResult, limit int) []*FusedResult {
	if limit >= 0 && len(results) > limit {
		return results[:limit]
	}
	return results
}
