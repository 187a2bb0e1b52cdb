package store

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
)

// indexedDocument is a document accepted into the BM25 index, with its
// derived term statistics computed once at indexing time.
type indexedDocument struct {
	id        string
	termFreqs map[string]int
	length    int
	position  int // Insertion order, used for deterministic tie-breaking
}

// MemoryBM25Index is an in-memory BM25 index over service documents.
//
// It owns the corpus-wide term statistics: per-document term frequencies,
// global document frequencies, the vocabulary, and the average document
// length. All aggregates are kept coherent under a single RWMutex so a
// concurrent Search never pairs a document frequency from one corpus state
// with an average length from another.
type MemoryBM25Index struct {
	mu     sync.RWMutex
	config BM25Config

	docs      []*indexedDocument
	byID      map[string]int // id -> index into docs
	docFreqs  map[string]int // term -> number of documents containing it
	vocab     map[string]struct{}
	totalLen  int
	avgDocLen float64
	closed    bool
}

// Verify interface implementation at compile time.
var _ BM25Index = (*MemoryBM25Index)(nil)

// NewMemoryBM25Index creates an empty BM25 index. Zero config values fall
// back to the defaults (k1=1.5, b=0.75).
func NewMemoryBM25Index(config BM25Config) *MemoryBM25Index {
	if config.K1 <= 0 {
		config.K1 = DefaultBM25Config().K1
	}
	if config.B < 0 || config.B > 1 {
		config.B = DefaultBM25Config().B
	}
	idx := &MemoryBM25Index{config: config}
	idx.resetLocked()
	return idx
}

// resetLocked clears all index state. Caller must hold the write lock
// (or own the index exclusively, as in the constructor).
func (idx *MemoryBM25Index) resetLocked() {
	idx.docs = idx.docs[:0]
	idx.byID = make(map[string]int)
	idx.docFreqs = make(map[string]int)
	idx.vocab = make(map[string]struct{})
	idx.totalLen = 0
	idx.avgDocLen = 0
}

// IndexDocuments replaces the entire index content with docs. No state from
// a prior corpus survives. An empty slice leaves an empty, searchable index.
func (idx *MemoryBM25Index) IndexDocuments(ctx context.Context, docs []*Document) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.closed {
		return fmt.Errorf("bm25 index is closed")
	}

	seen := make(map[string]struct{}, len(docs))
	for _, doc := range docs {
		if doc == nil || doc.ID == "" {
			return fmt.Errorf("bm25 index: document without id")
		}
		if _, dup := seen[doc.ID]; dup {
			return fmt.Errorf("bm25 index: duplicate document id %q", doc.ID)
		}
		seen[doc.ID] = struct{}{}
	}

	idx.resetLocked()
	for _, doc := range docs {
		idx.addLocked(doc)
	}
	idx.recomputeAvgLocked()

	return nil
}

// AddDocument appends one document incrementally. The resulting index state
// is identical, for scoring purposes, to a full reindex that includes the
// document. Re-adding an existing ID replaces the previous version.
func (idx *MemoryBM25Index) AddDocument(ctx context.Context, doc *Document) error {
	if doc == nil || doc.ID == "" {
		return fmt.Errorf("bm25 index: document without id")
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.closed {
		return fmt.Errorf("bm25 index is closed")
	}

	if _, exists := idx.byID[doc.ID]; exists {
		idx.removeLocked(doc.ID)
	}
	idx.addLocked(doc)
	idx.recomputeAvgLocked()

	return nil
}

// RemoveDocument removes a document and its contribution to the aggregate
// statistics. Terms whose document frequency drops to zero leave the
// vocabulary. Returns false without touching state if the ID is unknown.
func (idx *MemoryBM25Index) RemoveDocument(ctx context.Context, id string) (bool, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.closed {
		return false, fmt.Errorf("bm25 index is closed")
	}

	if _, exists := idx.byID[id]; !exists {
		return false, nil
	}

	idx.removeLocked(id)
	idx.recomputeAvgLocked()
	return true, nil
}

// addLocked tokenizes and appends a document. Caller holds the write lock
// and has verified the ID is not already indexed.
func (idx *MemoryBM25Index) addLocked(doc *Document) {
	tokens := Tokenize(doc.Text())
	d := &indexedDocument{
		id:        doc.ID,
		termFreqs: TermFrequencies(tokens),
		length:    len(tokens),
		position:  len(idx.docs),
	}

	idx.byID[doc.ID] = len(idx.docs)
	idx.docs = append(idx.docs, d)
	idx.totalLen += d.length

	for term := range d.termFreqs {
		idx.docFreqs[term]++
		idx.vocab[term] = struct{}{}
	}
}

// removeLocked removes a known document. Caller holds the write lock.
func (idx *MemoryBM25Index) removeLocked(id string) {
	pos := idx.byID[id]
	d := idx.docs[pos]

	idx.docs = append(idx.docs[:pos], idx.docs[pos+1:]...)
	delete(idx.byID, id)
	for i := pos; i < len(idx.docs); i++ {
		idx.docs[i].position = i
		idx.byID[idx.docs[i].id] = i
	}

	idx.totalLen -= d.length
	for term := range d.termFreqs {
		idx.docFreqs[term]--
		if idx.docFreqs[term] == 0 {
			delete(idx.docFreqs, term)
			delete(idx.vocab, term)
		}
	}
}

// recomputeAvgLocked refreshes the average document length aggregate.
func (idx *MemoryBM25Index) recomputeAvgLocked() {
	if len(idx.docs) == 0 {
		idx.avgDocLen = 0
		return
	}
	idx.avgDocLen = float64(idx.totalLen) / float64(len(idx.docs))
}

// Search tokenizes the query and scores every document containing at least
// one query term. Documents with zero score are excluded. Results are
// ordered by descending score; ties keep the original insertion order.
// A limit below 1 is clamped to 1.
func (idx *MemoryBM25Index) Search(ctx context.Context, query string, limit int) ([]*BM25Result, error) {
	if limit < 1 {
		limit = 1
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.closed {
		return nil, fmt.Errorf("bm25 index is closed")
	}

	// Empty index: avgDocLen is 0, so short-circuit before any division.
	if len(idx.docs) == 0 {
		return []*BM25Result{}, nil
	}

	queryFreqs := TermFrequencies(Tokenize(query))
	if len(queryFreqs) == 0 {
		return []*BM25Result{}, nil
	}

	type scored struct {
		doc   *indexedDocument
		score float64
	}

	candidates := make([]scored, 0, len(idx.docs))
	for _, d := range idx.docs {
		score := idx.scoreLocked(queryFreqs, d)
		if score > 0 {
			candidates = append(candidates, scored{doc: d, score: score})
		}
	}

	// Stable sort preserves insertion order among equal scores, keeping
	// repeated searches deterministic.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	results := make([]*BM25Result, len(candidates))
	for i, c := range candidates {
		results[i] = &BM25Result{
			DocID: c.doc.id,
			Score: c.score,
			Rank:  i + 1,
		}
	}

	return results, nil
}

// scoreLocked computes the BM25 score of one document for the tokenized
// query. Each query term present in the document contributes
//
//	idf(t) * tf * (k1+1) / (tf + k1 * (1 - b + b*len/avgLen))
//
// multiplied by the term's frequency in the query.
func (idx *MemoryBM25Index) scoreLocked(queryFreqs map[string]int, d *indexedDocument) float64 {
	var score float64
	n := float64(len(idx.docs))
	lengthNorm := 1 - idx.config.B + idx.config.B*float64(d.length)/idx.avgDocLen

	for term, queryFreq := range queryFreqs {
		tf, ok := d.termFreqs[term]
		if !ok {
			continue
		}

		df := float64(idx.docFreqs[term])
		idf := math.Log((n-df+0.5)/(df+0.5) + 1.0)

		numerator := float64(tf) * (idx.config.K1 + 1)
		denominator := float64(tf) + idx.config.K1*lengthNorm

		score += idf * (numerator / denominator) * float64(queryFreq)
	}

	return score
}

// Stats returns a consistent snapshot of the index statistics.
func (idx *MemoryBM25Index) Stats() *IndexStats {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return &IndexStats{
		DocumentCount:  len(idx.docs),
		VocabularySize: len(idx.vocab),
		AvgDocLength:   idx.avgDocLen,
		TotalTerms:     idx.totalLen,
		K1:             idx.config.K1,
		B:              idx.config.B,
	}
}

// Close marks the index closed. Subsequent operations fail.
func (idx *MemoryBM25Index) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.closed = true
	return nil
}
