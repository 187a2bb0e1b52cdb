// Package ingest loads service documents from JSON corpus files into the
// catalog and rebuilds the search indexes from it. The catalog is the
// system of record; both indexes are derived state.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tutar/city-guide-sub000/internal/errors"
	"github.com/tutar/city-guide-sub000/internal/search"
	"github.com/tutar/city-guide-sub000/internal/store"
	"github.com/tutar/city-guide-sub000/pkg/indexer"
)

// corpusDocument is the on-disk JSON shape of one service document.
type corpusDocument struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	SourceURL string `json:"source_url"`
	Category  string `json:"category"`
}

// Loader ingests corpus files and keeps catalog and indexes in sync.
type Loader struct {
	catalog store.Catalog
	indexer indexer.Indexer
	cache   *search.ResultCache
	logger  *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithResultCache purges the given cache after every ingest.
func WithResultCache(c *search.ResultCache) LoaderOption {
	return func(l *Loader) {
		l.cache = c
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader creates a loader writing to the given catalog and indexer.
func NewLoader(catalog store.Catalog, idx indexer.Indexer, opts ...LoaderOption) (*Loader, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	if idx == nil {
		return nil, fmt.Errorf("indexer is required")
	}

	l := &Loader{
		catalog: catalog,
		indexer: idx,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// LoadDir ingests every .json file under dir (sorted by name for
// deterministic ordering), saves the documents to the catalog, and
// rebuilds both indexes from the catalog.
func (l *Loader) LoadDir(ctx context.Context, dir string) (int, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return 0, errors.New(errors.ErrCodeFileNotFound, fmt.Sprintf("scanning corpus dir %s", dir), err)
	}
	sort.Strings(paths)

	total := 0
	for _, path := range paths {
		n, err := l.loadFile(ctx, path)
		if err != nil {
			return total, err
		}
		total += n
	}

	if err := l.RebuildFromCatalog(ctx); err != nil {
		return total, err
	}

	l.logger.Info("corpus_loaded",
		slog.String("dir", dir),
		slog.Int("files", len(paths)),
		slog.Int("documents", total))
	return total, nil
}

// loadFile parses one corpus file and saves its documents to the catalog.
// Documents without an ID get a generated UUID.
func (l *Loader) loadFile(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, errors.New(errors.ErrCodeFileNotFound, fmt.Sprintf("reading corpus file %s", path), err)
	}

	var docs []corpusDocument
	if err := json.Unmarshal(data, &docs); err != nil {
		return 0, errors.New(errors.ErrCodeCorpusCorrupt, fmt.Sprintf("parsing corpus file %s", path), err)
	}

	now := time.Now().UTC()
	entries := make([]*store.CatalogEntry, 0, len(docs))
	for i, doc := range docs {
		if strings.TrimSpace(doc.Content) == "" {
			return 0, errors.ValidationError(
				fmt.Sprintf("document %d in %s has empty content", i, path), nil)
		}
		id := doc.ID
		if id == "" {
			id = uuid.NewString()
		}
		entries = append(entries, &store.CatalogEntry{
			ID:        id,
			Title:     doc.Title,
			Content:   doc.Content,
			SourceURL: doc.SourceURL,
			Category:  doc.Category,
			UpdatedAt: now,
		})
	}

	if err := l.catalog.SaveDocuments(ctx, entries); err != nil {
		return 0, errors.New(errors.ErrCodeCatalogFailed, fmt.Sprintf("saving documents from %s", path), err)
	}
	return len(entries), nil
}

// RebuildFromCatalog re-derives both indexes from the catalog and purges
// the query cache so stale rankings cannot outlive the ingest.
func (l *Loader) RebuildFromCatalog(ctx context.Context) error {
	entries, err := l.catalog.ListDocuments(ctx)
	if err != nil {
		return errors.New(errors.ErrCodeCatalogFailed, "listing catalog", err)
	}

	if err := l.indexer.Clear(ctx); err != nil {
		return errors.New(errors.ErrCodeIndexFailed, "clearing indexes", err)
	}

	docs := make([]*store.Document, len(entries))
	for i, e := range entries {
		docs[i] = e.Document()
	}
	if err := l.indexer.Index(ctx, docs); err != nil {
		return errors.New(errors.ErrCodeIndexFailed, "rebuilding indexes", err)
	}

	if l.cache != nil {
		l.cache.Purge()
	}

	l.logger.Info("indexes_rebuilt", slog.Int("documents", len(docs)))
	return nil
}

// RemoveDocument deletes a document everywhere: catalog, both indexes,
// and the query cache.
func (l *Loader) RemoveDocument(ctx context.Context, id string) (bool, error) {
	found, err := l.catalog.DeleteDocument(ctx, id)
	if err != nil {
		return false, errors.New(errors.ErrCodeCatalogFailed, fmt.Sprintf("deleting document %s", id), err)
	}
	if !found {
		return false, nil
	}

	if err := l.indexer.Delete(ctx, []string{id}); err != nil {
		return true, errors.New(errors.ErrCodeIndexFailed, fmt.Sprintf("deindexing document %s", id), err)
	}

	if l.cache != nil {
		l.cache.Purge()
	}
	return true, nil
}
