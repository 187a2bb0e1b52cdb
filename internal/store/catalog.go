package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)
)

// SQLiteCatalog implements Catalog on SQLite. It is the system of record
// for service documents; the BM25 and vector indexes are rebuilt from it
// after a process restart.
type SQLiteCatalog struct {
	mu     sync.RWMutex
	db     *sql.DB
	closed bool
}

// Verify interface implementation at compile time.
var _ Catalog = (*SQLiteCatalog)(nil)

const catalogSchema = `
CREATE TABLE IF NOT EXISTS documents (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL,
	content    TEXT NOT NULL,
	source_url TEXT NOT NULL DEFAULT '',
	category   TEXT NOT NULL DEFAULT '',
	updated_at INTEGER NOT NULL,
	seq        INTEGER
);
CREATE INDEX IF NOT EXISTS idx_documents_category ON documents(category);
`

// NewSQLiteCatalog opens (or creates) a catalog database at path.
// Use ":memory:" for an in-memory catalog in tests.
func NewSQLiteCatalog(path string) (*SQLiteCatalog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", path, err)
	}

	// WAL mode must be set via PRAGMA for modernc.org/sqlite; DSN
	// parameters may be ignored by the driver.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("catalog: %s: %w", p, err)
		}
	}

	if _, err := db.Exec(catalogSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("catalog: create schema: %w", err)
	}

	return &SQLiteCatalog{db: db}, nil
}

// SaveDocuments inserts or replaces entries in one transaction.
func (c *SQLiteCatalog) SaveDocuments(ctx context.Context, entries []*CatalogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return fmt.Errorf("catalog is closed")
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("catalog: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO documents (id, title, content, source_url, category, updated_at, seq)
		VALUES (?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM documents))
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			content = excluded.content,
			source_url = excluded.source_url,
			category = excluded.category,
			updated_at = excluded.updated_at`)
	if err != nil {
		return fmt.Errorf("catalog: prepare: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, e := range entries {
		if e.ID == "" {
			return fmt.Errorf("catalog: entry without id")
		}
		updated := e.UpdatedAt
		if updated.IsZero() {
			updated = time.Now()
		}
		if _, err := stmt.ExecContext(ctx, e.ID, e.Title, e.Content, e.SourceURL, e.Category, updated.Unix()); err != nil {
			return fmt.Errorf("catalog: save %s: %w", e.ID, err)
		}
	}

	return tx.Commit()
}

// GetDocument returns one entry, or nil if absent.
func (c *SQLiteCatalog) GetDocument(ctx context.Context, id string) (*CatalogEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return nil, fmt.Errorf("catalog is closed")
	}

	row := c.db.QueryRowContext(ctx, `
		SELECT id, title, content, source_url, category, updated_at
		FROM documents WHERE id = ?`, id)

	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return entry, err
}

// GetDocuments returns entries for the given IDs in the order requested,
// skipping unknown IDs.
func (c *SQLiteCatalog) GetDocuments(ctx context.Context, ids []string) ([]*CatalogEntry, error) {
	if len(ids) == 0 {
		return []*CatalogEntry{}, nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return nil, fmt.Errorf("catalog is closed")
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := c.db.QueryContext(ctx, `
		SELECT id, title, content, source_url, category, updated_at
		FROM documents WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("catalog: query batch: %w", err)
	}
	defer func() { _ = rows.Close() }()

	byID := make(map[string]*CatalogEntry, len(ids))
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		byID[entry.ID] = entry
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: iterate batch: %w", err)
	}

	entries := make([]*CatalogEntry, 0, len(byID))
	for _, id := range ids {
		if entry, ok := byID[id]; ok {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// ListDocuments returns all entries in insertion order.
func (c *SQLiteCatalog) ListDocuments(ctx context.Context) ([]*CatalogEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return nil, fmt.Errorf("catalog is closed")
	}

	rows, err := c.db.QueryContext(ctx, `
		SELECT id, title, content, source_url, category, updated_at
		FROM documents ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("catalog: list: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []*CatalogEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: iterate: %w", err)
	}
	return entries, nil
}

// DeleteDocument removes an entry. Returns false if the ID is unknown.
func (c *SQLiteCatalog) DeleteDocument(ctx context.Context, id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false, fmt.Errorf("catalog is closed")
	}

	res, err := c.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("catalog: delete %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("catalog: delete %s: %w", id, err)
	}
	return affected > 0, nil
}

// Count returns the number of entries.
func (c *SQLiteCatalog) Count(ctx context.Context) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return 0, fmt.Errorf("catalog is closed")
	}

	var count int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&count); err != nil {
		return 0, fmt.Errorf("catalog: count: %w", err)
	}
	return count, nil
}

// Close closes the underlying database.
func (c *SQLiteCatalog) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	return c.db.Close()
}

// scanner abstracts sql.Row and sql.Rows for scanEntry.
type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*CatalogEntry, error) {
	var entry CatalogEntry
	var updated int64
	if err := s.Scan(&entry.ID, &entry.Title, &entry.Content, &entry.SourceURL, &entry.Category, &updated); err != nil {
		return nil, err
	}
	entry.UpdatedAt = time.Unix(updated, 0)
	return &entry, nil
}
