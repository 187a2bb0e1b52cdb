package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCatalog(t *testing.T) *SQLiteCatalog {
	t.Helper()
	c, err := NewSQLiteCatalog(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestSQLiteCatalog_SaveAndGet(t *testing.T) {
	c := newTestCatalog(t)

	entries := []*CatalogEntry{
		{ID: "doc-1", Title: "Passport Renewal", Content: "How to renew a passport", SourceURL: "https://example.gov/passport", Category: "travel"},
		{ID: "doc-2", Title: "Visa Extension", Content: "Visa extension procedure"},
	}
	require.NoError(t, c.SaveDocuments(context.Background(), entries))

	got, err := c.GetDocument(context.Background(), "doc-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Passport Renewal", got.Title)
	assert.Equal(t, "https://example.gov/passport", got.SourceURL)
	assert.Equal(t, "travel", got.Category)
	assert.False(t, got.UpdatedAt.IsZero())

	count, err := c.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSQLiteCatalog_GetDocument_Missing(t *testing.T) {
	c := newTestCatalog(t)

	got, err := c.GetDocument(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLiteCatalog_GetDocuments_PreservesRequestOrder(t *testing.T) {
	c := newTestCatalog(t)

	require.NoError(t, c.SaveDocuments(context.Background(), []*CatalogEntry{
		{ID: "a", Title: "A", Content: "a"},
		{ID: "b", Title: "B", Content: "b"},
		{ID: "c", Title: "C", Content: "c"},
	}))

	got, err := c.GetDocuments(context.Background(), []string{"c", "missing", "a"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].ID)
	assert.Equal(t, "a", got[1].ID)
}

func TestSQLiteCatalog_SaveDocuments_Upsert(t *testing.T) {
	c := newTestCatalog(t)

	require.NoError(t, c.SaveDocuments(context.Background(), []*CatalogEntry{
		{ID: "doc-1", Title: "Old Title", Content: "old"},
	}))
	require.NoError(t, c.SaveDocuments(context.Background(), []*CatalogEntry{
		{ID: "doc-1", Title: "New Title", Content: "new"},
	}))

	got, err := c.GetDocument(context.Background(), "doc-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "New Title", got.Title)

	count, err := c.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSQLiteCatalog_ListDocuments_InsertionOrder(t *testing.T) {
	c := newTestCatalog(t)

	require.NoError(t, c.SaveDocuments(context.Background(), []*CatalogEntry{
		{ID: "first", Title: "1", Content: "x"},
	}))
	require.NoError(t, c.SaveDocuments(context.Background(), []*CatalogEntry{
		{ID: "second", Title: "2", Content: "y"},
		{ID: "third", Title: "3", Content: "z"},
	}))

	entries, err := c.ListDocuments(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "first", entries[0].ID)
	assert.Equal(t, "second", entries[1].ID)
	assert.Equal(t, "third", entries[2].ID)
}

func TestSQLiteCatalog_DeleteDocument(t *testing.T) {
	c := newTestCatalog(t)

	require.NoError(t, c.SaveDocuments(context.Background(), []*CatalogEntry{
		{ID: "doc-1", Title: "T", Content: "c"},
	}))

	found, err := c.DeleteDocument(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = c.DeleteDocument(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSQLiteCatalog_SaveDocuments_RejectsMissingID(t *testing.T) {
	c := newTestCatalog(t)

	err := c.SaveDocuments(context.Background(), []*CatalogEntry{{Title: "no id"}})
	assert.Error(t, err)
}

func TestSQLiteCatalog_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")

	c, err := NewSQLiteCatalog(path)
	require.NoError(t, err)
	require.NoError(t, c.SaveDocuments(context.Background(), []*CatalogEntry{
		{ID: "doc-1", Title: "Persistent", Content: "survives restart"},
	}))
	require.NoError(t, c.Close())

	reopened, err := NewSQLiteCatalog(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	got, err := reopened.GetDocument(context.Background(), "doc-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Persistent", got.Title)
}
