package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fsnotify/fsnotify"
)

func TestWatcher_ReloadsOnCorpusChange(t *testing.T) {
	// Given: a running watcher with a short debounce
	loader, catalog, _, _ := newTestLoader(t)
	dir := t.TempDir()

	w, err := NewWatcher(loader, dir, WithDebounce(50*time.Millisecond))
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	// When: a corpus file appears
	writeCorpusFile(t, dir, "docs.json", `[{"id": "doc-a", "content": "recycling center hours"}]`)

	// Then: the catalog fills within the debounce window plus slack
	require.Eventually(t, func() bool {
		n, err := catalog.Count(context.Background())
		return err == nil && n == 1
	}, 3*time.Second, 25*time.Millisecond)
}

func TestWatcher_IgnoresNonJSONFiles(t *testing.T) {
	assert.False(t, isCorpusEvent(fsnotify.Event{Name: "notes.txt", Op: fsnotify.Write}))
	assert.False(t, isCorpusEvent(fsnotify.Event{Name: "docs.json", Op: fsnotify.Chmod}))
	assert.True(t, isCorpusEvent(fsnotify.Event{Name: "docs.json", Op: fsnotify.Write}))
	assert.True(t, isCorpusEvent(fsnotify.Event{Name: "DOCS.JSON", Op: fsnotify.Create}))
	assert.True(t, isCorpusEvent(fsnotify.Event{Name: "docs.json", Op: fsnotify.Remove}))
}
