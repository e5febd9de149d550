package chunk

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/vecpipe/core"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "hello world, this is a test document")
	writeFile(t, dir, "b.md", "second document")
	writeFile(t, dir, "c.bin", "binary blob that has no reader")

	chunker, err := NewChunker(16, 4)
	require.NoError(t, err)

	corpus, err := LoadDir(dir, chunker, DefaultReaders(), nil)
	require.NoError(t, err)

	require.Greater(t, corpus.Len(), 1)

	items := corpus.Items()
	require.Len(t, items, corpus.Len())

	for i, item := range items {
		assert.Equal(t, i, item.Index)
		assert.NotEmpty(t, item.ID)
		assert.NotEmpty(t, item.Locator)
	}
}

func TestCorpusTransform(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "doc.txt", "abcdefgh")

	chunker, err := NewChunker(4, 0)
	require.NoError(t, err)

	corpus, err := LoadDir(dir, chunker, DefaultReaders(), nil)
	require.NoError(t, err)
	require.Equal(t, 2, corpus.Len())

	ctx := context.Background()

	payload, err := corpus.Transform(ctx, corpus.Items()[0])
	require.NoError(t, err)
	assert.Equal(t, "abcd", payload.Content)
	assert.Equal(t, "0", payload.Metadata["chunk"])
	assert.Contains(t, payload.Metadata["path"], "doc.txt")

	payload, err = corpus.Transform(ctx, corpus.Items()[1])
	require.NoError(t, err)
	assert.Equal(t, "efgh", payload.Content)
}

func TestCorpusTransformUnknownChunk(t *testing.T) {
	corpus := &Corpus{}

	_, err := corpus.Transform(context.Background(), core.WorkItem{Index: 5})
	assert.ErrorIs(t, err, ErrUnknownChunk)
}

func TestCorpusDeterministicIDs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "doc.txt", "same content")

	chunker, err := NewChunker(64, 0)
	require.NoError(t, err)

	first, err := LoadDir(dir, chunker, DefaultReaders(), nil)
	require.NoError(t, err)
	second, err := LoadDir(dir, chunker, DefaultReaders(), nil)
	require.NoError(t, err)

	require.Equal(t, first.Len(), second.Len())
	assert.Equal(t, first.Items()[0].ID, second.Items()[0].ID)
}
