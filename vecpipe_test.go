package vecpipe

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/vecpipe/ai/mock"
	"github.com/poiesic/vecpipe/core"
	"github.com/poiesic/vecpipe/pipeline"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(t.TempDir(), WithAIProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testTransform(ctx context.Context, item core.WorkItem) (*core.Payload, error) {
	return &core.Payload{Content: "content for " + item.ID}, nil
}

func testEngineConfig() pipeline.Config {
	cfg := pipeline.DefaultConfig()
	cfg.BatchSize = 4
	cfg.StageTimeout = 5 * time.Second
	return cfg
}

func makeItems(n int) []core.WorkItem {
	items := make([]core.WorkItem, n)
	for i := range items {
		items[i] = core.WorkItem{Index: i, ID: string(rune('a' + i)), Locator: "local"}
	}
	return items
}

func TestStoreIngestAndSearch(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	engine, err := store.NewEngine("", testTransform, testEngineConfig(),
		pipeline.WithProgressWriter(io.Discard))
	require.NoError(t, err)
	defer engine.Release()

	result, err := engine.Run(ctx, makeItems(10))
	require.NoError(t, err)
	assert.Equal(t, 10, result.SuccessCount)
	assert.Equal(t, 0, result.FailureCount)

	count, err := store.ArtifactRepository().CountArtifacts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, count)

	searcher, err := store.NewSearcher()
	require.NoError(t, err)

	// The mock embedder is deterministic, so the artifact embedded from
	// the query's own content is a perfect match.
	results, err := searcher.FindSimilar(ctx, "content for a", 3)
	require.NoError(t, err)
	assert.NotEmpty(t, results)
}

func TestStoreCheckpointingAndResume(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	engine, err := store.NewEngine("run-1", testTransform, testEngineConfig(),
		pipeline.WithProgressWriter(io.Discard))
	require.NoError(t, err)
	defer engine.Release()

	result, err := engine.Run(ctx, makeItems(10))
	require.NoError(t, err)
	require.Equal(t, 10, result.SuccessCount)

	checkpoint, err := store.LoadCheckpoint(ctx, "run-1")
	require.NoError(t, err)
	require.NotNil(t, checkpoint)

	assert.Len(t, checkpoint.Persisted, 10)
	for i := 0; i < 10; i++ {
		assert.True(t, checkpoint.Contains(uint64(i)))
	}
}

func TestStoreCheckpointAccumulatesAcrossRuns(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first, err := store.NewEngine("run-1", testTransform, testEngineConfig(),
		pipeline.WithProgressWriter(io.Discard))
	require.NoError(t, err)
	defer first.Release()

	_, err = first.Run(ctx, makeItems(4))
	require.NoError(t, err)

	second, err := store.NewEngine("run-1", testTransform, testEngineConfig(),
		pipeline.WithProgressWriter(io.Discard))
	require.NoError(t, err)
	defer second.Release()

	items := makeItems(8)[4:]
	_, err = second.Run(ctx, items)
	require.NoError(t, err)

	checkpoint, err := store.LoadCheckpoint(ctx, "run-1")
	require.NoError(t, err)
	require.NotNil(t, checkpoint)
	assert.Len(t, checkpoint.Persisted, 8)
}

func TestStoreNoCheckpointWithoutRunID(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	engine, err := store.NewEngine("", testTransform, testEngineConfig(),
		pipeline.WithProgressWriter(io.Discard))
	require.NoError(t, err)
	defer engine.Release()

	_, err = engine.Run(ctx, makeItems(3))
	require.NoError(t, err)

	checkpoint, err := store.LoadCheckpoint(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, checkpoint)
}
