package reembed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/vecpipe/ai/mock"
)

func TestBatchProcessorReembedsAndStores(t *testing.T) {
	repo := &fakeRepo{}
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		assert.Equal(t, []string{"artifact 0", "artifact 1"}, texts)
		return [][]float32{{3, 4}, {0, 2}}, nil
	}

	bp := NewBatchProcessor(repo, embedder, 3, time.Millisecond)
	artifacts := makeTestArtifacts(2)

	err := bp.Process(context.Background(), artifacts)
	require.NoError(t, err)

	// Vectors are normalized before storage
	assert.InDelta(t, 0.6, float64(artifacts[0].Vector[0]), 1e-6)
	assert.InDelta(t, 0.8, float64(artifacts[0].Vector[1]), 1e-6)
	assert.InDelta(t, 1.0, float64(artifacts[1].Vector[1]), 1e-6)

	require.Len(t, repo.stored, 1)
	assert.Equal(t, artifacts, repo.stored[0])
}

func TestBatchProcessorEmptyBatch(t *testing.T) {
	repo := &fakeRepo{}
	embedder := mock.NewMockEmbedder()

	bp := NewBatchProcessor(repo, embedder, 3, time.Millisecond)

	err := bp.Process(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, embedder.CallCount())
	assert.Empty(t, repo.stored)
}

func TestBatchProcessorRetriesTransientFailure(t *testing.T) {
	repo := &fakeRepo{}
	embedder := mock.NewMockEmbedder()

	attempts := 0
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		attempts++
		if attempts == 1 {
			return nil, errors.New("transient")
		}
		return [][]float32{{1, 0}}, nil
	}

	bp := NewBatchProcessor(repo, embedder, 3, time.Millisecond)

	err := bp.Process(context.Background(), makeTestArtifacts(1))
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Len(t, repo.stored, 1)
}

func TestBatchProcessorExhaustsRetries(t *testing.T) {
	repo := &fakeRepo{}
	embedder := mock.NewMockEmbedder()

	embedErr := errors.New("api down")
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, embedErr
	}

	bp := NewBatchProcessor(repo, embedder, 2, time.Millisecond)

	err := bp.Process(context.Background(), makeTestArtifacts(1))
	assert.ErrorIs(t, err, embedErr)
	assert.Empty(t, repo.stored)
}

func TestBatchProcessorCountMismatch(t *testing.T) {
	repo := &fakeRepo{}
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return [][]float32{{1, 0}}, nil
	}

	bp := NewBatchProcessor(repo, embedder, 1, time.Millisecond)

	err := bp.Process(context.Background(), makeTestArtifacts(3))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedding count mismatch")
	assert.Empty(t, repo.stored)
}

func TestBatchProcessorStoreError(t *testing.T) {
	storeErr := errors.New("disk full")
	repo := &fakeRepo{storeErr: storeErr}
	embedder := mock.NewMockEmbedder()

	bp := NewBatchProcessor(repo, embedder, 1, time.Millisecond)

	err := bp.Process(context.Background(), makeTestArtifacts(1))
	assert.ErrorIs(t, err, storeErr)
}
