package reembed

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/vecpipe/core"
	"github.com/poiesic/vecpipe/storage"
)

// fakeRepo is a minimal in-memory ArtifactRepository for unit tests.
type fakeRepo struct {
	artifacts []*core.Artifact
	listErr   error
	storeErr  error
	stored    [][]*core.Artifact
}

var _ storage.ArtifactRepository = (*fakeRepo)(nil)

func (r *fakeRepo) StoreArtifacts(ctx context.Context, artifacts []*core.Artifact) error {
	if r.storeErr != nil {
		return r.storeErr
	}
	batch := make([]*core.Artifact, len(artifacts))
	copy(batch, artifacts)
	r.stored = append(r.stored, batch)
	return nil
}

func (r *fakeRepo) GetArtifact(ctx context.Context, id core.ID) (*core.Artifact, error) {
	for _, a := range r.artifacts {
		if a.Id == id {
			return a, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *fakeRepo) ListArtifacts(ctx context.Context) ([]*core.Artifact, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.artifacts, nil
}

func (r *fakeRepo) CountArtifacts(ctx context.Context) (int, error) {
	return len(r.artifacts), nil
}

func (r *fakeRepo) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.SearchResult, error) {
	return nil, nil
}

func (r *fakeRepo) Close() error {
	return nil
}

func makeTestArtifacts(n int) []*core.Artifact {
	artifacts := make([]*core.Artifact, n)
	for i := range artifacts {
		artifacts[i] = &core.Artifact{
			Id:      core.ID(i),
			Payload: map[string]string{"content": fmt.Sprintf("artifact %d", i)},
		}
	}
	return artifacts
}

func TestIteratorBatchesInOrder(t *testing.T) {
	repo := &fakeRepo{artifacts: makeTestArtifacts(10)}
	it := NewArtifactIterator(repo, 4)

	var sizes []int
	var seen []core.ID
	err := it.ForEach(context.Background(), func(batch []*core.Artifact) error {
		sizes = append(sizes, len(batch))
		for _, a := range batch {
			seen = append(seen, a.Id)
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []int{4, 4, 2}, sizes)
	for i, id := range seen {
		assert.Equal(t, core.ID(i), id)
	}
}

func TestIteratorEmptyStore(t *testing.T) {
	it := NewArtifactIterator(&fakeRepo{}, 4)

	called := false
	err := it.ForEach(context.Background(), func([]*core.Artifact) error {
		called = true
		return nil
	})

	require.NoError(t, err)
	assert.False(t, called)
}

func TestIteratorStopsOnError(t *testing.T) {
	repo := &fakeRepo{artifacts: makeTestArtifacts(10)}
	it := NewArtifactIterator(repo, 2)

	batchErr := errors.New("batch failed")
	calls := 0
	err := it.ForEach(context.Background(), func([]*core.Artifact) error {
		calls++
		if calls == 2 {
			return batchErr
		}
		return nil
	})

	assert.ErrorIs(t, err, batchErr)
	assert.Equal(t, 2, calls)
}

func TestIteratorListError(t *testing.T) {
	listErr := errors.New("list failed")
	it := NewArtifactIterator(&fakeRepo{listErr: listErr}, 4)

	err := it.ForEach(context.Background(), func([]*core.Artifact) error {
		t.Fatal("fn should not be called")
		return nil
	})

	assert.ErrorIs(t, err, listErr)
}

func TestIteratorCancelledContext(t *testing.T) {
	repo := &fakeRepo{artifacts: makeTestArtifacts(4)}
	it := NewArtifactIterator(repo, 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := it.ForEach(ctx, func([]*core.Artifact) error {
		t.Fatal("fn should not be called")
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestIteratorCancellationBetweenBatches(t *testing.T) {
	repo := &fakeRepo{artifacts: makeTestArtifacts(10)}
	it := NewArtifactIterator(repo, 2)

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := it.ForEach(ctx, func([]*core.Artifact) error {
		calls++
		if calls == 1 {
			cancel()
		}
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestIteratorDefaultBatchSize(t *testing.T) {
	it := NewArtifactIterator(&fakeRepo{}, 0)
	assert.Equal(t, DefaultBatchSize, it.batchSize)

	it = NewArtifactIterator(&fakeRepo{}, -5)
	assert.Equal(t, DefaultBatchSize, it.batchSize)
}
