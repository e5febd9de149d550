package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/vecpipe/ai/mock"
	"github.com/poiesic/vecpipe/core"
)

// fakeIndex is a canned storage.VectorSearcher.
type fakeIndex struct {
	results   []*core.SearchResult
	err       error
	lastLimit int
	lastMin   float32
}

func (f *fakeIndex) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.SearchResult, error) {
	f.lastMin = minSimilarity
	f.lastLimit = limit

	if f.err != nil {
		return nil, f.err
	}

	var hits []*core.SearchResult
	for _, r := range f.results {
		if r.Score >= minSimilarity {
			hits = append(hits, r)
		}
	}
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

func hit(id uint64, content string, score float32) *core.SearchResult {
	return &core.SearchResult{
		Artifact: &core.Artifact{
			Id:      core.ID(id),
			Vector:  []float32{score},
			Payload: map[string]string{"content": content},
		},
		Score: score,
	}
}

func TestNewSearcherValidation(t *testing.T) {
	provider := mock.NewMockProvider()

	_, err := NewSearcher(nil, provider)
	assert.ErrorIs(t, err, ErrSearcherRequired)

	_, err = NewSearcher(&fakeIndex{}, nil)
	assert.ErrorIs(t, err, ErrAIProviderRequired)
}

func TestFindSimilarWithoutReranker(t *testing.T) {
	index := &fakeIndex{
		results: []*core.SearchResult{
			hit(1, "alpha", 0.9),
			hit(2, "beta", 0.8),
			hit(3, "gamma", 0.7),
		},
	}
	provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), nil)

	searcher, err := NewSearcher(index, provider)
	require.NoError(t, err)

	results, err := searcher.FindSimilar(context.Background(), "find things", 2)
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, core.ID(1), results[0].Artifact.Id)
	assert.Equal(t, core.ID(2), results[1].Artifact.Id)

	// The candidate set is widened before truncation.
	assert.Equal(t, 8, index.lastLimit)
	assert.InDelta(t, 0.60, index.lastMin, 0.001)
}

func TestFindSimilarThresholdFilters(t *testing.T) {
	index := &fakeIndex{
		results: []*core.SearchResult{
			hit(1, "alpha", 0.9),
			hit(2, "beta", 0.3),
		},
	}
	provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), nil)

	searcher, err := NewSearcher(index, provider, WithThreshold(0.5))
	require.NoError(t, err)

	results, err := searcher.FindSimilar(context.Background(), "query text", 10)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, core.ID(1), results[0].Artifact.Id)
}

func TestFindSimilarRerankReorders(t *testing.T) {
	index := &fakeIndex{
		results: []*core.SearchResult{
			hit(1, "first passage", 0.9),
			hit(2, "second passage", 0.8),
		},
	}

	reranker := mock.NewMockReranker()
	reranker.RerankFunc = func(ctx context.Context, query string, passages []string) ([]float32, error) {
		// Invert the similarity order.
		scores := make([]float32, len(passages))
		for i := range passages {
			scores[i] = float32(i)
		}
		return scores, nil
	}
	provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), reranker)

	searcher, err := NewSearcher(index, provider)
	require.NoError(t, err)

	results, err := searcher.FindSimilar(context.Background(), "query text", 2)
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, core.ID(2), results[0].Artifact.Id)
	assert.Equal(t, 1, reranker.CallCount())
}

func TestFindSimilarRerankFailureKeepsOrder(t *testing.T) {
	index := &fakeIndex{
		results: []*core.SearchResult{
			hit(1, "first passage", 0.9),
			hit(2, "second passage", 0.8),
		},
	}

	reranker := mock.NewMockReranker()
	reranker.RerankFunc = func(ctx context.Context, query string, passages []string) ([]float32, error) {
		return nil, errors.New("rerank service down")
	}
	provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), reranker)

	searcher, err := NewSearcher(index, provider)
	require.NoError(t, err)

	results, err := searcher.FindSimilar(context.Background(), "query text", 2)
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, core.ID(1), results[0].Artifact.Id)
}

func TestFindSimilarVerbatimBoost(t *testing.T) {
	index := &fakeIndex{
		results: []*core.SearchResult{
			hit(1, "completely unrelated text", 0.80),
			hit(2, "the quick brown fox", 0.78),
		},
	}
	provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), nil)

	searcher, err := NewSearcher(index, provider)
	require.NoError(t, err)

	results, err := searcher.FindSimilar(context.Background(), "quick fox", 2)
	require.NoError(t, err)

	// The verbatim match overtakes the slightly higher similarity.
	require.Len(t, results, 2)
	assert.Equal(t, core.ID(2), results[0].Artifact.Id)
}

func TestFindSimilarEmptyQuery(t *testing.T) {
	provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), nil)
	searcher, err := NewSearcher(&fakeIndex{}, provider)
	require.NoError(t, err)

	_, err = searcher.FindSimilar(context.Background(), "", 5)
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestFindSimilarNoCandidates(t *testing.T) {
	provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), nil)
	searcher, err := NewSearcher(&fakeIndex{}, provider)
	require.NoError(t, err)

	results, err := searcher.FindSimilar(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFindSimilarEmbeddingError(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("embedding service down")
	}
	provider := mock.NewMockProviderWithServices(embedder, nil)

	searcher, err := NewSearcher(&fakeIndex{}, provider)
	require.NoError(t, err)

	_, err = searcher.FindSimilar(context.Background(), "query", 5)
	assert.ErrorContains(t, err, "embedding service down")
}

// monitorRecorder captures monitor callbacks for assertions.
type monitorRecorder struct {
	noopMonitor
	started      bool
	searchedIDs  []uint64
	finishedHits int
}

func (m *monitorRecorder) Start(_ string)             { m.started = true }
func (m *monitorRecorder) AfterVectorSearch(ids []uint64) { m.searchedIDs = ids }
func (m *monitorRecorder) Finish(results []*core.SearchResult) {
	m.finishedHits = len(results)
}

func TestFindSimilarWithMonitor(t *testing.T) {
	index := &fakeIndex{
		results: []*core.SearchResult{
			hit(1, "alpha", 0.9),
			hit(2, "beta", 0.8),
			hit(3, "gamma", 0.7),
		},
	}
	provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), nil)

	searcher, err := NewSearcher(index, provider)
	require.NoError(t, err)

	monitor := &monitorRecorder{}
	_, err = searcher.FindSimilarWithMonitor(context.Background(), "anything", 2, monitor)
	require.NoError(t, err)

	assert.True(t, monitor.started)
	assert.Equal(t, []uint64{1, 2, 3}, monitor.searchedIDs)
	assert.Equal(t, 2, monitor.finishedHits)
}
