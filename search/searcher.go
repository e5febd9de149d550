package search

import (
	"context"
	"log/slog"
	"sort"

	"github.com/poiesic/vecpipe/ai"
	"github.com/poiesic/vecpipe/core"
	"github.com/poiesic/vecpipe/storage"
)

// Searcher provides semantic search over stored artifacts, with
// optional cross-encoder reranking of the candidate set.
type Searcher struct {
	index           storage.VectorSearcher
	embedder        ai.Embedder
	reranker        ai.Reranker
	threshold       float32
	candidateFactor int
	verbatimBoost   float32
	logger          *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithThreshold sets the minimum similarity score for a candidate.
// Default is 0.60.
func WithThreshold(threshold float32) Option {
	return func(s *Searcher) error {
		s.threshold = threshold
		return nil
	}
}

// WithCandidateFactor sets how many candidates are retrieved per
// requested hit before reranking. Default is 4.
func WithCandidateFactor(factor int) Option {
	return func(s *Searcher) error {
		if factor < 1 {
			factor = 1
		}
		s.candidateFactor = factor
		return nil
	}
}

// NewSearcher creates a new searcher. The provider's reranker is used
// when configured; otherwise results keep their similarity order.
func NewSearcher(index storage.VectorSearcher, provider ai.AIProvider, opts ...Option) (*Searcher, error) {
	if index == nil {
		return nil, ErrSearcherRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	s := &Searcher{
		index:           index,
		embedder:        provider.Embedder(),
		reranker:        provider.Reranker(),
		threshold:       0.60,
		candidateFactor: 4,
		verbatimBoost:   0.05,
		logger:          slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// FindSimilar searches for artifacts similar to the query.
// Returns up to maxHits results, ranked by relevance score.
func (s *Searcher) FindSimilar(ctx context.Context, query string, maxHits int) ([]*core.SearchResult, error) {
	return s.FindSimilarWithMonitor(ctx, query, maxHits, nil)
}

// FindSimilarWithMonitor searches for artifacts similar to the query with monitoring.
// The monitor receives callbacks at each stage of the search process.
// Returns up to maxHits results, ranked by relevance score.
func (s *Searcher) FindSimilarWithMonitor(ctx context.Context, query string, maxHits int, monitor SearchMonitor) ([]*core.SearchResult, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if maxHits < 1 {
		maxHits = 1
	}

	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(query)

	// 1. Embed the query
	embedding, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, err
	}
	monitor.AfterQueryEmbedding(embedding)

	// 2. Vector search over a widened candidate set
	candidates, err := s.index.FindSimilar(ctx, embedding, s.threshold, maxHits*s.candidateFactor)
	if err != nil {
		s.logger.Error("error querying for similar artifacts", "err", err)
		return nil, err
	}

	ids := make([]uint64, len(candidates))
	for i, c := range candidates {
		ids[i] = uint64(c.Artifact.Id)
	}
	monitor.AfterVectorSearch(ids)

	if len(candidates) == 0 {
		monitor.Finish(nil)
		return nil, nil
	}

	// 3. Optional rerank of candidate passages
	if s.reranker != nil {
		s.rerank(ctx, query, candidates, monitor)
	}

	// 4. Boost candidates that contain every query word verbatim
	for _, c := range candidates {
		if containsAllQueryWords(c.Artifact.Payload["content"], query) {
			c.Score += s.verbatimBoost
			monitor.VerbatimHit(c.Artifact)
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > maxHits {
		candidates = candidates[:maxHits]
	}

	monitor.Finish(candidates)
	return candidates, nil
}

// rerank rescores candidates with the cross-encoder. A rerank failure
// keeps the similarity scores rather than failing the search.
func (s *Searcher) rerank(ctx context.Context, query string, candidates []*core.SearchResult, monitor SearchMonitor) {
	passages := make([]string, len(candidates))
	for i, c := range candidates {
		passages[i] = c.Artifact.Payload["content"]
	}

	scores, err := s.reranker.Rerank(ctx, query, passages)
	if err != nil {
		s.logger.Warn("rerank failed, keeping similarity order", "err", err)
		return
	}
	if len(scores) != len(candidates) {
		s.logger.Warn("rerank score count mismatch, keeping similarity order",
			"want", len(candidates), "got", len(scores))
		return
	}

	for i, c := range candidates {
		c.Score = scores[i]
	}
	monitor.AfterRerank(scores)
}
