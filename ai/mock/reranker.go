package mock

import (
	"context"
	"hash/fnv"
)

// MockReranker is a test double for ai.Reranker.
// It allows custom behavior injection via function fields.
type MockReranker struct {
	// RerankFunc is called by Rerank if set.
	// If nil, uses default deterministic behavior.
	RerankFunc func(ctx context.Context, query string, passages []string) ([]float32, error)

	callCount int
}

// NewMockReranker creates a mock reranker with default deterministic behavior.
func NewMockReranker() *MockReranker {
	return &MockReranker{}
}

// Rerank returns one deterministic score per passage.
// The default score is derived from hashing the query together with the
// passage, so the same inputs always produce the same ordering.
func (m *MockReranker) Rerank(ctx context.Context, query string, passages []string) ([]float32, error) {
	m.callCount++

	if m.RerankFunc != nil {
		return m.RerankFunc(ctx, query, passages)
	}

	scores := make([]float32, len(passages))
	for i, passage := range passages {
		h := fnv.New32a()
		h.Write([]byte(query))
		h.Write([]byte(passage))
		scores[i] = float32(h.Sum32()%1000) / 1000.0
	}
	return scores, nil
}

// CallCount returns the number of times Rerank was called.
func (m *MockReranker) CallCount() int {
	return m.callCount
}

// Reset clears the call count and any injected behavior.
func (m *MockReranker) Reset() {
	m.callCount = 0
	m.RerankFunc = nil
}
