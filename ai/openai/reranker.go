package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/poiesic/vecpipe/ai"
)

type rerankRequest struct {
	Model    string   `json:"model"`
	Query    string   `json:"query"`
	Passages []string `json:"passages"`
	Truncate string   `json:"truncate"`
}

type rerankResponse struct {
	Scores []float32 `json:"scores"`
}

// Reranker implements ai.Reranker against an NVIDIA/OpenAI-style rerank endpoint.
// The endpoint accepts {model, query, passages} and returns one score per passage.
type Reranker struct {
	endpoint string
	model    string
	apiKey   string
	client   *http.Client
	logger   *slog.Logger
}

// newReranker is an internal constructor that returns the concrete type.
func newReranker(config *ai.Config) *Reranker {
	return &Reranker{
		endpoint: config.RerankHost,
		model:    config.RerankModel,
		apiKey:   config.APIKey,
		client:   &http.Client{Timeout: config.RequestTimeout},
		logger:   slog.Default().With("component", "openai-reranker"),
	}
}

// NewReranker creates a new reranker using the provided configuration.
//
// Returns ai.Reranker interface to enforce abstraction.
func NewReranker(config *ai.Config) (ai.Reranker, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.RerankHost == "" {
		return nil, fmt.Errorf("rerank host not configured")
	}
	return newReranker(config), nil
}

// Rerank scores the passages against the query, preserving input order.
func (r *Reranker) Rerank(ctx context.Context, query string, passages []string) ([]float32, error) {
	if len(passages) == 0 {
		return nil, nil
	}

	reqBody, err := json.Marshal(rerankRequest{
		Model:    r.model,
		Query:    query,
		Passages: passages,
		Truncate: "NONE",
	})
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rerank API %d: %s", resp.StatusCode, string(body))
	}

	var result rerankResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}

	if len(result.Scores) != len(passages) {
		return nil, fmt.Errorf("rerank score mismatch: expected %d, got %d", len(passages), len(result.Scores))
	}

	r.logger.Debug("reranked passages", "count", len(passages))
	return result.Scores, nil
}
