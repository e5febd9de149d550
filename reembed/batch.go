package reembed

import (
	"context"
	"fmt"
	"time"

	"github.com/poiesic/vecpipe/ai"
	"github.com/poiesic/vecpipe/core"
	"github.com/poiesic/vecpipe/storage"
)

// BatchProcessor regenerates embeddings for batches of stored artifacts.
type BatchProcessor struct {
	repo           storage.ArtifactRepository
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of retry attempts for embedding API calls
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(repo storage.ArtifactRepository, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		repo:           repo,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process regenerates embeddings for a batch of artifacts and stores the
// updated artifacts back. Vectors are normalized after embedding to keep
// them compatible with cosine similarity.
func (bp *BatchProcessor) Process(ctx context.Context, artifacts []*core.Artifact) error {
	if len(artifacts) == 0 {
		return nil
	}

	// Extract the text each artifact was embedded from
	texts := make([]string, len(artifacts))
	for i, artifact := range artifacts {
		texts[i] = artifact.Payload["content"]
	}

	// Generate embeddings with retry
	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)

	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(embeddings) != len(artifacts) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(artifacts), len(embeddings))
	}

	// Normalize vectors and assign to artifacts
	for i := range artifacts {
		artifacts[i].Vector = NormalizeVector(embeddings[i])
	}

	// Overwrite the stored artifacts
	if err := bp.repo.StoreArtifacts(ctx, artifacts); err != nil {
		return fmt.Errorf("failed to update artifacts: %w", err)
	}

	return nil
}
