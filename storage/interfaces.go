package storage

import (
	"context"

	"github.com/poiesic/vecpipe/core"
)

// ArtifactSink accepts batched writes of embedded artifacts.
// The pipeline engine calls StoreArtifacts once per full batch and once more
// for the final partial batch. Implementations must be thread-safe.
type ArtifactSink interface {
	// StoreArtifacts persists a batch of artifacts.
	// An error means the whole batch failed; the engine does not retry.
	StoreArtifacts(ctx context.Context, artifacts []*core.Artifact) error

	// Close closes the sink and releases resources.
	Close() error
}

// VectorSearcher finds stored artifacts by vector similarity.
type VectorSearcher interface {
	// FindSimilar finds artifacts similar to the given vector.
	// Returns artifacts with similarity >= minSimilarity, up to limit results.
	// Results are ordered by similarity score (highest first).
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.SearchResult, error)
}

// ArtifactRepository provides full read/write access to stored artifacts.
// Local backends implement this; purely remote sinks may only implement
// ArtifactSink.
type ArtifactRepository interface {
	ArtifactSink
	VectorSearcher

	// GetArtifact retrieves a single artifact by ID.
	// Returns ErrNotFound if the artifact doesn't exist.
	GetArtifact(ctx context.Context, id core.ID) (*core.Artifact, error)

	// ListArtifacts returns all stored artifacts in key order.
	ListArtifacts(ctx context.Context) ([]*core.Artifact, error)

	// CountArtifacts returns the number of stored artifacts.
	CountArtifacts(ctx context.Context) (int, error)
}

// CheckpointRepository persists run checkpoints for index-exact resume.
type CheckpointRepository interface {
	// SaveCheckpoint persists a checkpoint for a run.
	SaveCheckpoint(ctx context.Context, checkpoint *core.Checkpoint) error

	// LoadCheckpoint retrieves the checkpoint for a run.
	// Returns nil, nil if no checkpoint exists.
	LoadCheckpoint(ctx context.Context, runID string) (*core.Checkpoint, error)

	// DeleteCheckpoint removes the checkpoint for a run.
	// Removing a missing checkpoint is not an error.
	DeleteCheckpoint(ctx context.Context, runID string) error
}
