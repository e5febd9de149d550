// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package reembed

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/poiesic/vecpipe/ai"
	"github.com/poiesic/vecpipe/core"
	"github.com/poiesic/vecpipe/pipeline"
	"github.com/poiesic/vecpipe/storage"
)

// Config holds configuration for the reembedding operation.
type Config struct {
	// BatchSize is the number of artifacts to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of artifacts)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed operations
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reembedder regenerates the embedding of every stored artifact, for
// example after switching to a new embedding model.
type Reembedder struct {
	repo      storage.ArtifactRepository
	embedder  ai.Embedder
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
	iterator  *ArtifactIterator
}

// NewReembedder creates a new reembedder.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(repo storage.ArtifactRepository, embedder ai.Embedder, config *Config, progress io.Writer) (*Reembedder, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}

	processor := NewBatchProcessor(repo, embedder, config.MaxRetries, config.RetryDelay)
	iterator := NewArtifactIterator(repo, config.BatchSize)

	return &Reembedder{
		repo:      repo,
		embedder:  embedder,
		config:    config,
		progress:  progress,
		processor: processor,
		iterator:  iterator,
	}, nil
}

// Run executes the reembedding operation.
// Every artifact in the store is reembedded with the configured embedder.
// Progress is reported to the configured writer.
func (r *Reembedder) Run(ctx context.Context) error {
	total, err := r.repo.CountArtifacts(ctx)
	if err != nil {
		return fmt.Errorf("failed to count artifacts: %w", err)
	}

	if total == 0 {
		fmt.Fprintf(r.progress, "No artifacts found in store (0 artifacts)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reembedding of %d artifacts (batch size: %d)\n",
		total, r.config.BatchSize)

	tracker := pipeline.NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	processed := 0

	err = r.iterator.ForEach(ctx, func(artifacts []*core.Artifact) error {
		if err := r.processor.Process(ctx, artifacts); err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}

		processed += len(artifacts)
		tracker.Update(processed, processed, 0)
		return nil
	})
	if err != nil {
		return err
	}

	tracker.Finish(processed, 0)
	return nil
}
