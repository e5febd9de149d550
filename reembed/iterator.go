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

	"github.com/poiesic/vecpipe/core"
	"github.com/poiesic/vecpipe/storage"
)

const (
	// DefaultBatchSize is the default number of artifacts to process in each batch
	DefaultBatchSize = 100
)

// ArtifactIterator iterates over all stored artifacts in batches.
type ArtifactIterator struct {
	repo      storage.ArtifactRepository
	batchSize int
}

// NewArtifactIterator creates a new artifact iterator.
// batchSize: number of artifacts to process in each batch (must be > 0)
func NewArtifactIterator(repo storage.ArtifactRepository, batchSize int) *ArtifactIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &ArtifactIterator{
		repo:      repo,
		batchSize: batchSize,
	}
}

// ForEach iterates over all artifacts, calling fn for each batch.
// Iteration stops on first error from fn or when all artifacts are processed.
// Context cancellation is checked between batches.
func (it *ArtifactIterator) ForEach(ctx context.Context, fn func([]*core.Artifact) error) error {
	// Check context before starting
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	artifacts, err := it.repo.ListArtifacts(ctx)
	if err != nil {
		return err
	}

	if len(artifacts) == 0 {
		// Nothing to process
		return nil
	}

	// Process artifacts in batches of batchSize
	for i := 0; i < len(artifacts); i += it.batchSize {
		end := i + it.batchSize
		if end > len(artifacts) {
			end = len(artifacts)
		}

		if err := fn(artifacts[i:end]); err != nil {
			return err
		}

		// Check context after each batch
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	return nil
}
