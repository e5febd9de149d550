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


package vecpipe

import (
	"context"
	"log/slog"

	"github.com/poiesic/vecpipe/ai"
	"github.com/poiesic/vecpipe/ai/openai"
	"github.com/poiesic/vecpipe/core"
	"github.com/poiesic/vecpipe/pipeline"
	"github.com/poiesic/vecpipe/search"
	"github.com/poiesic/vecpipe/storage"
	"github.com/poiesic/vecpipe/storage/badger"
)

// Store bundles the local artifact database and the AI provider, and
// wires engines and searchers over them for library consumers.
type Store struct {
	backend        *badger.Backend
	artifactRepo   storage.ArtifactRepository
	checkpointRepo storage.CheckpointRepository
	provider       ai.AIProvider
	logger         *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*storeOptions)

type storeOptions struct {
	aiConfig *ai.Config
	provider ai.AIProvider
}

// WithAIConfig sets the AI service configuration.
func WithAIConfig(config *ai.Config) StoreOption {
	return func(o *storeOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithAIProvider injects a pre-built AI provider, bypassing the
// OpenAI-compatible default. Used by tests with the mock provider.
func WithAIProvider(provider ai.AIProvider) StoreOption {
	return func(o *storeOptions) {
		o.provider = provider
	}
}

// Open opens (or creates) the artifact store at filePath.
func Open(filePath string, opts ...StoreOption) (*Store, error) {
	// Apply options
	options := &storeOptions{
		aiConfig: ai.DefaultConfig(), // Default if not provided
	}
	for _, opt := range opts {
		opt(options)
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}

	// Create artifact repository
	artifactRepo, err := badger.NewArtifactRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	// Create checkpoint repository
	checkpointRepo, err := badger.NewCheckpointRepository(backend)
	if err != nil {
		artifactRepo.Close()
		backend.Close()
		return nil, err
	}

	// Create AI provider with configured settings
	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			artifactRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	return &Store{
		backend:        backend,
		artifactRepo:   artifactRepo,
		checkpointRepo: checkpointRepo,
		provider:       provider,
		logger:         slog.Default(),
	}, nil
}

// Close releases the AI provider and the underlying database.
func (s *Store) Close() error {
	// Close AI provider first
	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing AI provider", "err", err)
	}

	if err := s.artifactRepo.Close(); err != nil {
		s.logger.Error("error closing artifact repository", "err", err)
		return err
	}

	if err := s.backend.Close(); err != nil {
		s.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// ArtifactRepository exposes the local artifact store.
func (s *Store) ArtifactRepository() storage.ArtifactRepository {
	return s.artifactRepo
}

// CheckpointRepository exposes the run checkpoint store.
func (s *Store) CheckpointRepository() storage.CheckpointRepository {
	return s.checkpointRepo
}

// Provider exposes the AI provider.
func (s *Store) Provider() ai.AIProvider {
	return s.provider
}

// EmbedTransform is a pipeline embed stage backed by the store's
// embedding provider.
func (s *Store) EmbedTransform() pipeline.EmbedFunc {
	return func(ctx context.Context, payload *core.Payload) ([]float32, error) {
		return s.provider.Embedder().EmbedText(ctx, payload.Content)
	}
}

// NewEngine creates a pipeline engine that persists to the local
// artifact store and records checkpoints for runID after every
// confirmed batch. An empty runID disables checkpointing.
func (s *Store) NewEngine(runID string, transform pipeline.TransformFunc, config pipeline.Config, opts ...pipeline.Option) (*pipeline.Engine, error) {
	if runID != "" {
		opts = append(opts, pipeline.WithCheckpointFunc(s.checkpointFunc(runID)))
	}
	return pipeline.NewEngine(s.artifactRepo, transform, s.EmbedTransform(), config, opts...)
}

// NewSearcher creates a searcher over the local artifact store.
func (s *Store) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(s.artifactRepo, s.provider, opts...)
}

// LoadCheckpoint retrieves the checkpoint for runID, or nil when the
// run has none.
func (s *Store) LoadCheckpoint(ctx context.Context, runID string) (*core.Checkpoint, error) {
	return s.checkpointRepo.LoadCheckpoint(ctx, runID)
}

// checkpointFunc folds flushed indices into the run's checkpoint.
func (s *Store) checkpointFunc(runID string) pipeline.CheckpointFunc {
	return func(ctx context.Context, indices []uint64) error {
		checkpoint, err := s.checkpointRepo.LoadCheckpoint(ctx, runID)
		if err != nil {
			return err
		}
		if checkpoint == nil {
			checkpoint = &core.Checkpoint{RunID: runID}
		}

		for _, idx := range indices {
			if !checkpoint.Contains(idx) {
				checkpoint.Persisted = append(checkpoint.Persisted, idx)
			}
		}

		return s.checkpointRepo.SaveCheckpoint(ctx, checkpoint)
	}
}
