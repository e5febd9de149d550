package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/vecpipe/core"
	"github.com/poiesic/vecpipe/storage"
)

// ArtifactRepository implements storage.ArtifactRepository for BadgerDB.
type ArtifactRepository struct {
	backend *Backend
}

var _ storage.ArtifactRepository = (*ArtifactRepository)(nil)

// NewArtifactRepository creates a new ArtifactRepository.
func NewArtifactRepository(backend *Backend) (*ArtifactRepository, error) {
	return &ArtifactRepository{
		backend: backend,
	}, nil
}

// Close is a no-op; the backend owns the database handle.
func (r *ArtifactRepository) Close() error {
	return nil
}

// FindSimilar delegates to the backend.
func (r *ArtifactRepository) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.SearchResult, error) {
	return r.backend.FindSimilar(ctx, vector, minSimilarity, limit)
}

// StoreArtifacts persists a batch of artifacts.
// Existing artifacts with the same ID are overwritten, so re-running a slice
// of a manifest is idempotent.
func (r *ArtifactRepository) StoreArtifacts(ctx context.Context, artifacts []*core.Artifact) error {
	if len(artifacts) == 0 {
		return storage.ErrEmptyBatch
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, artifact := range artifacts {
			if artifact.CreatedAt.IsZero() {
				artifact.CreatedAt = time.Now().UTC()
			}

			key := makeArtifactKey(artifact.Id)
			value := storage.MarshalArtifact(artifact)
			if err := tx.Set(key, value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetArtifact retrieves a single artifact by ID.
func (r *ArtifactRepository) GetArtifact(ctx context.Context, id core.ID) (*core.Artifact, error) {
	var artifact *core.Artifact
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeArtifactKey(id))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}

		return item.Value(func(val []byte) error {
			var unmarshalErr error
			artifact, unmarshalErr = storage.UnmarshalArtifact(val)
			return unmarshalErr
		})
	}, false)

	return artifact, err
}

// ListArtifacts returns all stored artifacts in key order.
func (r *ArtifactRepository) ListArtifacts(ctx context.Context) ([]*core.Artifact, error) {
	var artifacts []*core.Artifact
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(artifactPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				artifact, err := storage.UnmarshalArtifact(val)
				if err != nil {
					return err
				}
				artifacts = append(artifacts, artifact)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)

	return artifacts, err
}

// CountArtifacts returns the number of stored artifacts.
func (r *ArtifactRepository) CountArtifacts(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(artifactPrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)

	return count, err
}
