package badger

import (
	"context"
	"testing"

	"github.com/poiesic/vecpipe/core"
)

func TestCheckpointRoundTrip(t *testing.T) {
	artifactRepo, checkpointRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() {
		artifactRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()

	checkpoint := &core.Checkpoint{
		RunID:     "run-42",
		Persisted: []uint64{0, 1, 2, 5, 9},
	}

	if err := checkpointRepo.SaveCheckpoint(ctx, checkpoint); err != nil {
		t.Fatalf("Failed to save checkpoint: %v", err)
	}

	loaded, err := checkpointRepo.LoadCheckpoint(ctx, "run-42")
	if err != nil {
		t.Fatalf("Failed to load checkpoint: %v", err)
	}
	if loaded == nil {
		t.Fatal("Expected checkpoint, got nil")
	}

	if len(loaded.Persisted) != 5 {
		t.Fatalf("Expected 5 persisted indices, got %d", len(loaded.Persisted))
	}

	if !loaded.Contains(5) {
		t.Fatal("Expected checkpoint to contain index 5")
	}
	if loaded.Contains(3) {
		t.Fatal("Expected checkpoint to not contain index 3")
	}

	if loaded.UpdatedAt.IsZero() {
		t.Fatal("Expected UpdatedAt to be set on save")
	}
}

func TestCheckpointMissingReturnsNil(t *testing.T) {
	artifactRepo, checkpointRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() {
		artifactRepo.Close()
		backend.Close()
	}()

	loaded, err := checkpointRepo.LoadCheckpoint(context.Background(), "no-such-run")
	if err != nil {
		t.Fatalf("Expected no error for missing checkpoint, got %v", err)
	}
	if loaded != nil {
		t.Fatalf("Expected nil checkpoint, got %+v", loaded)
	}
}

func TestCheckpointOverwriteAndDelete(t *testing.T) {
	artifactRepo, checkpointRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() {
		artifactRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()

	if err := checkpointRepo.SaveCheckpoint(ctx, &core.Checkpoint{
		RunID:     "run-1",
		Persisted: []uint64{0, 1},
	}); err != nil {
		t.Fatalf("Failed to save checkpoint: %v", err)
	}

	if err := checkpointRepo.SaveCheckpoint(ctx, &core.Checkpoint{
		RunID:     "run-1",
		Persisted: []uint64{0, 1, 2, 3},
	}); err != nil {
		t.Fatalf("Failed to overwrite checkpoint: %v", err)
	}

	loaded, err := checkpointRepo.LoadCheckpoint(ctx, "run-1")
	if err != nil {
		t.Fatalf("Failed to load checkpoint: %v", err)
	}
	if len(loaded.Persisted) != 4 {
		t.Fatalf("Expected 4 persisted indices after overwrite, got %d", len(loaded.Persisted))
	}

	if err := checkpointRepo.DeleteCheckpoint(ctx, "run-1"); err != nil {
		t.Fatalf("Failed to delete checkpoint: %v", err)
	}

	loaded, err = checkpointRepo.LoadCheckpoint(ctx, "run-1")
	if err != nil {
		t.Fatalf("Unexpected error after delete: %v", err)
	}
	if loaded != nil {
		t.Fatal("Expected nil checkpoint after delete")
	}

	// Deleting again must not error.
	if err := checkpointRepo.DeleteCheckpoint(ctx, "run-1"); err != nil {
		t.Fatalf("Expected idempotent delete, got %v", err)
	}
}
