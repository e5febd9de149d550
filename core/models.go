package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// Artifact IDs are taken from the work item's manifest index; chunk IDs
// are derived from content hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// WorkItem is one unit of input work from a manifest.
// Index is the item's 0-based ordinal position in the original manifest and
// is never re-based when a run starts from an offset, so failure and resume
// reporting stays unambiguous.
type WorkItem struct {
	Index   int
	ID      string
	Locator string
}

// Payload is the intermediate output of the transform stage.
// It is owned exclusively by the in-flight task that produced it and is
// discarded once the embed stage consumes it.
type Payload struct {
	Content  string
	Metadata map[string]string
}

// Artifact is a successfully embedded work item, ready for persistence.
// Id equals the originating WorkItem's Index and is unique within a run.
type Artifact struct {
	Id        ID
	Vector    []float32
	Payload   map[string]string
	CreatedAt time.Time
}

// Checkpoint records which manifest indices have been confirmed persisted
// for a run, enabling index-exact resume of interrupted runs.
type Checkpoint struct {
	RunID     string
	Persisted []uint64
	UpdatedAt time.Time
}

// Contains reports whether the checkpoint records idx as persisted.
func (c *Checkpoint) Contains(idx uint64) bool {
	for _, p := range c.Persisted {
		if p == idx {
			return true
		}
	}
	return false
}

// RunResult is the aggregate outcome of one pipeline run.
type RunResult struct {
	SuccessCount int
	FailureCount int
}

// SearchResult is a search hit with the stored artifact and relevance score.
type SearchResult struct {
	Artifact *Artifact
	Score    float32
}
