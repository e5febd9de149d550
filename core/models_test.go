package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDFromContent_Deterministic(t *testing.T) {
	id1 := IDFromContent("chunk of text")
	id2 := IDFromContent("chunk of text")
	assert.Equal(t, id1, id2, "same content should produce same ID")
}

func TestIDFromContent_Distinct(t *testing.T) {
	id1 := IDFromContent("first chunk")
	id2 := IDFromContent("second chunk")
	assert.NotEqual(t, id1, id2, "different content should produce different IDs")
}

func TestIDFromContent_Empty(t *testing.T) {
	// Empty content still hashes to a stable value
	id1 := IDFromContent("")
	id2 := IDFromContent("")
	assert.Equal(t, id1, id2)
}

func TestCheckpoint_Contains(t *testing.T) {
	cp := &Checkpoint{
		RunID:     "run-1",
		Persisted: []uint64{0, 3, 7},
	}

	assert.True(t, cp.Contains(0))
	assert.True(t, cp.Contains(7))
	assert.False(t, cp.Contains(1))
	assert.False(t, cp.Contains(100))
}

func TestCheckpoint_ContainsEmpty(t *testing.T) {
	cp := &Checkpoint{RunID: "run-1"}
	assert.False(t, cp.Contains(0))
}
