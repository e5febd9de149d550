package pipeline

import "github.com/poiesic/vecpipe/core"

// batchBuffer accumulates successful artifacts until a full batch is
// ready for the sink. It is touched only from the completion-drain
// path, so it needs no locking of its own.
type batchBuffer struct {
	size    int
	pending []*core.Artifact
}

func newBatchBuffer(size int) *batchBuffer {
	return &batchBuffer{
		size:    size,
		pending: make([]*core.Artifact, 0, size),
	}
}

// add appends an artifact. When the buffer reaches the batch size it
// returns the full batch and clears itself; otherwise it returns nil.
func (b *batchBuffer) add(artifact *core.Artifact) []*core.Artifact {
	b.pending = append(b.pending, artifact)
	if len(b.pending) < b.size {
		return nil
	}

	batch := b.pending
	b.pending = make([]*core.Artifact, 0, b.size)
	return batch
}

// drain returns the remaining partial batch, or nil when empty.
// Called once after all items have completed.
func (b *batchBuffer) drain() []*core.Artifact {
	if len(b.pending) == 0 {
		return nil
	}

	batch := b.pending
	b.pending = nil
	return batch
}
