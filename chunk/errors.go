package chunk

import "errors"

var (
	// ErrInvalidChunkSize is returned when the chunk size is below 1.
	ErrInvalidChunkSize = errors.New("chunk size must be at least 1")

	// ErrInvalidOverlap is returned when the overlap is negative or not
	// smaller than the chunk size.
	ErrInvalidOverlap = errors.New("chunk overlap must be non-negative and smaller than chunk size")

	// ErrNoReader is returned when no reader handles a file.
	ErrNoReader = errors.New("no reader for file")

	// ErrUnknownChunk is returned when a work item references a chunk
	// the corpus does not hold.
	ErrUnknownChunk = errors.New("unknown chunk")
)
