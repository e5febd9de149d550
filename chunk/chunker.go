package chunk

// Chunker splits text into fixed-size chunks with a configurable
// overlap between consecutive chunks.
type Chunker struct {
	size    int
	overlap int
}

// NewChunker creates a Chunker. overlap must be smaller than size.
func NewChunker(size, overlap int) (*Chunker, error) {
	if size < 1 {
		return nil, ErrInvalidChunkSize
	}
	if overlap < 0 || overlap >= size {
		return nil, ErrInvalidOverlap
	}

	return &Chunker{
		size:    size,
		overlap: overlap,
	}, nil
}

// Split cuts text into chunks of at most the configured size, each
// starting size-overlap bytes after the previous one. The chunks cover
// the whole input.
func (c *Chunker) Split(text string) []string {
	l := len(text)
	if l == 0 {
		return []string{}
	}

	step := c.size - c.overlap
	pos := 0
	chunks := make([]string, 0, l/step+1)

	for {
		end := min(pos+c.size, l)
		chunks = append(chunks, text[pos:end])
		if end >= l {
			break
		}

		pos += step
	}

	return chunks
}
