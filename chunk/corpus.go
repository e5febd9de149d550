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


package chunk

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strconv"

	"github.com/poiesic/vecpipe/core"
)

// chunkRef is one chunk of one source document.
type chunkRef struct {
	path    string
	ordinal int
	content string
}

// Corpus holds the chunked text of a document tree and presents it as
// an ordered work item list for the pipeline engine.
type Corpus struct {
	chunks []chunkRef
}

// LoadDir walks dir, extracts text from every readable file with the
// first matching reader, and splits it with the chunker. Files no
// reader handles are skipped with a log line, not an error.
func LoadDir(dir string, chunker *Chunker, readers []FileReader, logger *slog.Logger) (*Corpus, error) {
	if logger == nil {
		logger = slog.Default()
	}

	corpus := &Corpus{}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		text, err := ExtractText(readers, path)
		if errors.Is(err, ErrNoReader) {
			logger.Debug("skipping file with no reader", "path", path)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to extract %s: %w", path, err)
		}

		for i, content := range chunker.Split(text) {
			corpus.chunks = append(corpus.chunks, chunkRef{
				path:    path,
				ordinal: i,
				content: content,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return corpus, nil
}

// Len returns the number of chunks in the corpus.
func (c *Corpus) Len() int {
	return len(c.chunks)
}

// Items returns one work item per chunk. The item ID is derived from
// the chunk content, so identical content always gets the same ID; the
// locator names the source file and chunk ordinal.
func (c *Corpus) Items() []core.WorkItem {
	items := make([]core.WorkItem, len(c.chunks))
	for i, chunk := range c.chunks {
		items[i] = core.WorkItem{
			Index:   i,
			ID:      strconv.FormatUint(uint64(core.IDFromContent(chunk.content)), 10),
			Locator: fmt.Sprintf("%s#%d", chunk.path, chunk.ordinal),
		}
	}
	return items
}

// Transform is the engine transform stage for a corpus: it resolves a
// work item back to its chunk text.
func (c *Corpus) Transform(ctx context.Context, item core.WorkItem) (*core.Payload, error) {
	if item.Index < 0 || item.Index >= len(c.chunks) {
		return nil, fmt.Errorf("%w: index %d", ErrUnknownChunk, item.Index)
	}

	chunk := c.chunks[item.Index]
	return &core.Payload{
		Content: chunk.content,
		Metadata: map[string]string{
			"path":  chunk.path,
			"chunk": strconv.Itoa(chunk.ordinal),
		},
	}, nil
}

// ExtractText extracts the text of path with the first reader that
// handles it. Returns ErrNoReader when no reader does.
func ExtractText(readers []FileReader, path string) (string, error) {
	for _, r := range readers {
		if r.CanRead(path) {
			return r.ReadText(path)
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNoReader, path)
}
