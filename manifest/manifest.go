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


package manifest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/poiesic/vecpipe/core"
)

// idColumns and locatorColumns are the accepted header names, in
// priority order.
var (
	idColumns      = []string{"filename", "id", "name"}
	locatorColumns = []string{"url", "link", "locator"}
)

// Source is an ordered, indexable collection of work items read from a
// manifest. Items keep their original manifest index across slicing and
// resume filtering.
type Source struct {
	items []core.WorkItem
}

// Load reads a CSV manifest file into a Source.
func Load(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer f.Close()

	return LoadReader(f)
}

// LoadReader reads a CSV manifest into a Source. The first row must be
// a header naming an identifier column (filename/id/name) and a locator
// column (url/link/locator). Rows with an empty locator are kept; they
// fail in the engine and count as item failures.
func LoadReader(r io.Reader) (*Source, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyManifest
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest header: %w", err)
	}

	idCol := findColumn(header, idColumns)
	locatorCol := findColumn(header, locatorColumns)
	if idCol < 0 || locatorCol < 0 {
		return nil, ErrMissingColumns
	}

	var items []core.WorkItem
	for index := 0; ; index++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read manifest row %d: %w", index, err)
		}

		items = append(items, core.WorkItem{
			Index:   index,
			ID:      field(record, idCol),
			Locator: field(record, locatorCol),
		})
	}

	return &Source{items: items}, nil
}

// NewSource wraps an item list, assigning 0-based indices.
func NewSource(items []core.WorkItem) *Source {
	return &Source{items: items}
}

// Len returns the number of items in the source.
func (s *Source) Len() int {
	return len(s.items)
}

// Items returns the source's items in order.
func (s *Source) Items() []core.WorkItem {
	return s.items
}

// Slice returns the items whose original index falls in
// [start, start+max), capped at the end of the source. max <= 0 means
// unbounded. Items keep their original Index field.
// Returns core.ErrInvalidRange when start is negative or past the end.
func (s *Source) Slice(start, max int) (*Source, error) {
	if start < 0 || start > len(s.items) {
		return nil, fmt.Errorf("%w: start %d with %d items", core.ErrInvalidRange, start, len(s.items))
	}

	end := len(s.items)
	if max > 0 && start+max < end {
		end = start + max
	}

	return &Source{items: s.items[start:end]}, nil
}

// SkipPersisted filters out items whose index the checkpoint records as
// already persisted. A nil checkpoint returns the source unchanged.
func (s *Source) SkipPersisted(checkpoint *core.Checkpoint) *Source {
	if checkpoint == nil || len(checkpoint.Persisted) == 0 {
		return s
	}

	persisted := make(map[uint64]bool, len(checkpoint.Persisted))
	for _, idx := range checkpoint.Persisted {
		persisted[idx] = true
	}

	remaining := make([]core.WorkItem, 0, len(s.items))
	for _, item := range s.items {
		if item.Index >= 0 && persisted[uint64(item.Index)] {
			continue
		}
		remaining = append(remaining, item)
	}

	return &Source{items: remaining}
}

// findColumn returns the index of the first header cell matching any of
// the accepted names, or -1.
func findColumn(header []string, names []string) int {
	for _, name := range names {
		for i, cell := range header {
			if strings.EqualFold(strings.TrimSpace(cell), name) {
				return i
			}
		}
	}
	return -1
}

func field(record []string, i int) string {
	if i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
