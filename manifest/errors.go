package manifest

import "errors"

var (
	// ErrEmptyManifest is returned when the manifest has no header row.
	ErrEmptyManifest = errors.New("manifest is empty")

	// ErrMissingColumns is returned when the header lacks an identifier
	// or locator column.
	ErrMissingColumns = errors.New("manifest header missing identifier or locator column")
)
