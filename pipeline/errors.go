package pipeline

import "errors"

var (
	// ErrSinkRequired is returned when an artifact sink is not provided.
	ErrSinkRequired = errors.New("artifact sink required")

	// ErrTransformRequired is returned when a transform stage is not provided.
	ErrTransformRequired = errors.New("transform stage required")

	// ErrEmbedRequired is returned when an embed stage is not provided.
	ErrEmbedRequired = errors.New("embed stage required")

	// ErrNilPayload is returned when a transform stage produces no payload.
	ErrNilPayload = errors.New("transform produced nil payload")

	// ErrEmptyVector is returned when an embed stage produces no vector.
	ErrEmptyVector = errors.New("embed produced empty vector")
)
