package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateWorkItem(t *testing.T) {
	tests := []struct {
		name    string
		item    *WorkItem
		wantErr error
	}{
		{
			name: "valid item",
			item: &WorkItem{Index: 0, ID: "img_001", Locator: "https://example.com/a.jpg"},
		},
		{
			name: "valid item without ID",
			item: &WorkItem{Index: 12, Locator: "https://example.com/b.jpg"},
		},
		{
			name:    "nil item",
			item:    nil,
			wantErr: ErrInvalidWorkItem,
		},
		{
			name:    "negative index",
			item:    &WorkItem{Index: -1, Locator: "https://example.com/c.jpg"},
			wantErr: ErrNegativeIndex,
		},
		{
			name:    "empty locator",
			item:    &WorkItem{Index: 3},
			wantErr: ErrEmptyLocator,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWorkItem(tt.item)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateArtifact(t *testing.T) {
	valid := &Artifact{
		Id:     42,
		Vector: []float32{0.1, 0.2, 0.3},
		Payload: map[string]string{
			"filename": "a.jpg",
		},
	}
	assert.NoError(t, ValidateArtifact(valid))

	assert.ErrorIs(t, ValidateArtifact(nil), ErrInvalidArtifact)
	assert.ErrorIs(t, ValidateArtifact(&Artifact{Id: 1}), ErrEmptyVector)
}
