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


package core

import "fmt"

// ValidateWorkItem validates a WorkItem according to domain rules.
//
// Validation rules:
//   - Index must not be negative
//   - Locator must not be empty
//
// NOT validated:
//   - ID (optional; some manifests carry no identifier column)
func ValidateWorkItem(item *WorkItem) error {
	if item == nil {
		return fmt.Errorf("%w: item is nil", ErrInvalidWorkItem)
	}

	if item.Index < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidWorkItem, ErrNegativeIndex)
	}

	if item.Locator == "" {
		return fmt.Errorf("%w: %w", ErrInvalidWorkItem, ErrEmptyLocator)
	}

	return nil
}

// ValidateArtifact validates an Artifact according to domain rules.
//
// Validation rules:
//   - Vector must not be empty
//
// NOT validated:
//   - Payload (optional metadata)
//   - CreatedAt (populated by the engine)
func ValidateArtifact(artifact *Artifact) error {
	if artifact == nil {
		return fmt.Errorf("%w: artifact is nil", ErrInvalidArtifact)
	}

	if len(artifact.Vector) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidArtifact, ErrEmptyVector)
	}

	return nil
}
