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


// Package storage provides the storage abstraction layer for vecpipe.
//
// This package defines the sink and repository interfaces that decouple the
// pipeline engine and search logic from any particular vector store. It allows
// different backends (BadgerDB, Chroma, in-memory) to be used interchangeably.
//
// # Constructor Return Type Pattern
//
// This package follows a strict "return interface" pattern for all public
// constructors to enforce abstraction and enable multiple storage backend
// implementations:
//
//	sink, err := badger.NewArtifactRepository(backend)  // returns storage.ArtifactRepository
//
// This design decision prioritizes:
//   - Abstraction: Prevents accidental coupling to backend specifics
//   - Swappability: Easy to add alternative backends (Qdrant, pgvector, etc.)
//   - Testing: Consumers can use mock implementations without modification
//
// # Architecture
//
// The storage layer splits the write and read paths:
//
//   - ArtifactSink: batched writes, the only operation the pipeline engine needs
//   - VectorSearcher: similarity queries for the search path
//   - ArtifactRepository: both, plus point lookups, for local backends
//   - CheckpointRepository: persisted-index checkpoints for index-exact resume
//
// # Thread Safety
//
// All implementations must be thread-safe and support concurrent access from
// multiple goroutines.
//
// # Context Support
//
// All methods accept context.Context for cancellation and timeout support.
package storage
