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


package pipeline

import (
	"fmt"
	"time"
)

// Config holds engine settings.
type Config struct {
	// TransformConcurrency bounds concurrent transform stage calls.
	TransformConcurrency int

	// EmbedConcurrency bounds concurrent embed stage calls.
	// Independent of TransformConcurrency so a slow embed service
	// cannot starve transform throughput.
	EmbedConcurrency int

	// BatchSize is the number of artifacts accumulated before a
	// batch is flushed to the sink.
	BatchSize int

	// StageTimeout is the ceiling applied to each individual
	// transform or embed call. A timeout counts as a stage failure.
	StageTimeout time.Duration

	// ReportInterval controls how often progress is printed,
	// in completed items.
	ReportInterval int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		TransformConcurrency: 8,
		EmbedConcurrency:     4,
		BatchSize:            64,
		StageTimeout:         60 * time.Second,
		ReportInterval:       10,
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.TransformConcurrency < 1 {
		return fmt.Errorf("transform concurrency must be at least 1, got %d", c.TransformConcurrency)
	}
	if c.EmbedConcurrency < 1 {
		return fmt.Errorf("embed concurrency must be at least 1, got %d", c.EmbedConcurrency)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("batch size must be at least 1, got %d", c.BatchSize)
	}
	if c.StageTimeout <= 0 {
		return fmt.Errorf("stage timeout must be positive, got %s", c.StageTimeout)
	}
	if c.ReportInterval < 1 {
		return fmt.Errorf("report interval must be at least 1, got %d", c.ReportInterval)
	}
	return nil
}
