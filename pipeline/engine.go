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
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/vecpipe/core"
	"github.com/poiesic/vecpipe/storage"
)

// TransformFunc converts one work item into an intermediate payload.
// A nil payload or an error marks the item failed.
type TransformFunc func(ctx context.Context, item core.WorkItem) (*core.Payload, error)

// EmbedFunc converts an intermediate payload into a vector.
type EmbedFunc func(ctx context.Context, payload *core.Payload) ([]float32, error)

// CheckpointFunc records the manifest indices of a confirmed-persisted
// batch so an interrupted run can be resumed index-exactly.
type CheckpointFunc func(ctx context.Context, indices []uint64) error

// Engine drives work items through transform and embed stages under
// two independently bounded worker pools, batches successful artifacts,
// and flushes batches to the sink.
//
// Each item runs in its own goroutine; pool submission is the admission
// gate, so at no instant do more than TransformConcurrency transforms or
// EmbedConcurrency embeds run. Completions are drained in completion
// order from a single channel; the drain loop is the only writer to the
// batch buffer.
type Engine struct {
	sink          storage.ArtifactSink
	transform     TransformFunc
	embed         EmbedFunc
	config        Config
	transformPool *ants.Pool
	embedPool     *ants.Pool
	checkpoint    CheckpointFunc
	progressOut   io.Writer
	logger        *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithProgressWriter sets the destination for progress output.
// Default is os.Stderr. Use io.Discard to silence progress.
func WithProgressWriter(w io.Writer) Option {
	return func(e *Engine) error {
		if w == nil {
			w = io.Discard
		}
		e.progressOut = w
		return nil
	}
}

// WithCheckpointFunc sets a hook called after each confirmed batch
// flush with the manifest indices of the flushed artifacts.
func WithCheckpointFunc(fn CheckpointFunc) Option {
	return func(e *Engine) error {
		e.checkpoint = fn
		return nil
	}
}

// NewEngine creates a pipeline engine.
func NewEngine(sink storage.ArtifactSink, transform TransformFunc, embed EmbedFunc, config Config, opts ...Option) (*Engine, error) {
	if sink == nil {
		return nil, ErrSinkRequired
	}
	if transform == nil {
		return nil, ErrTransformRequired
	}
	if embed == nil {
		return nil, ErrEmbedRequired
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	transformPool, err := ants.NewPool(config.TransformConcurrency)
	if err != nil {
		return nil, err
	}

	embedPool, err := ants.NewPool(config.EmbedConcurrency)
	if err != nil {
		transformPool.Release()
		return nil, err
	}

	e := &Engine{
		sink:          sink,
		transform:     transform,
		embed:         embed,
		config:        config,
		transformPool: transformPool,
		embedPool:     embedPool,
		progressOut:   os.Stderr,
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(e); optErr != nil {
			e.Release()
			return nil, optErr
		}
	}

	return e, nil
}

// completion is the result of one item's pipeline, success or not.
type completion struct {
	item     core.WorkItem
	artifact *core.Artifact
	err      error
}

// Run processes all items and blocks until every item has completed or
// ctx is cancelled. Individual stage failures are counted, never fatal;
// the only error returns are context cancellation.
//
// Success is counted per flushed batch, after the sink confirms the
// write. A failed batch store counts its items as failures, so
// SuccessCount+FailureCount always equals the number of completed items.
func (e *Engine) Run(ctx context.Context, items []core.WorkItem) (core.RunResult, error) {
	stats := NewStats()
	tracker := NewProgressTracker(e.progressOut, len(items), e.config.ReportInterval)
	tracker.Start()

	if len(items) == 0 {
		tracker.Finish(0, 0)
		return core.RunResult{}, nil
	}

	// Schedule everything up front; completions arrive in completion
	// order, not submission order.
	done := make(chan completion)
	for _, item := range items {
		item := item
		go func() {
			artifact, err := e.process(ctx, item)
			select {
			case done <- completion{item: item, artifact: artifact, err: err}:
			case <-ctx.Done():
			}
		}()
	}

	buffer := newBatchBuffer(e.config.BatchSize)

	for completed := 0; completed < len(items); completed++ {
		select {
		case <-ctx.Done():
			snap := stats.Snapshot()
			e.logger.Warn("run cancelled",
				"completed", completed,
				"total", len(items))
			return core.RunResult{SuccessCount: snap.Success, FailureCount: snap.Failure}, ctx.Err()

		case c := <-done:
			if c.err != nil {
				stats.RecordFailures(1)
				e.logger.Warn("item failed",
					"index", c.item.Index,
					"id", c.item.ID,
					"err", c.err)
			} else if batch := buffer.add(c.artifact); batch != nil {
				e.flush(ctx, batch, stats)
			}

			snap := stats.Snapshot()
			tracker.Update(completed+1, snap.Success, snap.Failure)
		}
	}

	if batch := buffer.drain(); batch != nil {
		e.flush(ctx, batch, stats)
	}

	snap := stats.Snapshot()
	tracker.Finish(snap.Success, snap.Failure)

	return core.RunResult{SuccessCount: snap.Success, FailureCount: snap.Failure}, nil
}

// process drives one item Pending -> Transforming -> Embedding -> Embedded.
func (e *Engine) process(ctx context.Context, item core.WorkItem) (*core.Artifact, error) {
	if err := core.ValidateWorkItem(&item); err != nil {
		return nil, err
	}

	var payload *core.Payload
	err := e.runInPool(e.transformPool, func() (stageErr error) {
		stageCtx, cancel := context.WithTimeout(ctx, e.config.StageTimeout)
		defer cancel()
		payload, stageErr = e.transform(stageCtx, item)
		return stageErr
	})
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, ErrNilPayload
	}

	var vector []float32
	err = e.runInPool(e.embedPool, func() (stageErr error) {
		stageCtx, cancel := context.WithTimeout(ctx, e.config.StageTimeout)
		defer cancel()
		vector, stageErr = e.embed(stageCtx, payload)
		return stageErr
	})
	if err != nil {
		return nil, err
	}
	if len(vector) == 0 {
		return nil, ErrEmptyVector
	}

	return e.makeArtifact(item, payload, vector), nil
}

// runInPool executes fn inside the pool and waits for it to return.
// Submit blocks until a worker slot is free, which is what bounds the
// stage's concurrency; the worker returning releases the slot.
func (e *Engine) runInPool(pool *ants.Pool, fn func() error) error {
	var fnErr error
	finished := make(chan struct{})

	if err := pool.Submit(func() {
		defer close(finished)
		fnErr = fn()
	}); err != nil {
		return err
	}

	<-finished
	return fnErr
}

func (e *Engine) makeArtifact(item core.WorkItem, payload *core.Payload, vector []float32) *core.Artifact {
	meta := make(map[string]string, len(payload.Metadata)+3)
	for k, v := range payload.Metadata {
		meta[k] = v
	}
	meta["content"] = payload.Content
	if item.ID != "" {
		meta["item_id"] = item.ID
	}
	if item.Locator != "" {
		meta["locator"] = item.Locator
	}

	return &core.Artifact{
		Id:      core.ID(item.Index),
		Vector:  vector,
		Payload: meta,
	}
}

// flush stores one batch and settles its items' accounting. Sink errors
// are logged and count the batch's items as failures; there is no retry.
func (e *Engine) flush(ctx context.Context, batch []*core.Artifact, stats *Stats) {
	if err := e.sink.StoreArtifacts(ctx, batch); err != nil {
		stats.RecordFailures(len(batch))
		e.logger.Error("failed to store batch",
			"size", len(batch),
			"err", err)
		return
	}

	stats.RecordSuccesses(len(batch))

	if e.checkpoint != nil {
		indices := make([]uint64, len(batch))
		for i, artifact := range batch {
			indices[i] = uint64(artifact.Id)
		}
		if err := e.checkpoint(ctx, indices); err != nil {
			e.logger.Error("failed to record checkpoint", "err", err)
		}
	}
}

// Release releases the worker pools.
// The engine should not be used after calling Release.
func (e *Engine) Release() {
	if e.transformPool != nil {
		e.transformPool.Release()
	}
	if e.embedPool != nil {
		e.embedPool.Release()
	}
}
