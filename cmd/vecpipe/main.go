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


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/vecpipe"
	"github.com/poiesic/vecpipe/ai"
	"github.com/poiesic/vecpipe/ai/openai"
	"github.com/poiesic/vecpipe/chunk"
	"github.com/poiesic/vecpipe/fetch"
	"github.com/poiesic/vecpipe/manifest"
	"github.com/poiesic/vecpipe/pipeline"
	"github.com/poiesic/vecpipe/reembed"
	"github.com/poiesic/vecpipe/search"
	"github.com/poiesic/vecpipe/storage/badger"
	"github.com/poiesic/vecpipe/storage/chroma"
)

func main() {
	app := &cli.App{
		Name:  "vecpipe",
		Usage: "Bulk embedding pipeline with batched vector persistence",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Download, embed and store every item of a CSV manifest",
				Action: ingestCommand,
				Flags: append(engineFlags(),
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "manifest",
						Aliases:  []string{"m"},
						Usage:    "Path to CSV manifest file",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "start-from",
						Usage: "Original manifest index to start from",
					},
					&cli.IntFlag{
						Name:  "max-items",
						Usage: "Maximum number of items to process (0 = unbounded)",
					},
					&cli.StringFlag{
						Name:  "run-id",
						Usage: "Run identifier for checkpointing",
					},
					&cli.BoolFlag{
						Name:  "resume",
						Usage: "Skip items the run's checkpoint records as persisted",
					},
					&cli.StringFlag{
						Name:  "chroma-url",
						Usage: "Chroma server URL; store artifacts remotely instead of in BadgerDB",
					},
					&cli.StringFlag{
						Name:  "chroma-collection",
						Usage: "Chroma collection name",
						Value: "vecpipe",
					},
				),
			},
			{
				Name:   "ingest-docs",
				Usage:  "Chunk, embed and store every document under a directory",
				Action: ingestDocsCommand,
				Flags: append(engineFlags(),
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "docs",
						Usage:    "Path to document directory",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "chunk-size",
						Usage: "Chunk size in bytes",
						Value: 1024,
					},
					&cli.IntFlag{
						Name:  "chunk-overlap",
						Usage: "Overlap between consecutive chunks in bytes",
						Value: 128,
					},
				),
			},
			{
				Name:      "search",
				Usage:     "Search stored artifacts",
				Action:    searchCommand,
				ArgsUsage: "QUERY",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "max-hits",
						Usage: "Maximum number of results",
						Value: 10,
					},
					&cli.Float64Flag{
						Name:  "threshold",
						Usage: "Minimum similarity score",
						Value: 0.60,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "embeddinggemma",
					},
					&cli.StringFlag{
						Name:  "rerank-host",
						Usage: "Rerank service host URL (optional)",
					},
					&cli.StringFlag{
						Name:  "rerank-model",
						Usage: "Rerank model name",
					},
					&cli.StringFlag{
						Name:    "api-key",
						Usage:   "Bearer token for the AI services",
						EnvVars: []string{"VECPIPE_API_KEY"},
					},
				},
			},
			{
				Name:   "reembed",
				Usage:  "Regenerate the embedding of every stored artifact",
				Action: reembedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "embeddinggemma",
					},
					&cli.StringFlag{
						Name:    "api-key",
						Usage:   "Bearer token for the AI services",
						EnvVars: []string{"VECPIPE_API_KEY"},
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of artifacts per embedding request",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N artifacts",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed embedding calls",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for retry backoff",
						Value: time.Second,
					},
				},
			},
			{
				Name:   "status",
				Usage:  "Show artifact count and run checkpoints",
				Action: statusCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "run-id",
						Usage: "Show the checkpoint for this run",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// engineFlags are the flags shared by the ingest commands.
func engineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "transform-concurrency",
			Usage: "Maximum concurrent transform stage calls",
			Value: 8,
		},
		&cli.IntFlag{
			Name:  "embed-concurrency",
			Usage: "Maximum concurrent embed stage calls",
			Value: 4,
		},
		&cli.IntFlag{
			Name:  "batch-size",
			Usage: "Number of artifacts per storage batch",
			Value: 64,
		},
		&cli.DurationFlag{
			Name:  "stage-timeout",
			Usage: "Timeout for each transform or embed call",
			Value: 60 * time.Second,
		},
		&cli.IntFlag{
			Name:  "report-interval",
			Usage: "Report progress every N completed items",
			Value: 10,
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "embeddinggemma",
		},
		&cli.StringFlag{
			Name:    "api-key",
			Usage:   "Bearer token for the AI services",
			EnvVars: []string{"VECPIPE_API_KEY"},
		},
	}
}

func engineConfig(c *cli.Context) pipeline.Config {
	return pipeline.Config{
		TransformConcurrency: c.Int("transform-concurrency"),
		EmbedConcurrency:     c.Int("embed-concurrency"),
		BatchSize:            c.Int("batch-size"),
		StageTimeout:         c.Duration("stage-timeout"),
		ReportInterval:       c.Int("report-interval"),
	}
}

func aiConfig(c *cli.Context) *ai.Config {
	return ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithAPIKey(c.String("api-key")),
	)
}

func openStore(c *cli.Context, config *ai.Config) (*vecpipe.Store, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	store, err := vecpipe.Open(c.String("db"), vecpipe.WithAIConfig(config))
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return store, nil
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	store, err := openStore(c, aiConfig(c))
	if err != nil {
		return err
	}
	defer store.Close()

	// Load and slice the manifest
	source, err := manifest.Load(c.String("manifest"))
	if err != nil {
		return fmt.Errorf("failed to load manifest: %w", err)
	}

	source, err = source.Slice(c.Int("start-from"), c.Int("max-items"))
	if err != nil {
		return err
	}

	runID := c.String("run-id")
	if c.Bool("resume") {
		if runID == "" {
			return fmt.Errorf("resume requires a run-id")
		}
		checkpoint, err := store.LoadCheckpoint(ctx, runID)
		if err != nil {
			return fmt.Errorf("failed to load checkpoint: %w", err)
		}
		source = source.SkipPersisted(checkpoint)
	}

	fetcher := fetch.NewFetcher()

	var engine *pipeline.Engine
	chromaURL := c.String("chroma-url")
	if chromaURL != "" {
		// Remote sink: no local artifact rows, so no checkpointing.
		sink, err := chroma.NewSink(ctx, chroma.SinkConfig{
			BaseURL:    chromaURL,
			Collection: c.String("chroma-collection"),
		})
		if err != nil {
			return err
		}
		defer sink.Close()

		engine, err = pipeline.NewEngine(sink, fetcher.Transform, store.EmbedTransform(), engineConfig(c))
		if err != nil {
			return err
		}
	} else {
		engine, err = store.NewEngine(runID, fetcher.Transform, engineConfig(c))
		if err != nil {
			return err
		}
	}
	defer engine.Release()

	fmt.Fprintf(os.Stderr, "Manifest: %s (%d items)\n", c.String("manifest"), source.Len())
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	result, err := engine.Run(ctx, source.Items())
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Done: %d succeeded, %d failed\n", result.SuccessCount, result.FailureCount)
	return nil
}

func ingestDocsCommand(c *cli.Context) error {
	ctx := context.Background()

	store, err := openStore(c, aiConfig(c))
	if err != nil {
		return err
	}
	defer store.Close()

	chunker, err := chunk.NewChunker(c.Int("chunk-size"), c.Int("chunk-overlap"))
	if err != nil {
		return err
	}

	corpus, err := chunk.LoadDir(c.String("docs"), chunker, chunk.DefaultReaders(), slog.Default())
	if err != nil {
		return fmt.Errorf("failed to load documents: %w", err)
	}

	engine, err := store.NewEngine("", corpus.Transform, engineConfig(c))
	if err != nil {
		return err
	}
	defer engine.Release()

	fmt.Fprintf(os.Stderr, "Documents: %s (%d chunks)\n", c.String("docs"), corpus.Len())
	fmt.Fprintln(os.Stderr)

	result, err := engine.Run(ctx, corpus.Items())
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Done: %d succeeded, %d failed\n", result.SuccessCount, result.FailureCount)
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query is required")
	}

	config := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithRerankHost(c.String("rerank-host")),
		ai.WithRerankModel(c.String("rerank-model")),
		ai.WithAPIKey(c.String("api-key")),
	)

	store, err := openStore(c, config)
	if err != nil {
		return err
	}
	defer store.Close()

	searcher, err := store.NewSearcher(
		search.WithThreshold(float32(c.Float64("threshold"))),
	)
	if err != nil {
		return err
	}

	results, err := searcher.FindSimilar(ctx, query, c.Int("max-hits"))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Println("No results.")
		return nil
	}

	for i, result := range results {
		fmt.Printf("%d. [%.3f] id=%d\n", i+1, result.Score, result.Artifact.Id)
		if content := result.Artifact.Payload["content"]; content != "" {
			fmt.Printf("   %s\n", truncate(content, 200))
		}
		if locator := result.Artifact.Payload["locator"]; locator != "" {
			fmt.Printf("   %s\n", locator)
		}
	}
	return nil
}

func reembedCommand(c *cli.Context) error {
	ctx := context.Background()

	config := aiConfig(c)
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	embedder, err := openai.NewEmbedder(config)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	artifactRepo, err := badger.NewArtifactRepository(backend)
	if err != nil {
		return err
	}
	defer artifactRepo.Close()

	reembedder, err := reembed.NewReembedder(artifactRepo, embedder, &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}, os.Stderr)
	if err != nil {
		return err
	}

	if err := reembedder.Run(ctx); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	return nil
}

func statusCommand(c *cli.Context) error {
	ctx := context.Background()

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	artifactRepo, err := badger.NewArtifactRepository(backend)
	if err != nil {
		return err
	}
	defer artifactRepo.Close()

	count, err := artifactRepo.CountArtifacts(ctx)
	if err != nil {
		return fmt.Errorf("failed to count artifacts: %w", err)
	}
	fmt.Printf("Artifacts: %d\n", count)

	if runID := c.String("run-id"); runID != "" {
		checkpointRepo, err := badger.NewCheckpointRepository(backend)
		if err != nil {
			return err
		}

		checkpoint, err := checkpointRepo.LoadCheckpoint(ctx, runID)
		if err != nil {
			return fmt.Errorf("failed to load checkpoint: %w", err)
		}
		if checkpoint == nil {
			fmt.Printf("Run %s: no checkpoint\n", runID)
			return nil
		}
		fmt.Printf("Run %s: %d items persisted, updated %s\n",
			runID, len(checkpoint.Persisted), checkpoint.UpdatedAt.Format(time.RFC3339))
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	// Back up to a rune boundary so multi-byte characters are not split
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
