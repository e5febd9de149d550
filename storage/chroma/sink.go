package chroma

import (
	"context"
	"fmt"

	chroma "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings"
	"github.com/poiesic/vecpipe/core"
	"github.com/poiesic/vecpipe/storage"
)

// SinkConfig configures a remote Chroma sink.
type SinkConfig struct {
	// BaseURL is the address of the Chroma server.
	BaseURL string

	// Collection is the collection artifacts are written to.
	Collection string

	// RequestSize caps the number of artifacts sent per Add request.
	// Zero means no cap.
	RequestSize int
}

// Sink writes embedded artifacts to a remote Chroma collection.
// Vectors are computed upstream, so the collection never embeds on its own.
type Sink struct {
	client      chroma.Client
	col         chroma.Collection
	requestSize int
}

var _ storage.ArtifactSink = (*Sink)(nil)

// NewSink connects to a Chroma server and opens (or creates) the target
// collection.
func NewSink(ctx context.Context, cfg SinkConfig) (*Sink, error) {
	if cfg.Collection == "" {
		return nil, fmt.Errorf("chroma sink: collection name is required")
	}

	client, err := chroma.NewHTTPClient(chroma.WithBaseURL(cfg.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to create chroma client: %w", err)
	}

	col, err := client.GetOrCreateCollection(ctx, cfg.Collection)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to open collection %s: %w", cfg.Collection, err)
	}

	return &Sink{
		client:      client,
		col:         col,
		requestSize: cfg.RequestSize,
	}, nil
}

// StoreArtifacts writes a batch to the collection, splitting it into
// sub-requests when it exceeds the configured request size.
func (s *Sink) StoreArtifacts(ctx context.Context, artifacts []*core.Artifact) error {
	if len(artifacts) == 0 {
		return storage.ErrEmptyBatch
	}

	bucket := len(artifacts)
	if s.requestSize > 0 && s.requestSize < bucket {
		bucket = s.requestSize
	}

	for start := 0; start < len(artifacts); start += bucket {
		end := start + bucket
		if end > len(artifacts) {
			end = len(artifacts)
		}
		if err := s.add(ctx, artifacts[start:end]); err != nil {
			return fmt.Errorf("failed to store artifacts: %w", err)
		}
	}

	return nil
}

func (s *Sink) add(ctx context.Context, artifacts []*core.Artifact) error {
	ids := make([]chroma.DocumentID, 0, len(artifacts))
	texts := make([]string, 0, len(artifacts))
	vectors := make([]embeddings.Embedding, 0, len(artifacts))
	metadatas := make([]chroma.DocumentMetadata, 0, len(artifacts))

	for _, artifact := range artifacts {
		ids = append(ids, chroma.DocumentID(fmt.Sprintf("%d", artifact.Id)))
		texts = append(texts, artifact.Payload["content"])
		vectors = append(vectors, embeddings.NewEmbeddingFromFloat32(artifact.Vector))

		attrs := make([]*chroma.MetaAttribute, 0, len(artifact.Payload))
		for k, v := range artifact.Payload {
			if k == "content" {
				continue
			}
			attrs = append(attrs, chroma.NewStringAttribute(k, v))
		}
		metadatas = append(metadatas, chroma.NewDocumentMetadata(attrs...))
	}

	return s.col.Add(ctx,
		chroma.WithIDs(ids...),
		chroma.WithTexts(texts...),
		chroma.WithEmbeddings(vectors...),
		chroma.WithMetadatas(metadatas...),
	)
}

// Close releases the underlying HTTP client.
func (s *Sink) Close() error {
	return s.client.Close()
}
