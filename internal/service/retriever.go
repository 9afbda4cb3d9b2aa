package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/arturoeanton/go-chaindocs/internal/port"
)

// Retriever embeds a query and pulls the closest chunks from the vector index.
type Retriever struct {
	embedder port.Embedder
	index    port.VectorIndex
	topK     int
}

// NewRetriever creates a retriever; topK falls back to 5 when unset.
func NewRetriever(embedder port.Embedder, index port.VectorIndex, topK int) *Retriever {
	if topK <= 0 {
		topK = 5
	}
	return &Retriever{embedder: embedder, index: index, topK: topK}
}

// Retrieve returns context chunks and their source URLs in rank order.
// Hits without chunk text contribute no chunk. An unavailable index degrades
// to an empty context; that is a valid result, not an error.
func (r *Retriever) Retrieve(ctx context.Context, query string) (chunks []string, sources []string, err error) {
	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := r.index.Search(ctx, vector, r.topK)
	if err != nil {
		if errors.Is(err, port.ErrIndexUnavailable) {
			slog.Warn("vector index unavailable, answering without context", "error", err)
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("vector search: %w", err)
	}

	for _, hit := range hits {
		if text := hit.Payload.ChunkText(); text != "" {
			chunks = append(chunks, text)
		}
		if src := hit.Payload.SourceURL(); src != "" {
			sources = append(sources, src)
		}
	}
	return chunks, sources, nil
}
