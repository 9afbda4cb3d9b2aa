package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"

	"github.com/arturoeanton/go-chaindocs/internal/chunker"
	"github.com/arturoeanton/go-chaindocs/internal/domain"
	"github.com/arturoeanton/go-chaindocs/internal/port"
)

// IngestService transforms crawled pages into embedding points and loads them
// into the vector index. It is an offline batch job and the only writer.
type IngestService struct {
	store    port.DocumentStore
	chunker  *chunker.TokenChunker
	embedder port.Embedder
	index    port.VectorIndex
}

// NewIngestService creates the ingestion pipeline.
func NewIngestService(store port.DocumentStore, ch *chunker.TokenChunker, embedder port.Embedder, index port.VectorIndex) *IngestService {
	return &IngestService{store: store, chunker: ch, embedder: embedder, index: index}
}

// IngestSummary reports the outcome of one ingestion run. Failed counts
// documents whose embed or upsert failed; their errors are logged, never
// silently dropped.
type IngestSummary struct {
	Documents int
	Failed    int
	Points    int
}

// Run ingests the whole corpus. The collection is ensured once up front so
// every point in the run shares one dimension. A document that fails to embed
// or upsert is counted and skipped; a dimension mismatch between the embedder
// output and the collection aborts the run before the offending upsert.
func (s *IngestService) Run(ctx context.Context) (*IngestSummary, error) {
	docs, err := s.store.ListPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}

	dimension := s.embedder.Dimension()
	if err := s.index.EnsureCollection(ctx, dimension); err != nil {
		return nil, fmt.Errorf("ensure collection: %w", err)
	}

	slog.Info("ingestion started", "pages", len(docs), "dimension", dimension, "embedder", s.embedder.ModelName())

	summary := &IngestSummary{}
	for _, doc := range docs {
		chunks := s.chunker.Chunk(doc.Body)
		if len(chunks) == 0 {
			summary.Documents++
			continue
		}

		texts := make([]string, len(chunks))
		for i, ch := range chunks {
			texts[i] = ch.Text
		}

		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			slog.Error("embed document failed", "url", doc.URL, "error", err)
			summary.Failed++
			continue
		}
		if len(vectors) != len(chunks) {
			slog.Error("embedder returned wrong batch size", "url", doc.URL, "want", len(chunks), "got", len(vectors))
			summary.Failed++
			continue
		}
		for _, v := range vectors {
			if len(v) != dimension {
				return summary, fmt.Errorf("%w: embedder produced %d, collection expects %d",
					port.ErrDimensionMismatch, len(v), dimension)
			}
		}

		points := make([]domain.Point, len(chunks))
		for i, ch := range chunks {
			points[i] = domain.Point{
				ID:     uuid.NewString(),
				Vector: vectors[i],
				Payload: domain.Payload{
					DocID: strconv.FormatInt(doc.ID, 10),
					Text:  ch.Text,
					URL:   doc.URL,
				},
			}
		}

		if err := s.index.Upsert(ctx, points); err != nil {
			slog.Error("upsert document failed", "url", doc.URL, "error", err)
			summary.Failed++
			continue
		}

		summary.Documents++
		summary.Points += len(points)
	}

	slog.Info("ingestion finished", "documents", summary.Documents, "failed", summary.Failed, "points", summary.Points)
	return summary, nil
}
