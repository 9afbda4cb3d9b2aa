package port

import (
	"context"

	"github.com/arturoeanton/go-chaindocs/internal/domain"
)

// VectorIndex stores embedding points in a single named collection bound at
// construction time. The ingestion pipeline is the only writer; query-time
// callers are read-only.
type VectorIndex interface {
	// EnsureCollection creates the collection if missing. If it exists with
	// a different dimension the contents are explicitly destroyed and the
	// collection recreated.
	EnsureCollection(ctx context.Context, dimension int) error

	// Upsert inserts or replaces points by id, atomically per point.
	Upsert(ctx context.Context, points []domain.Point) error

	// Search returns up to k points ranked by descending cosine similarity.
	// Ties are stable within one process run. An unreachable store or a
	// missing collection is reported as ErrIndexUnavailable so callers can
	// degrade instead of failing.
	Search(ctx context.Context, vector []float32, k int) ([]domain.ScoredPoint, error)

	// Ready reports whether the backing store is reachable.
	Ready(ctx context.Context) bool
}
