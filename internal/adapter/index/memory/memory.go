package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/arturoeanton/go-chaindocs/internal/domain"
	"github.com/arturoeanton/go-chaindocs/internal/port"
)

// Index is a brute-force cosine store kept in process memory. It backs tests
// and small local corpora; the on-disk backends share its semantics.
type Index struct {
	mu        sync.RWMutex
	dimension int
	points    []domain.Point
}

// New creates an empty index. EnsureCollection must run before writes.
func New() *Index { return &Index{} }

// EnsureCollection sets the dimension. An existing collection with a
// different dimension is wiped, matching the destructive recreate of the
// remote backends.
func (x *Index) EnsureCollection(_ context.Context, dimension int) error {
	if dimension <= 0 {
		return fmt.Errorf("memory: invalid dimension %d", dimension)
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.dimension != dimension {
		x.points = nil
	}
	x.dimension = dimension
	return nil
}

// Upsert inserts or replaces points by id.
func (x *Index) Upsert(_ context.Context, points []domain.Point) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.dimension == 0 {
		return fmt.Errorf("%w: collection not created", port.ErrIndexUnavailable)
	}
	for _, p := range points {
		if len(p.Vector) != x.dimension {
			return fmt.Errorf("%w: point %s has dimension %d, collection expects %d",
				port.ErrDimensionMismatch, p.ID, len(p.Vector), x.dimension)
		}
	}
	for _, p := range points {
		replaced := false
		for i := range x.points {
			if x.points[i].ID == p.ID {
				x.points[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			x.points = append(x.points, p)
		}
	}
	return nil
}

// Search scores every point by cosine similarity. The stable sort keeps
// insertion order for ties.
func (x *Index) Search(_ context.Context, vector []float32, k int) ([]domain.ScoredPoint, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	if x.dimension == 0 {
		return nil, fmt.Errorf("%w: collection not created", port.ErrIndexUnavailable)
	}
	if k <= 0 {
		k = 5
	}

	hits := make([]domain.ScoredPoint, 0, len(x.points))
	for _, p := range x.points {
		hits = append(hits, domain.ScoredPoint{Point: p, Score: cosine(p.Vector, vector)})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// Ready always reports true; there is nothing to reach.
func (x *Index) Ready(context.Context) bool { return true }

func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
