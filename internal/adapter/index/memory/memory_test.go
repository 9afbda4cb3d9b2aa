package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arturoeanton/go-chaindocs/internal/domain"
	"github.com/arturoeanton/go-chaindocs/internal/port"
)

func point(id string, vec ...float32) domain.Point {
	return domain.Point{ID: id, Vector: vec, Payload: domain.Payload{Text: id}}
}

func TestSearchRanksByCosineSimilarity(t *testing.T) {
	ctx := context.Background()
	x := New()
	require.NoError(t, x.EnsureCollection(ctx, 2))
	require.NoError(t, x.Upsert(ctx, []domain.Point{
		point("orthogonal", 0, 1),
		point("aligned", 2, 0), // magnitude must not matter
		point("diagonal", 1, 1),
	}))

	hits, err := x.Search(ctx, []float32{1, 0}, 5)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, "aligned", hits[0].ID)
	assert.Equal(t, "diagonal", hits[1].ID)
	assert.Equal(t, "orthogonal", hits[2].ID)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-9)
	assert.InDelta(t, 0.0, hits[2].Score, 1e-9)
}

func TestSearchTruncatesToK(t *testing.T) {
	ctx := context.Background()
	x := New()
	require.NoError(t, x.EnsureCollection(ctx, 2))
	for _, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, x.Upsert(ctx, []domain.Point{point(id, 1, 0)}))
	}

	hits, err := x.Search(ctx, []float32{1, 0}, 2)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestSearchTiesKeepInsertionOrder(t *testing.T) {
	ctx := context.Background()
	x := New()
	require.NoError(t, x.EnsureCollection(ctx, 2))
	require.NoError(t, x.Upsert(ctx, []domain.Point{
		point("first", 1, 0),
		point("second", 2, 0),
		point("third", 3, 0),
	}))

	hits, err := x.Search(ctx, []float32{1, 0}, 5)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, "first", hits[0].ID)
	assert.Equal(t, "second", hits[1].ID)
	assert.Equal(t, "third", hits[2].ID)
}

func TestUpsertReplacesById(t *testing.T) {
	ctx := context.Background()
	x := New()
	require.NoError(t, x.EnsureCollection(ctx, 2))
	require.NoError(t, x.Upsert(ctx, []domain.Point{point("p", 1, 0)}))
	require.NoError(t, x.Upsert(ctx, []domain.Point{point("p", 0, 1)}))

	hits, err := x.Search(ctx, []float32{0, 1}, 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-9)
}

func TestUpsertRejectsWrongDimension(t *testing.T) {
	ctx := context.Background()
	x := New()
	require.NoError(t, x.EnsureCollection(ctx, 2))

	err := x.Upsert(ctx, []domain.Point{point("p", 1, 0, 0)})
	require.Error(t, err)
	assert.ErrorIs(t, err, port.ErrDimensionMismatch)
}

func TestEnsureCollectionWipesOnNewDimension(t *testing.T) {
	ctx := context.Background()
	x := New()
	require.NoError(t, x.EnsureCollection(ctx, 2))
	require.NoError(t, x.Upsert(ctx, []domain.Point{point("p", 1, 0)}))

	// same dimension keeps the data
	require.NoError(t, x.EnsureCollection(ctx, 2))
	hits, err := x.Search(ctx, []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Len(t, hits, 1)

	// new dimension starts empty
	require.NoError(t, x.EnsureCollection(ctx, 3))
	hits, err = x.Search(ctx, []float32{1, 0, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearchBeforeEnsureIsUnavailable(t *testing.T) {
	x := New()
	_, err := x.Search(context.Background(), []float32{1, 0}, 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, port.ErrIndexUnavailable)
}
