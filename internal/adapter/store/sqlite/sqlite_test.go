package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arturoeanton/go-chaindocs/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "docs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndListPages(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.SavePage(ctx, &domain.Document{Title: "First", URL: "https://docs/a", Body: "body a"}))
	require.NoError(t, s.SavePage(ctx, &domain.Document{Title: "Second", URL: "https://docs/b", Body: "body b"}))

	docs, err := s.ListPages(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "First", docs[0].Title)
	assert.Equal(t, "https://docs/a", docs[0].URL)
	assert.Equal(t, "body a", docs[0].Body)
	assert.NotZero(t, docs[0].ID)
	assert.Equal(t, "Second", docs[1].Title)

	n, err := s.CountPages(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestSavePageOverwritesByURL(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.SavePage(ctx, &domain.Document{Title: "Old", URL: "https://docs/a", Body: "old body"}))

	docs, err := s.ListPages(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	firstID := docs[0].ID

	require.NoError(t, s.SavePage(ctx, &domain.Document{Title: "New", URL: "https://docs/a", Body: "new body"}))

	docs, err = s.ListPages(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, firstID, docs[0].ID, "re-crawling a URL must keep its row id")
	assert.Equal(t, "New", docs[0].Title)
	assert.Equal(t, "new body", docs[0].Body)

	n, err := s.CountPages(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "docs.db")

	s, err := New(path)
	require.NoError(t, err)
	require.NoError(t, s.SavePage(ctx, &domain.Document{Title: "Kept", URL: "https://docs/a", Body: "body"}))
	require.NoError(t, s.Close())

	s, err = New(path)
	require.NoError(t, err)
	defer s.Close()

	n, err := s.CountPages(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
