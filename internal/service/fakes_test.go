package service

import (
	"context"
	"strings"
	"unicode"

	"github.com/arturoeanton/go-chaindocs/internal/domain"
)

// fakeEmbedder returns one fixed vector for every text.
type fakeEmbedder struct {
	dim int
	vec []float32
	err error
}

func (e *fakeEmbedder) ModelName() string { return "fake-embedder" }
func (e *fakeEmbedder) Dimension() int    { return e.dim }

func (e *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	return e.vec, nil
}

func (e *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = e.vec
	}
	return out, nil
}

// vocabEmbedder counts occurrences of a fixed vocabulary, giving fully
// predictable similarities for round-trip tests.
type vocabEmbedder struct {
	vocab []string
}

func (e *vocabEmbedder) ModelName() string { return "vocab-embedder" }
func (e *vocabEmbedder) Dimension() int    { return len(e.vocab) }

func (e *vocabEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float32, len(e.vocab))
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		for i, v := range e.vocab {
			if w == v {
				vec[i]++
			}
		}
	}
	return vec, nil
}

func (e *vocabEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec, err := e.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

// fakeIndex records upserts and serves canned hits or a canned error.
type fakeIndex struct {
	hits      []domain.ScoredPoint
	searchErr error
	ensureErr error

	ensured []int
	upserts [][]domain.Point
}

func (x *fakeIndex) EnsureCollection(ctx context.Context, dimension int) error {
	x.ensured = append(x.ensured, dimension)
	return x.ensureErr
}

func (x *fakeIndex) Upsert(ctx context.Context, points []domain.Point) error {
	x.upserts = append(x.upserts, points)
	return nil
}

func (x *fakeIndex) Search(ctx context.Context, vector []float32, k int) ([]domain.ScoredPoint, error) {
	if x.searchErr != nil {
		return nil, x.searchErr
	}
	return x.hits, nil
}

func (x *fakeIndex) Ready(ctx context.Context) bool { return x.searchErr == nil }

// fakeGenerator records every prompt it is given.
type fakeGenerator struct {
	out     string
	err     error
	prompts []string
}

func (g *fakeGenerator) Name() string { return "fake-generator" }

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	return g.out, nil
}

// fakeDocStore serves a fixed corpus.
type fakeDocStore struct {
	docs []domain.Document
	err  error
}

func (s *fakeDocStore) SavePage(ctx context.Context, doc *domain.Document) error {
	s.docs = append(s.docs, *doc)
	return nil
}

func (s *fakeDocStore) ListPages(ctx context.Context) ([]domain.Document, error) {
	return s.docs, s.err
}

func (s *fakeDocStore) CountPages(ctx context.Context) (int, error) { return len(s.docs), nil }

func (s *fakeDocStore) Close() error { return nil }
