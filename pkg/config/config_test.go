package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "qdrant", cfg.VectorBackend)
	assert.Equal(t, "chaindocs", cfg.QdrantCollection)
	assert.Equal(t, "all-minilm", cfg.EmbedModel)
	assert.Equal(t, 384, cfg.EmbeddingDimension)
	assert.Equal(t, 5, cfg.TopK)
	assert.Equal(t, 512, cfg.ChunkTokens)
	assert.Equal(t, 50, cfg.ChunkOverlap)
	assert.Equal(t, "docs.db", cfg.DocsDBPath)
	assert.Len(t, cfg.CrawlStart, 2)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("VECTOR_BACKEND", "memory")
	t.Setenv("EMBEDDING_DIMENSION", "768")
	t.Setenv("CRAWL_START_URLS", " https://a.example/docs/ , https://b.example/ ,")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "memory", cfg.VectorBackend)
	assert.Equal(t, 768, cfg.EmbeddingDimension)
	assert.Equal(t, []string{"https://a.example/docs/", "https://b.example/"}, cfg.CrawlStart)
}

func TestLoadIgnoresMalformedInt(t *testing.T) {
	t.Setenv("RETRIEVAL_TOP_K", "not-a-number")

	cfg := Load()
	assert.Equal(t, 5, cfg.TopK)
}
