package chunker

import (
	"fmt"
	"strings"

	"github.com/arturoeanton/go-chaindocs/internal/domain"
)

// TokenChunker splits text into overlapping windows of whitespace tokens,
// the same token convention the embedder sees. Window i starts at
// i*(maxTokens-overlap); the final window may be shorter than maxTokens.
type TokenChunker struct {
	maxTokens int
	overlap   int
}

// New validates the window parameters. An overlap at or above the window size
// would never advance, so it is rejected up front.
func New(maxTokens, overlap int) (*TokenChunker, error) {
	if maxTokens <= 0 {
		return nil, fmt.Errorf("chunker: max tokens must be positive, got %d", maxTokens)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("chunker: overlap must not be negative, got %d", overlap)
	}
	if overlap >= maxTokens {
		return nil, fmt.Errorf("chunker: overlap %d must be smaller than max tokens %d", overlap, maxTokens)
	}
	return &TokenChunker{maxTokens: maxTokens, overlap: overlap}, nil
}

// Chunk splits text into windows. Identical input always yields identical
// chunks; empty or whitespace-only text yields none.
func (c *TokenChunker) Chunk(text string) []domain.Chunk {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return nil
	}
	step := c.maxTokens - c.overlap
	var chunks []domain.Chunk
	for start := 0; start < len(tokens); start += step {
		end := start + c.maxTokens
		if end > len(tokens) {
			end = len(tokens)
		}
		window := tokens[start:end]
		chunks = append(chunks, domain.Chunk{
			Text:       strings.Join(window, " "),
			TokenCount: len(window),
		})
	}
	return chunks
}
