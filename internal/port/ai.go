package port

import "context"

// Embedder maps text to fixed-dimension dense vectors. All vectors in one
// collection must come from the same model; mixing models breaks the cosine
// similarity convention.
type Embedder interface {
	// ModelName returns the identifier of the embedding model.
	ModelName() string

	// Dimension returns the declared output dimension of the model.
	Dimension() int

	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts, preserving order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator produces an answer for a fully assembled prompt. Generation is
// single-shot; there is no multi-turn memory.
type Generator interface {
	// Name returns the identifier of the generation backend.
	Name() string

	// Generate runs bounded generation and returns the trimmed answer text.
	Generate(ctx context.Context, prompt string) (string, error)
}
