package port

import "errors"

// Sentinel errors used across ports. Handlers classify wrapped errors with
// errors.Is to pick the response status.
var (
	// ErrInvalidInput marks a caller mistake, such as an empty query.
	ErrInvalidInput = errors.New("invalid input")

	// ErrIndexUnavailable means the vector store is unreachable or the
	// collection does not exist. Retrieval absorbs it and degrades to an
	// empty context instead of failing the request.
	ErrIndexUnavailable = errors.New("vector index unavailable")

	// ErrNotConfigured means neither a local model nor a remote credential
	// is available for generation. Operators fix deployment, not callers.
	ErrNotConfigured = errors.New("neither local model nor remote API key is configured")

	// ErrUpstreamGeneration marks a failed or timed-out remote generation
	// call. It is retryable by the caller; the server does not retry.
	ErrUpstreamGeneration = errors.New("upstream generation failed")

	// ErrDimensionMismatch means produced vectors do not match the
	// collection dimension. It aborts an ingestion run before any upsert.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)
