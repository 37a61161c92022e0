package backfill

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when retry is configured with a
	// non-positive attempt count.
	ErrInvalidMaxAttempts = errors.New("max attempts must be greater than zero")

	// ErrRepositoryRequired is returned when a nil article repository is provided.
	ErrRepositoryRequired = errors.New("article repository is required")

	// ErrEmbedderRequired is returned when a nil embedder is provided.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrIndexRequired is returned when a nil vector index is provided.
	ErrIndexRequired = errors.New("vector index is required")
)
