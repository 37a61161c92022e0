package ingest

import "errors"

var (
	// ErrRepositoryRequired is returned when a nil article repository is provided.
	ErrRepositoryRequired = errors.New("article repository is required")

	// ErrEmbedderRequired is returned when a nil embedder is provided.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrIndexRequired is returned when a nil vector index is provided.
	ErrIndexRequired = errors.New("vector index is required")

	// ErrAuditSinkRequired is returned when a nil audit sink is provided.
	ErrAuditSinkRequired = errors.New("audit sink is required")
)
