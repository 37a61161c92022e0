package answer

import "errors"

var (
	// ErrProviderRequired is returned when a nil AI provider is given.
	ErrProviderRequired = errors.New("ai provider is required")

	// ErrIndexRequired is returned when a nil vector index is given.
	ErrIndexRequired = errors.New("vector index is required")

	// ErrRepositoryRequired is returned when a nil article repository is given.
	ErrRepositoryRequired = errors.New("article repository is required")

	// ErrEmptyQuestion is returned when the question is blank.
	ErrEmptyQuestion = errors.New("question is empty")
)
