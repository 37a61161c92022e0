package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidRawItem indicates a RawItem failed validation.
	ErrInvalidRawItem = errors.New("invalid raw item")

	// ErrEmptyTitle indicates the Title field is empty.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrEmptyLink indicates the Link field is empty.
	ErrEmptyLink = errors.New("link cannot be empty")

	// ErrEmptyEmbeddingText indicates there is no text to embed after
	// preprocessing; callers skip the record rather than retry.
	ErrEmptyEmbeddingText = errors.New("embedding text is empty")
)
