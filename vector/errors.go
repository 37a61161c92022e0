package vector

import "errors"

var (
	// ErrDimensionMismatch indicates a vector's dimensionality does not
	// match the index collection.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrEmptyVector indicates an empty embedding was passed to the index.
	ErrEmptyVector = errors.New("vector is empty")
)
