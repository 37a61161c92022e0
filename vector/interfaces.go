package vector

import (
	"context"

	"github.com/poiesic/newswire/core"
)

// MaxBatchSize is the per-request ceiling for batch upserts; larger
// batches are chunked by implementations.
const MaxBatchSize = 100

// Hit is one ranked result from an ANN query. Distance ascends: the
// closest match comes first.
type Hit struct {
	Key      string
	Distance float32
	Metadata core.VectorMetadata
}

// Index is an approximate-nearest-neighbor store of article embeddings
// keyed by URL identity hash. All writes are idempotent upserts;
// replaying a key overwrites its entry.
// Implementations must be thread-safe for concurrent use.
type Index interface {
	// Put upserts a single vector record.
	Put(ctx context.Context, record core.VectorRecord) error

	// PutBatch upserts multiple records, chunking at MaxBatchSize.
	PutBatch(ctx context.Context, records []core.VectorRecord) error

	// Query returns the topK nearest records by ascending distance.
	// A non-empty category is applied server-side as an exact match filter.
	Query(ctx context.Context, vec []float32, topK int, category string) ([]Hit, error)

	// GetByKeys retrieves stored records by identity hash.
	// Missing keys are omitted, not errors.
	GetByKeys(ctx context.Context, keys []string) ([]core.VectorRecord, error)

	// Close releases client resources.
	Close() error
}
