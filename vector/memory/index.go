// Package memory provides an in-process vector.Index used by tests and
// local development. Queries are brute-force cosine scans; the write
// path mirrors the production adapter's upsert semantics exactly.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/poiesic/newswire/core"
	"github.com/poiesic/newswire/vector"
)

// Index is a map-backed vector index.
type Index struct {
	mu      sync.RWMutex
	records map[string]core.VectorRecord
}

var _ vector.Index = (*Index)(nil)

// NewIndex creates an empty in-memory index.
func NewIndex() *Index {
	return &Index{records: make(map[string]core.VectorRecord)}
}

// Put upserts a single record; replaying a key overwrites.
func (ix *Index) Put(ctx context.Context, record core.VectorRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(record.Vector) == 0 {
		return vector.ErrEmptyVector
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.records[record.Key] = record
	return nil
}

// PutBatch upserts multiple records.
func (ix *Index) PutBatch(ctx context.Context, records []core.VectorRecord) error {
	for _, record := range records {
		if err := ix.Put(ctx, record); err != nil {
			return err
		}
	}
	return nil
}

// Query returns the topK nearest records by ascending cosine distance.
func (ix *Index) Query(ctx context.Context, vec []float32, topK int, category string) ([]vector.Hit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ix.mu.RLock()
	hits := make([]vector.Hit, 0, len(ix.records))
	for _, record := range ix.records {
		if category != "" && record.Metadata.Category != category {
			continue
		}
		hits = append(hits, vector.Hit{
			Key:      record.Key,
			Distance: 1 - vector.Cosine(vec, record.Vector),
			Metadata: record.Metadata,
		})
	}
	ix.mu.RUnlock()

	sort.Slice(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

// GetByKeys retrieves stored records; missing keys are omitted.
func (ix *Index) GetByKeys(ctx context.Context, keys []string) ([]core.VectorRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	records := make([]core.VectorRecord, 0, len(keys))
	for _, key := range keys {
		if record, ok := ix.records[key]; ok {
			records = append(records, record)
		}
	}
	return records, nil
}

// Len returns the number of stored records.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.records)
}

// Close is a no-op.
func (ix *Index) Close() error {
	return nil
}
