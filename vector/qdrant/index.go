// Package qdrant adapts the Qdrant gRPC client to the vector.Index
// interface. Points are keyed by a UUID derived deterministically from
// the article's URL identity hash, so replaying a key overwrites the
// same point; the original hash travels in the payload.
package qdrant

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/poiesic/newswire/core"
	"github.com/poiesic/newswire/vector"
	"github.com/qdrant/go-client/qdrant"
)

// Config holds connection settings for a Qdrant deployment.
type Config struct {
	Host       string
	Port       int
	APIKey     string
	UseTLS     bool
	Collection string
	Dimensions int
}

// Index implements vector.Index on a Qdrant collection.
type Index struct {
	client     *qdrant.Client
	collection string
	dimensions int
	logger     *slog.Logger
}

var _ vector.Index = (*Index)(nil)

// NewIndex connects to Qdrant and ensures the collection exists with a
// cosine-distance vector config of the configured dimensionality.
//
// Returns vector.Index interface to enforce abstraction.
func NewIndex(ctx context.Context, cfg Config) (vector.Index, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant client: %w", err)
	}

	ix := &Index{
		client:     client,
		collection: cfg.Collection,
		dimensions: cfg.Dimensions,
		logger:     slog.Default().With("component", "qdrant-index"),
	}
	if err := ix.ensureCollection(ctx); err != nil {
		client.Close()
		return nil, err
	}
	return ix, nil
}

func (ix *Index) ensureCollection(ctx context.Context) error {
	exists, err := ix.client.CollectionExists(ctx, ix.collection)
	if err != nil {
		return fmt.Errorf("check collection: %w", err)
	}
	if exists {
		return nil
	}

	err = ix.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: ix.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(ix.dimensions),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("create collection: %w", err)
	}
	ix.logger.Info("created vector collection", "collection", ix.collection, "dimensions", ix.dimensions)
	return nil
}

// Put upserts a single vector record.
func (ix *Index) Put(ctx context.Context, record core.VectorRecord) error {
	return ix.PutBatch(ctx, []core.VectorRecord{record})
}

// PutBatch upserts records, chunking at vector.MaxBatchSize per request.
func (ix *Index) PutBatch(ctx context.Context, records []core.VectorRecord) error {
	for start := 0; start < len(records); start += vector.MaxBatchSize {
		end := start + vector.MaxBatchSize
		if end > len(records) {
			end = len(records)
		}

		points := make([]*qdrant.PointStruct, 0, end-start)
		for _, record := range records[start:end] {
			if len(record.Vector) == 0 {
				return vector.ErrEmptyVector
			}
			if ix.dimensions > 0 && len(record.Vector) != ix.dimensions {
				return fmt.Errorf("%w: got %d, collection has %d", vector.ErrDimensionMismatch, len(record.Vector), ix.dimensions)
			}
			points = append(points, &qdrant.PointStruct{
				Id:      qdrant.NewID(pointID(record.Key)),
				Vectors: qdrant.NewVectorsDense(record.Vector),
				Payload: metadataPayload(record.Metadata),
			})
		}

		_, err := ix.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: ix.collection,
			Points:         points,
			Wait:           qdrant.PtrOf(true),
		})
		if err != nil {
			return fmt.Errorf("upsert %d points: %w", len(points), err)
		}
	}
	return nil
}

// Query returns the topK nearest points by ascending cosine distance,
// optionally filtered server-side to one category.
func (ix *Index) Query(ctx context.Context, vec []float32, topK int, category string) ([]vector.Hit, error) {
	query := &qdrant.QueryPoints{
		CollectionName: ix.collection,
		Query:          qdrant.NewQueryDense(vec),
		Limit:          qdrant.PtrOf(uint64(topK)),
		WithPayload:    qdrant.NewWithPayload(true),
	}
	if category != "" {
		query.Filter = &qdrant.Filter{
			Must: []*qdrant.Condition{qdrant.NewMatch("category", category)},
		}
	}

	points, err := ix.client.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	hits := make([]vector.Hit, 0, len(points))
	for _, point := range points {
		meta := metadataFromPayload(point.GetPayload())
		hits = append(hits, vector.Hit{
			Key: meta.URLHash,
			// Qdrant reports cosine similarity; callers rank by distance.
			Distance: 1 - point.GetScore(),
			Metadata: meta,
		})
	}
	return hits, nil
}

// GetByKeys retrieves stored records by identity hash; missing keys are
// omitted.
func (ix *Index) GetByKeys(ctx context.Context, keys []string) ([]core.VectorRecord, error) {
	ids := make([]*qdrant.PointId, len(keys))
	for i, key := range keys {
		ids[i] = qdrant.NewID(pointID(key))
	}

	points, err := ix.client.Get(ctx, &qdrant.GetPoints{
		CollectionName: ix.collection,
		Ids:            ids,
		WithPayload:    qdrant.NewWithPayload(true),
		WithVectors:    qdrant.NewWithVectors(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get points: %w", err)
	}

	records := make([]core.VectorRecord, 0, len(points))
	for _, point := range points {
		meta := metadataFromPayload(point.GetPayload())
		records = append(records, core.VectorRecord{
			Key:      meta.URLHash,
			Vector:   point.GetVectors().GetVector().GetData(),
			Metadata: meta,
		})
	}
	return records, nil
}

// Close releases the gRPC connection.
func (ix *Index) Close() error {
	return ix.client.Close()
}

// pointID derives a stable UUID point id from an identity hash.
func pointID(key string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String()
}

func metadataPayload(meta core.VectorMetadata) map[string]*qdrant.Value {
	return qdrant.NewValueMap(map[string]any{
		"url_hash":     meta.URLHash,
		"title":        meta.Title,
		"url":          meta.URL,
		"category":     meta.Category,
		"published_at": meta.PublishedAt,
	})
}

func metadataFromPayload(payload map[string]*qdrant.Value) core.VectorMetadata {
	get := func(key string) string {
		if v, ok := payload[key]; ok {
			return v.GetStringValue()
		}
		return ""
	}
	return core.VectorMetadata{
		URLHash:     get("url_hash"),
		Title:       get("title"),
		URL:         get("url"),
		Category:    get("category"),
		PublishedAt: get("published_at"),
	}
}
