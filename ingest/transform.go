package ingest

import (
	"context"

	"github.com/poiesic/newswire/ai"
	"github.com/poiesic/newswire/core"
	"github.com/poiesic/newswire/vector"
)

// BuildVectorRecord converts a stored article into an index-ready
// record. Both the stream and backfill paths funnel through here so the
// embedding text and upsert key are computed exactly one way, keeping
// re-embedding idempotent.
//
// Returns core.ErrEmptyEmbeddingText when the article yields no text to
// embed; callers record a skip, not a failure.
func BuildVectorRecord(ctx context.Context, embedder ai.Embedder, record *core.ArticleRecord) (core.VectorRecord, error) {
	text := core.BuildEmbeddingText(record.Title, record.Content)
	if text == "" {
		return core.VectorRecord{}, core.ErrEmptyEmbeddingText
	}

	vec, err := embedder.EmbedText(ctx, text)
	if err != nil {
		return core.VectorRecord{}, err
	}

	return core.VectorRecord{
		Key:      record.URLHash,
		Vector:   vector.Normalize(vec),
		Metadata: core.NewVectorMetadata(record),
	}, nil
}
