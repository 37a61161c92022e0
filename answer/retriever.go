package answer

import (
	"context"
	"log/slog"

	"github.com/poiesic/newswire/ai"
	"github.com/poiesic/newswire/vector"
)

// Retriever embeds queries and runs nearest-neighbor lookups.
type Retriever struct {
	embedder ai.Embedder
	index    vector.Index
	logger   *slog.Logger
}

// NewRetriever creates a retriever.
func NewRetriever(embedder ai.Embedder, index vector.Index, logger *slog.Logger) (*Retriever, error) {
	if embedder == nil {
		return nil, ErrProviderRequired
	}
	if index == nil {
		return nil, ErrIndexRequired
	}
	if logger == nil {
		logger = slog.Default().With("component", "retriever")
	}
	return &Retriever{embedder: embedder, index: index, logger: logger}, nil
}

// Retrieve returns the topK hits for one query, ascending by cosine
// distance, optionally restricted to a category.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int, category string) ([]vector.Hit, error) {
	vec, err := r.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, err
	}
	return r.index.Query(ctx, vector.Normalize(vec), topK, category)
}
