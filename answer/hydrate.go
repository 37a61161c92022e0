package answer

import (
	"context"
	"log/slog"

	"github.com/poiesic/newswire/core"
	"github.com/poiesic/newswire/storage"
	"github.com/poiesic/newswire/vector"
)

// hydrateContentBudget caps the stripped content carried per document
// into the answer prompt.
const hydrateContentBudget = 2000

// Hydrator joins vector hits back to full articles in the primary
// store. The index can run ahead of the store: a record reclaimed by
// TTL still has a live vector for a while, and such hits degrade to
// partial documents built from index metadata instead of disappearing.
type Hydrator struct {
	articles storage.ArticleRepository
	logger   *slog.Logger
}

// NewHydrator creates a hydrator.
func NewHydrator(articles storage.ArticleRepository, logger *slog.Logger) (*Hydrator, error) {
	if articles == nil {
		return nil, ErrRepositoryRequired
	}
	if logger == nil {
		logger = slog.Default().With("component", "hydrator")
	}
	return &Hydrator{articles: articles, logger: logger}, nil
}

// Hydrate resolves hits to documents, preserving hit order and count.
// Document content is HTML-stripped and capped; the hit's ANN score
// carries over so downstream fast-mode ranking stays intact.
func (h *Hydrator) Hydrate(ctx context.Context, hits []vector.Hit) ([]core.Document, error) {
	if len(hits) == 0 {
		return []core.Document{}, nil
	}

	keys := make([]string, len(hits))
	for i, hit := range hits {
		keys[i] = hit.Key
	}

	records, err := h.articles.GetArticles(ctx, keys)
	if err != nil {
		return nil, err
	}
	byKey := make(map[string]*core.ArticleRecord, len(records))
	for _, record := range records {
		byKey[record.URLHash] = record
	}

	docs := make([]core.Document, 0, len(hits))
	stale := 0
	for _, hit := range hits {
		record, ok := byKey[hit.Key]
		if !ok {
			stale++
			docs = append(docs, core.Document{
				URLHash:     hit.Key,
				Title:       hit.Metadata.Title,
				URL:         hit.Metadata.URL,
				Category:    hit.Metadata.Category,
				PublishedAt: hit.Metadata.PublishedAt,
				Partial:     true,
				Score:       1 - hit.Distance,
			})
			continue
		}

		docs = append(docs, core.Document{
			URLHash:     record.URLHash,
			Title:       record.Title,
			URL:         record.URL,
			Content:     core.Truncate(core.StripHTML(record.Content), hydrateContentBudget),
			Category:    record.Category,
			PublishedAt: record.PublishedAt,
			Score:       1 - hit.Distance,
		})
	}

	if stale > 0 {
		h.logger.Debug("hydrated with stale index hits", "total", len(hits), "stale", stale)
	}
	return docs, nil
}
