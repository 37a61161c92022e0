package answer

import (
	"context"

	"github.com/poiesic/newswire/vector"
	"golang.org/x/sync/errgroup"
)

// RetrieveAll runs every query concurrently and merges the hits by
// article identity. Queries are ordered by priority: when two queries
// surface the same article, the hit from the earlier query wins and
// keeps its rank. A failing sub-query contributes an empty set rather
// than failing the whole retrieval.
func (r *Retriever) RetrieveAll(ctx context.Context, queries []string, topK int, category string) ([]vector.Hit, error) {
	if len(queries) == 1 {
		return r.Retrieve(ctx, queries[0], topK, category)
	}

	results := make([][]vector.Hit, len(queries))
	group, gctx := errgroup.WithContext(ctx)
	for i, query := range queries {
		group.Go(func() error {
			hits, err := r.Retrieve(gctx, query, topK, category)
			if err != nil {
				r.logger.Warn("sub-query retrieval failed", "query", query, "err", err)
				return nil
			}
			results[i] = hits
			return nil
		})
	}
	// Sub-query errors are swallowed above; Wait only observes ctx failure.
	if err := group.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	merged := make([]vector.Hit, 0, topK)
	for _, hits := range results {
		for _, hit := range hits {
			if _, dup := seen[hit.Key]; dup {
				continue
			}
			seen[hit.Key] = struct{}{}
			merged = append(merged, hit)
		}
	}
	return merged, nil
}
