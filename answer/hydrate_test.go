package answer

import (
	"context"
	"strings"
	"testing"

	"github.com/poiesic/newswire/core"
	"github.com/poiesic/newswire/storage/badger"
	"github.com/poiesic/newswire/vector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHydratePreservesOrderAndCount(t *testing.T) {
	repo, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	ctx := context.Background()

	live := &core.ArticleRecord{
		URLHash:   core.HashURL("https://x.com/live"),
		TitleHash: core.HashTitle("Live story"),
		URL:       "https://x.com/live",
		Title:     "Live story",
		Content:   "<p>Full <b>body</b> text.</p>",
		Category:  "markets",
	}
	require.NoError(t, repo.PutArticle(ctx, live))

	staleHash := core.HashURL("https://x.com/reclaimed")
	hits := []vector.Hit{
		{Key: staleHash, Distance: 0.1, Metadata: core.VectorMetadata{
			URLHash:     staleHash,
			Title:       "Reclaimed story",
			URL:         "https://x.com/reclaimed",
			Category:    "markets",
			PublishedAt: "2025-05-01T00:00:00Z",
		}},
		{Key: live.URLHash, Distance: 0.2, Metadata: core.VectorMetadata{URLHash: live.URLHash}},
	}

	h, err := NewHydrator(repo, nil)
	require.NoError(t, err)

	docs, err := h.Hydrate(ctx, hits)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	// The stale hit keeps its position and degrades to a partial doc.
	assert.True(t, docs[0].Partial)
	assert.Equal(t, "Reclaimed story", docs[0].Title)
	assert.Equal(t, "https://x.com/reclaimed", docs[0].URL)
	assert.Empty(t, docs[0].Content)

	assert.False(t, docs[1].Partial)
	assert.Equal(t, "Live story", docs[1].Title)
	assert.Equal(t, "Full body text.", docs[1].Content)
}

func TestHydrateStripsAndCapsContent(t *testing.T) {
	repo, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	ctx := context.Background()

	long := strings.Repeat("word ", 1000)
	record := &core.ArticleRecord{
		URLHash:   core.HashURL("https://x.com/long"),
		TitleHash: core.HashTitle("Long story"),
		URL:       "https://x.com/long",
		Title:     "Long story",
		Content:   "<script>evil()</script><p>" + long + "</p>",
	}
	require.NoError(t, repo.PutArticle(ctx, record))

	h, err := NewHydrator(repo, nil)
	require.NoError(t, err)

	docs, err := h.Hydrate(ctx, []vector.Hit{{Key: record.URLHash}})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.NotContains(t, docs[0].Content, "evil")
	assert.LessOrEqual(t, len([]rune(docs[0].Content)), hydrateContentBudget)
}

func TestHydrateEmptyHits(t *testing.T) {
	repo, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	h, err := NewHydrator(repo, nil)
	require.NoError(t, err)

	docs, err := h.Hydrate(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, docs)
}
