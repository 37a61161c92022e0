package badger

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/poiesic/newswire/core"
	"github.com/poiesic/newswire/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRepo(t *testing.T) storage.ArticleRepository {
	t.Helper()
	repo, err := NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func testArticle(url, title, category string) *core.ArticleRecord {
	now := time.Now().UTC()
	return &core.ArticleRecord{
		URLHash:     core.HashURL(url),
		TitleHash:   core.HashTitle(title),
		URL:         url,
		Title:       title,
		Content:     "<p>body</p>",
		PublishedAt: now.Format(time.RFC3339),
		Category:    category,
		Source:      "feed-test",
		CreatedAt:   now,
		UpdatedAt:   now,
		ExpiresAt:   now.Add(core.DefaultTTL).Unix(),
	}
}

func TestPutGetArticle(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	article := testArticle("https://x.com/a", "Acme Q3 Earnings", "markets")
	require.NoError(t, repo.PutArticle(ctx, article))

	got, err := repo.GetArticle(ctx, article.URLHash)
	require.NoError(t, err)
	assert.Equal(t, article.URL, got.URL)
	assert.Equal(t, article.Title, got.Title)
	assert.Equal(t, article.ExpiresAt, got.ExpiresAt)
}

func TestGetArticleNotFound(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.GetArticle(context.Background(), core.HashURL("https://x.com/missing"))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestPutArticleOverwrites(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	first := testArticle("https://x.com/a", "Acme Q3 Earnings", "markets")
	require.NoError(t, repo.PutArticle(ctx, first))

	second := testArticle("https://x.com/a", "Acme Q3 Earnings", "markets")
	second.Content = "<p>updated body</p>"
	require.NoError(t, repo.PutArticle(ctx, second))

	got, err := repo.GetArticle(ctx, first.URLHash)
	require.NoError(t, err)
	assert.Equal(t, "<p>updated body</p>", got.Content)
}

func TestFindByTitleHash(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	article := testArticle("https://x.com/a", "Acme Q3 Earnings", "markets")
	require.NoError(t, repo.PutArticle(ctx, article))

	hits, err := repo.FindByTitleHash(ctx, article.TitleHash)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, article.URLHash, hits[0])

	// Normalization makes differently formatted titles hit the same index entry.
	hits, err = repo.FindByTitleHash(ctx, core.HashTitle("  ACME Q3   Earnings "))
	require.NoError(t, err)
	assert.Len(t, hits, 1)

	hits, err = repo.FindByTitleHash(ctx, core.HashTitle("unrelated title"))
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestGetArticlesOmitsMissing(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	a := testArticle("https://x.com/a", "Title A", "markets")
	b := testArticle("https://x.com/b", "Title B", "markets")
	require.NoError(t, repo.PutArticle(ctx, a))
	require.NoError(t, repo.PutArticle(ctx, b))

	got, err := repo.GetArticles(ctx, []string{a.URLHash, core.HashURL("https://x.com/gone"), b.URLHash})
	require.NoError(t, err)
	require.Len(t, got, 2)
}

func TestScanArticlesPagination(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	const total = 25
	for i := 0; i < total; i++ {
		article := testArticle(fmt.Sprintf("https://x.com/article-%02d", i), fmt.Sprintf("Title %02d", i), "markets")
		require.NoError(t, repo.PutArticle(ctx, article))
	}

	seen := make(map[string]bool)
	cursor := ""
	pages := 0
	for {
		page, err := repo.ScanArticles(ctx, "", cursor, 10)
		require.NoError(t, err)
		for _, rec := range page.Articles {
			assert.False(t, seen[rec.URLHash], "record %s returned twice", rec.URLHash)
			seen[rec.URLHash] = true
		}
		pages++
		if page.Cursor == "" {
			break
		}
		cursor = page.Cursor
	}

	assert.Len(t, seen, total)
	assert.GreaterOrEqual(t, pages, 3)
}

func TestScanArticlesCategoryFilter(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.PutArticle(ctx, testArticle("https://x.com/m1", "Markets One", "markets")))
	require.NoError(t, repo.PutArticle(ctx, testArticle("https://x.com/t1", "Tech One", "tech")))
	require.NoError(t, repo.PutArticle(ctx, testArticle("https://x.com/m2", "Markets Two", "markets")))

	page, err := repo.ScanArticles(ctx, "markets", "", 10)
	require.NoError(t, err)
	require.Len(t, page.Articles, 2)
	for _, rec := range page.Articles {
		assert.Equal(t, "markets", rec.Category)
	}
}

func TestScanArticlesInvalidLimit(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.ScanArticles(context.Background(), "", "", 0)
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)
}
