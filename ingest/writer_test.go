package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/newswire/core"
	"github.com/poiesic/newswire/storage"
	"github.com/poiesic/newswire/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupWriter(t *testing.T) (*Writer, storage.ArticleRepository) {
	t.Helper()
	repo, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	w, err := NewWriter(repo)
	require.NoError(t, err)
	return w, repo
}

func TestWriteArticleStoresRecord(t *testing.T) {
	w, repo := setupWriter(t)
	ctx := context.Background()

	result, err := w.WriteArticle(ctx, &core.RawItem{
		Source:      "feed-a",
		Category:    "markets",
		Title:       "Acme Corp Reports Q3 Earnings",
		Link:        "https://x.com/a",
		PublishedAt: "2025-05-30T08:00:00Z",
		Content:     "<p>Earnings were <b>strong</b>.</p>",
		Authors:     []string{"J. Doe", "A. Smith"},
	})
	require.NoError(t, err)
	assert.Equal(t, core.OutcomeSuccess, result.Outcome)

	stored, err := repo.GetArticle(ctx, result.URLHash)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp Reports Q3 Earnings", stored.Title)
	assert.Equal(t, core.HashTitle("Acme Corp Reports Q3 Earnings"), stored.TitleHash)
	assert.Equal(t, "2025-05-30T08:00:00Z", stored.PublishedAt)
	assert.Equal(t, int64(1748592000), stored.PublishedAtEpoch)
	assert.Equal(t, "J. Doe, A. Smith", stored.Author)
	assert.Greater(t, stored.ExpiresAt, time.Now().Unix())
}

func TestWriteArticleSkipsDuplicateTitle(t *testing.T) {
	w, repo := setupWriter(t)
	ctx := context.Background()

	first, err := w.WriteArticle(ctx, &core.RawItem{
		Title: "  Acme Corp Reports Q3   Earnings ",
		Link:  "https://x.com/a?ref=1",
	})
	require.NoError(t, err)
	require.Equal(t, core.OutcomeSuccess, first.Outcome)

	// Equivalent title after normalization, equivalent URL after query strip.
	second, err := w.WriteArticle(ctx, &core.RawItem{
		Title: "acme corp reports q3 earnings",
		Link:  "https://x.com/a",
	})
	require.NoError(t, err)
	assert.Equal(t, core.OutcomeSkipped, second.Outcome)
	assert.Equal(t, core.SkipReasonDuplicate, second.Reason)

	// Exactly one record exists.
	page, err := repo.ScanArticles(ctx, "", "", 10)
	require.NoError(t, err)
	assert.Len(t, page.Articles, 1)
}

func TestWriteArticleDecodesTitleEntities(t *testing.T) {
	w, _ := setupWriter(t)

	result, err := w.WriteArticle(context.Background(), &core.RawItem{
		Title: "Johnson &amp; Johnson beats estimates",
		Link:  "https://x.com/jnj",
	})
	require.NoError(t, err)
	assert.Equal(t, "Johnson & Johnson beats estimates", result.Record.Title)
}

func TestWriteArticleRejectsInvalid(t *testing.T) {
	w, _ := setupWriter(t)

	_, err := w.WriteArticle(context.Background(), &core.RawItem{Link: "https://x.com/a"})
	assert.ErrorIs(t, err, core.ErrInvalidRawItem)

	_, err = w.WriteArticle(context.Background(), &core.RawItem{Title: "No link"})
	assert.ErrorIs(t, err, core.ErrInvalidRawItem)
}

func TestWriteArticleMissingDateFallsBackToNow(t *testing.T) {
	w, _ := setupWriter(t)
	before := time.Now().UTC().Add(-time.Second)

	result, err := w.WriteArticle(context.Background(), &core.RawItem{
		Title: "Dateless story",
		Link:  "https://x.com/dateless",
	})
	require.NoError(t, err)

	ts, err := time.Parse(time.RFC3339, result.Record.PublishedAt)
	require.NoError(t, err)
	assert.True(t, ts.After(before))
}

func TestWriteBatchIsolatesFailures(t *testing.T) {
	w, _ := setupWriter(t)

	batch := w.WriteBatch(context.Background(), []core.RawItem{
		{Title: "Good one", Link: "https://x.com/1", Category: "tech"},
		{Title: "", Link: "https://x.com/2"}, // invalid
		{Title: "Another good one", Link: "https://x.com/3", Category: "markets"},
	})

	assert.Equal(t, 2, batch.Succeeded)
	assert.Equal(t, 1, batch.Failed)
	assert.Equal(t, 0, batch.Skipped)
	require.Len(t, batch.Results, 3)
	assert.Error(t, batch.Results[1].Err)
	assert.Equal(t, []string{"markets", "tech"}, batch.Categories)
}

func TestWriteBatchCountsDuplicates(t *testing.T) {
	w, _ := setupWriter(t)

	batch := w.WriteBatch(context.Background(), []core.RawItem{
		{Title: "Same story", Link: "https://x.com/a", Category: "tech"},
		{Title: "same story", Link: "https://y.com/b", Category: "tech"},
	})

	assert.Equal(t, 1, batch.Succeeded)
	assert.Equal(t, 1, batch.Skipped)
	assert.Equal(t, []string{"tech"}, batch.Categories)
}
