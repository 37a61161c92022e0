package backfill

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/poiesic/newswire/ai/mock"
	"github.com/poiesic/newswire/core"
	"github.com/poiesic/newswire/storage"
	"github.com/poiesic/newswire/storage/badger"
	"github.com/poiesic/newswire/vector"
	"github.com/poiesic/newswire/vector/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyIndex fails the first failures PutBatch calls, then delegates.
type flakyIndex struct {
	*memory.Index
	mu       sync.Mutex
	failures int
	calls    int
}

func (f *flakyIndex) PutBatch(ctx context.Context, records []core.VectorRecord) error {
	f.mu.Lock()
	f.calls++
	fail := f.calls <= f.failures
	f.mu.Unlock()

	if fail {
		return errors.New("index unavailable")
	}
	return f.Index.PutBatch(ctx, records)
}

var _ vector.Index = (*flakyIndex)(nil)

func seedArticles(t *testing.T, n int, category string) storage.ArticleRepository {
	t.Helper()
	repo, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	now := time.Now().UTC()
	for i := 0; i < n; i++ {
		url := fmt.Sprintf("https://x.com/story-%d", i)
		title := fmt.Sprintf("Story number %d", i)
		require.NoError(t, repo.PutArticle(context.Background(), &core.ArticleRecord{
			URLHash:   core.HashURL(url),
			TitleHash: core.HashTitle(title),
			URL:       url,
			Title:     title,
			Content:   "<p>body text</p>",
			Category:  category,
			CreatedAt: now,
			UpdatedAt: now,
		}))
	}
	return repo
}

func fastConfig() *Config {
	return &Config{
		BatchSize:      3,
		PageSize:       4,
		MaxRetries:     3,
		RetryDelay:     time.Millisecond,
		ReportInterval: 100,
	}
}

func TestRunIndexesAllArticles(t *testing.T) {
	repo := seedArticles(t, 7, "markets")
	index := memory.NewIndex()

	r, err := NewReconciler(repo, mock.NewMockEmbedder(), index, fastConfig(), io.Discard)
	require.NoError(t, err)

	stats, err := r.Run(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, 7, stats.Scanned)
	assert.Equal(t, 7, stats.Succeeded)
	assert.Zero(t, stats.Failed)
	assert.Equal(t, 7, index.Len())
}

func TestRunIsIdempotent(t *testing.T) {
	repo := seedArticles(t, 5, "markets")
	index := memory.NewIndex()

	r, err := NewReconciler(repo, mock.NewMockEmbedder(), index, fastConfig(), io.Discard)
	require.NoError(t, err)

	_, err = r.Run(context.Background(), "")
	require.NoError(t, err)
	_, err = r.Run(context.Background(), "")
	require.NoError(t, err)

	// Upserts are keyed by identity; a second run replaces, never duplicates.
	assert.Equal(t, 5, index.Len())
}

func TestRunFlushRetriesThenSucceeds(t *testing.T) {
	repo := seedArticles(t, 6, "markets")
	index := &flakyIndex{Index: memory.NewIndex(), failures: 2}

	r, err := NewReconciler(repo, mock.NewMockEmbedder(), index, fastConfig(), io.Discard)
	require.NoError(t, err)

	stats, err := r.Run(context.Background(), "")
	require.NoError(t, err)

	// Two transient flush failures recover within the retry budget and
	// count nothing as failed.
	assert.Equal(t, 6, stats.Succeeded)
	assert.Zero(t, stats.Failed)
	assert.Equal(t, 6, index.Len())
}

func TestRunFlushExhaustionCountsBatchFailed(t *testing.T) {
	repo := seedArticles(t, 4, "markets")
	index := &flakyIndex{Index: memory.NewIndex(), failures: 1000}

	cfg := fastConfig()
	cfg.BatchSize = 10 // single flush at end of scan
	r, err := NewReconciler(repo, mock.NewMockEmbedder(), index, cfg, io.Discard)
	require.NoError(t, err)

	stats, err := r.Run(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Scanned)
	assert.Zero(t, stats.Succeeded)
	assert.Equal(t, 4, stats.Failed)
}

func TestRunSkipsEmptyArticles(t *testing.T) {
	repo, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	require.NoError(t, repo.PutArticle(context.Background(), &core.ArticleRecord{
		URLHash:   core.HashURL("https://x.com/empty"),
		TitleHash: core.HashTitle("placeholder"),
		URL:       "https://x.com/empty",
	}))

	r, err := NewReconciler(repo, mock.NewMockEmbedder(), memory.NewIndex(), fastConfig(), io.Discard)
	require.NoError(t, err)

	stats, err := r.Run(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Scanned)
	assert.Equal(t, 1, stats.Skipped)
	assert.Zero(t, stats.Succeeded)
}

func TestRunCategoryFilter(t *testing.T) {
	repo := seedArticles(t, 3, "tech")
	index := memory.NewIndex()

	cfg := fastConfig()
	cfg.Category = "markets"
	r, err := NewReconciler(repo, mock.NewMockEmbedder(), index, cfg, io.Discard)
	require.NoError(t, err)

	stats, err := r.Run(context.Background(), "")
	require.NoError(t, err)
	assert.Zero(t, stats.Scanned)
	assert.Zero(t, index.Len())
}

func TestNewReconcilerValidation(t *testing.T) {
	_, err := NewReconciler(nil, mock.NewMockEmbedder(), memory.NewIndex(), nil, io.Discard)
	assert.ErrorIs(t, err, ErrRepositoryRequired)

	_, err = NewReconciler(seedArticles(t, 0, ""), nil, memory.NewIndex(), nil, io.Discard)
	assert.ErrorIs(t, err, ErrEmbedderRequired)

	_, err = NewReconciler(seedArticles(t, 0, ""), mock.NewMockEmbedder(), nil, nil, io.Discard)
	assert.ErrorIs(t, err, ErrIndexRequired)
}
