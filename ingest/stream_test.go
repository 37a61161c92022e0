package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/poiesic/newswire/ai/mock"
	"github.com/poiesic/newswire/core"
	"github.com/poiesic/newswire/storage"
	"github.com/poiesic/newswire/vector/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memorySink collects audit objects in memory.
type memorySink struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemorySink() *memorySink {
	return &memorySink{objects: make(map[string][]byte)}
}

func (s *memorySink) WriteObject(ctx context.Context, path string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[path] = body
	return nil
}

func (s *memorySink) paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	paths := make([]string, 0, len(s.objects))
	for p := range s.objects {
		paths = append(paths, p)
	}
	return paths
}

func testRecord(url, title, content string) *core.ArticleRecord {
	return &core.ArticleRecord{
		URLHash:   core.HashURL(url),
		TitleHash: core.HashTitle(title),
		URL:       url,
		Title:     title,
		Content:   content,
		Category:  "markets",
	}
}

func TestProcessBatchIndexesInserts(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	index := memory.NewIndex()
	sink := newMemorySink()

	si, err := NewStreamIngestor(embedder, index, sink)
	require.NoError(t, err)

	article := testRecord("https://x.com/a", "Acme Q3 Earnings", "Earnings were strong.")
	entry := si.ProcessBatch(context.Background(), []storage.ChangeEvent{
		{Op: storage.OpInsert, URLHash: article.URLHash, Article: article},
	})

	assert.Equal(t, 1, entry.Succeeded)
	assert.Zero(t, entry.Failed)
	assert.Equal(t, 1, index.Len())

	records, err := index.GetByKeys(context.Background(), []string{article.URLHash})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Acme Q3 Earnings", records[0].Metadata.Title)
}

func TestProcessBatchRemoveSkipsWithoutEmbedding(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	index := memory.NewIndex()

	si, err := NewStreamIngestor(embedder, index, newMemorySink())
	require.NoError(t, err)

	entry := si.ProcessBatch(context.Background(), []storage.ChangeEvent{
		{Op: storage.OpRemove, URLHash: core.HashURL("https://x.com/gone")},
	})

	require.Len(t, entry.Records, 1)
	assert.Equal(t, core.OutcomeSkipped, entry.Records[0].Outcome)
	assert.Equal(t, core.SkipReasonNonTargetEvent, entry.Records[0].Reason)
	assert.Zero(t, embedder.CallCount())
	assert.Zero(t, index.Len())
}

func TestProcessBatchEmptyTextSkips(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	si, err := NewStreamIngestor(embedder, memory.NewIndex(), newMemorySink())
	require.NoError(t, err)

	article := testRecord("https://x.com/empty", "", "")
	entry := si.ProcessBatch(context.Background(), []storage.ChangeEvent{
		{Op: storage.OpInsert, URLHash: article.URLHash, Article: article},
	})

	require.Len(t, entry.Records, 1)
	assert.Equal(t, core.OutcomeSkipped, entry.Records[0].Outcome)
	assert.Equal(t, core.SkipReasonEmptyText, entry.Records[0].Reason)
	assert.Zero(t, embedder.CallCount())
}

func TestProcessBatchIsolatesFailures(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		if strings.Contains(text, "Poison") {
			return nil, errors.New("provider exploded")
		}
		return []float32{1, 0}, nil
	}
	index := memory.NewIndex()

	si, err := NewStreamIngestor(embedder, index, newMemorySink())
	require.NoError(t, err)

	good := testRecord("https://x.com/good", "Good story", "body")
	bad := testRecord("https://x.com/bad", "Poison story", "body")
	entry := si.ProcessBatch(context.Background(), []storage.ChangeEvent{
		{Op: storage.OpInsert, URLHash: bad.URLHash, Article: bad},
		{Op: storage.OpInsert, URLHash: good.URLHash, Article: good},
	})

	assert.Equal(t, 1, entry.Succeeded)
	assert.Equal(t, 1, entry.Failed)
	assert.Equal(t, 1, index.Len())
	assert.NotEmpty(t, entry.Records[0].Error)
}

func TestProcessBatchWritesOneAuditEntry(t *testing.T) {
	sink := newMemorySink()
	si, err := NewStreamIngestor(mock.NewMockEmbedder(), memory.NewIndex(), sink)
	require.NoError(t, err)

	a := testRecord("https://x.com/a", "Story A", "body")
	b := testRecord("https://x.com/b", "Story B", "body")
	entry := si.ProcessBatch(context.Background(), []storage.ChangeEvent{
		{Op: storage.OpInsert, URLHash: a.URLHash, Article: a},
		{Op: storage.OpModify, URLHash: b.URLHash, Article: b},
	})

	paths := sink.paths()
	require.Len(t, paths, 1)
	assert.True(t, strings.HasPrefix(paths[0], "ingestion/"))
	assert.True(t, strings.HasSuffix(paths[0], entry.BatchID+".json"))

	var decoded IngestionLogEntry
	require.NoError(t, json.Unmarshal(sink.objects[paths[0]], &decoded))
	assert.Equal(t, ExecutionStream, decoded.ExecutionType)
	assert.Equal(t, 2, decoded.Succeeded)
	assert.Len(t, decoded.Records, 2)
	assert.False(t, decoded.FinishedAt.Before(decoded.StartedAt))
}

func TestNewStreamIngestorValidation(t *testing.T) {
	_, err := NewStreamIngestor(nil, memory.NewIndex(), newMemorySink())
	assert.ErrorIs(t, err, ErrEmbedderRequired)

	_, err = NewStreamIngestor(mock.NewMockEmbedder(), nil, newMemorySink())
	assert.ErrorIs(t, err, ErrIndexRequired)

	_, err = NewStreamIngestor(mock.NewMockEmbedder(), memory.NewIndex(), nil)
	assert.ErrorIs(t, err, ErrAuditSinkRequired)
}

func TestLogEntryAggregates(t *testing.T) {
	entry := NewLogEntry(ExecutionBackfill, "reconciler")
	entry.Record("k1", core.OutcomeSuccess, "", nil, 5*time.Millisecond)
	entry.Record("k2", core.OutcomeSkipped, core.SkipReasonEmptyText, nil, 0)
	entry.Record("k3", core.OutcomeError, "", errors.New("boom"), time.Millisecond)

	assert.Equal(t, 1, entry.Succeeded)
	assert.Equal(t, 1, entry.Skipped)
	assert.Equal(t, 1, entry.Failed)
	assert.Equal(t, "boom", entry.Records[2].Error)
	assert.NotEmpty(t, entry.BatchID)
}
