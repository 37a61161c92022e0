// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ingest

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/poiesic/newswire/core"
	"github.com/poiesic/newswire/storage"
)

// WriteResult describes the outcome of writing a single raw item.
type WriteResult struct {
	Outcome core.Outcome
	Reason  string
	URLHash string
	Record  *core.ArticleRecord // nil unless the write succeeded
	Err     error
}

// BatchResult aggregates per-record results for one WriteBatch call.
// Categories lists the distinct categories of successfully written
// records, for downstream cache invalidation.
type BatchResult struct {
	Results    []WriteResult
	Succeeded  int
	Skipped    int
	Failed     int
	Categories []string
}

// Writer deduplicates raw feed items and persists them as article
// records. Two identity hashes govern the write: the URL hash is the
// primary key, the title hash feeds the duplicate check.
type Writer struct {
	articles storage.ArticleRepository
	clock    func() time.Time
	logger   *slog.Logger
}

// WriterOption configures a Writer.
type WriterOption func(*Writer) error

// WithWriterLogger sets a custom logger.
// Default is slog.Default().
func WithWriterLogger(logger *slog.Logger) WriterOption {
	return func(w *Writer) error {
		if logger == nil {
			logger = slog.Default()
		}
		w.logger = logger
		return nil
	}
}

// NewWriter creates a dedup writer over the given repository.
func NewWriter(articles storage.ArticleRepository, opts ...WriterOption) (*Writer, error) {
	if articles == nil {
		return nil, ErrRepositoryRequired
	}

	w := &Writer{
		articles: articles,
		clock:    time.Now,
		logger:   slog.Default().With("component", "dedup-writer"),
	}
	for _, opt := range opts {
		if err := opt(w); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// WriteArticle validates, deduplicates, and persists one raw item.
//
// A title-hash match against any existing record means the story was
// already ingested under some URL, so the item is skipped without a
// write. Otherwise the record is put under its URL hash; replaying the
// same URL overwrites, latest write wins.
//
// The returned error covers validation and storage failures; duplicate
// items are not errors.
func (w *Writer) WriteArticle(ctx context.Context, item *core.RawItem) (*WriteResult, error) {
	if err := core.ValidateRawItem(item); err != nil {
		return nil, err
	}

	urlHash := core.HashURL(item.Link)
	titleHash := core.HashTitle(item.Title)

	matches, err := w.articles.FindByTitleHash(ctx, titleHash)
	if err != nil {
		return nil, err
	}
	if len(matches) > 0 {
		w.logger.Debug("duplicate title, skipping", "url_hash", urlHash, "title_hash", titleHash)
		return &WriteResult{
			Outcome: core.OutcomeSkipped,
			Reason:  core.SkipReasonDuplicate,
			URLHash: urlHash,
		}, nil
	}

	now := w.clock().UTC()
	published := core.ResolvePublishTime(item, now)

	record := &core.ArticleRecord{
		URLHash:          urlHash,
		TitleHash:        titleHash,
		URL:              strings.TrimSpace(item.Link),
		Title:            core.DecodeEntities(strings.TrimSpace(item.Title)),
		Content:          item.Content,
		Thumbnail:        ExtractThumbnail(item.Content),
		PublishedAt:      published.UTC().Format(time.RFC3339),
		PublishedAtEpoch: published.Unix(),
		Author:           strings.Join(item.Authors, ", "),
		Category:         item.Category,
		Source:           item.Source,
		CreatedAt:        now,
		UpdatedAt:        now,
		ExpiresAt:        now.Add(core.DefaultTTL).Unix(),
	}

	if err := w.articles.PutArticle(ctx, record); err != nil {
		return nil, err
	}
	return &WriteResult{
		Outcome: core.OutcomeSuccess,
		URLHash: urlHash,
		Record:  record,
	}, nil
}

// WriteBatch writes each item independently. One bad record never
// aborts the batch; its failure is captured in the result and the
// remaining items still go through.
func (w *Writer) WriteBatch(ctx context.Context, items []core.RawItem) *BatchResult {
	batch := &BatchResult{Results: make([]WriteResult, 0, len(items))}
	categories := make(map[string]struct{})

	for i := range items {
		result, err := w.WriteArticle(ctx, &items[i])
		if err != nil {
			w.logger.Error("failed to write article", "link", items[i].Link, "err", err)
			batch.Failed++
			batch.Results = append(batch.Results, WriteResult{
				Outcome: core.OutcomeError,
				URLHash: core.HashURL(items[i].Link),
				Err:     err,
			})
			continue
		}

		batch.Results = append(batch.Results, *result)
		switch result.Outcome {
		case core.OutcomeSuccess:
			batch.Succeeded++
			if items[i].Category != "" {
				categories[items[i].Category] = struct{}{}
			}
		case core.OutcomeSkipped:
			batch.Skipped++
		}
	}

	for category := range categories {
		batch.Categories = append(batch.Categories, category)
	}
	sort.Strings(batch.Categories)
	return batch
}
