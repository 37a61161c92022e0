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
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/newswire/ai"
	"github.com/poiesic/newswire/core"
	"github.com/poiesic/newswire/storage"
	"github.com/poiesic/newswire/vector"
	"golang.org/x/sync/errgroup"
)

const (
	streamBufferSize    = 256
	streamBatchSize     = 32
	streamFlushInterval = 2 * time.Second
)

// StreamIngestor turns primary-store change events into vector index
// upserts. Only insert and modify events carry work; removes are
// recorded as skips so the audit trail still accounts for them.
type StreamIngestor struct {
	embedder ai.Embedder
	index    vector.Index
	audit    storage.AuditSink
	source   string
	logger   *slog.Logger
}

// StreamOption configures a StreamIngestor.
type StreamOption func(*StreamIngestor) error

// WithSource sets the source label written into audit entries.
// Default is "change-feed".
func WithSource(source string) StreamOption {
	return func(si *StreamIngestor) error {
		if source != "" {
			si.source = source
		}
		return nil
	}
}

// WithStreamLogger sets a custom logger.
// Default is slog.Default().
func WithStreamLogger(logger *slog.Logger) StreamOption {
	return func(si *StreamIngestor) error {
		if logger == nil {
			logger = slog.Default()
		}
		si.logger = logger
		return nil
	}
}

// NewStreamIngestor creates a stream ingestor.
func NewStreamIngestor(embedder ai.Embedder, index vector.Index, audit storage.AuditSink, opts ...StreamOption) (*StreamIngestor, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if index == nil {
		return nil, ErrIndexRequired
	}
	if audit == nil {
		return nil, ErrAuditSinkRequired
	}

	si := &StreamIngestor{
		embedder: embedder,
		index:    index,
		audit:    audit,
		source:   "change-feed",
		logger:   slog.Default().With("component", "stream-ingestor"),
	}
	for _, opt := range opts {
		if err := opt(si); err != nil {
			return nil, err
		}
	}
	return si, nil
}

// ProcessBatch handles one invocation's worth of change events and
// writes a single audit entry covering all of them. A failing record
// never aborts the batch; its error lands in the entry instead.
func (si *StreamIngestor) ProcessBatch(ctx context.Context, events []storage.ChangeEvent) *IngestionLogEntry {
	entry := NewLogEntry(ExecutionStream, si.source)

	for _, event := range events {
		start := time.Now()
		outcome, reason, err := si.processEvent(ctx, event)
		entry.Record(event.URLHash, outcome, reason, err, time.Since(start))
		if err != nil {
			si.logger.Error("stream record failed", "url_hash", event.URLHash, "err", err)
		}
	}

	if err := entry.Write(ctx, si.audit); err != nil {
		si.logger.Error("failed to persist ingestion log", "batch_id", entry.BatchID, "err", err)
	}
	si.logger.Info("processed change batch",
		"batch_id", entry.BatchID,
		"succeeded", entry.Succeeded,
		"failed", entry.Failed,
		"skipped", entry.Skipped)
	return entry
}

func (si *StreamIngestor) processEvent(ctx context.Context, event storage.ChangeEvent) (core.Outcome, string, error) {
	if event.Op == storage.OpRemove {
		return core.OutcomeSkipped, core.SkipReasonNonTargetEvent, nil
	}
	if event.Article == nil {
		return core.OutcomeError, "", fmt.Errorf("%s event for %s carries no record", event.Op, event.URLHash)
	}

	record, err := BuildVectorRecord(ctx, si.embedder, event.Article)
	if errors.Is(err, core.ErrEmptyEmbeddingText) {
		return core.OutcomeSkipped, core.SkipReasonEmptyText, nil
	}
	if err != nil {
		return core.OutcomeError, "", err
	}

	if err := si.index.Put(ctx, record); err != nil {
		return core.OutcomeError, "", err
	}
	return core.OutcomeSuccess, "", nil
}

// Run subscribes to the repository change feed and processes events in
// invocation batches until ctx is cancelled. Pending events are flushed
// on shutdown before Run returns.
func (si *StreamIngestor) Run(ctx context.Context, articles storage.ArticleRepository) error {
	if articles == nil {
		return ErrRepositoryRequired
	}

	events := make(chan storage.ChangeEvent, streamBufferSize)
	group, gctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		defer close(events)
		return articles.Subscribe(gctx, func(event storage.ChangeEvent) {
			select {
			case events <- event:
			case <-gctx.Done():
			}
		})
	})

	group.Go(func() error {
		ticker := time.NewTicker(streamFlushInterval)
		defer ticker.Stop()

		pending := make([]storage.ChangeEvent, 0, streamBatchSize)
		flush := func(fctx context.Context) {
			if len(pending) == 0 {
				return
			}
			si.ProcessBatch(fctx, pending)
			pending = pending[:0]
		}

		for {
			select {
			case event, ok := <-events:
				if !ok {
					// The subscription ended; drain what we have even though
					// the group context is already cancelled.
					flush(context.WithoutCancel(gctx))
					return nil
				}
				pending = append(pending, event)
				if len(pending) >= streamBatchSize {
					flush(gctx)
				}
			case <-ticker.C:
				flush(gctx)
			}
		}
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
