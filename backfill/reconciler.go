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

package backfill

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/newswire/ai"
	"github.com/poiesic/newswire/core"
	"github.com/poiesic/newswire/ingest"
	"github.com/poiesic/newswire/storage"
	"github.com/poiesic/newswire/vector"
	"golang.org/x/time/rate"
)

// Config holds configuration for a reconciliation run.
type Config struct {
	// BatchSize is the pending-buffer flush threshold for index upserts.
	BatchSize int

	// PageSize is how many records each store scan page returns.
	PageSize int

	// Category restricts the run to one category. Empty means all.
	Category string

	// EmbedRate throttles embedding calls per second. Zero means unthrottled.
	EmbedRate float64

	// BatchDelay is the pause between flushes.
	BatchDelay time.Duration

	// MaxRetries is the attempt budget per flush.
	MaxRetries int

	// RetryDelay is the base delay for flush backoff.
	RetryDelay time.Duration

	// MaxRetryDelay caps the flush backoff.
	MaxRetryDelay time.Duration

	// RateLimitCooldown is the minimum wait after a rate-limited flush failure.
	RateLimitCooldown time.Duration

	// ReportInterval is how often progress is reported (number of records).
	ReportInterval int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:         50,
		PageSize:          200,
		BatchDelay:        250 * time.Millisecond,
		MaxRetries:        3,
		RetryDelay:        1 * time.Second,
		MaxRetryDelay:     30 * time.Second,
		RateLimitCooldown: 15 * time.Second,
		ReportInterval:    100,
	}
}

// Stats summarizes a reconciliation run.
type Stats struct {
	Scanned    int
	Succeeded  int
	Failed     int
	Skipped    int
	Elapsed    time.Duration
	Throughput float64 // records per second
}

// Reconciler re-derives embeddings for stored articles and upserts them
// into the vector index. Upserts are keyed by article identity, so
// re-running over already-indexed records replaces rather than
// duplicates. A run is resumable from any scan cursor.
type Reconciler struct {
	articles storage.ArticleRepository
	embedder ai.Embedder
	index    vector.Index
	config   *Config
	limiter  *rate.Limiter
	progress io.Writer
	audit    storage.AuditSink
	logger   *slog.Logger
}

// Option configures a Reconciler.
type Option func(*Reconciler) error

// WithAuditSink enables a run-level audit entry on completion.
func WithAuditSink(sink storage.AuditSink) Option {
	return func(r *Reconciler) error {
		r.audit = sink
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reconciler) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewReconciler creates a reconciler.
// progress: where to write progress output (typically os.Stderr).
func NewReconciler(articles storage.ArticleRepository, embedder ai.Embedder, index vector.Index, config *Config, progress io.Writer, opts ...Option) (*Reconciler, error) {
	if articles == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if index == nil {
		return nil, ErrIndexRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}

	r := &Reconciler{
		articles: articles,
		embedder: embedder,
		index:    index,
		config:   config,
		progress: progress,
		logger:   slog.Default().With("component", "reconciler"),
	}
	if config.EmbedRate > 0 {
		r.limiter = rate.NewLimiter(rate.Limit(config.EmbedRate), 1)
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Run walks the store from cursor (empty starts at the beginning) and
// reconciles every article into the index. Individual embed failures
// and exhausted flush retries are counted, not fatal; only store scan
// errors and context cancellation abort the run.
func (r *Reconciler) Run(ctx context.Context, cursor string) (*Stats, error) {
	stats := &Stats{}
	start := time.Now()

	tracker := NewProgressTracker(r.progress, 0, r.config.ReportInterval)
	tracker.Start()

	pending := make([]core.VectorRecord, 0, r.config.BatchSize)
	policy := RetryPolicy{
		MaxAttempts:       r.config.MaxRetries,
		BaseDelay:         r.config.RetryDelay,
		MaxDelay:          r.config.MaxRetryDelay,
		RateLimitCooldown: r.config.RateLimitCooldown,
	}

	// A failed flush converts the whole buffer from tentative successes
	// to failures; the run itself keeps going.
	flush := func() error {
		if len(pending) == 0 {
			return nil
		}
		count := len(pending)
		err := RetryWithBackoff(ctx, func() error {
			return r.index.PutBatch(ctx, pending)
		}, policy)
		pending = pending[:0]

		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			stats.Failed += count
			r.logger.Error("flush failed after retries", "records", count, "err", err)
			return nil
		}
		stats.Succeeded += count

		if r.config.BatchDelay > 0 {
			timer := time.NewTimer(r.config.BatchDelay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
		return nil
	}

	for {
		page, err := r.articles.ScanArticles(ctx, r.config.Category, cursor, r.config.PageSize)
		if err != nil {
			return r.finish(ctx, stats, tracker, start), err
		}

		for _, article := range page.Articles {
			stats.Scanned++
			tracker.Increment(1)

			if r.limiter != nil {
				if err := r.limiter.Wait(ctx); err != nil {
					return r.finish(ctx, stats, tracker, start), err
				}
			}

			record, err := ingest.BuildVectorRecord(ctx, r.embedder, article)
			if errors.Is(err, core.ErrEmptyEmbeddingText) {
				stats.Skipped++
				continue
			}
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return r.finish(ctx, stats, tracker, start), ctxErr
				}
				stats.Failed++
				r.logger.Warn("failed to embed article", "url_hash", article.URLHash, "err", err)
				continue
			}

			pending = append(pending, record)
			if len(pending) >= r.config.BatchSize {
				if err := flush(); err != nil {
					return r.finish(ctx, stats, tracker, start), err
				}
			}
		}

		cursor = page.Cursor
		if cursor == "" {
			break
		}
	}

	if err := flush(); err != nil {
		return r.finish(ctx, stats, tracker, start), err
	}
	return r.finish(ctx, stats, tracker, start), nil
}

func (r *Reconciler) finish(ctx context.Context, stats *Stats, tracker *ProgressTracker, start time.Time) *Stats {
	tracker.Finish()
	stats.Elapsed = time.Since(start)
	if stats.Elapsed > 0 {
		stats.Throughput = float64(stats.Scanned) / stats.Elapsed.Seconds()
	}

	r.logger.Info("reconciliation finished",
		"scanned", stats.Scanned,
		"succeeded", stats.Succeeded,
		"failed", stats.Failed,
		"skipped", stats.Skipped,
		"elapsed", stats.Elapsed.Round(time.Millisecond))

	if r.audit != nil {
		entry := ingest.NewLogEntry(ingest.ExecutionBackfill, "reconciler")
		entry.Succeeded = stats.Succeeded
		entry.Failed = stats.Failed
		entry.Skipped = stats.Skipped
		if err := entry.Write(context.WithoutCancel(ctx), r.audit); err != nil {
			r.logger.Error("failed to persist backfill audit entry", "batch_id", entry.BatchID, "err", err)
		}
	}
	return stats
}
