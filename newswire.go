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

// Package newswire wires the financial-news pipeline together: the
// deduplicating article store, the vector index, the AI provider, and
// the caching layer, with factories for the ingestion, backfill, and
// answering services built on top of them.
package newswire

import (
	"io"
	"log/slog"
	"path/filepath"

	"github.com/poiesic/newswire/ai"
	"github.com/poiesic/newswire/ai/openai"
	"github.com/poiesic/newswire/answer"
	"github.com/poiesic/newswire/backfill"
	"github.com/poiesic/newswire/cache"
	"github.com/poiesic/newswire/ingest"
	"github.com/poiesic/newswire/storage"
	"github.com/poiesic/newswire/storage/badger"
	"github.com/poiesic/newswire/vector"
	"github.com/poiesic/newswire/vector/memory"
)

// Newswire is the assembled system.
type Newswire struct {
	articles storage.ArticleRepository
	index    vector.Index
	provider ai.Provider
	cache    *cache.Service
	audit    storage.AuditSink
	logger   *slog.Logger
}

// Option configures a Newswire.
type Option func(*options)

type options struct {
	aiConfig *ai.Config
	provider ai.Provider
	index    vector.Index
	cache    *cache.Service
	audit    storage.AuditSink
	inMemory bool
}

// WithAIConfig selects the OpenAI-compatible provider configuration.
func WithAIConfig(config *ai.Config) Option {
	return func(o *options) { o.aiConfig = config }
}

// WithProvider injects a pre-built AI provider, bypassing WithAIConfig.
func WithProvider(provider ai.Provider) Option {
	return func(o *options) { o.provider = provider }
}

// WithVectorIndex injects the vector index. Without it an in-process
// index is used, which does not survive restarts.
func WithVectorIndex(index vector.Index) Option {
	return func(o *options) { o.index = index }
}

// WithCache injects the cache service.
func WithCache(service *cache.Service) Option {
	return func(o *options) { o.cache = service }
}

// WithAuditSink injects the ingestion audit sink. Without it audit
// entries land under <dbPath>/audit.
func WithAuditSink(sink storage.AuditSink) Option {
	return func(o *options) { o.audit = sink }
}

// WithInMemoryStore keeps the article store off disk. For tests.
func WithInMemoryStore() Option {
	return func(o *options) { o.inMemory = true }
}

// New assembles a Newswire rooted at dbPath.
func New(dbPath string, opts ...Option) (*Newswire, error) {
	o := &options{aiConfig: ai.DefaultConfig()}
	for _, opt := range opts {
		opt(o)
	}

	var articles storage.ArticleRepository
	var err error
	if o.inMemory {
		articles, err = badger.NewMemoryRepository()
	} else {
		articles, err = badger.NewRepository(dbPath)
	}
	if err != nil {
		return nil, err
	}

	provider := o.provider
	if provider == nil {
		provider, err = openai.NewProvider(o.aiConfig)
		if err != nil {
			articles.Close()
			return nil, err
		}
	}

	index := o.index
	if index == nil {
		index = memory.NewIndex()
	}

	cacheService := o.cache
	if cacheService == nil {
		cacheService, err = cache.NewService()
		if err != nil {
			provider.Close()
			articles.Close()
			return nil, err
		}
	}

	audit := o.audit
	if audit == nil {
		audit, err = storage.NewFileAuditSink(filepath.Join(dbPath, "audit"))
		if err != nil {
			provider.Close()
			articles.Close()
			return nil, err
		}
	}

	return &Newswire{
		articles: articles,
		index:    index,
		provider: provider,
		cache:    cacheService,
		audit:    audit,
		logger:   slog.Default(),
	}, nil
}

// Close releases the provider, index, and store.
func (n *Newswire) Close() error {
	if err := n.provider.Close(); err != nil {
		n.logger.Error("error closing AI provider", "err", err)
	}
	if err := n.index.Close(); err != nil {
		n.logger.Error("error closing vector index", "err", err)
	}
	if err := n.articles.Close(); err != nil {
		n.logger.Error("error closing article store", "err", err)
		return err
	}
	return nil
}

// Articles returns the article repository.
func (n *Newswire) Articles() storage.ArticleRepository {
	return n.articles
}

// Index returns the vector index.
func (n *Newswire) Index() vector.Index {
	return n.index
}

// Provider returns the AI provider.
func (n *Newswire) Provider() ai.Provider {
	return n.provider
}

// Cache returns the cache service.
func (n *Newswire) Cache() *cache.Service {
	return n.cache
}

// NewWriter creates a dedup writer over the article store.
func (n *Newswire) NewWriter(opts ...ingest.WriterOption) (*ingest.Writer, error) {
	return ingest.NewWriter(n.articles, opts...)
}

// NewStreamIngestor creates a stream ingestor over the store's change feed.
func (n *Newswire) NewStreamIngestor(opts ...ingest.StreamOption) (*ingest.StreamIngestor, error) {
	return ingest.NewStreamIngestor(n.provider.Embedder(), n.index, n.audit, opts...)
}

// NewReconciler creates a backfill reconciler.
// progress: where to write progress output (typically os.Stderr).
func (n *Newswire) NewReconciler(config *backfill.Config, progress io.Writer, opts ...backfill.Option) (*backfill.Reconciler, error) {
	opts = append([]backfill.Option{backfill.WithAuditSink(n.audit)}, opts...)
	return backfill.NewReconciler(n.articles, n.provider.Embedder(), n.index, config, progress, opts...)
}

// NewAnswerService creates the question-answering service.
func (n *Newswire) NewAnswerService(opts ...answer.Option) (*answer.Service, error) {
	return answer.NewService(n.provider, n.index, n.articles, opts...)
}
