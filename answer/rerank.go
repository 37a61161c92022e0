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

package answer

import (
	"context"
	"log/slog"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/newswire/ai"
	"github.com/poiesic/newswire/core"
	"github.com/poiesic/newswire/vector"
)

// Reranker re-scores hydrated documents against the question using
// full content rather than the index-time embedding, then applies the
// depth mode's relevance threshold.
type Reranker struct {
	embedder ai.Embedder
	pool     *ants.Pool
	logger   *slog.Logger
}

// NewReranker creates a reranker with a worker pool for concurrent
// document embedding.
func NewReranker(embedder ai.Embedder, logger *slog.Logger) (*Reranker, error) {
	if embedder == nil {
		return nil, ErrProviderRequired
	}
	if logger == nil {
		logger = slog.Default().With("component", "reranker")
	}

	size := runtime.NumCPU() / 2
	if size < 1 {
		size = 1
	}
	pool, err := ants.NewPool(size)
	if err != nil {
		return nil, err
	}
	return &Reranker{embedder: embedder, pool: pool, logger: logger}, nil
}

// Release releases the worker pool.
// The reranker should not be used after calling Release.
func (r *Reranker) Release() {
	if r.pool != nil {
		r.pool.Release()
	}
}

// Rerank scores docs against the question and returns those meeting
// the mode's threshold, sorted by descending score and capped at the
// mode's document budget. Fast mode trusts the ANN ordering and passes
// through. A document whose embedding fails scores zero and falls to
// the threshold.
func (r *Reranker) Rerank(ctx context.Context, question string, docs []core.Document, mode core.DepthMode) ([]core.Document, error) {
	params := mode.Params()
	if mode == core.DepthFast || len(docs) == 0 {
		return capDocs(docs, params.MaxDocuments), nil
	}

	qvec, err := r.embedder.EmbedText(ctx, question)
	if err != nil {
		r.logger.Warn("question embedding failed, keeping retrieval order", "err", err)
		return capDocs(docs, params.MaxDocuments), nil
	}
	qvec = vector.Normalize(qvec)

	var wg sync.WaitGroup
	for i := range docs {
		wg.Add(1)
		score := func() {
			defer wg.Done()
			docs[i].Score = r.scoreDoc(ctx, qvec, &docs[i])
		}
		if err := r.pool.Submit(score); err != nil {
			score()
		}
	}
	wg.Wait()

	kept := make([]core.Document, 0, len(docs))
	for _, doc := range docs {
		if doc.Score >= params.RerankThreshold {
			kept = append(kept, doc)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Score > kept[j].Score })
	return capDocs(kept, params.MaxDocuments), nil
}

func (r *Reranker) scoreDoc(ctx context.Context, qvec []float32, doc *core.Document) float32 {
	text := doc.Title
	if doc.Content != "" {
		text += "\n\n" + doc.Content
	}
	if strings.TrimSpace(text) == "" {
		return 0
	}

	vec, err := r.embedder.EmbedText(ctx, text)
	if err != nil {
		r.logger.Warn("document embedding failed during rerank", "url_hash", doc.URLHash, "err", err)
		return 0
	}
	return vector.Cosine(qvec, vector.Normalize(vec))
}

func capDocs(docs []core.Document, max int) []core.Document {
	if max > 0 && len(docs) > max {
		return docs[:max]
	}
	return docs
}
