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
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/poiesic/newswire/ai"
)

// NoSearchSentinel is the rewrite model's signal that the question
// needs no article retrieval.
const NoSearchSentinel = "NO_SEARCH"

const maxSubQueries = 3

// Rewriter converts user questions into retrieval queries. A broken or
// confused rewrite model never blocks answering: failures degrade to
// searching with the question verbatim.
type Rewriter struct {
	chat   ai.ChatModel
	logger *slog.Logger
}

// NewRewriter creates a rewriter over the given chat model.
func NewRewriter(chat ai.ChatModel, logger *slog.Logger) (*Rewriter, error) {
	if chat == nil {
		return nil, ErrProviderRequired
	}
	if logger == nil {
		logger = slog.Default().With("component", "rewriter")
	}
	return &Rewriter{chat: chat, logger: logger}, nil
}

// Rewrite produces the single retrieval query for a question. The
// second return is true when the model signalled that no search is
// needed.
func (r *Rewriter) Rewrite(ctx context.Context, question string) (string, bool, error) {
	raw, err := r.chat.Generate(ctx, rewriteSystemPrompt, question)
	if err != nil {
		r.logger.Warn("rewrite failed, searching with raw question", "err", err)
		return question, false, nil
	}

	text := cleanResponse(raw)
	if isNoSearch(text) {
		return "", true, nil
	}
	if text == "" {
		return question, false, nil
	}
	return text, false, nil
}

type multiQueries struct {
	Queries []string `json:"queries"`
}

// RewriteMulti produces up to three retrieval queries ordered by
// priority: direct rewrite first, then broader and alternate phrasings.
// Unparseable responses degrade to the single-query rewrite.
func (r *Rewriter) RewriteMulti(ctx context.Context, question string) ([]string, bool, error) {
	raw, err := r.chat.Generate(ctx, multiRewriteSystemPrompt, question)
	if err != nil {
		r.logger.Warn("multi-query rewrite failed, falling back to single", "err", err)
		return r.singleAsList(ctx, question)
	}

	text := cleanResponse(raw)
	if isNoSearch(text) {
		return nil, true, nil
	}

	var parsed multiQueries
	if err := json.Unmarshal([]byte(repairJSON(text)), &parsed); err != nil {
		r.logger.Warn("unparseable multi-query response, falling back to single",
			"response", text, "err", err)
		return r.singleAsList(ctx, question)
	}

	queries := make([]string, 0, maxSubQueries)
	seen := make(map[string]struct{})
	for _, q := range parsed.Queries {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		if _, dup := seen[q]; dup {
			continue
		}
		seen[q] = struct{}{}
		queries = append(queries, q)
		if len(queries) == maxSubQueries {
			break
		}
	}
	if len(queries) == 0 {
		return r.singleAsList(ctx, question)
	}
	return queries, false, nil
}

func (r *Rewriter) singleAsList(ctx context.Context, question string) ([]string, bool, error) {
	query, noSearch, err := r.Rewrite(ctx, question)
	if err != nil || noSearch {
		return nil, noSearch, err
	}
	return []string{query}, false, nil
}

func isNoSearch(text string) bool {
	return strings.EqualFold(strings.TrimSpace(text), NoSearchSentinel)
}
