package answer

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/newswire/ai"
	"github.com/poiesic/newswire/core"
	"github.com/poiesic/newswire/storage"
	"github.com/poiesic/newswire/vector"
)

// EventType identifies a streamed answer event.
type EventType string

const (
	// EventSources reports the cited documents, emitted exactly once
	// before any answer text.
	EventSources EventType = "sources"
	// EventChunk carries one increment of answer text.
	EventChunk EventType = "chunk"
	// EventEnd marks a complete answer.
	EventEnd EventType = "end"
)

// Event is one element of a streamed answer.
type Event struct {
	Type    EventType
	Sources []core.Document
	Text    string
}

// AskOptions selects the retrieval behavior for one question.
type AskOptions struct {
	Depth    core.DepthMode
	Category string
}

// Service orchestrates the full answering path: rewrite, retrieve,
// hydrate, rerank, generate.
type Service struct {
	chat      ai.ChatModel
	rewriter  *Rewriter
	retriever *Retriever
	hydrator  *Hydrator
	reranker  *Reranker
	logger    *slog.Logger
}

// Option configures a Service.
type Option func(*Service) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewService creates an answering service.
func NewService(provider ai.Provider, index vector.Index, articles storage.ArticleRepository, opts ...Option) (*Service, error) {
	if provider == nil {
		return nil, ErrProviderRequired
	}
	if index == nil {
		return nil, ErrIndexRequired
	}
	if articles == nil {
		return nil, ErrRepositoryRequired
	}

	s := &Service{
		chat:   provider.Chat(),
		logger: slog.Default().With("component", "answer"),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	var err error
	if s.rewriter, err = NewRewriter(provider.Chat(), s.logger); err != nil {
		return nil, err
	}
	if s.retriever, err = NewRetriever(provider.Embedder(), index, s.logger); err != nil {
		return nil, err
	}
	if s.hydrator, err = NewHydrator(articles, s.logger); err != nil {
		return nil, err
	}
	if s.reranker, err = NewReranker(provider.Embedder(), s.logger); err != nil {
		return nil, err
	}
	return s, nil
}

// Release releases the service's worker pool.
// The service should not be used after calling Release.
func (s *Service) Release() {
	if s.reranker != nil {
		s.reranker.Release()
	}
}

// Ask answers a question, delivering the result to emit as a Sources
// event, zero or more Chunk events, and a final End event. emit
// returning an error, or ctx cancellation, stops the stream.
func (s *Service) Ask(ctx context.Context, question string, opts AskOptions, emit func(Event) error) error {
	if strings.TrimSpace(question) == "" {
		return ErrEmptyQuestion
	}
	params := opts.Depth.Params()

	var queries []string
	var noSearch bool
	var err error
	if params.MultiQuery {
		queries, noSearch, err = s.rewriter.RewriteMulti(ctx, question)
	} else {
		var query string
		query, noSearch, err = s.rewriter.Rewrite(ctx, question)
		queries = []string{query}
	}
	if err != nil {
		return err
	}
	if noSearch {
		return s.emitCanned(emit)
	}

	hits, err := s.retriever.RetrieveAll(ctx, queries, params.TopK, opts.Category)
	if err != nil {
		return err
	}

	docs, err := s.hydrator.Hydrate(ctx, hits)
	if err != nil {
		return err
	}

	docs, err = s.reranker.Rerank(ctx, question, docs, opts.Depth)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return s.emitCanned(emit)
	}

	if err := emit(Event{Type: EventSources, Sources: docs}); err != nil {
		return err
	}

	prompt := buildAnswerPrompt(question, docs)
	err = s.chat.GenerateStream(ctx, answerSystemPrompt, prompt, func(chunk string) error {
		return emit(Event{Type: EventChunk, Text: chunk})
	})
	if err != nil {
		return err
	}
	return emit(Event{Type: EventEnd})
}

// emitCanned delivers the no-results answer without touching the model.
func (s *Service) emitCanned(emit func(Event) error) error {
	if err := emit(Event{Type: EventSources, Sources: []core.Document{}}); err != nil {
		return err
	}
	if err := emit(Event{Type: EventChunk, Text: noResultsAnswer}); err != nil {
		return err
	}
	return emit(Event{Type: EventEnd})
}
