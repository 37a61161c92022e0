package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns a *ValidationError for empty input and a *ProviderError for
	// upstream failures.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// ChatModel generates completions from an LLM.
// Implementations must be thread-safe for concurrent use.
type ChatModel interface {
	// Generate returns the full completion for the prompt.
	Generate(ctx context.Context, system, prompt string) (string, error)

	// GenerateStream streams the completion incrementally, invoking fn for
	// each chunk. The stream is cancelled by cancelling ctx.
	GenerateStream(ctx context.Context, system, prompt string, fn func(chunk string) error) error
}

// Provider aggregates AI services for convenient initialization and
// lifecycle management. A provider creates and manages Embedder and
// ChatModel instances, ensuring they share configuration and resources.
type Provider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// Chat returns the completion service used for query rewriting and
	// answer generation.
	Chat() ChatModel

	// Close releases resources held by the provider and its services.
	Close() error
}
