package openai

import (
	"context"
	"log/slog"

	"github.com/poiesic/newswire/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Chat implements ai.ChatModel using OpenAI-compatible chat APIs.
type Chat struct {
	client llms.Model
	logger *slog.Logger
}

// newChat is an internal constructor that returns the concrete type.
func newChat(config *ai.Config) (*Chat, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken(config.APIKey),
		openai.WithModel(config.ChatModel),
	)
	if err != nil {
		return nil, err
	}

	return &Chat{
		client: client,
		logger: slog.Default().With("component", "openai-chat"),
	}, nil
}

// NewChat creates a new chat model using the provided configuration.
//
// Returns ai.ChatModel interface to enforce abstraction.
func NewChat(config *ai.Config) (ai.ChatModel, error) {
	return newChat(config)
}

// Generate returns the full completion for the prompt.
func (c *Chat) Generate(ctx context.Context, system, prompt string) (string, error) {
	response, err := c.client.GenerateContent(ctx, buildMessages(system, prompt), llms.WithTemperature(0.0))
	if err != nil {
		c.logger.Error("failed to generate content", "err", err)
		return "", classifyProviderError(err)
	}
	if len(response.Choices) < 1 {
		return "", &ai.ProviderError{Err: errEmptyResult}
	}
	return response.Choices[0].Content, nil
}

// GenerateStream streams the completion incrementally, invoking fn for
// each chunk. Returning an error from fn aborts the stream.
func (c *Chat) GenerateStream(ctx context.Context, system, prompt string, fn func(chunk string) error) error {
	_, err := c.client.GenerateContent(ctx, buildMessages(system, prompt),
		llms.WithTemperature(0.2),
		llms.WithStreamingFunc(func(_ context.Context, chunk []byte) error {
			return fn(string(chunk))
		}),
	)
	if err != nil {
		c.logger.Error("failed to stream content", "err", err)
		return classifyProviderError(err)
	}
	return nil
}

func buildMessages(system, prompt string) []llms.MessageContent {
	return []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(system)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(prompt)},
		},
	}
}
