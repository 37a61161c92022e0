package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.NotEmpty(t, cfg.EmbeddingModel)
	assert.NotEmpty(t, cfg.ChatModel)
	assert.Positive(t, cfg.EmbeddingDimensions)
}

func TestNewConfigOptions(t *testing.T) {
	cfg := NewConfig(
		WithHost("https://api.openai.com"),
		WithEmbeddingModel("text-embedding-3-large"),
		WithChatModel("gpt-4o"),
		WithAPIKey("sk-test"),
		WithEmbeddingDimensions(3072),
	)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "https://api.openai.com/v1", cfg.EmbeddingHost)
	assert.Equal(t, "https://api.openai.com/v1", cfg.ChatHost)
	assert.Equal(t, "text-embedding-3-large", cfg.EmbeddingModel)
	assert.Equal(t, "gpt-4o", cfg.ChatModel)
	assert.Equal(t, 3072, cfg.EmbeddingDimensions)
}

func TestNormalizeAddsV1Suffix(t *testing.T) {
	tests := []struct {
		name     string
		host     string
		expected string
	}{
		{"bare host", "http://localhost:11434", "http://localhost:11434/v1"},
		{"trailing slash", "http://localhost:11434/", "http://localhost:11434/v1"},
		{"already suffixed", "http://localhost:11434/v1", "http://localhost:11434/v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig(WithHost(tt.host))
			cfg.Normalize()
			assert.Equal(t, tt.expected, cfg.EmbeddingHost)
			assert.Equal(t, tt.expected, cfg.ChatHost)
		})
	}
}

func TestValidateRejectsIncomplete(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing embedding model", func(c *Config) { c.EmbeddingModel = "" }},
		{"missing chat model", func(c *Config) { c.ChatModel = "" }},
		{"zero dimensions", func(c *Config) { c.EmbeddingDimensions = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
