package mock

import "github.com/poiesic/newswire/ai"

// MockProvider aggregates mock AI services for tests.
type MockProvider struct {
	MockEmbedder *MockEmbedder
	MockChat     *MockChat
}

var _ ai.Provider = (*MockProvider)(nil)

// NewMockProvider creates a provider backed by default mocks.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		MockEmbedder: NewMockEmbedder(),
		MockChat:     NewMockChat(""),
	}
}

// Embedder returns the mock embedding service.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.MockEmbedder
}

// Chat returns the mock completion service.
func (p *MockProvider) Chat() ai.ChatModel {
	return p.MockChat
}

// Close is a no-op.
func (p *MockProvider) Close() error {
	return nil
}
