package mock

import (
	"context"
	"sync/atomic"
)

// MockChat is a test double for ai.ChatModel.
type MockChat struct {
	// GenerateFunc is called by Generate if set.
	GenerateFunc func(ctx context.Context, system, prompt string) (string, error)

	// GenerateStreamFunc is called by GenerateStream if set.
	GenerateStreamFunc func(ctx context.Context, system, prompt string, fn func(chunk string) error) error

	// Response is the default completion returned when no func is injected.
	Response string

	callCount atomic.Int32
}

// NewMockChat creates a mock chat model returning the given default response.
func NewMockChat(response string) *MockChat {
	return &MockChat{Response: response}
}

// Generate returns the injected or default completion.
func (m *MockChat) Generate(ctx context.Context, system, prompt string) (string, error) {
	m.callCount.Add(1)
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, system, prompt)
	}
	return m.Response, nil
}

// GenerateStream streams the default response as a single chunk unless a
// custom func is injected.
func (m *MockChat) GenerateStream(ctx context.Context, system, prompt string, fn func(chunk string) error) error {
	m.callCount.Add(1)
	if m.GenerateStreamFunc != nil {
		return m.GenerateStreamFunc(ctx, system, prompt, fn)
	}
	return fn(m.Response)
}

// CallCount returns the number of times any method was called.
func (m *MockChat) CallCount() int {
	return int(m.callCount.Load())
}
