// Package ai provides abstractions for the AI services used in newswire.
//
// This package defines interfaces for text embeddings and LLM chat
// completions. Business logic depends on these abstractions rather than
// concrete implementations, so alternate providers are additive.
//
// # Implementation Packages
//
//   - ai/openai: production implementation using OpenAI-compatible APIs
//   - ai/mock: test doubles for unit testing without external dependencies
//
// # Error Taxonomy
//
// Implementations classify failures so call sites can decide how to react:
//
//   - *ValidationError: bad input (empty embedding text); skip, never retry
//   - *ProviderError: upstream failure; retryable, with RateLimited set for
//     HTTP 429 so callers can add an extended cooldown
package ai
