package cache

import (
	"context"
	"log/slog"
	"time"
)

// DefaultTTL is applied when a caller sets without an explicit TTL.
const DefaultTTL = 15 * time.Minute

// Tier is one cache level. Implementations fail open: a broken tier
// behaves as a miss and never propagates errors.
type Tier interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
	DeletePattern(ctx context.Context, pattern string)
}

// Service chains the shared remote tier with the in-process fallback.
// Reads prefer remote so all hosts see invalidations immediately; the
// local tier answers when the remote one is unavailable. Writes go
// through to both.
type Service struct {
	remote Tier // nil when running without a cache cluster
	local  Tier
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service) error

// WithRemote attaches the shared remote tier.
func WithRemote(remote Tier) Option {
	return func(s *Service) error {
		s.remote = remote
		return nil
	}
}

// WithServiceLogger sets a custom logger.
// Default is slog.Default().
func WithServiceLogger(logger *slog.Logger) Option {
	return func(s *Service) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewService creates a cache service. Without options it runs on the
// local tier alone.
func NewService(opts ...Option) (*Service, error) {
	s := &Service{
		local:  NewLocal(DefaultLocalEntries),
		logger: slog.Default().With("component", "cache"),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Get returns the cached value for key, preferring the remote tier.
func (s *Service) Get(ctx context.Context, key string) ([]byte, bool) {
	if s.remote != nil {
		if value, ok := s.remote.Get(ctx, key); ok {
			return value, true
		}
	}
	return s.local.Get(ctx, key)
}

// Set writes through to both tiers. A non-positive TTL falls back to
// DefaultTTL.
func (s *Service) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if s.remote != nil {
		s.remote.Set(ctx, key, value, ttl)
	}
	s.local.Set(ctx, key, value, ttl)
}

// Invalidate removes the given keys from both tiers.
func (s *Service) Invalidate(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if s.remote != nil {
			s.remote.Delete(ctx, key)
		}
		s.local.Delete(ctx, key)
	}
}

// InvalidatePattern removes every key matching the glob pattern from
// both tiers.
func (s *Service) InvalidatePattern(ctx context.Context, pattern string) {
	if s.remote != nil {
		s.remote.DeletePattern(ctx, pattern)
	}
	s.local.DeletePattern(ctx, pattern)
}

// InvalidateCategories drops every cached list for the given
// categories. Called after an ingestion batch lands new articles.
func (s *Service) InvalidateCategories(ctx context.Context, categories []string) {
	for _, category := range categories {
		s.InvalidatePattern(ctx, ListPattern(category))
	}
	if len(categories) > 0 {
		s.logger.Debug("invalidated list caches", "categories", categories)
	}
}
