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

package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// scanPageSize is the COUNT hint for pattern-invalidation scans.
const scanPageSize = 100

// Redis is the shared remote tier. Every failure is logged and
// degrades to a miss or a dropped write; the answering path must keep
// working with the cache cluster down.
type Redis struct {
	client redis.Cmdable
	closer func() error
	logger *slog.Logger
}

var _ Tier = (*Redis)(nil)

// NewRedis connects a remote tier to the given address.
func NewRedis(addr, password string, db int) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Redis{
		client: client,
		closer: client.Close,
		logger: slog.Default().With("component", "redis-cache"),
	}
}

// NewRedisWithClient wraps an existing client, e.g. a cluster client or
// a test double.
func NewRedisWithClient(client redis.Cmdable) *Redis {
	return &Redis{
		client: client,
		logger: slog.Default().With("component", "redis-cache"),
	}
}

// Get fetches key, treating any error as a miss.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	value, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		r.logger.Warn("cache get failed", "key", key, "err", err)
		return nil, false
	}
	return value, true
}

// Set stores value with the given TTL. Failures are dropped.
func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		r.logger.Warn("cache set failed", "key", key, "err", err)
	}
}

// Delete removes key.
func (r *Redis) Delete(ctx context.Context, key string) {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.logger.Warn("cache delete failed", "key", key, "err", err)
	}
}

// DeletePattern removes every key matching the glob pattern using a
// cursor-paginated scan, never KEYS, so invalidation stays safe against
// a large shared keyspace.
func (r *Redis) DeletePattern(ctx context.Context, pattern string) {
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, pattern, scanPageSize).Result()
		if err != nil {
			r.logger.Warn("cache scan failed", "pattern", pattern, "err", err)
			return
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				r.logger.Warn("cache delete failed", "pattern", pattern, "err", err)
				return
			}
		}
		cursor = next
		if cursor == 0 {
			return
		}
	}
}

// Close releases the underlying connection when this tier owns it.
func (r *Redis) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer()
}
