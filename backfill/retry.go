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

package backfill

import (
	"context"
	"log/slog"
	"time"

	"github.com/poiesic/newswire/ai"
)

// RetryPolicy controls RetryWithBackoff.
type RetryPolicy struct {
	// MaxAttempts is the maximum number of attempts (must be > 0).
	MaxAttempts int

	// BaseDelay is the delay after the first failure; it doubles on each
	// subsequent failure.
	BaseDelay time.Duration

	// MaxDelay caps the exponential growth. Zero means uncapped.
	MaxDelay time.Duration

	// RateLimitCooldown is the minimum wait after a rate-limited failure,
	// giving the provider window time to recover. Zero disables it.
	RateLimitCooldown time.Duration
}

// RetryWithBackoff retries an operation with exponential backoff.
// Returns the error from the last attempt if all attempts fail.
func RetryWithBackoff(ctx context.Context, operation func() error, policy RetryPolicy) error {
	if policy.MaxAttempts <= 0 {
		return ErrInvalidMaxAttempts
	}

	var lastErr error
	delay := policy.BaseDelay
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		lastErr = operation()
		if lastErr == nil {
			if attempt > 1 {
				slog.Debug("operation succeeded after retry", "attempt", attempt)
			}
			return nil
		}

		slog.Debug("operation failed, will retry",
			"attempt", attempt, "maxAttempts", policy.MaxAttempts, "error", lastErr)

		if attempt == policy.MaxAttempts {
			break
		}

		wait := delay
		if policy.MaxDelay > 0 && wait > policy.MaxDelay {
			wait = policy.MaxDelay
		}
		if policy.RateLimitCooldown > 0 && ai.IsRateLimited(lastErr) && wait < policy.RateLimitCooldown {
			wait = policy.RateLimitCooldown
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay *= 2
	}

	return lastErr
}
