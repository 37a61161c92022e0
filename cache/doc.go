// Package cache provides the two-tier read cache for rendered article
// payloads: a shared remote tier backed by Redis and a small in-process
// fallback. Every tier failure degrades to a miss; the cache never
// surfaces errors to callers.
package cache
