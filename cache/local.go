package cache

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"
)

// DefaultLocalEntries bounds the in-process tier.
const DefaultLocalEntries = 1024

type localEntry struct {
	value     []byte
	expiresAt time.Time
}

// Local is the bounded in-process tier. Eviction is oldest-insertion
// first, deliberately not LRU: entries are day- or article-scoped and
// age out by TTL anyway, so tracking access order buys nothing.
// Expired entries are reclaimed lazily on read.
type Local struct {
	mu         sync.Mutex
	maxEntries int
	entries    map[string]localEntry
	order      []string // insertion order; may hold keys already deleted
}

var _ Tier = (*Local)(nil)

// NewLocal creates a local tier holding at most maxEntries entries.
func NewLocal(maxEntries int) *Local {
	if maxEntries < 1 {
		maxEntries = DefaultLocalEntries
	}
	return &Local{
		maxEntries: maxEntries,
		entries:    make(map[string]localEntry),
	}
}

// Get returns the cached value, lazily evicting it when expired.
func (l *Local) Get(ctx context.Context, key string) ([]byte, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		delete(l.entries, key)
		return nil, false
	}
	return entry.value, true
}

// Set stores value under key. Overwriting an existing key keeps its
// original insertion position.
func (l *Local) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.entries[key]; !exists {
		l.evictOldest()
		l.order = append(l.order, key)
	}
	l.entries[key] = localEntry{value: value, expiresAt: time.Now().Add(ttl)}
}

// evictOldest removes the oldest live entry when at capacity.
// Must be called with lock held.
func (l *Local) evictOldest() {
	for len(l.entries) >= l.maxEntries && len(l.order) > 0 {
		oldest := l.order[0]
		l.order = l.order[1:]
		if _, ok := l.entries[oldest]; ok {
			delete(l.entries, oldest)
			return
		}
	}
}

// Delete removes key. The insertion-order slot is left behind and
// skipped at eviction time.
func (l *Local) Delete(ctx context.Context, key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, key)
}

// DeletePattern removes every key matching the glob pattern.
func (l *Local) DeletePattern(ctx context.Context, pattern string) {
	re, err := globToRegexp(pattern)
	if err != nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for key := range l.entries {
		if re.MatchString(key) {
			delete(l.entries, key)
		}
	}
}

// Len returns the number of live entries.
func (l *Local) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// globToRegexp converts a Redis-style glob to an anchored regexp so the
// local tier mirrors the remote tier's pattern semantics.
func globToRegexp(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString("^")
	for _, r := range pattern {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	return regexp.Compile(b.String())
}
