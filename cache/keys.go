package cache

import (
	"fmt"
	"time"
)

// ListKey returns the cache key for a topic's article list on a given
// day. Day granularity keeps list entries naturally fresh without
// explicit rotation.
func ListKey(topic string, day time.Time) string {
	return fmt.Sprintf("articles:list:%s:%s", topic, day.UTC().Format("2006-01-02"))
}

// ListPattern matches every cached list for a topic regardless of day.
func ListPattern(topic string) string {
	return fmt.Sprintf("articles:list:%s:*", topic)
}

// DetailKey returns the cache key for one article's detail payload. The
// identity hash is shortened; 16 hex characters keep keys compact with
// no practical collision risk.
func DetailKey(urlHash string) string {
	if len(urlHash) > 16 {
		urlHash = urlHash[:16]
	}
	return "articles:detail:" + urlHash
}
