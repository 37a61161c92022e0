package core

import (
	"fmt"
	"time"
)

// ValidateRawItem validates an upstream feed item according to domain rules.
//
// Validation rules:
//   - Title must not be empty
//   - Link must not be empty
//
// NOT validated (resolved by the dedup writer):
//   - PublishedAt / RawDate (missing dates fall back to ingestion time)
//   - Content (articles without bodies are stored; embedding is skipped)
func ValidateRawItem(item *RawItem) error {
	if item == nil {
		return fmt.Errorf("%w: item is nil", ErrInvalidRawItem)
	}
	if item.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRawItem, ErrEmptyTitle)
	}
	if item.Link == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRawItem, ErrEmptyLink)
	}
	return nil
}

// ResolvePublishTime resolves the publish timestamp of a raw item,
// preferring the explicit ISO field, then the raw feed date, then now.
func ResolvePublishTime(item *RawItem, now time.Time) time.Time {
	if item.PublishedAt != "" {
		if ts, err := time.Parse(time.RFC3339, item.PublishedAt); err == nil {
			return ts
		}
	}
	if item.RawDate != "" {
		for _, layout := range []string{time.RFC1123Z, time.RFC1123, time.RFC822Z, time.RFC822, "2006-01-02 15:04:05", "2006-01-02"} {
			if ts, err := time.Parse(layout, item.RawDate); err == nil {
				return ts
			}
		}
	}
	return now
}
