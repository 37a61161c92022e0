package storage

import (
	"context"

	"github.com/poiesic/newswire/core"
)

// ChangeOp identifies the kind of mutation a change-feed event describes.
type ChangeOp int

const (
	// OpInsert is a newly written record.
	OpInsert ChangeOp = iota + 1
	// OpModify is an overwrite of an existing record.
	OpModify
	// OpRemove is a deletion or TTL reclamation.
	OpRemove
)

// String implements fmt.Stringer.
func (op ChangeOp) String() string {
	switch op {
	case OpInsert:
		return "insert"
	case OpModify:
		return "modify"
	case OpRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// ChangeEvent is one notification from the primary store's change feed.
// Article carries the post-image for insert/modify; for remove only the
// key is known.
type ChangeEvent struct {
	Op      ChangeOp
	URLHash string
	Article *core.ArticleRecord
}

// ScanPage is one page of a paginated article scan. Cursor is opaque;
// pass it back to continue, empty means the scan is exhausted.
type ScanPage struct {
	Articles []*core.ArticleRecord
	Cursor   string
}

// ArticleRepository provides operations for managing article records.
// Implementations must be thread-safe and support concurrent access.
type ArticleRepository interface {
	// PutArticle writes a record keyed by its URL identity hash, with the
	// record's TTL applied. Replaying the same key overwrites.
	PutArticle(ctx context.Context, record *core.ArticleRecord) error

	// GetArticle retrieves a record by URL hash.
	// Returns ErrNotFound if the record doesn't exist.
	GetArticle(ctx context.Context, urlHash string) (*core.ArticleRecord, error)

	// GetArticles retrieves multiple records by URL hash, chunking large key
	// sets internally. Missing records are omitted, not errors; the result
	// order matches the order of the found keys.
	GetArticles(ctx context.Context, urlHashes []string) ([]*core.ArticleRecord, error)

	// FindByTitleHash queries the title-hash secondary index.
	// Returns the URL hashes of matching records; empty when none match.
	FindByTitleHash(ctx context.Context, titleHash string) ([]string, error)

	// ScanArticles pages through all records, optionally filtered to one
	// category. An empty cursor starts from the beginning.
	ScanArticles(ctx context.Context, category, cursor string, limit int) (*ScanPage, error)

	// Subscribe delivers change-feed events to fn until ctx is cancelled.
	// fn is invoked sequentially per subscription.
	Subscribe(ctx context.Context, fn func(ChangeEvent)) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// AuditSink is an append-only object store for ingestion audit records.
// One object is written per ingestion invocation and never mutated.
type AuditSink interface {
	// WriteObject stores body at the given path. Paths are expected to be
	// unique per invocation; implementations need not guard against reuse.
	WriteObject(ctx context.Context, path string, body []byte) error
}
