package core

import "time"

// DefaultTTL is how long an article record lives in the primary store
// before the store may reclaim it.
const DefaultTTL = 30 * 24 * time.Hour

// RawItem is an article as delivered by the upstream feed, before
// deduplication and normalization.
type RawItem struct {
	Source      string   `json:"source"`
	Category    string   `json:"category"`
	Title       string   `json:"title"`
	Link        string   `json:"link"`
	PublishedAt string   `json:"published_at,omitempty"` // ISO 8601, may be empty
	RawDate     string   `json:"raw_date,omitempty"`     // free-form fallback date from the feed
	Content     string   `json:"content,omitempty"`      // raw HTML body
	Authors     []string `json:"authors,omitempty"`
}

// ArticleRecord is the durable representation of a deduplicated article
// in the primary store. The URL identity hash is the primary key; the
// title identity hash is maintained as a secondary index.
type ArticleRecord struct {
	URLHash          string    `msgpack:"url_hash"`
	TitleHash        string    `msgpack:"title_hash"`
	URL              string    `msgpack:"url"`
	Title            string    `msgpack:"title"`
	Content          string    `msgpack:"content"`
	Thumbnail        string    `msgpack:"thumbnail,omitempty"`
	PublishedAt      string    `msgpack:"published_at"`
	PublishedAtEpoch int64     `msgpack:"published_at_epoch"`
	Author           string    `msgpack:"author,omitempty"`
	Category         string    `msgpack:"category"`
	Source           string    `msgpack:"source"`
	CreatedAt        time.Time `msgpack:"created_at"`
	UpdatedAt        time.Time `msgpack:"updated_at"`
	ExpiresAt        int64     `msgpack:"expires_at"` // epoch seconds; store reclaims after this
}

// VectorMetadata is the compact filterable payload stored alongside an
// embedding in the vector index. It never contains full article content
// and is capped near 0.5KB so index pages stay small.
type VectorMetadata struct {
	URLHash     string `msgpack:"url_hash" json:"url_hash"`
	Title       string `msgpack:"title" json:"title"`
	URL         string `msgpack:"url" json:"url"`
	Category    string `msgpack:"category" json:"category"`
	PublishedAt string `msgpack:"published_at" json:"published_at"`
}

// metadataTitleBudget bounds the title length inside vector metadata so
// the payload stays under the index's per-point size cap.
const metadataTitleBudget = 256

// NewVectorMetadata builds index metadata from an article record,
// truncating the title to keep the payload within budget.
func NewVectorMetadata(record *ArticleRecord) VectorMetadata {
	return VectorMetadata{
		URLHash:     record.URLHash,
		Title:       Truncate(record.Title, metadataTitleBudget),
		URL:         record.URL,
		Category:    record.Category,
		PublishedAt: record.PublishedAt,
	}
}

// VectorRecord pairs an embedding with its identity key and metadata for
// upsert into the vector index.
type VectorRecord struct {
	Key      string
	Vector   []float32
	Metadata VectorMetadata
}

// Document is the hydrated view of a search hit: full content fetched
// from the primary store, or a minimal synthesis when the primary record
// has already been reclaimed.
type Document struct {
	URLHash     string
	Title       string
	URL         string
	Content     string
	Category    string
	PublishedAt string
	Partial     bool // synthesized from vector metadata only
	Score       float32
}

// DepthMode selects the retrieval depth / quality trade-off.
type DepthMode int

const (
	// DepthFast trusts the ANN ordering and skips reranking.
	DepthFast DepthMode = iota
	// DepthBalanced reranks against hydrated content with a moderate threshold.
	DepthBalanced
	// DepthQuality adds multi-query rewriting and a stricter rerank threshold.
	DepthQuality
)

// String implements fmt.Stringer.
func (m DepthMode) String() string {
	switch m {
	case DepthFast:
		return "fast"
	case DepthBalanced:
		return "balanced"
	case DepthQuality:
		return "quality"
	default:
		return "unknown"
	}
}

// ParseDepthMode converts a mode name to a DepthMode.
// Unknown names fall back to DepthBalanced.
func ParseDepthMode(s string) DepthMode {
	switch s {
	case "fast":
		return DepthFast
	case "quality":
		return DepthQuality
	default:
		return DepthBalanced
	}
}

// DepthParams holds the retrieval knobs for a depth mode.
type DepthParams struct {
	TopK            int
	MaxDocuments    int
	RerankThreshold float32
	MultiQuery      bool
}

// Params returns the retrieval parameters for the mode.
func (m DepthMode) Params() DepthParams {
	switch m {
	case DepthFast:
		return DepthParams{TopK: 5, MaxDocuments: 5, RerankThreshold: 0, MultiQuery: false}
	case DepthQuality:
		return DepthParams{TopK: 12, MaxDocuments: 8, RerankThreshold: 0.45, MultiQuery: true}
	default:
		return DepthParams{TopK: 8, MaxDocuments: 6, RerankThreshold: 0.35, MultiQuery: false}
	}
}

// Outcome classifies the result of processing a single record.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeError   Outcome = "error"
	OutcomeSkipped Outcome = "skipped"
)

// Skip reasons recorded in ingestion log entries.
const (
	SkipReasonDuplicate      = "duplicate_title"
	SkipReasonEmptyText      = "empty_embedding_text"
	SkipReasonNonTargetEvent = "non_target_event"
)
