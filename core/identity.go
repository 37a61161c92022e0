package core

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// NormalizeURL canonicalizes an article URL for identity hashing:
// surrounding whitespace, the query string, and a trailing slash are
// dropped. Idempotent.
func NormalizeURL(rawURL string) string {
	u := strings.TrimSpace(rawURL)
	if i := strings.IndexByte(u, '?'); i >= 0 {
		u = u[:i]
	}
	u = strings.TrimSuffix(u, "/")
	return u
}

// NormalizeTitle canonicalizes an article title for identity hashing:
// fullwidth spaces become ASCII spaces, runs of whitespace collapse to a
// single space, and the result is trimmed and lowercased. Idempotent.
func NormalizeTitle(title string) string {
	t := strings.ReplaceAll(title, "　", " ")
	t = strings.Join(strings.Fields(t), " ")
	return strings.ToLower(t)
}

// HashURL returns the hex SHA-256 of the normalized URL. This is the
// primary key for article records and vector index points.
func HashURL(rawURL string) string {
	return hashString(NormalizeURL(rawURL))
}

// HashTitle returns the hex SHA-256 of the normalized title, used as the
// secondary dedup index.
func HashTitle(title string) string {
	return hashString(NormalizeTitle(title))
}

func hashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
