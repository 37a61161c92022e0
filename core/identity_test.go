package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "https://x.com/a", "https://x.com/a"},
		{"trailing slash", "https://x.com/a/", "https://x.com/a"},
		{"query string", "https://x.com/a?ref=1", "https://x.com/a"},
		{"query and slash", "https://x.com/a/?utm_source=feed&ref=1", "https://x.com/a"},
		{"surrounding whitespace", "  https://x.com/a  ", "https://x.com/a"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeURL(tt.input))
		})
	}
}

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercase", "Acme Corp Reports Q3 Earnings", "acme corp reports q3 earnings"},
		{"collapse whitespace", "  Acme Corp Reports Q3   Earnings ", "acme corp reports q3 earnings"},
		{"fullwidth space", "Acme　Corp　Earnings", "acme corp earnings"},
		{"tabs and newlines", "Acme\tCorp\nEarnings", "acme corp earnings"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeTitle(tt.input))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	urls := []string{"https://x.com/a?ref=1", "https://x.com/a/", "  https://x.com/a  "}
	for _, u := range urls {
		once := NormalizeURL(u)
		assert.Equal(t, once, NormalizeURL(once), "url normalization should be idempotent for %q", u)
	}

	titles := []string{"  Acme Corp Reports Q3   Earnings ", "Acme　Corp"}
	for _, s := range titles {
		once := NormalizeTitle(s)
		assert.Equal(t, once, NormalizeTitle(once), "title normalization should be idempotent for %q", s)
	}
}

func TestHashURL(t *testing.T) {
	// URLs differing only by trailing slash or query string hash identically.
	base := HashURL("https://x.com/a")
	assert.Equal(t, base, HashURL("https://x.com/a/"))
	assert.Equal(t, base, HashURL("https://x.com/a?ref=1"))
	assert.NotEqual(t, base, HashURL("https://x.com/b"))

	require.Len(t, base, 64, "hex sha-256")
}

func TestHashTitle(t *testing.T) {
	// Titles differing only by case or whitespace hash identically.
	base := HashTitle("acme corp reports q3 earnings")
	assert.Equal(t, base, HashTitle("  Acme Corp Reports Q3   Earnings "))
	assert.Equal(t, base, HashTitle("ACME CORP REPORTS Q3 EARNINGS"))
	assert.NotEqual(t, base, HashTitle("acme corp reports q4 earnings"))
}
