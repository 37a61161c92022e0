package core

import (
	"html"
	"regexp"
	"strings"
)

// EmbeddingTextBudget is the hard character cut applied to embedding
// text. The cut is not boundary-aware; truncation mid-word is accepted.
const EmbeddingTextBudget = 8000

var (
	scriptBlockRe = regexp.MustCompile(`(?is)<script\b.*?</script>`)
	styleBlockRe  = regexp.MustCompile(`(?is)<style\b.*?</style>`)
)

// StripHTML removes script and style blocks, drops the remaining tags,
// decodes entities, and collapses whitespace.
func StripHTML(s string) string {
	s = scriptBlockRe.ReplaceAllString(s, " ")
	s = styleBlockRe.ReplaceAllString(s, " ")

	var b strings.Builder
	b.Grow(len(s))
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
			b.WriteByte(' ')
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(html.UnescapeString(b.String())), " ")
}

// DecodeEntities decodes HTML entities such as &amp; and &#39;.
func DecodeEntities(s string) string {
	return html.UnescapeString(s)
}

// BuildEmbeddingText constructs the text fed to the embedding provider:
// title and stripped content joined by a blank line, hard-cut at the
// character budget. An empty or whitespace-only result means the caller
// must skip embedding.
func BuildEmbeddingText(title, content string) string {
	body := StripHTML(content)
	text := strings.TrimSpace(strings.TrimSpace(title) + "\n\n" + body)
	return Truncate(text, EmbeddingTextBudget)
}

// Truncate hard-cuts s to at most n runes.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
