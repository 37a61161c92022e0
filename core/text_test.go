package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain text", "hello world", "hello world"},
		{"simple tags", "<p>hello <b>world</b></p>", "hello world"},
		{"script block removed", `<p>before</p><script>var x = "<b>hi</b>";</script><p>after</p>`, "before after"},
		{"style block removed", "<style>p { color: red; }</style>text", "text"},
		{"entities decoded", "Q3 earnings &amp; guidance", "Q3 earnings & guidance"},
		{"whitespace collapsed", "<div>\n  a \n\n b\t</div>", "a b"},
		{"multiline script", "<script type=\"text/javascript\">\nfoo();\n</script>kept", "kept"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripHTML(tt.input))
		})
	}
}

func TestBuildEmbeddingText(t *testing.T) {
	text := BuildEmbeddingText("Acme Q3", "<p>Earnings rose 12%.</p>")
	assert.Equal(t, "Acme Q3\n\nEarnings rose 12%.", text)
}

func TestBuildEmbeddingTextEmpty(t *testing.T) {
	assert.Empty(t, BuildEmbeddingText("", ""))
	assert.Empty(t, BuildEmbeddingText("  ", "<script>x()</script>"))
}

func TestBuildEmbeddingTextTruncates(t *testing.T) {
	long := strings.Repeat("a", EmbeddingTextBudget*2)
	text := BuildEmbeddingText("title", long)
	assert.Len(t, []rune(text), EmbeddingTextBudget)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 10))
	assert.Equal(t, "ab", Truncate("abc", 2))
	// Rune-aware, not byte-aware.
	assert.Equal(t, "日本", Truncate("日本語", 2))
}
