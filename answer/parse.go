package answer

import (
	"regexp"
	"strings"
)

var thinkBlockRe = regexp.MustCompile(`(?is)<think>.*?</think>`)

// cleanResponse strips the decoration reasoning-tuned models wrap
// around their output: <think> blocks and markdown code fences.
func cleanResponse(s string) string {
	s = thinkBlockRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// repairJSON fixes the one malformation local models produce often
// enough to matter: a key missing its opening quote after { or a
// comma, e.g. `, queries":` for `, "queries":`.
func repairJSON(s string) string {
	src := []rune(s)
	fixed := make([]rune, 0, len(src)+16)

	i := 0
	for i < len(src) {
		ch := src[i]
		if ch != '{' && ch != ',' {
			fixed = append(fixed, ch)
			i++
			continue
		}

		fixed = append(fixed, ch)
		i++
		for i < len(src) && (src[i] == ' ' || src[i] == '\n' || src[i] == '\t') {
			fixed = append(fixed, src[i])
			i++
		}

		if i >= len(src) || src[i] == '"' || !isKeyRune(src[i]) {
			continue
		}

		keyStart := i
		for i < len(src) && (isKeyRune(src[i]) || src[i] == '_') {
			i++
		}

		// An identifier directly followed by ": lost its opening quote.
		if i+1 < len(src) && src[i] == '"' && src[i+1] == ':' {
			fixed = append(fixed, '"')
		}
		fixed = append(fixed, src[keyStart:i]...)
	}

	return string(fixed)
}

func isKeyRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
