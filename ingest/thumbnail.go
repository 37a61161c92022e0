package ingest

import (
	"regexp"
	"strings"
)

var (
	imgSrcRe    = regexp.MustCompile(`(?i)<img[^>]*\bsrc\s*=\s*["']([^"']+)["']`)
	bareImageRe = regexp.MustCompile(`(?i)https?://[^\s"'<>]+\.(?:png|jpe?g|gif|webp)(?:\?[^\s"'<>]*)?`)

	// Tracking pixels and ad-network placeholders are never usable thumbnails.
	adImageRe = regexp.MustCompile(`(?i)(doubleclick|adsystem|/ads?/|advert|1x1|pixel|spacer|blank\.)`)
)

// ExtractThumbnail picks the first usable image URL from a raw HTML
// body: img tags are preferred, with a fallback to bare image URLs in
// the text. Returns empty when nothing usable is found.
func ExtractThumbnail(content string) string {
	if content == "" {
		return ""
	}

	for _, m := range imgSrcRe.FindAllStringSubmatch(content, -1) {
		src := strings.TrimSpace(m[1])
		if src == "" || adImageRe.MatchString(src) {
			continue
		}
		return src
	}

	for _, u := range bareImageRe.FindAllString(content, -1) {
		if adImageRe.MatchString(u) {
			continue
		}
		return u
	}
	return ""
}
