package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractThumbnail(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "img tag",
			content: `<p>Intro</p><img src="https://cdn.x.com/photo.jpg" alt="photo">`,
			want:    "https://cdn.x.com/photo.jpg",
		},
		{
			name:    "single quoted src",
			content: `<img class="hero" src='https://cdn.x.com/hero.png'>`,
			want:    "https://cdn.x.com/hero.png",
		},
		{
			name:    "ad pixel skipped",
			content: `<img src="https://ads.doubleclick.net/pixel.gif"><img src="https://cdn.x.com/real.jpg">`,
			want:    "https://cdn.x.com/real.jpg",
		},
		{
			name:    "bare url fallback",
			content: `No markup here, just https://cdn.x.com/inline.webp in text.`,
			want:    "https://cdn.x.com/inline.webp",
		},
		{
			name:    "only placeholders",
			content: `<img src="https://x.com/1x1.gif">`,
			want:    "",
		},
		{
			name:    "no image",
			content: `<p>plain paragraph</p>`,
			want:    "",
		},
		{
			name:    "empty body",
			content: "",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractThumbnail(tt.content))
		})
	}
}
