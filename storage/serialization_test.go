package storage

import (
	"testing"
	"time"

	"github.com/poiesic/newswire/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArticleRecordRoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	record := &core.ArticleRecord{
		URLHash:          core.HashURL("https://x.com/a"),
		TitleHash:        core.HashTitle("Acme Q3 Earnings"),
		URL:              "https://x.com/a",
		Title:            "Acme Q3 Earnings",
		Content:          "<p>Earnings rose.</p>",
		Thumbnail:        "https://x.com/thumb.jpg",
		PublishedAt:      now.Format(time.RFC3339),
		PublishedAtEpoch: now.Unix(),
		Author:           "Jane Doe",
		Category:         "markets",
		Source:           "acme-feed",
		CreatedAt:        now,
		UpdatedAt:        now,
		ExpiresAt:        now.Add(core.DefaultTTL).Unix(),
	}

	data, err := MarshalArticleRecord(record)
	require.NoError(t, err)

	got, err := UnmarshalArticleRecord(data)
	require.NoError(t, err)
	assert.Equal(t, record, got)
}

func TestUnmarshalArticleRecordGarbage(t *testing.T) {
	_, err := UnmarshalArticleRecord([]byte{0xc1, 0xff, 0x00})
	assert.ErrorIs(t, err, ErrSerializationFailed)
}
