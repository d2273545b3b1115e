package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_DecodeMetadata_WeakTypes(t *testing.T) {
	doc := `{
		"id": "abc",
		"title": "Example",
		"thumbnail": "https://example.com/t.jpg",
		"duration": 212.4,
		"webpage_url": "https://example.com/video/abc",
		"formats": [
			{"format_id": "22", "ext": "mp4", "height": 720},
			{"format_id": "140", "ext": "m4a", "height": null, "vcodec": "none"},
			{"format_id": 18, "ext": "mp4", "height": "480"}
		],
		"unknown_field": {"nested": true}
	}`

	meta, err := decodeMetadata([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, "abc", meta.ID)
	assert.Equal(t, "Example", meta.Title)
	require.NotNil(t, meta.Duration)
	assert.InDelta(t, 212.4, *meta.Duration, 0.001)
	require.Len(t, meta.Formats, 3)

	require.NotNil(t, meta.Formats[0].Height)
	assert.Equal(t, 720, *meta.Formats[0].Height)
	assert.Nil(t, meta.Formats[1].Height)
	assert.Equal(t, "none", meta.Formats[1].VCodec)
	assert.Equal(t, "18", meta.Formats[2].FormatID)
	require.NotNil(t, meta.Formats[2].Height)
	assert.Equal(t, 480, *meta.Formats[2].Height)
}

func Test_DecodeMetadata_SkipsLeadingNoise(t *testing.T) {
	out := "[info] something the engine printed\n{\"id\": \"xyz\", \"title\": \"T\"}\n"

	meta, err := decodeMetadata([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, "xyz", meta.ID)
}

func Test_DecodeMetadata_Errors(t *testing.T) {
	_, err := decodeMetadata([]byte("   "))
	assert.ErrorIs(t, err, errEmptyOutput)

	_, err = decodeMetadata([]byte("not json"))
	assert.Error(t, err)
}

func Test_Metadata_OutputPath(t *testing.T) {
	tests := []struct {
		summary  string
		meta     Metadata
		expected string
	}{
		{
			summary:  "requested download wins",
			meta:     Metadata{Filename: "/dl/a.webm", RequestedDownloads: []RequestedDownload{{Filepath: "/dl/a.mp4"}}},
			expected: "/dl/a.mp4",
		},
		{
			summary:  "falls back to prepared filename",
			meta:     Metadata{Filename: "/dl/a.webm"},
			expected: "/dl/a.webm",
		},
		{
			summary:  "skips empty requested paths",
			meta:     Metadata{Filename: "/dl/a.webm", RequestedDownloads: []RequestedDownload{{}}},
			expected: "/dl/a.webm",
		},
		{
			summary:  "nothing reported",
			meta:     Metadata{},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.summary, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.meta.OutputPath())
		})
	}
}
