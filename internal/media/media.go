package media

import (
	"math"

	"github.com/hbomb79/Reel/internal/engine"
)

const unknownTitle = "Unknown Title"

type (
	// FormatOption is a single user-selectable quality. Within one
	// normalized list every Resolution is unique.
	FormatOption struct {
		FormatID   string
		Resolution string
		Ext        string
	}

	// VideoMetadata is the normalized view of a media source returned
	// to clients asking what is available before downloading.
	VideoMetadata struct {
		Title        string
		ThumbnailURL string
		Duration     *int
		Formats      []FormatOption
		CanonicalURL string
	}
)

// NewVideoMetadata builds the client facing metadata from the engine's
// extraction result. sourceURL is used when the engine does not report
// a canonical page URL.
func NewVideoMetadata(meta *engine.Metadata, sourceURL string) *VideoMetadata {
	out := &VideoMetadata{
		Title:        meta.Title,
		ThumbnailURL: meta.Thumbnail,
		Formats:      Normalize(meta.Formats),
		CanonicalURL: meta.WebpageURL,
	}

	if out.Title == "" {
		out.Title = unknownTitle
	}
	if out.CanonicalURL == "" {
		out.CanonicalURL = sourceURL
	}
	if meta.Duration != nil {
		seconds := int(math.Round(*meta.Duration))
		out.Duration = &seconds
	}

	return out
}
