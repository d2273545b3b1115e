package medias

import (
	"net/url"

	"github.com/hbomb79/Reel/internal/api/util"
	"github.com/hbomb79/Reel/internal/download"
	"github.com/hbomb79/Reel/internal/media"
)

const downloadsPrefix = "/downloads/"

type (
	InfoRequest struct {
		URL string `json:"url" validate:"required"`
	}

	DownloadRequest struct {
		URL     string `json:"url" validate:"required"`
		Quality string `json:"quality"`
	}

	formatDto struct {
		FormatID   string `json:"format_id"`
		Resolution string `json:"resolution"`
		Ext        string `json:"ext"`
	}

	infoDto struct {
		Title      string      `json:"title"`
		Thumbnail  string      `json:"thumbnail"`
		Duration   *int        `json:"duration"`
		Formats    []formatDto `json:"formats"`
		WebpageURL string      `json:"webpage_url"`
	}

	downloadDto struct {
		Status      string `json:"status"`
		DownloadURL string `json:"download_url"`
	}
)

func formatModelToDto(model media.FormatOption) formatDto {
	return formatDto{FormatID: model.FormatID, Resolution: model.Resolution, Ext: model.Ext}
}

func infoModelToDto(model *media.VideoMetadata) infoDto {
	return infoDto{
		Title:      model.Title,
		Thumbnail:  model.ThumbnailURL,
		Duration:   model.Duration,
		Formats:    util.ApplyConversion(model.Formats, formatModelToDto),
		WebpageURL: model.CanonicalURL,
	}
}

// newDownloadDto exposes only the base name of the transient file,
// escaped so that it survives as a single path segment.
func newDownloadDto(file *download.TransientFile) downloadDto {
	return downloadDto{Status: "success", DownloadURL: downloadsPrefix + url.PathEscape(file.Name)}
}
