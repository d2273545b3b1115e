package engine

import (
	"context"
	"fmt"

	"github.com/hbomb79/Reel/pkg/logger"
)

var log = logger.Get("Engine")

// YtDlp drives the yt-dlp binary as a subprocess. Every call is a single
// blocking invocation; retries are left to the caller.
type YtDlp struct {
	binPath string
}

func New(config Config) *YtDlp {
	bin := config.BinPath
	if bin == "" {
		bin = "yt-dlp"
	}

	return &YtDlp{binPath: bin}
}

// ExtractInfo resolves the metadata for the URL without fetching any media.
func (yt *YtDlp) ExtractInfo(ctx context.Context, url string, opts Options) (*Metadata, error) {
	args := append(opts.args(), "--dump-single-json", "--", url)

	res, err := run(ctx, yt.binPath, args)
	if err != nil {
		return nil, err
	}

	meta, err := decodeMetadata(res.stdout)
	if err != nil {
		return nil, fmt.Errorf("extract info for %s: %w", url, err)
	}

	return meta, nil
}

// Download fetches the media using the format and output template in the
// options. The returned metadata describes the downloaded file, including
// where the engine wrote it.
func (yt *YtDlp) Download(ctx context.Context, url string, opts Options) (*Metadata, error) {
	args := append(opts.args(), "--dump-single-json", "--no-simulate", "--", url)

	res, err := run(ctx, yt.binPath, args)
	if err != nil {
		return nil, err
	}

	meta, err := decodeMetadata(res.stdout)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", url, err)
	}

	log.Verbosef("Engine reported output path %s for %s\n", meta.OutputPath(), url)
	return meta, nil
}
