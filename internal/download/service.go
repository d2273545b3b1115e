package download

import (
	"context"
	"path/filepath"
	"time"

	"github.com/hbomb79/Reel/internal/engine"
	"github.com/hbomb79/Reel/internal/media"
	"github.com/hbomb79/Reel/internal/store"
	"github.com/hbomb79/Reel/pkg/logger"
)

var log = logger.Get("Download")

type (
	// Engine is the extraction/download collaborator.
	Engine interface {
		ExtractInfo(ctx context.Context, url string, opts engine.Options) (*engine.Metadata, error)
		Download(ctx context.Context, url string, opts engine.Options) (*engine.Metadata, error)
	}

	fileStore interface {
		Issue() store.Ticket
		Release(store.Ticket)
		Discard(store.Ticket)
		Adopt(path string) (string, error)
		Exists(path string) bool
	}

	Request struct {
		URL     string
		Quality string
	}

	// TransientFile is a downloaded file waiting in the store for its single
	// delivery. Only the base name is ever handed to clients.
	TransientFile struct {
		Name      string
		Path      string
		CreatedAt time.Time
	}

	// Service drives the engine for both metadata extraction and downloads.
	// Each call maps to exactly one engine invocation; nothing is retried.
	Service struct {
		engine      Engine
		store       fileStore
		config      Config
		baseOptions engine.Options
	}
)

func New(config Config, eng Engine, baseOptions engine.Options, fileStore fileStore) *Service {
	return &Service{engine: eng, store: fileStore, config: config, baseOptions: baseOptions}
}

// Info resolves the metadata and selectable quality options for the URL.
func (service *Service) Info(ctx context.Context, url string) (*media.VideoMetadata, error) {
	ctx, cancel := withTimeout(ctx, service.config.InfoTimeout())
	defer cancel()

	meta, err := service.engine.ExtractInfo(ctx, url, service.baseOptions)
	if err != nil {
		log.Errorf("Failed to extract info for %s: %v\n", url, err)
		return nil, &ExtractionError{URL: url, Err: err}
	}

	return media.NewVideoMetadata(meta, url), nil
}

// Download fetches the media at the requested quality in to the store and
// returns the resulting transient file. On any failure, every file written
// for this download is removed before the error is returned.
func (service *Service) Download(ctx context.Context, request Request) (*TransientFile, error) {
	if request.Quality == "" {
		request.Quality = media.BestQuality
	}

	selection := media.Select(request.Quality, service.config.MergeFormat)
	ticket := service.store.Issue()

	opts := service.baseOptions
	opts.OutputTemplate = ticket.Template
	opts.Format = selection.Expression
	opts.MergeOutputFormat = selection.Container

	ctx, cancel := withTimeout(ctx, service.config.DownloadTimeout())
	defer cancel()

	log.Emit(logger.NEW, "Downloading %s (format %s) under ticket %s\n", request.URL, selection.Expression, ticket.Token)
	meta, err := service.engine.Download(ctx, request.URL, opts)
	if err != nil {
		log.Errorf("Download of %s failed: %v\n", request.URL, err)
		service.store.Discard(ticket)
		return nil, &DownloadError{URL: request.URL, Quality: request.Quality, Err: err}
	}

	path := service.resolveOutputPath(meta, selection.Container)
	if path == "" {
		service.store.Discard(ticket)
		return nil, newDownloadError(request, "engine did not report an output file for %s", request.URL)
	}

	name, err := service.store.Adopt(path)
	if err != nil {
		log.Errorf("Engine output for %s could not be adopted: %v\n", request.URL, err)
		service.store.Discard(ticket)
		return nil, newDownloadError(request, "engine output %s is unavailable", filepath.Base(path))
	}

	service.store.Release(ticket)
	log.Emit(logger.SUCCESS, "Downloaded %s to %s\n", request.URL, name)
	return &TransientFile{Name: name, Path: path, CreatedAt: time.Now()}, nil
}

// resolveOutputPath determines where the engine actually left the file. The
// merge step can rewrite the extension in place, so when the reported path
// does not carry the forced container's extension a sibling path with that
// extension is preferred if it exists.
func (service *Service) resolveOutputPath(meta *engine.Metadata, container string) string {
	path := meta.OutputPath()
	if path == "" || container == "" {
		return path
	}

	ext := filepath.Ext(path)
	if ext == "."+container {
		return path
	}

	if candidate := path[:len(path)-len(ext)] + "." + container; service.store.Exists(candidate) {
		return candidate
	}

	return path
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, timeout)
}
