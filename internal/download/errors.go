package download

import "fmt"

// ExtractionError is returned when the engine could not produce metadata for
// a URL (unsupported site, private or removed content, network failure).
// The message is the engine's own diagnostic.
type ExtractionError struct {
	URL string
	Err error
}

func (err *ExtractionError) Error() string { return err.Err.Error() }
func (err *ExtractionError) Unwrap() error { return err.Err }

// DownloadError is returned when the engine could not produce a file (invalid
// format ID, merge failure, disk write failure, timeout).
type DownloadError struct {
	URL     string
	Quality string
	Err     error
}

func (err *DownloadError) Error() string { return err.Err.Error() }
func (err *DownloadError) Unwrap() error { return err.Err }

func newDownloadError(request Request, format string, args ...any) *DownloadError {
	return &DownloadError{URL: request.URL, Quality: request.Quality, Err: fmt.Errorf(format, args...)}
}
