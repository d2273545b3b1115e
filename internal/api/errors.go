package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/hbomb79/Reel/internal/download"
	"github.com/hbomb79/Reel/internal/store"
	"github.com/labstack/echo/v4"
)

type APIError struct {
	// Human readable error display message
	Message string `json:"error"`

	// Used to alter the HTTP response status in accordance with the error
	Status int `json:"-"`

	// Additional message for internal logging only. Will not be included in the message
	// sent to the user.
	InternalMessage string `json:"-"`
}

// Error satisifies the Go error interface and simply exposes the
// message contained by this APIError.
func (err APIError) Error() string {
	return fmt.Sprintf("api error: %s", err.Message)
}

// toAPIError maps the errors our services return to the response
// the client should see.
func toAPIError(err error) APIError {
	var (
		apiErr        APIError
		httpErr       *echo.HTTPError
		extractionErr *download.ExtractionError
		downloadErr   *download.DownloadError
	)

	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, store.ErrNotFound):
		return APIError{Status: http.StatusNotFound, Message: "File not found"}
	case errors.As(err, &extractionErr):
		return APIError{
			Status:          http.StatusInternalServerError,
			Message:         extractionErr.Error(),
			InternalMessage: fmt.Sprintf("extraction of %s failed: %s", extractionErr.URL, extractionErr.Error()),
		}
	case errors.As(err, &downloadErr):
		return APIError{
			Status:          http.StatusInternalServerError,
			Message:         downloadErr.Error(),
			InternalMessage: fmt.Sprintf("download of %s (quality %s) failed: %s", downloadErr.URL, downloadErr.Quality, downloadErr.Error()),
		}
	case errors.As(err, &httpErr):
		out := APIError{Status: httpErr.Code, Message: fmt.Sprint(httpErr.Message)}
		if httpErr.Internal != nil {
			out.InternalMessage = httpErr.Internal.Error()
		}
		return out
	default:
		return APIError{
			Status:          http.StatusInternalServerError,
			Message:         http.StatusText(http.StatusInternalServerError),
			InternalMessage: err.Error(),
		}
	}
}

// NewHTTPErrorHandler returns an echo HTTP error handler which renders every
// error as an APIError. Internal messages are logged, never sent.
func NewHTTPErrorHandler() echo.HTTPErrorHandler {
	return func(err error, ec echo.Context) {
		apiErr := toAPIError(err)
		if apiErr.Status == 0 {
			apiErr.Status = http.StatusInternalServerError
		}
		if len(apiErr.Message) == 0 {
			apiErr.Message = http.StatusText(apiErr.Status)
		}
		if len(apiErr.InternalMessage) > 0 {
			log.Errorf("Request to %s failed, internal error: %s\n", ec.Request().RequestURI, apiErr.InternalMessage)
		}

		if ec.Response().Committed {
			log.Warnf("%s request to %s failed after the response was committed: %v\n", ec.Request().Method, ec.Request().RequestURI, err)
			return
		}

		if err := ec.JSON(apiErr.Status, apiErr); err != nil {
			log.Errorf("Failed to write error response: %v\n", err)
		}
	}
}
