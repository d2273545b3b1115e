package medias

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/hbomb79/Reel/internal/download"
	"github.com/hbomb79/Reel/internal/media"
	"github.com/labstack/echo/v4"
)

type (
	DownloadService interface {
		Info(ctx context.Context, url string) (*media.VideoMetadata, error)
		Download(ctx context.Context, request download.Request) (*download.TransientFile, error)
	}

	Controller struct {
		validate *validator.Validate
		service  DownloadService
	}
)

func New(validate *validator.Validate, service DownloadService) *Controller {
	return &Controller{validate: validate, service: service}
}

func (controller *Controller) SetRoutes(eg *echo.Group) {
	eg.POST("/get_info", controller.getInfo)
	eg.POST("/download", controller.download)
}

// getInfo returns the metadata of the media behind the URL, including the
// de-duplicated list of resolutions the client can choose from.
func (controller *Controller) getInfo(ec echo.Context) error {
	var request InfoRequest
	if err := controller.bind(ec, &request); err != nil {
		return err
	}

	info, err := controller.service.Info(ec.Request().Context(), request.URL)
	if err != nil {
		return err
	}

	return ec.JSON(http.StatusOK, infoModelToDto(info))
}

// download fetches the media at the requested quality and returns the
// one-shot URL from which the file can be collected.
func (controller *Controller) download(ec echo.Context) error {
	var request DownloadRequest
	if err := controller.bind(ec, &request); err != nil {
		return err
	}

	file, err := controller.service.Download(ec.Request().Context(), download.Request{URL: request.URL, Quality: request.Quality})
	if err != nil {
		return err
	}

	return ec.JSON(http.StatusOK, newDownloadDto(file))
}

func (controller *Controller) bind(ec echo.Context, request any) error {
	if err := ec.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid body: %s", bindMessage(err)))
	}

	if err := controller.validate.Struct(request); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 && fieldErrs[0].Field() == "URL" {
			return echo.NewHTTPError(http.StatusBadRequest, "URL is required")
		}

		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid body: %s", err.Error()))
	}

	return nil
}

func bindMessage(err error) string {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return fmt.Sprint(httpErr.Message)
	}

	return err.Error()
}
