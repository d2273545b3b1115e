package downloads

import (
	"mime"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"

	"github.com/hbomb79/Reel/internal/delivery"
	"github.com/hbomb79/Reel/internal/store"
	"github.com/hbomb79/Reel/pkg/logger"
	"github.com/labstack/echo/v4"
)

var log = logger.Get("Downloads")

type (
	DeliveryService interface {
		Open(name string) (*delivery.Delivery, error)
	}

	Controller struct {
		service DeliveryService
	}
)

func New(service DeliveryService) *Controller {
	return &Controller{service: service}
}

func (controller *Controller) SetRoutes(eg *echo.Group) {
	eg.GET("/:name", controller.get)
}

// get streams the named file to the client as an attachment. The file is
// removed from the store once the response ends, even if the client went
// away part way through, so a second request for the same name is a 404.
func (controller *Controller) get(ec echo.Context) error {
	name, err := fileName(ec)
	if err != nil {
		return store.ErrNotFound
	}

	file, err := controller.service.Open(name)
	if err != nil {
		return err
	}
	defer file.Close()

	header := ec.Response().Header()
	header.Set(echo.HeaderContentDisposition, mime.FormatMediaType("attachment", map[string]string{"filename": file.Name}))
	header.Set(echo.HeaderContentLength, strconv.FormatInt(file.Size, 10))
	header.Set("Cache-Control", "no-store")

	if err := ec.Stream(http.StatusOK, contentType(file.Name), file); err != nil {
		log.Warnf("Delivery of %s was interrupted: %v\n", file.Name, err)
	}

	return nil
}

// fileName returns the requested name with any percent-encoding removed. Echo
// leaves parameters escaped when the request path required escaping.
func fileName(ec echo.Context) (string, error) {
	name := ec.Param("name")
	if ec.Request().URL.RawPath == "" {
		return name, nil
	}

	return url.PathUnescape(name)
}

func contentType(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}

	return echo.MIMEOctetStream
}
