package api

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hbomb79/Reel/internal/api/downloads"
	"github.com/hbomb79/Reel/internal/api/medias"
	"github.com/hbomb79/Reel/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

var log = logger.Get("API")

const shutdownGracePeriod = 10 * time.Second

type (
	RestConfig struct {
		HostAddr  string `toml:"host_address" yaml:"host_address" env:"API_HOST_ADDR" env-default:"0.0.0.0:5000"`
		BodyLimit string `toml:"body_limit" yaml:"body_limit" env:"API_BODY_LIMIT" env-default:"64K"`
	}

	controller interface {
		SetRoutes(*echo.Group)
	}

	// The RestGateway is a thin-wrapper around the Echo HTTP router. It's sole responsibility
	// is to create the routes Reel exposes and to hand requests to the controllers.
	RestGateway struct {
		config              *RestConfig
		ec                  *echo.Echo
		mediaController     controller
		downloadsController controller
	}
)

// NewRestGateway constructs the Echo router and populates it with all the
// routes defined by the controllers.
func NewRestGateway(
	config *RestConfig,
	downloadService medias.DownloadService,
	deliveryService downloads.DeliveryService,
) *RestGateway {
	ec := echo.New()
	ec.OnAddRouteHandler = func(host string, route echo.Route, handler echo.HandlerFunc, middleware []echo.MiddlewareFunc) {
		log.Emit(logger.DEBUG, "Registered new route %s %s\n", route.Method, route.Path)
	}
	ec.HidePort = true
	ec.HideBanner = true
	ec.HTTPErrorHandler = NewHTTPErrorHandler()

	validate := validator.New()
	gateway := &RestGateway{
		config:              config,
		ec:                  ec,
		mediaController:     medias.New(validate, downloadService),
		downloadsController: downloads.New(deliveryService),
	}

	ec.Use(middleware.Logger())
	ec.Use(middleware.Recover())
	if config.BodyLimit != "" {
		ec.Use(middleware.BodyLimit(config.BodyLimit))
	}

	gateway.mediaController.SetRoutes(ec.Group(""))
	gateway.downloadsController.SetRoutes(ec.Group("/downloads"))

	return gateway
}

// ServeHTTP allows the gateway to be driven directly, without a listener.
func (gateway *RestGateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	gateway.ec.ServeHTTP(w, r)
}

func (gateway *RestGateway) Run(parentCtx context.Context) error {
	ctx, ctxCancel := context.WithCancelCause(parentCtx)
	wg := &sync.WaitGroup{}

	// Start echo router
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Emit(logger.SUCCESS, "Listening on %s\n", gateway.config.HostAddr)
		if err := gateway.ec.Start(gateway.config.HostAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			ctxCancel(err)
		}
	}()

	// Wait for cancellation, then let in-flight requests finish
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
	defer cancel()
	if err := gateway.ec.Shutdown(shutdownCtx); err != nil {
		log.Warnf("Graceful shutdown failed, closing: %v\n", err)
		gateway.ec.Close()
	}

	wg.Wait()

	// Return cancellation cause if any, otherwise nil as parent context
	// cancellation is not an error case we should report.
	if cause := context.Cause(ctx); cause != ctx.Err() {
		return cause
	}

	return nil
}
