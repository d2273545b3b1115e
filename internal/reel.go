package internal

import (
	"context"
	"fmt"
	"sync"

	"github.com/hbomb79/Reel/internal/api"
	"github.com/hbomb79/Reel/internal/delivery"
	"github.com/hbomb79/Reel/internal/download"
	"github.com/hbomb79/Reel/internal/engine"
	"github.com/hbomb79/Reel/internal/store"
	"github.com/hbomb79/Reel/pkg/logger"
)

var log = logger.Get("Core")

type (
	RunnableService interface {
		Run(context.Context) error
	}
)

// reelImpl is the top-level object for the server, and is responsible
// for wiring the store, engine and services together and running them.
type reelImpl struct {
	config      ReelConfig
	store       *store.Store
	restGateway RunnableService
}

// New constructs the services described by the configuration. The store
// directory is created if it does not already exist.
func New(config ReelConfig) (*reelImpl, error) {
	log.Emit(logger.DEBUG, "Bootstrapping Reel services using config: %#v\n", config)

	fileStore, err := store.New(config.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to construct store: %w", err)
	}

	ytdlp := engine.New(config.Engine)
	downloadService := download.New(config.Download, ytdlp, config.Engine.BaseOptions(), fileStore)
	deliveryService := delivery.New(fileStore)

	log.Emit(logger.INFO, "Transient files will be stored in %s\n", fileStore.Path())
	return &reelImpl{
		config:      config,
		store:       fileStore,
		restGateway: api.NewRestGateway(&config.RestConfig, downloadService, deliveryService),
	}, nil
}

// Run starts the REST gateway and, if enabled, the store sweeper.
//
// This function will not return until Reel is stopped.
// To stop Reel, the provided context must be cancelled. Errors from which Reel cannot recover
// will also cause Reel to stop, in which case the error is returned.
func (reel *reelImpl) Run(parent context.Context) error {
	ctx, cancel := context.WithCancelCause(parent)
	defer cancel(nil)

	crashHandler := func(label string, err error) {
		log.Emit(logger.FATAL, "Service crash (%s)! %s\n", label, err.Error())
		cancel(fmt.Errorf("%s: %w", label, err))
	}

	wg := &sync.WaitGroup{}
	reel.spawnAsyncService(ctx, wg, reel.restGateway, "rest-gateway", crashHandler)
	reel.spawnAsyncService(ctx, wg, reel.store, "store-sweeper", crashHandler)
	log.Emit(logger.SUCCESS, "Reel services spawned!\n")

	wg.Wait()
	log.Emit(logger.STOP, "Reel services stopped\n")

	if cause := context.Cause(ctx); cause != nil && cause != ctx.Err() {
		return cause
	}

	return nil
}

// spawnAsyncService will run the provided service as it's own
// go-routine, ensuring that the Reel service waitgroup is updated correctly
func (reel *reelImpl) spawnAsyncService(ctx context.Context, wg *sync.WaitGroup, service RunnableService, serviceLabel string, crashHandler func(string, error)) {
	log.Emit(logger.NEW, "Spawning %s\n", serviceLabel)
	wg.Add(1)

	go func(wg *sync.WaitGroup, label string, crash func(string, error)) {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				crash(label, fmt.Errorf("panic %v", r))
			}
		}()

		if err := service.Run(ctx); err != nil {
			crash(label, err)
		}
	}(wg, serviceLabel, crashHandler)
}
