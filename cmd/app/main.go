package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"restoapi/internal/app"
	"restoapi/internal/backend"
	"restoapi/internal/database/memory"
	"restoapi/internal/database/psql"
	"restoapi/pkg/config"
	"restoapi/pkg/lib/logger"
	"restoapi/pkg/lib/logger/sl"
)

type storage interface {
	app.ClientStorage
	Close() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.SetupLogger(cfg.HTTP.Env)
	if err != nil {
		panic(err)
	}

	var store storage
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		store = memory.New()
	default:
		store, err = psql.New(log, cfg.Storage.Driver, cfg.ConnectionString())
		if err != nil {
			panic(err)
		}
	}

	api := backend.New(log, cfg.Backend.BaseURL, cfg.Backend.Timeout)

	application := app.New(
		log,
		cfg,
		store,
		api,
	)

	go func() {
		if err := application.Run(); err != nil {
			log.Error("Application failed to start", sl.Err(err))
			panic(err)
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGTERM, syscall.SIGINT)
	<-done

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Info("Shutting down http server")
	if err := application.Shutdown(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		log.Error("Failed to shut down cleanly", sl.Err(err))
	}

	log.Info("Closing storage")
	if err := store.Close(); err != nil {
		log.Error("Failed to close storage", sl.Err(err))
	}
}
