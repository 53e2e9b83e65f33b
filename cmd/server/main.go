package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"acju-prayer-times/internal/cache"
	"acju-prayer-times/internal/config"
	"acju-prayer-times/internal/log"
	"acju-prayer-times/internal/store"
	"acju-prayer-times/internal/web"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := log.Init(settings.Production); err != nil {
		panic(err)
	}
	defer log.Sync()
	logger := log.L()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize store (GCS or local)
	var s store.Store
	if settings.GCSBucket != "" {
		gcsStore, err := store.NewGCS(ctx, settings.GCSBucket, settings.GCSPrefix, settings.GCSCredentials)
		if err != nil {
			logger.Fatal("store_init_failed", zap.Error(err))
		}
		defer gcsStore.Close()
		s = gcsStore
		logger.Info("store_ready", zap.String("backend", "gcs"), zap.String("bucket", settings.GCSBucket))
	} else {
		localStore, err := store.NewLocal(settings.OutputDir)
		if err != nil {
			logger.Fatal("store_init_failed", zap.Error(err))
		}
		s = localStore
		logger.Info("store_ready", zap.String("backend", "local"), zap.String("dir", settings.OutputDir))
	}

	handler := web.New(s, settings.OutputFilename, settings.CalendarFilename, cache.New(settings.CacheTTL), logger)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	srv := &http.Server{
		Addr:              settings.ServerAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info("server_start", zap.String("addr", settings.ServerAddr), zap.Duration("cache_ttl", settings.CacheTTL))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server_failed", zap.Error(err))
	}
}
