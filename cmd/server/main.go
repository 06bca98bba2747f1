// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kiranakart/forecast/internal/api"
	"github.com/kiranakart/forecast/internal/cache"
	"github.com/kiranakart/forecast/internal/calendar"
	"github.com/kiranakart/forecast/internal/config"
	"github.com/kiranakart/forecast/internal/forecast"
	"github.com/kiranakart/forecast/internal/repository/postgres"
	"github.com/kiranakart/forecast/internal/service"
	"github.com/kiranakart/forecast/internal/storage"
	"github.com/kiranakart/forecast/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	salesRepo := postgres.NewSalesRepository(db)

	modelStore, err := newModelStore(&cfg.Models)
	if err != nil {
		log.Fatalf("Failed to initialize model storage: %v", err)
	}

	forecastCache, err := cache.NewForecastCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Forecast cache unavailable, continuing without caching")
		forecastCache = cache.NewNoopForecastCache()
	}

	engine := forecast.NewEngine(calendar.NewOracle(time.Now().UnixNano()))
	svc := service.NewForecastService(salesRepo, modelStore, cfg.Models.Prefix, forecastCache, engine)

	// Load model artifacts up front. The server still starts when they are
	// missing so /status can report not_ready and reload-models can recover.
	if err := svc.Reload(context.Background()); err != nil {
		logger.Log.Warn().Err(err).Msg("Models not loaded at startup")
	}

	// Initialize HTTP server
	router := api.NewRouter(svc, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

func newModelStore(cfg *config.ModelsConfig) (storage.ObjectStorage, error) {
	if cfg.Bucket != "" {
		return storage.NewMinioClient(storage.MinioConfig{
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			Bucket:    cfg.Bucket,
			UseSSL:    cfg.UseSSL,
		})
	}
	return storage.NewLocalStore(cfg.Dir)
}
