// Package main is the entry point for the itinerary construction service.
// It exposes an HTTP API that builds award-flight itineraries from a
// segment availability pool and answers filter/sort/pagination queries
// over build results.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	itineraryhttp "github.com/awardroute/itinerary-engine/internal/adapter/http"
	"github.com/awardroute/itinerary-engine/internal/adapter/http/middleware"
	"github.com/awardroute/itinerary-engine/internal/config"
	"github.com/awardroute/itinerary-engine/internal/infrastructure/cache"
	"github.com/awardroute/itinerary-engine/internal/infrastructure/logger"
	"github.com/awardroute/itinerary-engine/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.MustLoad()

	log := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		ServiceName: "itinerary-engine",
	})

	log.Info().
		Str("env", cfg.App.Env).
		Int("port", cfg.Server.Port).
		Msg("Configuration loaded")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	middleware.Setup(e, log.Logger)

	setupRoutes(e, cfg, log)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	go func() {
		log.Info().Str("address", addr).Msg("Starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	gracefulShutdown(e, log)
}

// setupRoutes wires the usecase layer and registers the HTTP routes.
func setupRoutes(e *echo.Echo, cfg *config.Config, log *logger.Logger) {
	var resultCache usecase.ResultCache
	if cfg.Cache.Enabled {
		client := redis.NewClient(&redis.Options{Addr: cfg.Cache.Addr})
		resultCache = cache.NewResultStore(client, cfg.Cache.TTL)
		log.Info().
			Str("addr", cfg.Cache.Addr).
			Dur("ttl", cfg.Cache.TTL).
			Msg("Build-result cache enabled")
	}

	builder := usecase.NewItineraryBuilder(&usecase.Config{
		MinConnection:          cfg.Engine.MinConnection(),
		MaxLayover:             cfg.Engine.MaxLayover(),
		PoolSize:               cfg.Engine.PoolSize,
		MaxItinerariesPerRoute: cfg.Engine.MaxItinerariesPerRoute,
	}, resultCache, log)

	handler := itineraryhttp.NewItineraryHandler(builder)
	itineraryhttp.RegisterRoutes(e, handler)
}

// gracefulShutdown blocks until an interrupt signal, then drains the server.
func gracefulShutdown(e *echo.Echo, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	log.Info().Msg("Server stopped")
}
