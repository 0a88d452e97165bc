package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coinfolio/coinfolio_service/internal/api/routes"
	"github.com/coinfolio/coinfolio_service/internal/infrastructure/cache"
	"github.com/coinfolio/coinfolio_service/internal/infrastructure/config"
	"github.com/coinfolio/coinfolio_service/internal/infrastructure/database"
	"github.com/coinfolio/coinfolio_service/internal/infrastructure/di"
	"github.com/coinfolio/coinfolio_service/pkg/logger"
	"github.com/coinfolio/coinfolio_service/pkg/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.New(cfg.LogLevel, cfg.Environment)

	shutdownTracing, err := tracing.InitProvider(context.Background(), tracing.Config{
		ServiceName:  "coinfolio-service",
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRatio:  cfg.Tracing.SampleRatio,
	})
	if err != nil {
		log.Fatal("Failed to initialize tracing", "error", err)
	}

	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", "error", err)
	}
	defer db.Close()

	if err := database.RunMigrations(cfg.Database.URL, cfg.Database.MigrationsPath); err != nil {
		log.Fatal("Failed to run migrations", "error", err)
	}

	redisCache, err := cache.NewCache(cfg.Redis, log.Zap())
	if err != nil {
		log.Fatal("Failed to connect to redis", "error", err)
	}
	defer redisCache.Close()

	container, err := di.NewContainer(cfg, db, redisCache, log)
	if err != nil {
		log.Fatal("Failed to create DI container", "error", err)
	}

	router := routes.SetupRoutes(container)

	if err := container.AlertWorker.Start(); err != nil {
		log.Fatal("Failed to start alert worker", "error", err)
	}

	server := &http.Server{
		Addr:           fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:        router,
		ReadTimeout:    time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.Server.WriteTimeout) * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Infow("Starting server", "addr", server.Addr, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	container.AlertWorker.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", "error", err)
	}

	if err := shutdownTracing(ctx); err != nil {
		log.Warnw("Failed to flush traces", "error", err)
	}

	log.Info("Server exited")
}
