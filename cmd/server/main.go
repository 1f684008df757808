package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/dockside/truck-management/internal/api"
	"github.com/dockside/truck-management/internal/infrastructure/config"
	mongodb "github.com/dockside/truck-management/internal/infrastructure/db/mongo"
	redisdb "github.com/dockside/truck-management/internal/infrastructure/db/redis"
	"github.com/dockside/truck-management/internal/realtime"
	"github.com/dockside/truck-management/pkg/logger"
)

// @title        Truck Terminal Management API
// @version      1.0
// @description  CRUD backend for truck terminal operations with realtime
// @description  change events and two-phase spreadsheet import.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Stores ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(shutdownCtx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	if err := mongodb.NewTruckRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("truck index creation failed")
	}
	if err := mongodb.NewAuthRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("user index creation failed")
	}

	// --- Application ---
	hub := realtime.NewHub(log)

	e := api.NewRouter(api.RouterConfig{
		Mongo:      db,
		Redis:      rdb,
		Hub:        hub,
		JWTSecret:  cfg.JWTSecret,
		TokenTTL:   cfg.JWTExpiration,
		SessionTTL: cfg.Import.SessionTTL,
		Logger:     log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
