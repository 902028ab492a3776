package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/aprodmayo/management-system/docs"
	"github.com/aprodmayo/management-system/internal/api"
	"github.com/aprodmayo/management-system/internal/core/service"
	"github.com/aprodmayo/management-system/internal/infrastructure/config"
	"github.com/aprodmayo/management-system/internal/infrastructure/db/postgres"
	redisdb "github.com/aprodmayo/management-system/internal/infrastructure/db/redis"
	"github.com/aprodmayo/management-system/internal/infrastructure/queue"
	"github.com/aprodmayo/management-system/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title APRODMAYO Management API
// @version 1.0
// @description Administrative API for the beneficiary case records, finance ledger and workshop register of APRODMAYO.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	log := logger.New(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Connect(cfg.Postgres.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connection failed")
	}
	if err := postgres.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("schema migration failed")
	}
	if err := postgres.EnsureDuesCategory(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("dues category bootstrap failed")
	}
	log.Info().Msg("postgres connected")

	rdb, err := redisdb.Connect(ctx, cfg.Redis.Addr, cfg.Redis.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")

	// Background refresh keeps workshop statuses aligned with their dates.
	workshopService := service.NewWorkshopService(
		postgres.NewWorkshopRepository(db),
		postgres.NewBeneficiaryRepository(db),
		log,
	)
	queue.NewStatusScheduler(workshopService, cfg.RefreshInterval, log).Start(ctx)

	e := api.NewRouter(db, rdb, cfg.JWTSecret, cfg.TokenTTL, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server start failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("api started")

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}
	if err := rdb.Close(); err != nil {
		log.Error().Err(err).Msg("redis close error")
	}
	log.Info().Msg("api stopped")
}
