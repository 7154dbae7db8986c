package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/chemedu/periodic-table-api/internal/api"
	"github.com/chemedu/periodic-table-api/internal/core/auth"
	"github.com/chemedu/periodic-table-api/internal/core/service"
	"github.com/chemedu/periodic-table-api/internal/infrastructure/config"
	mongodb "github.com/chemedu/periodic-table-api/internal/infrastructure/db/mongo"
	redisdb "github.com/chemedu/periodic-table-api/internal/infrastructure/db/redis"
	"github.com/chemedu/periodic-table-api/internal/infrastructure/queue"
	"github.com/chemedu/periodic-table-api/pkg/logger"
)

func main() {
	// A .env file is optional; real environments set variables directly.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		l := logger.Init(logger.Options{})
		l.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if strings.TrimSpace(cfg.JWTSecret) == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := mongodb.Disconnect(mongoClient); err != nil {
			log.Warn().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	credentialRepo := mongodb.NewCredentialRepository(db)
	elementRepo := mongodb.NewElementRepository(db)
	auditRepo := mongodb.NewAuditRepository(db)

	if err := credentialRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("account index creation failed")
	}
	if err := elementRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("element index creation failed")
	}
	if err := auditRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("audit index creation failed")
	}

	// --- Services ---
	auditService := service.NewAuditService(auditRepo, log)
	dispatcher := queue.NewAuditDispatcher(cfg.AuditWorkers, auditService, log)
	dispatcher.Start(ctx)

	hasher := auth.NewPasswordHasher()
	codec := auth.NewTokenCodec(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(credentialRepo, hasher, codec, dispatcher, log)
	elementCache := redisdb.NewElementCache(rdb, log)
	elementService := service.NewElementService(elementRepo, elementCache, dispatcher, log)

	// --- Startup seeds (idempotent) ---
	if err := authService.EnsureAdminSeed(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatal().Err(err).Msg("admin seed failed")
	}
	if err := elementService.SeedDefaults(ctx); err != nil {
		log.Fatal().Err(err).Msg("element seed failed")
	}

	// --- HTTP server ---
	e := api.NewRouter(api.Dependencies{
		Logger:         log,
		Codec:          codec,
		AuthService:    authService,
		ElementService: elementService,
		AuditService:   auditService,
		TokenTTL:       codec.TTL(),
		Mongo:          db,
		Redis:          rdb,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
