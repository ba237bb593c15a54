package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crypto-trading-sim/config"
	httpHandler "crypto-trading-sim/internal/adapter/http/handler"
	"crypto-trading-sim/internal/adapter/oracle/binance"
	pgStorage "crypto-trading-sim/internal/adapter/storage/postgres"
	redisStorage "crypto-trading-sim/internal/adapter/storage/redis"
	"crypto-trading-sim/internal/core/ports"
	"crypto-trading-sim/internal/service"
	"crypto-trading-sim/pkg/logger"

	"github.com/shopspring/decimal"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Crypto Trading Sim")

	seedBalance, err := decimal.NewFromString(cfg.Wallet.SeedBalance)
	if err != nil {
		log.Fatal().Err(err).Str("seed_balance", cfg.Wallet.SeedBalance).Msg("Invalid wallet seed balance")
	}

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	userRepo := pgStorage.NewUserRepo(pool)
	walletRepo := pgStorage.NewWalletRepo(pool)
	holdingRepo := pgStorage.NewHoldingRepo(pool)
	txRepo := pgStorage.NewTransactionRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	quoteCache := redisStorage.NewQuoteCache(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Initialize core services
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	// Price oracle: Binance REST client behind a Redis quote cache.
	oracleClient := binance.NewClient(cfg.Oracle.BaseURL, cfg.Oracle.Timeout, log)
	quoteSvc := service.NewQuoteService(oracleClient, quoteCache, cfg.Oracle.CacheTTL, log)

	// Initialize business services
	authSvc := service.NewAuthService(userRepo, walletRepo, hashSvc, tokenSvc, transactor, seedBalance, log)
	tradeSvc := service.NewTradeService(walletRepo, holdingRepo, txRepo, quoteSvc, transactor, log)
	portfolioSvc := service.NewPortfolioService(walletRepo, holdingRepo, quoteSvc, log)
	historySvc := service.NewHistoryService(walletRepo, txRepo, log)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:        authSvc,
		TradeSvc:       tradeSvc,
		PortfolioSvc:   portfolioSvc,
		HistorySvc:     historySvc,
		QuoteSvc:       quoteSvc,
		TokenSvc:       tokenSvc,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
