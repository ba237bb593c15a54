package handler

import (
	"crypto-trading-sim/internal/adapter/http/middleware"
	redisStore "crypto-trading-sim/internal/adapter/storage/redis"
	"crypto-trading-sim/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	TradeSvc       ports.TradeService
	PortfolioSvc   ports.PortfolioService
	HistorySvc     ports.HistoryService
	QuoteSvc       ports.PriceOracle
	TokenSvc       ports.TokenService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep, verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", rl("auth_register"), authHandler.Register)
		auth.POST("/login", rl("auth_login"), authHandler.Login)
	}

	// --- JWT-authenticated routes ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	tradeHandler := NewTradeHandler(deps.TradeSvc)
	portfolioHandler := NewPortfolioHandler(deps.PortfolioSvc)
	historyHandler := NewHistoryHandler(deps.HistorySvc)

	trades := v1.Group("/trades", jwtAuth)
	{
		trades.POST("/buy", rl("trades"), tradeHandler.Buy)
		trades.POST("/sell", rl("trades"), tradeHandler.Sell)
		trades.POST("/transfer", rl("trades"), tradeHandler.Transfer)
	}

	holdings := v1.Group("/holdings", jwtAuth)
	{
		holdings.PUT("", rl("trades"), tradeHandler.AdjustHolding)
	}

	portfolio := v1.Group("/portfolio", jwtAuth)
	{
		portfolio.GET("/stats", rl("portfolio"), portfolioHandler.GetStats)
	}

	transactions := v1.Group("/transactions", jwtAuth)
	{
		transactions.GET("", rl("portfolio"), historyHandler.ListTransactions)
		transactions.GET("/stats", rl("portfolio"), historyHandler.GetStats)
	}

	// --- Market data (JWT-authenticated, read-only) ---
	marketHandler := NewMarketHandler(deps.QuoteSvc)
	market := v1.Group("/market", jwtAuth)
	{
		market.GET("/price/:symbol", rl("market"), marketHandler.GetPrice)
		market.GET("/stats/:symbol", rl("market"), marketHandler.GetStats)
	}

	return r
}
