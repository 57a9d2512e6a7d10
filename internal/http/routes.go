package http

import (
	"os"
	"strconv"
	"time"

	"richsnake_backend/internal/config"
	"richsnake_backend/internal/http/handlers"
	"richsnake_backend/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, cfg *config.Config, tg handlers.TelegramAPI, version string) {
	h := handlers.NewHandler(db, handlers.HandlerConfig{
		BotToken:          cfg.BotToken,
		TrialDays:         cfg.TrialDays,
		SubscriptionDays:  cfg.SubscriptionDays,
		SubscriptionPrice: cfg.SubscriptionPrice,
		ReferralReward:    cfg.ReferralReward,
	}, tg)
	healthHandler := handlers.NewHealthHandler(db, version)

	// read limits from env, with safe defaults
	apiRateLimit := envIntOr("API_RATE_LIMIT", 10)
	apiRateWindow := envSecondsOr("API_RATE_WINDOW_SECONDS", time.Minute)
	authRateLimit := envIntOr("AUTH_RATE_LIMIT", 5)
	authRateWindow := envSecondsOr("AUTH_RATE_WINDOW_SECONDS", time.Minute)
	scoreRateLimit := envIntOr("SCORE_RATE_LIMIT", 60)
	scoreRateWindow := envSecondsOr("SCORE_RATE_WINDOW_SECONDS", time.Minute)

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	// Payment provider callback. Unauthenticated and unlimited: the
	// provider controls delivery, not the clients.
	r.POST("/webhook/payment", h.PaymentWebhook)

	// API v1 routes
	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(apiRateLimit, apiRateWindow))
	registerAPIRoutes(v1, h, authRateLimit, authRateWindow, scoreRateLimit, scoreRateWindow)

	// Legacy /api routes (kept for backward compatibility)
	api := r.Group("/api")
	api.Use(middleware.RedisRateLimit(apiRateLimit, apiRateWindow))
	registerAPIRoutes(api, h, authRateLimit, authRateWindow, scoreRateLimit, scoreRateWindow)
}

func registerAPIRoutes(api *gin.RouterGroup, h *handlers.Handler, authRateLimit int, authRateWindow time.Duration, scoreRateLimit int, scoreRateWindow time.Duration) {
	// Auth
	api.POST("/auth", middleware.RedisRateLimit(authRateLimit, authRateWindow), h.Auth)

	// Profile
	api.GET("/user", middleware.JWT(), h.Me)
	api.POST("/wallet", middleware.JWT(), h.UpdateWallet)

	// Score submission (per user, not per IP)
	scoreRL := middleware.UserRateLimit(scoreRateLimit, scoreRateWindow)
	api.POST("/score", middleware.JWT(), scoreRL, h.AddScore)
	api.POST("/score/hard", middleware.JWT(), scoreRL, h.SetScore)

	// Tasks
	api.GET("/tasks", middleware.JWT(), h.ListTasks)
	api.POST("/tasks/complete", middleware.JWT(), h.CompleteTask)

	// Referral system
	api.GET("/referred", middleware.JWT(), h.ListReferred)

	// Rankings
	api.GET("/leaderboard", middleware.JWT(), h.Leaderboard)
	api.GET("/prizers", middleware.JWT(), h.Prizers)

	// Prizes
	api.GET("/prizes", middleware.JWT(), h.ListPrizes)

	// Subscriptions
	api.GET("/subscription", middleware.JWT(), h.GetSubscription)
	api.POST("/subscription/buy", middleware.JWT(), h.BuySubscription)
	api.POST("/subscription/invoice", middleware.JWT(), h.BuySubscriptionInvoice)

	// Withdrawals
	api.POST("/withdraw", middleware.JWT(), h.CreateWithdrawal)
	api.GET("/withdrawals", middleware.JWT(), h.ListWithdrawals)
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envSecondsOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return time.Duration(n) * time.Second
		}
	}
	return def
}
