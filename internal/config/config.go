package config

import (
	"os"
	"strconv"

	"richsnake_backend/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	DatabaseURL string
	BotToken    string
	BotUsername string
	JWTSecret   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Subscription economics
	SubscriptionPrice int64 // invoice amount in Telegram Stars
	SubscriptionDays  int   // paid subscription length
	TrialDays         int   // trial granted on first auth

	// Referral economics
	ReferralReward int64 // score credited to the referrer per referred user
}

// Load reads configuration from the environment. Required variables
// terminate the process when missing.
func Load() *Config {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	botToken := os.Getenv("BOT_TOKEN")
	if botToken == "" {
		logger.Fatal("BOT_TOKEN is not set")
	}

	botUsername := os.Getenv("BOT_USERNAME")
	if botUsername == "" {
		botUsername = "RichSnakeBot"
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	return &Config{
		AppPort:           port,
		DatabaseURL:       dbURL,
		BotToken:          botToken,
		BotUsername:       botUsername,
		JWTSecret:         jwtSecret,
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           redisDB,
		SubscriptionPrice: envInt64("SUBSCRIPTION_PRICE_STARS", 1),
		SubscriptionDays:  envInt("SUBSCRIPTION_DAYS", 30),
		TrialDays:         envInt("TRIAL_DAYS", 3),
		ReferralReward:    envInt64("REFERRAL_REWARD", 1000),
	}
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func envInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return def
}
