package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"verilink/internal/config"
	apihttp "verilink/internal/http"
	"verilink/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sessionTTL := time.Duration(cfg.SessionTTLSeconds) * time.Second
	tokenTTL := time.Duration(cfg.TokenTTLSeconds) * time.Second
	rateWindow := time.Duration(cfg.IssueRateWindowSeconds) * time.Second

	store := service.NewSessionStore(sessionTTL)
	codec := service.NewTokenCodec(cfg.VerifySecret, tokenTTL)
	verifySvc := service.NewVerificationService(logger, store, codec, cfg.PublicBaseURL)

	limiter := service.NewIssueRateLimiter(rateWindow, cfg.IssueRateMax)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			limiter = service.NewRedisIssueRateLimiter(redisClient, rateWindow, cfg.IssueRateMax)
		}
		cancel()
	}

	verifyHandler := apihttp.NewVerifyHandler(logger, verifySvc, limiter, cfg.DeeplinkScheme)
	router := apihttp.NewRouter(logger, verifyHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
