package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"deposit-service/controllers"
	"deposit-service/database"
	"deposit-service/kafka"
	"deposit-service/providers"
	"deposit-service/repository"
	"deposit-service/routes"
	servicepkg "deposit-service/services"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	cfg, err := LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	if err := database.Connect(); err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close() //nolint:errcheck

	// Optional Redis status cache
	var cache *redis.Client
	if cfg.RedisURL != "" {
		cache, err = database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			logger.Warn("Redis unavailable, status cache disabled", zap.Error(err))
			cache = nil
		}
	}

	// Optional Kafka deposit-event producer
	var producer kafka.DepositEventPublisher
	if cfg.KafkaBrokers != "" {
		p := kafka.NewDepositEventProducer(
			strings.Split(cfg.KafkaBrokers, ","),
			cfg.DepositEventTopic,
			logger,
		)
		producer = p
		defer p.Close()
	}

	// Provider and DI chain
	paymentProvider := providers.NewFlutterwaveProvider(cfg.FlutterwaveSecretKey, cfg.Currency, cfg.CallbackURL)
	depositRepo := repository.NewGormDepositRepository(database.DB)
	depositService := servicepkg.NewDepositService(
		depositRepo,
		paymentProvider,
		producer,
		cache,
		cfg.Currency,
		logger,
	)
	depositController := controllers.NewDepositController(depositService)

	r := gin.New()
	r.Use(gin.Recovery())

	// Global request-logging middleware
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", duration),
		)
	})

	// 30-second request timeout
	r.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "deposit-service"})
	})

	routes.RegisterDepositRoutes(r, depositController, cfg.FlutterwaveSecretHash, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	logger.Info("Deposit service started", zap.String("port", cfg.Port))
	<-quit
	logger.Info("Shutting down deposit service...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	logger.Info("Server exited cleanly")
}
