package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	contracts "github.com/barakov14/easylang-backend/contracts/mq"
	"github.com/barakov14/easylang-backend/internal/mqhandler"
	"github.com/barakov14/easylang-backend/internal/repository"
	"github.com/barakov14/easylang-backend/pkg/config"
	"github.com/barakov14/easylang-backend/pkg/db"
	"github.com/barakov14/easylang-backend/pkg/logger"
	"github.com/barakov14/easylang-backend/pkg/mq"
	pkgredis "github.com/barakov14/easylang-backend/pkg/redis"
	"github.com/barakov14/easylang-backend/pkg/util"
)

const dedupTTL = 24 * time.Hour

func main() {
	cfg := config.Load()

	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Starting notifier...",
		zap.String("db_host", cfg.DB.Host),
		zap.String("mq_url", cfg.MQ.URL),
		zap.String("redis_addr", cfg.Redis.Addr),
	)

	// DB
	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("Failed to init DB", zap.Error(err))
	}
	defer dbConn.Close()

	// Redis (event dedupe)
	rdb := pkgredis.NewRedisClient(cfg.Redis)
	defer rdb.Close()
	deduper := util.NewDeduperWithLogger(rdb, dedupTTL, log)

	// Repositories and handler
	notificationRepo := repository.NewNotificationRepository(dbConn, log)
	notificationCreatedHandler := mqhandler.NewNotificationCreatedHandler(notificationRepo, deduper, log)

	// MQ Consumer for notification.created
	queueName := contracts.RoutingKeyNotificationCreated + ".q"
	log.Info("Initializing MQ consumer...",
		zap.String("queue", queueName),
		zap.String("routing_key", contracts.RoutingKeyNotificationCreated),
	)
	consumer, err := mq.NewConsumer(cfg.MQ.URL, queueName, contracts.RoutingKeyNotificationCreated, log)
	if err != nil {
		log.Fatal("Failed to init consumer", zap.Error(err))
	}
	defer consumer.Close()

	// Poison messages go to the DLQ after the retry budget is spent.
	retryCounter := util.NewRetryCounter(rdb, time.Hour)
	if _, err := consumer.WithRetryPolicy(retryCounter, 5); err != nil {
		log.Fatal("Failed to set consumer retry policy", zap.Error(err))
	}

	consumer.SetHandler(notificationCreatedHandler.Handle)

	go func() {
		log.Info("Starting notification.created consumer...")
		if err := consumer.StartConsuming(); err != nil {
			log.Fatal("Notification consumer failed", zap.Error(err))
		}
	}()

	// HTTP server for health checks
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c, 1*time.Second)
		defer cancel()

		if err := dbConn.Ping(ctx); err != nil {
			c.JSON(500, gin.H{"status": "db_not_ready", "error": err.Error()})
			return
		}
		if !consumer.IsConnected() {
			c.JSON(500, gin.H{"status": "mq_not_ready"})
			return
		}
		c.JSON(200, gin.H{"status": "ready"})
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}
	go func() {
		log.Info("HTTP server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	log.Info("notifier is fully initialized and running")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down notifier gracefully...")

	consumer.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	}

	dbConn.Close()

	log.Info("notifier shutdown complete")
}
