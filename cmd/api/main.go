package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/barakov14/easylang-backend/internal/handler"
	"github.com/barakov14/easylang-backend/internal/httpserver"
	"github.com/barakov14/easylang-backend/internal/repository"
	"github.com/barakov14/easylang-backend/internal/service"
	"github.com/barakov14/easylang-backend/internal/workflow"
	"github.com/barakov14/easylang-backend/pkg/config"
	"github.com/barakov14/easylang-backend/pkg/db"
	"github.com/barakov14/easylang-backend/pkg/logger"
	"github.com/barakov14/easylang-backend/pkg/mq"
	"github.com/barakov14/easylang-backend/pkg/outbox"
)

func main() {
	cfg := config.Load()

	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Starting api...",
		zap.String("db_host", cfg.DB.Host),
		zap.Int("db_port", cfg.DB.Port),
		zap.String("mq_url", cfg.MQ.URL),
		zap.String("port", cfg.Server.Port),
	)

	// DB
	log.Info("Initializing database connection...")
	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("Failed to init DB", zap.Error(err))
	}
	defer dbConn.Close()
	log.Info("Database connection established successfully")

	// MQ Publisher (used by the outbox dispatcher and admin replay)
	publisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		log.Fatal("Failed to init MQ publisher", zap.Error(err))
	}
	defer publisher.Close()

	// Repositories
	outboxRepo := outbox.NewRepository(dbConn)
	store := repository.NewStore(dbConn, outboxRepo, log)
	userRepo := repository.NewUserRepository(dbConn, log)
	projectRepo := repository.NewProjectRepository(dbConn, log)
	taskRepo := repository.NewTaskRepository(dbConn, log)
	submissionRepo := repository.NewSubmissionRepository(dbConn, log)
	notificationRepo := repository.NewNotificationRepository(dbConn, log)

	// Core workflow
	engine := workflow.NewEngine(store, log)

	// Services
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, log)
	notificationService := service.NewNotificationService(notificationRepo, log)
	replayService := outbox.NewReplayService(outboxRepo, publisher)

	// Outbox dispatcher publishes committed events to the MQ.
	dispatcherCtx, dispatcherCancel := context.WithCancel(context.Background())
	defer dispatcherCancel()
	dispatcher := outbox.NewDispatcher(outboxRepo, publisher, log)
	go dispatcher.Start(dispatcherCtx)

	// HTTP
	handlers := httpserver.Handlers{
		Auth:         handler.NewAuthHandler(authService, log),
		User:         handler.NewUserHandler(userRepo, log),
		Project:      handler.NewProjectHandler(engine, projectRepo, taskRepo, log),
		Task:         handler.NewTaskHandler(engine, taskRepo, log),
		Submission:   handler.NewSubmissionHandler(engine, submissionRepo, log),
		Notification: handler.NewNotificationHandler(notificationService, log),
		Admin:        handler.NewAdminHandler(replayService, log),
	}
	router := httpserver.NewRouter(handlers, cfg.JWT.Secret, dbConn, log)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router.Engine,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	log.Info("api is fully initialized and running")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down api gracefully...")

	dispatcherCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		log.Info("HTTP server stopped")
	}

	publisher.Close()
	dbConn.Close()

	log.Info("api shutdown complete")
}
