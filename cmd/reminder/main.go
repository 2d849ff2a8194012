package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/barakov14/easylang-backend/internal/repository"
	"github.com/barakov14/easylang-backend/internal/service"
	"github.com/barakov14/easylang-backend/pkg/config"
	"github.com/barakov14/easylang-backend/pkg/db"
	"github.com/barakov14/easylang-backend/pkg/logger"
	"github.com/barakov14/easylang-backend/pkg/outbox"
	pkgredis "github.com/barakov14/easylang-backend/pkg/redis"
	"github.com/barakov14/easylang-backend/pkg/util"
)

// The reminder is a one-shot job run on an external schedule (cron). It
// promotes stale NEW projects and enqueues deadline reminders, then exits.
// Redis dedup keys make overlapping or repeated runs harmless.
func main() {
	cfg := config.Load()

	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Starting reminder run...",
		zap.String("db_host", cfg.DB.Host),
		zap.String("redis_addr", cfg.Redis.Addr),
	)

	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("Failed to init DB", zap.Error(err))
	}
	defer dbConn.Close()

	rdb := pkgredis.NewRedisClient(cfg.Redis)
	defer rdb.Close()

	dedupTTL := 24 * time.Hour
	if cfg.Reminder.DedupTTLHours > 0 {
		dedupTTL = time.Duration(cfg.Reminder.DedupTTLHours) * time.Hour
	}
	deduper := util.NewDeduperWithLogger(rdb, dedupTTL, log)

	projectRepo := repository.NewProjectRepository(dbConn, log)
	taskRepo := repository.NewTaskRepository(dbConn, log)
	outboxRepo := outbox.NewRepository(dbConn)

	reminder := service.NewReminderService(dbConn, projectRepo, taskRepo, outboxRepo, deduper, log)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := reminder.RunOnce(ctx); err != nil {
		log.Fatal("Reminder run failed", zap.Error(err))
	}

	log.Info("Reminder run complete")
}
