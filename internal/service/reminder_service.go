package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	contracts "github.com/barakov14/easylang-backend/contracts/mq"
	"github.com/barakov14/easylang-backend/internal/repository"
	"github.com/barakov14/easylang-backend/internal/workflow"
	"github.com/barakov14/easylang-backend/pkg/outbox"
	"github.com/barakov14/easylang-backend/pkg/util"
)

// newProjectMaxAge is how long a project may sit in NEW before the reminder
// run promotes it to IN_PROGRESS.
const newProjectMaxAge = 5 * time.Minute

// ReminderService runs the periodic maintenance pass: promoting stale NEW
// projects and reminding translators whose task deadline is today. Reminders
// go through the outbox like every other notification, and a Redis key per
// task and day keeps reruns from duplicating them.
type ReminderService struct {
	db        *pgxpool.Pool
	projects  *repository.ProjectRepository
	tasks     *repository.TaskRepository
	outboxRep *outbox.Repository
	deduper   *util.Deduper
	logger    *zap.Logger
}

func NewReminderService(
	db *pgxpool.Pool,
	projects *repository.ProjectRepository,
	tasks *repository.TaskRepository,
	outboxRep *outbox.Repository,
	deduper *util.Deduper,
	logger *zap.Logger,
) *ReminderService {
	return &ReminderService{
		db:        db,
		projects:  projects,
		tasks:     tasks,
		outboxRep: outboxRep,
		deduper:   deduper,
		logger:    logger,
	}
}

// RunOnce executes one maintenance pass. Safe to call from overlapping
// schedules.
func (s *ReminderService) RunOnce(ctx context.Context) error {
	if _, err := s.projects.PromoteStaleNew(ctx, newProjectMaxAge); err != nil {
		return err
	}
	return s.sendDeadlineReminders(ctx, time.Now())
}

func (s *ReminderService) sendDeadlineReminders(ctx context.Context, now time.Time) error {
	due, err := s.tasks.ListWithDeadlineOn(ctx, now)
	if err != nil {
		return err
	}

	day := now.Format("2006-01-02")
	for _, task := range due {
		if len(task.Responsibles) == 0 {
			continue
		}

		key := fmt.Sprintf("%d:%s", task.TaskID, day)
		if !s.deduper.AcquireOnce(ctx, "reminder.deadline", key) {
			continue
		}

		if err := s.enqueueReminder(ctx, task); err != nil {
			s.logger.Error("Failed to enqueue deadline reminder",
				zap.Int64("task_id", task.TaskID),
				zap.Error(err),
			)
			return err
		}

		s.logger.Info("Deadline reminder enqueued",
			zap.Int64("task_id", task.TaskID),
			zap.Int64("project_id", task.ProjectID),
			zap.Int("recipients", len(task.Responsibles)),
		)
	}
	return nil
}

func (s *ReminderService) enqueueReminder(ctx context.Context, task repository.DeadlineTask) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	payload := contracts.NotificationCreatedPayload{
		Recipients:  task.Responsibles,
		ProjectID:   task.ProjectID,
		ProjectName: task.ProjectName,
		Status:      workflow.NotifyDeadlineToday,
		Message: fmt.Sprintf("The deadline for task %s in project %s is today",
			task.TaskName, task.ProjectName),
	}
	projectID := task.ProjectID
	if err := outbox.InsertEventInTx(ctx, tx, s.outboxRep,
		"notification", &projectID, contracts.RoutingKeyNotificationCreated, payload); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
