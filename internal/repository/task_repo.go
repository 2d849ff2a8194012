package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/barakov14/easylang-backend/internal/model"
)

type TaskRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTaskRepository(db *pgxpool.Pool, logger *zap.Logger) *TaskRepository {
	return &TaskRepository{
		db:     db,
		logger: logger,
	}
}

func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	return scanTask(r.db.QueryRow(ctx, query, id))
}

func (r *TaskRepository) ListByProject(ctx context.Context, projectID int64) ([]model.Task, error) {
	r.logger.Debug("Listing tasks for project", zap.Int64("project_id", projectID))

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE project_id = $1 ORDER BY code`
	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		r.logger.Error("Failed to list tasks", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (r *TaskRepository) ListResponsibleIDs(ctx context.Context, taskID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT user_id FROM task_responsibles WHERE task_id = $1 ORDER BY user_id`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DeadlineTask is a task whose deadline falls on the probed day, joined with
// its project and the translators who must be reminded.
type DeadlineTask struct {
	TaskID       int64
	TaskName     string
	ProjectID    int64
	ProjectName  string
	Deadline     time.Time
	Responsibles []int64
}

// ListWithDeadlineOn returns unfinished tasks whose deadline falls on the
// given day, with their responsible translators.
func (r *TaskRepository) ListWithDeadlineOn(ctx context.Context, day time.Time) ([]DeadlineTask, error) {
	r.logger.Debug("Listing tasks with deadline", zap.Time("day", day))

	query := `
		SELECT t.id, t.name, p.id, p.name, t.deadline
		FROM tasks t
		JOIN projects p ON p.id = t.project_id
		WHERE t.deadline::date = $1::date AND t.status != $2
		ORDER BY t.id
	`
	rows, err := r.db.Query(ctx, query, day, model.TaskStatusDone)
	if err != nil {
		r.logger.Error("Failed to list deadline tasks", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var tasks []DeadlineTask
	for rows.Next() {
		var dt DeadlineTask
		if err := rows.Scan(&dt.TaskID, &dt.TaskName, &dt.ProjectID, &dt.ProjectName, &dt.Deadline); err != nil {
			return nil, err
		}
		tasks = append(tasks, dt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range tasks {
		ids, err := r.ListResponsibleIDs(ctx, tasks[i].TaskID)
		if err != nil {
			return nil, err
		}
		tasks[i].Responsibles = ids
	}
	return tasks, nil
}
