package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/barakov14/easylang-backend/internal/model"
	"github.com/barakov14/easylang-backend/internal/workflow"
	"github.com/barakov14/easylang-backend/pkg/outbox"
	"github.com/barakov14/easylang-backend/pkg/rbac"
)

// storeTx implements workflow.Tx on top of a pgx transaction.
type storeTx struct {
	tx        pgx.Tx
	outboxRep *outbox.Repository
	logger    *zap.Logger
}

const userColumns = `
	id, username, name, surname, email, role, rate, status, password_hash,
	tasks_completed, tasks_evaluated, projects_created, notifications_count, created_at
`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	var role string
	err := row.Scan(
		&u.ID, &u.Username, &u.Name, &u.Surname, &u.Email, &role, &u.Rate,
		&u.Status, &u.PasswordHash, &u.TasksCompleted, &u.TasksEvaluated,
		&u.ProjectsCreated, &u.NotificationsCount, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, workflow.ErrNotFound
		}
		return nil, err
	}
	u.Role = rbac.Role(role)
	return &u, nil
}

func (t *storeTx) GetUser(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(t.tx.QueryRow(ctx, query, id))
}

func (t *storeTx) ListUserIDsByRole(ctx context.Context, role rbac.Role) ([]int64, error) {
	query := `SELECT id FROM users WHERE role = $1 ORDER BY id`
	rows, err := t.tx.Query(ctx, query, role.String())
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

func (t *storeTx) IncrementTasksEvaluated(ctx context.Context, userID int64) error {
	_, err := t.tx.Exec(ctx,
		`UPDATE users SET tasks_evaluated = tasks_evaluated + 1 WHERE id = $1`, userID)
	return err
}

const projectColumns = `
	id, code, name, description, status, progress, number_of_pages,
	creator_id, started_at, ended_at
`

func scanProject(row pgx.Row) (*model.Project, error) {
	var p model.Project
	err := row.Scan(
		&p.ID, &p.Code, &p.Name, &p.Description, &p.Status, &p.Progress,
		&p.NumberOfPages, &p.CreatorID, &p.StartedAt, &p.EndedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, workflow.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (t *storeTx) GetProject(ctx context.Context, id int64) (*model.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	return scanProject(t.tx.QueryRow(ctx, query, id))
}

// GetProjectForUpdate locks the project row so concurrent progress updates
// serialize instead of losing increments.
func (t *storeTx) GetProjectForUpdate(ctx context.Context, id int64) (*model.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1 FOR UPDATE`
	return scanProject(t.tx.QueryRow(ctx, query, id))
}

func (t *storeTx) CountProjects(ctx context.Context) (int, error) {
	var n int
	err := t.tx.QueryRow(ctx, `SELECT COUNT(*) FROM projects`).Scan(&n)
	return n, err
}

func (t *storeTx) InsertProject(ctx context.Context, p *model.Project) error {
	query := `
		INSERT INTO projects (code, name, description, status, progress, number_of_pages, creator_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, started_at
	`
	err := t.tx.QueryRow(ctx, query,
		p.Code, p.Name, p.Description, p.Status, p.Progress, p.NumberOfPages, p.CreatorID,
	).Scan(&p.ID, &p.StartedAt)
	if err != nil {
		t.logger.Error("Failed to insert project", zap.Error(err))
		return err
	}

	_, err = t.tx.Exec(ctx,
		`UPDATE users SET projects_created = projects_created + 1 WHERE id = $1`, p.CreatorID)
	return err
}

func (t *storeTx) UpdateProjectProgress(ctx context.Context, id int64, progress float64, status string, endedAt *time.Time) error {
	query := `
		UPDATE projects
		SET progress = $2, status = $3, ended_at = $4
		WHERE id = $1
	`
	_, err := t.tx.Exec(ctx, query, id, progress, status, endedAt)
	return err
}

func (t *storeTx) IsProjectEditor(ctx context.Context, projectID, userID int64) (bool, error) {
	var exists bool
	err := t.tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM project_editors WHERE project_id = $1 AND user_id = $2)`,
		projectID, userID,
	).Scan(&exists)
	return exists, err
}

func (t *storeTx) AddProjectEditor(ctx context.Context, projectID, userID int64) error {
	_, err := t.tx.Exec(ctx,
		`INSERT INTO project_editors (project_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		projectID, userID)
	return err
}

func (t *storeTx) AddProjectTranslator(ctx context.Context, projectID, userID int64) error {
	_, err := t.tx.Exec(ctx,
		`INSERT INTO project_translators (project_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		projectID, userID)
	return err
}

func (t *storeTx) ListProjectTranslatorIDs(ctx context.Context, projectID int64) ([]int64, error) {
	rows, err := t.tx.Query(ctx,
		`SELECT user_id FROM project_translators WHERE project_id = $1 ORDER BY user_id`, projectID)
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

const taskColumns = `
	id, project_id, code, name, description, status, pages, progress,
	rejected, deadline, started_at
`

func scanTask(row pgx.Row) (*model.Task, error) {
	var tk model.Task
	err := row.Scan(
		&tk.ID, &tk.ProjectID, &tk.Code, &tk.Name, &tk.Description, &tk.Status,
		&tk.Pages, &tk.Progress, &tk.Rejected, &tk.Deadline, &tk.StartedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, workflow.ErrNotFound
		}
		return nil, err
	}
	return &tk, nil
}

func (t *storeTx) GetTask(ctx context.Context, id int64) (*model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	return scanTask(t.tx.QueryRow(ctx, query, id))
}

func (t *storeTx) GetTaskForUpdate(ctx context.Context, id int64) (*model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 FOR UPDATE`
	return scanTask(t.tx.QueryRow(ctx, query, id))
}

func (t *storeTx) GetTaskInProject(ctx context.Context, projectID, taskID int64) (*model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND project_id = $2`
	return scanTask(t.tx.QueryRow(ctx, query, taskID, projectID))
}

func (t *storeTx) CountTasks(ctx context.Context, projectID int64) (int, error) {
	var n int
	err := t.tx.QueryRow(ctx, `SELECT COUNT(*) FROM tasks WHERE project_id = $1`, projectID).Scan(&n)
	return n, err
}

func (t *storeTx) InsertTask(ctx context.Context, tk *model.Task) error {
	query := `
		INSERT INTO tasks (project_id, code, name, description, status, pages, progress, deadline)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, started_at
	`
	err := t.tx.QueryRow(ctx, query,
		tk.ProjectID, tk.Code, tk.Name, tk.Description, tk.Status, tk.Pages, tk.Progress, tk.Deadline,
	).Scan(&tk.ID, &tk.StartedAt)
	if err != nil {
		t.logger.Error("Failed to insert task", zap.Error(err))
	}
	return err
}

func (t *storeTx) SetTaskDeadline(ctx context.Context, taskID int64, deadline time.Time) error {
	_, err := t.tx.Exec(ctx, `UPDATE tasks SET deadline = $2 WHERE id = $1`, taskID, deadline)
	return err
}

func (t *storeTx) UpdateTaskProgress(ctx context.Context, taskID int64, progress float64, status string) error {
	_, err := t.tx.Exec(ctx,
		`UPDATE tasks SET progress = $2, status = $3 WHERE id = $1`, taskID, progress, status)
	return err
}

func (t *storeTx) IncrementTaskRejected(ctx context.Context, taskID int64) error {
	_, err := t.tx.Exec(ctx, `UPDATE tasks SET rejected = rejected + 1 WHERE id = $1`, taskID)
	return err
}

func (t *storeTx) IsTaskResponsible(ctx context.Context, taskID, userID int64) (bool, error) {
	var exists bool
	err := t.tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM task_responsibles WHERE task_id = $1 AND user_id = $2)`,
		taskID, userID,
	).Scan(&exists)
	return exists, err
}

func (t *storeTx) AddTaskResponsible(ctx context.Context, taskID, userID int64) error {
	_, err := t.tx.Exec(ctx,
		`INSERT INTO task_responsibles (task_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		taskID, userID)
	return err
}

const submissionColumns = `
	id, task_id, translator_id, text, pages_done, status, grade, comment, has_errors, created_at
`

func scanSubmission(row pgx.Row) (*model.Submission, error) {
	var s model.Submission
	err := row.Scan(
		&s.ID, &s.TaskID, &s.TranslatorID, &s.Text, &s.PagesDone, &s.Status,
		&s.Grade, &s.Comment, &s.HasErrors, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, workflow.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (t *storeTx) InsertSubmission(ctx context.Context, s *model.Submission) error {
	query := `
		INSERT INTO task_submissions (task_id, translator_id, text, pages_done, status, has_errors)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := t.tx.QueryRow(ctx, query,
		s.TaskID, s.TranslatorID, s.Text, s.PagesDone, s.Status, s.HasErrors,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		t.logger.Error("Failed to insert submission", zap.Error(err))
	}
	return err
}

func (t *storeTx) GetSubmission(ctx context.Context, id int64) (*model.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM task_submissions WHERE id = $1`
	return scanSubmission(t.tx.QueryRow(ctx, query, id))
}

func (t *storeTx) GetSubmissionForUpdate(ctx context.Context, id int64) (*model.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM task_submissions WHERE id = $1 FOR UPDATE`
	return scanSubmission(t.tx.QueryRow(ctx, query, id))
}

func (t *storeTx) ApproveSubmission(ctx context.Context, id int64, grade int) error {
	query := `UPDATE task_submissions SET status = $2, grade = $3 WHERE id = $1`
	_, err := t.tx.Exec(ctx, query, id, model.SubmissionStatusApproved, grade)
	if err != nil {
		return err
	}
	// Completion stats for the translator's profile.
	_, err = t.tx.Exec(ctx, `
		UPDATE users SET tasks_completed = tasks_completed + 1
		WHERE id = (SELECT translator_id FROM task_submissions WHERE id = $1)
	`, id)
	return err
}

func (t *storeTx) RejectSubmission(ctx context.Context, id int64, comment string) error {
	query := `UPDATE task_submissions SET status = $2, comment = $3 WHERE id = $1`
	_, err := t.tx.Exec(ctx, query, id, model.SubmissionStatusNotApproved, comment)
	return err
}
