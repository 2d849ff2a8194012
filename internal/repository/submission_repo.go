package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/barakov14/easylang-backend/internal/model"
)

type SubmissionRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewSubmissionRepository(db *pgxpool.Pool, logger *zap.Logger) *SubmissionRepository {
	return &SubmissionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *SubmissionRepository) GetByID(ctx context.Context, id int64) (*model.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM task_submissions WHERE id = $1`
	return scanSubmission(r.db.QueryRow(ctx, query, id))
}

func (r *SubmissionRepository) ListByTask(ctx context.Context, taskID int64) ([]model.Submission, error) {
	r.logger.Debug("Listing submissions for task", zap.Int64("task_id", taskID))

	query := `SELECT ` + submissionColumns + ` FROM task_submissions WHERE task_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, taskID)
	if err != nil {
		r.logger.Error("Failed to list submissions", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var subs []model.Submission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, *s)
	}
	return subs, rows.Err()
}

// ListPendingReview returns submissions waiting for an editor, oldest first.
func (r *SubmissionRepository) ListPendingReview(ctx context.Context, projectID int64) ([]model.Submission, error) {
	query := `
		SELECT ` + submissionColumns + `
		FROM task_submissions
		WHERE status = $1
		  AND task_id IN (SELECT id FROM tasks WHERE project_id = $2)
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, model.SubmissionStatusInVerifying, projectID)
	if err != nil {
		r.logger.Error("Failed to list pending submissions", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var subs []model.Submission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, *s)
	}
	return subs, rows.Err()
}

// FlagErrors marks a submission as containing validation errors. The editor
// uses this before sending the work back for correction.
func (r *SubmissionRepository) FlagErrors(ctx context.Context, id int64, hasErrors bool) error {
	_, err := r.db.Exec(ctx,
		`UPDATE task_submissions SET has_errors = $2 WHERE id = $1`, id, hasErrors)
	if err != nil {
		r.logger.Error("Failed to flag submission", zap.Error(err))
	}
	return err
}
