package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/barakov14/easylang-backend/internal/model"
)

type ProjectRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewProjectRepository(db *pgxpool.Pool, logger *zap.Logger) *ProjectRepository {
	return &ProjectRepository{
		db:     db,
		logger: logger,
	}
}

func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*model.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	return scanProject(r.db.QueryRow(ctx, query, id))
}

// ListForUser returns the projects a user can see: managers see what they
// created, editors and translators see what they are assigned to.
func (r *ProjectRepository) ListForUser(ctx context.Context, userID int64) ([]model.Project, error) {
	r.logger.Debug("Listing projects for user", zap.Int64("user_id", userID))

	query := `
		SELECT DISTINCT ` + projectColumns + `
		FROM projects
		WHERE creator_id = $1
		   OR id IN (SELECT project_id FROM project_editors WHERE user_id = $1)
		   OR id IN (SELECT project_id FROM project_translators WHERE user_id = $1)
		ORDER BY started_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to list projects", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

func (r *ProjectRepository) ListEditorIDs(ctx context.Context, projectID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT user_id FROM project_editors WHERE project_id = $1 ORDER BY user_id`, projectID)
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

func (r *ProjectRepository) ListTranslatorIDs(ctx context.Context, projectID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx,
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

// PromoteStaleNew moves projects that have sat in NEW longer than maxAge
// into IN_PROGRESS and returns the promoted IDs. Safe to run repeatedly.
func (r *ProjectRepository) PromoteStaleNew(ctx context.Context, maxAge time.Duration) ([]int64, error) {
	query := `
		UPDATE projects
		SET status = $1
		WHERE status = $2 AND started_at <= NOW() - $3::interval
		RETURNING id
	`
	interval := maxAge.String()
	rows, err := r.db.Query(ctx, query, model.ProjectStatusInProgress, model.ProjectStatusNew, interval)
	if err != nil {
		r.logger.Error("Failed to promote stale projects", zap.Error(err))
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
	if len(ids) > 0 {
		r.logger.Info("Promoted projects to IN_PROGRESS", zap.Int64s("project_ids", ids))
	}
	return ids, rows.Err()
}
