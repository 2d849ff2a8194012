package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/barakov14/easylang-backend/internal/model"
	"github.com/barakov14/easylang-backend/internal/workflow"
	"github.com/barakov14/easylang-backend/pkg/rbac"
)

type UserRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewUserRepository(db *pgxpool.Pool, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

func (r *UserRepository) Insert(ctx context.Context, u *model.User) (int64, error) {
	r.logger.Debug("Inserting user",
		zap.String("username", u.Username),
		zap.String("role", u.Role.String()),
	)

	query := `
		INSERT INTO users (username, name, surname, email, role, status, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query,
		u.Username,
		u.Name,
		u.Surname,
		u.Email,
		u.Role.String(),
		u.Status,
		u.PasswordHash,
	).Scan(&u.ID, &u.CreatedAt)

	if err != nil {
		r.logger.Error("Failed to insert user", zap.Error(err))
		return 0, err
	}

	r.logger.Info("User inserted successfully",
		zap.Int64("id", u.ID),
		zap.String("username", u.Username),
	)
	return u.ID, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.db.QueryRow(ctx, query, username))
}

func (r *UserRepository) ListByRole(ctx context.Context, role rbac.Role) ([]model.User, error) {
	r.logger.Debug("Listing users by role", zap.String("role", role.String()))

	query := `SELECT ` + userColumns + ` FROM users WHERE role = $1 ORDER BY surname, name`
	rows, err := r.db.Query(ctx, query, role.String())
	if err != nil {
		r.logger.Error("Failed to list users", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username,
	).Scan(&exists)
	return exists, err
}

// SetStatus flips a user's availability between READY and NOT_READY.
func (r *UserRepository) SetStatus(ctx context.Context, id int64, status string) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		r.logger.Error("Failed to update user status", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return workflow.ErrNotFound
	}
	return nil
}
