package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/barakov14/easylang-backend/internal/model"
)

type NotificationRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewNotificationRepository(db *pgxpool.Pool, logger *zap.Logger) *NotificationRepository {
	return &NotificationRepository{
		db:     db,
		logger: logger,
	}
}

// CreateWithRecipients inserts one notification row, links every recipient
// to it and bumps each recipient's unread counter, all in one transaction.
func (r *NotificationRepository) CreateWithRecipients(ctx context.Context, n *model.Notification, recipients []int64) error {
	r.logger.Debug("Creating notification",
		zap.Int64("project_id", n.ProjectID),
		zap.String("status", n.Status),
		zap.Int("recipients", len(recipients)),
	)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO notifications (project_id, project_name, status, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	if err := tx.QueryRow(ctx, query,
		n.ProjectID, n.ProjectName, n.Status, n.Message,
	).Scan(&n.ID, &n.CreatedAt); err != nil {
		r.logger.Error("Failed to insert notification", zap.Error(err))
		return err
	}

	for _, userID := range recipients {
		if _, err := tx.Exec(ctx,
			`INSERT INTO notification_user (notification_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			n.ID, userID,
		); err != nil {
			r.logger.Error("Failed to link notification recipient", zap.Error(err))
			return err
		}
	}

	if _, err := tx.Exec(ctx,
		`UPDATE users SET notifications_count = notifications_count + 1 WHERE id = ANY($1)`,
		recipients,
	); err != nil {
		r.logger.Error("Failed to bump unread counters", zap.Error(err))
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	r.logger.Info("Notification created",
		zap.Int64("id", n.ID),
		zap.Int("recipients", len(recipients)),
	)
	return nil
}

func (r *NotificationRepository) ListForUser(ctx context.Context, userID int64) ([]model.Notification, error) {
	r.logger.Debug("Listing notifications for user", zap.Int64("user_id", userID))

	query := `
		SELECT n.id, n.project_id, n.project_name, n.status, n.message, n.created_at
		FROM notifications n
		JOIN notification_user nu ON nu.notification_id = n.id
		WHERE nu.user_id = $1
		ORDER BY n.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to list notifications", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var notifications []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.ProjectID, &n.ProjectName, &n.Status, &n.Message, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// DeleteForUser removes one notification from a user's feed and decrements
// their unread counter. The notification row itself stays for other
// recipients.
func (r *NotificationRepository) DeleteForUser(ctx context.Context, notificationID, userID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`DELETE FROM notification_user WHERE notification_id = $1 AND user_id = $2`,
		notificationID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		if _, err := tx.Exec(ctx,
			`UPDATE users SET notifications_count = GREATEST(notifications_count - 1, 0) WHERE id = $1`,
			userID,
		); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// ClearForUser empties a user's feed and resets the counter.
func (r *NotificationRepository) ClearForUser(ctx context.Context, userID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM notification_user WHERE user_id = $1`, userID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`UPDATE users SET notifications_count = 0 WHERE id = $1`, userID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *NotificationRepository) UnreadCount(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT notifications_count FROM users WHERE id = $1`, userID,
	).Scan(&count)
	return count, err
}
