package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/barakov14/easylang-backend/internal/model"
	"github.com/barakov14/easylang-backend/internal/repository"
)

// NotificationService is the read side of the notification feed. Creation
// happens in the notifier worker; the API only lists and clears.
type NotificationService struct {
	repo   *repository.NotificationRepository
	logger *zap.Logger
}

func NewNotificationService(repo *repository.NotificationRepository, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		repo:   repo,
		logger: logger,
	}
}

func (s *NotificationService) List(ctx context.Context, userID int64) ([]model.Notification, error) {
	return s.repo.ListForUser(ctx, userID)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID int64) (int, error) {
	return s.repo.UnreadCount(ctx, userID)
}

func (s *NotificationService) Delete(ctx context.Context, notificationID, userID int64) error {
	return s.repo.DeleteForUser(ctx, notificationID, userID)
}

func (s *NotificationService) Clear(ctx context.Context, userID int64) error {
	return s.repo.ClearForUser(ctx, userID)
}
