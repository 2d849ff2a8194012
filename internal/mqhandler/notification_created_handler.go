package mqhandler

import (
	"context"
	"encoding/json"
	"strconv"

	"go.uber.org/zap"

	mqcontracts "github.com/barakov14/easylang-backend/contracts/mq"
	"github.com/barakov14/easylang-backend/internal/model"
	"github.com/barakov14/easylang-backend/internal/repository"
	"github.com/barakov14/easylang-backend/pkg/metrics"
	"github.com/barakov14/easylang-backend/pkg/util"
)

// NotificationCreatedHandler consumes notification.created events and turns
// each into a notification row, recipient links and unread-counter
// increments. Delivery is at-least-once; the deduper keeps redeliveries
// from double-counting.
type NotificationCreatedHandler struct {
	repo    *repository.NotificationRepository
	deduper *util.Deduper
	logger  *zap.Logger
}

func NewNotificationCreatedHandler(
	repo *repository.NotificationRepository,
	deduper *util.Deduper,
	logger *zap.Logger,
) *NotificationCreatedHandler {
	return &NotificationCreatedHandler{
		repo:    repo,
		deduper: deduper,
		logger:  logger,
	}
}

func (h *NotificationCreatedHandler) Handle(ctx context.Context, raw json.RawMessage) error {
	var p mqcontracts.NotificationCreatedPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		h.logger.Error("Failed to unmarshal NotificationCreatedPayload", zap.Error(err))
		return err
	}

	h.logger.Info("Handling notification.created event",
		zap.Int64("event_id", p.EventID),
		zap.Int64("project_id", p.ProjectID),
		zap.String("status", p.Status),
		zap.Int("recipients", len(p.Recipients)),
	)

	if len(p.Recipients) == 0 {
		h.logger.Warn("Notification event has no recipients",
			zap.Int64("event_id", p.EventID),
		)
		return nil
	}

	if p.EventID != 0 {
		if !h.deduper.AcquireOnce(ctx, "notification.created", strconv.FormatInt(p.EventID, 10)) {
			h.logger.Info("Duplicate notification event skipped",
				zap.Int64("event_id", p.EventID),
			)
			return nil
		}
	}

	n := &model.Notification{
		ProjectID:   p.ProjectID,
		ProjectName: p.ProjectName,
		Status:      p.Status,
		Message:     p.Message,
	}
	if err := h.repo.CreateWithRecipients(ctx, n, p.Recipients); err != nil {
		h.logger.Error("Failed to create notification", zap.Error(err))
		metrics.RecordNotificationFanout("error", len(p.Recipients))
		return err
	}

	metrics.RecordNotificationFanout("ok", len(p.Recipients))
	return nil
}
