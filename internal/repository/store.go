package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	contracts "github.com/barakov14/easylang-backend/contracts/mq"
	"github.com/barakov14/easylang-backend/internal/workflow"
	"github.com/barakov14/easylang-backend/pkg/outbox"
	"github.com/barakov14/easylang-backend/pkg/trace"
)

// Store is the Postgres-backed workflow.Store. Each WithTx call runs the
// whole operation in one transaction; notification events go into the
// outbox table inside that same transaction.
type Store struct {
	db        *pgxpool.Pool
	outboxRep *outbox.Repository
	logger    *zap.Logger
}

func NewStore(db *pgxpool.Pool, outboxRep *outbox.Repository, logger *zap.Logger) *Store {
	return &Store{
		db:        db,
		outboxRep: outboxRep,
		logger:    logger,
	}
}

func (s *Store) WithTx(ctx context.Context, fn func(tx workflow.Tx) error) error {
	pgtx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		s.logger.Error("Failed to begin transaction", zap.Error(err))
		return err
	}
	defer pgtx.Rollback(ctx)

	wtx := &storeTx{
		tx:        pgtx,
		outboxRep: s.outboxRep,
		logger:    s.logger,
	}
	if err := fn(wtx); err != nil {
		return err
	}

	if err := pgtx.Commit(ctx); err != nil {
		s.logger.Error("Failed to commit transaction", zap.Error(err))
		return err
	}
	return nil
}

// EnqueueNotification writes a notification.created event into the outbox
// inside the operation's transaction, carrying the request trace ID.
func (t *storeTx) EnqueueNotification(ctx context.Context, ev *workflow.NotificationEvent) error {
	payload := contracts.NotificationCreatedPayload{
		Recipients:  ev.Recipients,
		ProjectID:   ev.ProjectID,
		ProjectName: ev.ProjectName,
		Status:      ev.Status,
		Message:     ev.Message,
		TraceID:     trace.FromContext(ctx),
	}
	projectID := ev.ProjectID
	return outbox.InsertEventInTx(ctx, t.tx, t.outboxRep,
		"notification", &projectID, contracts.RoutingKeyNotificationCreated, payload)
}
