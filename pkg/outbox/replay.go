package outbox

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/barakov14/easylang-backend/pkg/mq"
	"github.com/barakov14/easylang-backend/pkg/trace"
)

// ReplayService re-publishes parked outbox events on operator request.
type ReplayService struct {
	repo      *Repository
	publisher *mq.Publisher
}

func NewReplayService(repo *Repository, publisher *mq.Publisher) *ReplayService {
	return &ReplayService{
		repo:      repo,
		publisher: publisher,
	}
}

// ReplayEvent publishes the event immediately and resets its outbox state.
func (s *ReplayService) ReplayEvent(ctx context.Context, eventID int64) error {
	event, err := s.repo.GetEventByID(ctx, eventID)
	if err != nil {
		return err
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	// Same dedupe key as the dispatcher, so a replay of an already-handled
	// event is dropped by the consumer.
	payload["event_id"] = event.ID

	ctx = trace.WithContext(ctx, trace.GenerateTraceID())

	if err := s.publisher.PublishWithContext(ctx, event.RoutingKey, payload); err != nil {
		return fmt.Errorf("failed to publish replayed event: %w", err)
	}

	return s.repo.MarkAsSent(ctx, eventID)
}

// ListFailed returns parked events for inspection.
func (s *ReplayService) ListFailed(ctx context.Context, limit int) ([]*Event, error) {
	return s.repo.GetFailedEvents(ctx, limit)
}

// ReplayFailedEvents retries every parked event and returns how many were
// republished. Events that fail again stay parked.
func (s *ReplayService) ReplayFailedEvents(ctx context.Context, limit int) (int, error) {
	events, err := s.repo.GetFailedEvents(ctx, limit)
	if err != nil {
		return 0, err
	}

	successCount := 0
	for _, event := range events {
		if err := s.ReplayEvent(ctx, event.ID); err != nil {
			continue
		}
		successCount++
	}
	return successCount, nil
}
