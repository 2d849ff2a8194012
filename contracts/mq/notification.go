package mq

// NotificationCreatedPayload is emitted by the workflow engine (through the
// outbox) whenever an operation needs to notify users. The notifier worker
// turns one payload into one notification row plus a recipient link and an
// unread-counter increment per recipient.
type NotificationCreatedPayload struct {
	EventID     int64   `json:"event_id,omitempty"`
	Recipients  []int64 `json:"recipients"`
	ProjectID   int64   `json:"project_id"`
	ProjectName string  `json:"project_name"`
	Status      string  `json:"status"`
	Message     string  `json:"message"`
	TraceID     string  `json:"trace_id,omitempty"`
}

// Routing keys for workflow events.
const (
	RoutingKeyNotificationCreated = "notification.created"
)
