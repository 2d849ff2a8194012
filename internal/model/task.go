package model

import "time"

// Task statuses.
const (
	TaskStatusInProgress = "IN_PROGRESS"
	TaskStatusDone       = "DONE"
)

type Task struct {
	ID          int64      `json:"id"`
	ProjectID   int64      `json:"project_id"`
	Code        int        `json:"code"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Pages       int        `json:"pages"`
	Progress    float64    `json:"progress"`
	Rejected    int        `json:"rejected"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
}
