package model

import "time"

// Project statuses. Progress only ever grows; FINISHED is reached when it
// hits 100.
const (
	ProjectStatusNew        = "NEW"
	ProjectStatusInProgress = "IN_PROGRESS"
	ProjectStatusFinished   = "FINISHED"
	ProjectStatusMayBeDelay = "MAY_BE_DELAYED"
)

type Project struct {
	ID            int64      `json:"id"`
	Code          string     `json:"code"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Status        string     `json:"status"`
	Progress      float64    `json:"progress"`
	NumberOfPages int        `json:"number_of_pages"`
	CreatorID     int64      `json:"creator_id"`
	StartedAt     time.Time  `json:"started_at"`
	EndedAt       *time.Time `json:"ended_at,omitempty"`
}
