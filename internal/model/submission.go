package model

import "time"

// Submission statuses. IN_PROGRESS is the pre-submit state; a submitted
// piece of work enters IN_VERIFYING and leaves it through grading
// (APPROVED) or rejection (NOT_APPROVED). A corrected resubmission is a new
// Submission row; the rejected one stays as a record.
const (
	SubmissionStatusInProgress  = "IN_PROGRESS"
	SubmissionStatusInVerifying = "IN_VERIFYING"
	SubmissionStatusMayBeDelay  = "MAY_BE_DELAYED"
	SubmissionStatusApproved    = "APPROVED"
	SubmissionStatusNotApproved = "NOT_APPROVED"
)

type Submission struct {
	ID           int64     `json:"id"`
	TaskID       int64     `json:"task_id"`
	TranslatorID int64     `json:"translator_id"`
	Text         string    `json:"text"`
	PagesDone    int       `json:"pages_done"`
	Status       string    `json:"status"`
	Grade        *int      `json:"grade,omitempty"`
	Comment      string    `json:"comment,omitempty"`
	HasErrors    bool      `json:"has_errors"`
	CreatedAt    time.Time `json:"created_at"`
}
