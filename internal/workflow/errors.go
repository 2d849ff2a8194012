package workflow

import "errors"

// Domain errors surfaced by workflow operations. The HTTP layer maps them to
// status codes; none of them leaves partial state behind.
var (
	// Authorization
	ErrRoleMismatch         = errors.New("caller role does not permit this operation")
	ErrNotATranslator       = errors.New("user is not a translator")
	ErrNotAssigned          = errors.New("user is not assigned to this task")
	ErrNotAssignedToProject = errors.New("user is not assigned to this project")

	// Validation
	ErrInvalidPageCount   = errors.New("page count out of range")
	ErrPageLimitExceeded  = errors.New("task pages cannot exceed 1/6 of project pages")
	ErrAlreadyAssigned    = errors.New("translator already assigned to this task")
	ErrCommentRequired    = errors.New("correction comment is required")
	ErrNoCorrectionNeeded = errors.New("submission has no errors to correct")
	ErrInvalidTransition  = errors.New("submission is not awaiting verification")

	// Lookup
	ErrNotFound = errors.New("not found")
)
