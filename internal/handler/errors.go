package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/barakov14/easylang-backend/internal/service"
	"github.com/barakov14/easylang-backend/internal/workflow"
	"github.com/barakov14/easylang-backend/pkg/rbac"
)

// respondError maps domain errors to HTTP status codes. Unknown errors are
// reported as 500 without leaking internals.
func respondError(c *gin.Context, err error) {
	var permErr *rbac.PermissionDeniedError

	switch {
	case errors.Is(err, workflow.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, workflow.ErrRoleMismatch),
		errors.Is(err, workflow.ErrNotATranslator),
		errors.Is(err, workflow.ErrNotAssigned),
		errors.Is(err, workflow.ErrNotAssignedToProject):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.As(err, &permErr):
		c.JSON(http.StatusForbidden, gin.H{"error": permErr.Error()})
	case errors.Is(err, workflow.ErrInvalidPageCount),
		errors.Is(err, workflow.ErrPageLimitExceeded),
		errors.Is(err, workflow.ErrCommentRequired),
		errors.Is(err, workflow.ErrNoCorrectionNeeded):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, workflow.ErrAlreadyAssigned),
		errors.Is(err, workflow.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUsernameTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// currentUserID reads the user ID stored by the auth middleware.
func currentUserID(c *gin.Context) int64 {
	v, ok := c.Get("user_id")
	if !ok {
		return 0
	}
	id, _ := v.(int64)
	return id
}
