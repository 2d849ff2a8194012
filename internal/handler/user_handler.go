package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/barakov14/easylang-backend/internal/model"
	"github.com/barakov14/easylang-backend/internal/repository"
	"github.com/barakov14/easylang-backend/pkg/rbac"
)

type UserHandler struct {
	users  *repository.UserRepository
	logger *zap.Logger
}

func NewUserHandler(users *repository.UserRepository, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// ListByRole backs the assignment pickers: ?role=editor or ?role=translator.
func (h *UserHandler) ListByRole(c *gin.Context) {
	role, err := rbac.ParseRole(c.Query("role"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
		return
	}

	users, err := h.users.ListByRole(c.Request.Context(), role)
	if err != nil {
		h.logger.Error("ListByRole: failed to fetch users",
			zap.String("role", role.String()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

type setStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetStatus flips the caller's availability between READY and NOT_READY.
func (h *UserHandler) SetStatus(c *gin.Context) {
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Status != model.UserStatusReady && req.Status != model.UserStatusNotReady {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	if err := h.users.SetStatus(c.Request.Context(), currentUserID(c), req.Status); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}
