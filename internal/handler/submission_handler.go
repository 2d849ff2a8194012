package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/barakov14/easylang-backend/internal/repository"
	"github.com/barakov14/easylang-backend/internal/workflow"
)

type SubmissionHandler struct {
	engine      *workflow.Engine
	submissions *repository.SubmissionRepository
	logger      *zap.Logger
}

func NewSubmissionHandler(
	engine *workflow.Engine,
	submissions *repository.SubmissionRepository,
	logger *zap.Logger,
) *SubmissionHandler {
	return &SubmissionHandler{
		engine:      engine,
		submissions: submissions,
		logger:      logger,
	}
}

type submitWorkRequest struct {
	Text      string `json:"text" binding:"required"`
	PagesDone int    `json:"pages_done" binding:"required"`
}

func (h *SubmissionHandler) SubmitWork(c *gin.Context) {
	taskID, err := strconv.ParseInt(c.Param("taskId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	var req submitWorkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	submission, err := h.engine.SubmitWork(c.Request.Context(),
		currentUserID(c), taskID, req.Text, req.PagesDone)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"submission": submission})
}

func (h *SubmissionHandler) ListSubmissions(c *gin.Context) {
	taskID, err := strconv.ParseInt(c.Param("taskId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	subs, err := h.submissions.ListByTask(c.Request.Context(), taskID)
	if err != nil {
		h.logger.Error("ListSubmissions: failed to fetch submissions",
			zap.Int64("task_id", taskID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch submissions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"submissions": subs})
}

type gradeRequest struct {
	Grade int `json:"grade" binding:"required,min=1,max=5"`
}

func (h *SubmissionHandler) GradeSubmission(c *gin.Context) {
	taskID, err := strconv.ParseInt(c.Param("taskId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}
	submissionID, err := strconv.ParseInt(c.Param("submissionId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission id"})
		return
	}

	var req gradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	submission, err := h.engine.GradeSubmission(c.Request.Context(),
		currentUserID(c), taskID, submissionID, req.Grade)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"submission": submission})
}

type rejectRequest struct {
	Comment string `json:"comment" binding:"required"`
}

func (h *SubmissionHandler) RejectSubmission(c *gin.Context) {
	taskID, err := strconv.ParseInt(c.Param("taskId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}
	submissionID, err := strconv.ParseInt(c.Param("submissionId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission id"})
		return
	}

	var req rejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	submission, err := h.engine.RejectSubmission(c.Request.Context(),
		currentUserID(c), taskID, submissionID, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"submission": submission})
}

type flagErrorsRequest struct {
	HasErrors *bool `json:"has_errors" binding:"required"`
}

// FlagErrors marks or clears the validation-error flag that gates
// SendForCorrection.
func (h *SubmissionHandler) FlagErrors(c *gin.Context) {
	submissionID, err := strconv.ParseInt(c.Param("submissionId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission id"})
		return
	}

	var req flagErrorsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.submissions.FlagErrors(c.Request.Context(), submissionID, *req.HasErrors); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *SubmissionHandler) SendForCorrection(c *gin.Context) {
	submissionID, err := strconv.ParseInt(c.Param("submissionId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission id"})
		return
	}

	if err := h.engine.SendForCorrection(c.Request.Context(), currentUserID(c), submissionID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "sent_for_correction"})
}
