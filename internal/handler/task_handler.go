package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/barakov14/easylang-backend/internal/repository"
	"github.com/barakov14/easylang-backend/internal/workflow"
)

type TaskHandler struct {
	engine *workflow.Engine
	tasks  *repository.TaskRepository
	logger *zap.Logger
}

func NewTaskHandler(engine *workflow.Engine, tasks *repository.TaskRepository, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		engine: engine,
		tasks:  tasks,
		logger: logger,
	}
}

type createTaskRequest struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	Pages       int        `json:"pages" binding:"required"`
	Deadline    *time.Time `json:"deadline"`
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	projectID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.engine.CreateTask(c.Request.Context(), currentUserID(c), projectID, workflow.CreateTaskInput{
		Name:        req.Name,
		Description: req.Description,
		Pages:       req.Pages,
		Deadline:    req.Deadline,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"task": task})
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	taskID, err := strconv.ParseInt(c.Param("taskId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	task, err := h.tasks.GetByID(c.Request.Context(), taskID)
	if err != nil {
		respondError(c, err)
		return
	}

	responsibles, err := h.tasks.ListResponsibleIDs(c.Request.Context(), taskID)
	if err != nil {
		h.logger.Error("GetTask: failed to fetch responsibles",
			zap.Int64("task_id", taskID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"task":         task,
		"responsibles": responsibles,
	})
}

type assignTranslatorRequest struct {
	TranslatorID int64 `json:"translator_id" binding:"required"`
}

func (h *TaskHandler) AssignTranslator(c *gin.Context) {
	projectID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}
	taskID, err := strconv.ParseInt(c.Param("taskId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	var req assignTranslatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	translator, err := h.engine.AssignTranslator(c.Request.Context(),
		currentUserID(c), projectID, taskID, req.TranslatorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"translator": translator})
}

type setDeadlineRequest struct {
	Deadline time.Time `json:"deadline" binding:"required"`
}

func (h *TaskHandler) SetDeadline(c *gin.Context) {
	taskID, err := strconv.ParseInt(c.Param("taskId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	var req setDeadlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.engine.SetDeadline(c.Request.Context(), currentUserID(c), taskID, req.Deadline)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": task})
}
