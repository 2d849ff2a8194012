package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/barakov14/easylang-backend/internal/repository"
	"github.com/barakov14/easylang-backend/internal/workflow"
)

type ProjectHandler struct {
	engine   *workflow.Engine
	projects *repository.ProjectRepository
	tasks    *repository.TaskRepository
	logger   *zap.Logger
}

func NewProjectHandler(
	engine *workflow.Engine,
	projects *repository.ProjectRepository,
	tasks *repository.TaskRepository,
	logger *zap.Logger,
) *ProjectHandler {
	return &ProjectHandler{
		engine:   engine,
		projects: projects,
		tasks:    tasks,
		logger:   logger,
	}
}

type createProjectRequest struct {
	Name          string `json:"name" binding:"required"`
	Description   string `json:"description"`
	NumberOfPages int    `json:"number_of_pages" binding:"required"`
}

func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.engine.CreateProject(c.Request.Context(), currentUserID(c), workflow.CreateProjectInput{
		Name:          req.Name,
		Description:   req.Description,
		NumberOfPages: req.NumberOfPages,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"project": project})
}

func (h *ProjectHandler) ListProjects(c *gin.Context) {
	projects, err := h.projects.ListForUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.logger.Error("ListProjects: failed to fetch projects", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch projects"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

func (h *ProjectHandler) GetProject(c *gin.Context) {
	projectID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	project, err := h.projects.GetByID(c.Request.Context(), projectID)
	if err != nil {
		respondError(c, err)
		return
	}

	tasks, err := h.tasks.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		h.logger.Error("GetProject: failed to fetch tasks",
			zap.Int64("project_id", projectID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch tasks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"project": project,
		"tasks":   tasks,
	})
}

type assignEditorRequest struct {
	EditorID int64 `json:"editor_id" binding:"required"`
}

func (h *ProjectHandler) AssignEditor(c *gin.Context) {
	projectID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	var req assignEditorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	editor, err := h.engine.AssignEditor(c.Request.Context(), currentUserID(c), projectID, req.EditorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"editor": editor})
}
