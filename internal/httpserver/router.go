package httpserver

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/barakov14/easylang-backend/internal/handler"
)

type Router struct {
	Engine *gin.Engine
}

type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Project      *handler.ProjectHandler
	Task         *handler.TaskHandler
	Submission   *handler.SubmissionHandler
	Notification *handler.NotificationHandler
	Admin        *handler.AdminHandler
}

func NewRouter(h Handlers, jwtSecret string, db *pgxpool.Pool, logger *zap.Logger) *Router {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(TraceMiddleware())
	r.Use(RequestLogMiddleware(logger))

	// Health endpoints
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(200)
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.HEAD("/health", func(c *gin.Context) {
		c.Status(200)
	})

	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c, 1*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(500, gin.H{"status": "db_not_ready", "error": err.Error()})
			return
		}

		c.JSON(200, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public
	r.POST("/register", h.Auth.Register)
	r.POST("/login", h.Auth.Login)

	// Protected
	auth := r.Group("/")
	auth.Use(AuthMiddleware(jwtSecret))
	{
		auth.GET("/me", h.User.Me)
		auth.PUT("/me/status", h.User.SetStatus)
		auth.GET("/users", h.User.ListByRole)

		auth.POST("/projects", h.Project.CreateProject)
		auth.GET("/projects", h.Project.ListProjects)
		auth.GET("/projects/:id", h.Project.GetProject)
		auth.POST("/projects/:id/editors", h.Project.AssignEditor)

		auth.POST("/projects/:id/tasks", h.Task.CreateTask)
		auth.GET("/projects/:id/tasks/:taskId", h.Task.GetTask)
		auth.POST("/projects/:id/tasks/:taskId/translators", h.Task.AssignTranslator)
		auth.PUT("/projects/:id/tasks/:taskId/deadline", h.Task.SetDeadline)

		auth.POST("/projects/:id/tasks/:taskId/submissions", h.Submission.SubmitWork)
		auth.GET("/projects/:id/tasks/:taskId/submissions", h.Submission.ListSubmissions)
		auth.POST("/projects/:id/tasks/:taskId/submissions/:submissionId/grade", h.Submission.GradeSubmission)
		auth.POST("/projects/:id/tasks/:taskId/submissions/:submissionId/reject", h.Submission.RejectSubmission)
		auth.PUT("/submissions/:submissionId/errors", h.Submission.FlagErrors)
		auth.POST("/submissions/:submissionId/correction", h.Submission.SendForCorrection)

		auth.GET("/notifications", h.Notification.ListNotifications)
		auth.GET("/notifications/count", h.Notification.UnreadCount)
		auth.DELETE("/notifications/:id", h.Notification.DeleteNotification)
		auth.DELETE("/notifications", h.Notification.ClearNotifications)

		auth.GET("/admin/outbox/failed", h.Admin.ListFailedEvents)
		auth.POST("/admin/outbox/replay", h.Admin.ReplayOutboxEvent)
		auth.POST("/admin/outbox/replay-failed", h.Admin.ReplayFailedEvents)
	}

	return &Router{Engine: r}
}

func (r *Router) Run(port string) error {
	return r.Engine.Run(port)
}
