package workflow

import (
	"context"
	"time"

	"github.com/barakov14/easylang-backend/internal/model"
	"github.com/barakov14/easylang-backend/pkg/rbac"
)

// NotificationEvent is the post-commit fan-out request a workflow operation
// leaves behind. It is written to the outbox inside the operation's
// transaction; delivery happens only after the transaction commits.
type NotificationEvent struct {
	Recipients  []int64
	ProjectID   int64
	ProjectName string
	Status      string
	Message     string
}

// Store opens exactly one transaction per workflow operation. If fn returns
// an error, or the commit fails, every mutation made through the Tx is
// discarded.
type Store interface {
	WithTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the mutation surface a workflow operation sees. The *ForUpdate
// getters take row locks so concurrent progress read-modify-writes
// serialize.
type Tx interface {
	GetUser(ctx context.Context, id int64) (*model.User, error)
	ListUserIDsByRole(ctx context.Context, role rbac.Role) ([]int64, error)
	IncrementTasksEvaluated(ctx context.Context, userID int64) error

	GetProject(ctx context.Context, id int64) (*model.Project, error)
	GetProjectForUpdate(ctx context.Context, id int64) (*model.Project, error)
	CountProjects(ctx context.Context) (int, error)
	InsertProject(ctx context.Context, p *model.Project) error
	UpdateProjectProgress(ctx context.Context, id int64, progress float64, status string, endedAt *time.Time) error
	IsProjectEditor(ctx context.Context, projectID, userID int64) (bool, error)
	AddProjectEditor(ctx context.Context, projectID, userID int64) error
	AddProjectTranslator(ctx context.Context, projectID, userID int64) error
	ListProjectTranslatorIDs(ctx context.Context, projectID int64) ([]int64, error)

	GetTask(ctx context.Context, id int64) (*model.Task, error)
	GetTaskForUpdate(ctx context.Context, id int64) (*model.Task, error)
	GetTaskInProject(ctx context.Context, projectID, taskID int64) (*model.Task, error)
	CountTasks(ctx context.Context, projectID int64) (int, error)
	InsertTask(ctx context.Context, t *model.Task) error
	SetTaskDeadline(ctx context.Context, taskID int64, deadline time.Time) error
	UpdateTaskProgress(ctx context.Context, taskID int64, progress float64, status string) error
	IncrementTaskRejected(ctx context.Context, taskID int64) error
	IsTaskResponsible(ctx context.Context, taskID, userID int64) (bool, error)
	AddTaskResponsible(ctx context.Context, taskID, userID int64) error

	InsertSubmission(ctx context.Context, s *model.Submission) error
	GetSubmission(ctx context.Context, id int64) (*model.Submission, error)
	GetSubmissionForUpdate(ctx context.Context, id int64) (*model.Submission, error)
	ApproveSubmission(ctx context.Context, id int64, grade int) error
	RejectSubmission(ctx context.Context, id int64, comment string) error

	EnqueueNotification(ctx context.Context, ev *NotificationEvent) error
}
