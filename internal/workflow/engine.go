package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/barakov14/easylang-backend/internal/model"
	"github.com/barakov14/easylang-backend/pkg/metrics"
	"github.com/barakov14/easylang-backend/pkg/rbac"
)

// Notification status tags carried on fan-out events.
const (
	NotifyTaskAssigned       = "TASK_ASSIGNED"
	NotifyChooseDeadline     = "CHOOSE_DEADLINE"
	NotifyEditorAssigned     = "EDITOR_ASSIGNED"
	NotifyRequiresCorrection = "REQUIRES_CORRECTION"
	NotifyDeadlineToday      = "DEADLINE_TODAY"
)

// Engine runs the submission/grading workflow. Every operation executes in
// one transaction: role checks and validation happen before any mutation,
// and notifications are enqueued to the outbox so they are only delivered
// once the transaction commits.
type Engine struct {
	store  Store
	logger *zap.Logger
}

func NewEngine(store Store, logger *zap.Logger) *Engine {
	return &Engine{store: store, logger: logger}
}

type CreateProjectInput struct {
	Name          string
	Description   string
	NumberOfPages int
}

// CreateProject creates a project in status NEW with a generated code.
func (e *Engine) CreateProject(ctx context.Context, managerID int64, in CreateProjectInput) (*model.Project, error) {
	start := time.Now()
	var project *model.Project

	err := e.store.WithTx(ctx, func(tx Tx) error {
		manager, err := tx.GetUser(ctx, managerID)
		if err != nil {
			return err
		}
		if !rbac.HasPermission(manager.Role, rbac.PermissionCreateProject) {
			return ErrRoleMismatch
		}
		if in.NumberOfPages < 1 {
			return ErrInvalidPageCount
		}

		seq, err := tx.CountProjects(ctx)
		if err != nil {
			return err
		}

		project = &model.Project{
			Code:          GenerateProjectCode(in.Name, seq+1),
			Name:          in.Name,
			Description:   in.Description,
			Status:        model.ProjectStatusNew,
			NumberOfPages: in.NumberOfPages,
			CreatorID:     managerID,
		}
		return tx.InsertProject(ctx, project)
	})

	e.finish("CreateProject", start, err)
	if err != nil {
		return nil, err
	}

	e.logger.Info("Project created",
		zap.Int64("project_id", project.ID),
		zap.String("code", project.Code),
		zap.Int64("manager_id", managerID),
	)
	return project, nil
}

type CreateTaskInput struct {
	Name        string
	Description string
	Pages       int
	Deadline    *time.Time
}

// CreateTask creates a task under a project. Task pages may not exceed one
// sixth of the project's page count.
func (e *Engine) CreateTask(ctx context.Context, managerID, projectID int64, in CreateTaskInput) (*model.Task, error) {
	start := time.Now()
	var task *model.Task

	err := e.store.WithTx(ctx, func(tx Tx) error {
		manager, err := tx.GetUser(ctx, managerID)
		if err != nil {
			return err
		}
		if !rbac.HasPermission(manager.Role, rbac.PermissionCreateTask) {
			return ErrRoleMismatch
		}

		project, err := tx.GetProject(ctx, projectID)
		if err != nil {
			return err
		}

		if in.Pages < 1 {
			return ErrInvalidPageCount
		}
		if project.NumberOfPages > 0 && float64(in.Pages) > float64(project.NumberOfPages)/6 {
			return ErrPageLimitExceeded
		}

		count, err := tx.CountTasks(ctx, projectID)
		if err != nil {
			return err
		}

		task = &model.Task{
			ProjectID:   projectID,
			Code:        count + 1,
			Name:        in.Name,
			Description: in.Description,
			Status:      model.TaskStatusInProgress,
			Pages:       in.Pages,
			Deadline:    in.Deadline,
		}
		return tx.InsertTask(ctx, task)
	})

	e.finish("CreateTask", start, err)
	if err != nil {
		return nil, err
	}

	e.logger.Info("Task created",
		zap.Int64("task_id", task.ID),
		zap.Int64("project_id", projectID),
		zap.Int("code", task.Code),
		zap.Int("pages", task.Pages),
	)
	return task, nil
}

// AssignEditor appoints a user as editor of a project. The appointee's
// stored role must be editor.
func (e *Engine) AssignEditor(ctx context.Context, managerID, projectID, editorID int64) (*model.User, error) {
	start := time.Now()
	var editor *model.User

	err := e.store.WithTx(ctx, func(tx Tx) error {
		manager, err := tx.GetUser(ctx, managerID)
		if err != nil {
			return err
		}
		if !rbac.HasPermission(manager.Role, rbac.PermissionAssignEditor) {
			return ErrRoleMismatch
		}

		project, err := tx.GetProject(ctx, projectID)
		if err != nil {
			return err
		}

		editor, err = tx.GetUser(ctx, editorID)
		if err != nil {
			return err
		}
		if editor.Role != rbac.RoleEditor {
			return ErrRoleMismatch
		}

		if err := tx.AddProjectEditor(ctx, projectID, editorID); err != nil {
			return err
		}

		return tx.EnqueueNotification(ctx, &NotificationEvent{
			Recipients:  []int64{editorID},
			ProjectID:   projectID,
			ProjectName: project.Name,
			Status:      NotifyEditorAssigned,
			Message:     fmt.Sprintf("You've been assigned as an editor to project %s", project.Name),
		})
	})

	e.finish("AssignEditor", start, err)
	if err != nil {
		return nil, err
	}

	e.logger.Info("Editor assigned",
		zap.Int64("project_id", projectID),
		zap.Int64("editor_id", editorID),
	)
	return editor, nil
}

// AssignTranslator makes a translator responsible for a task. The translator
// also joins the project's translator set, and is asked to pick a deadline.
func (e *Engine) AssignTranslator(ctx context.Context, managerID, projectID, taskID, translatorID int64) (*model.User, error) {
	start := time.Now()
	var translator *model.User

	err := e.store.WithTx(ctx, func(tx Tx) error {
		manager, err := tx.GetUser(ctx, managerID)
		if err != nil {
			return err
		}
		if !rbac.HasPermission(manager.Role, rbac.PermissionAssignTranslator) {
			return ErrRoleMismatch
		}

		task, err := tx.GetTaskInProject(ctx, projectID, taskID)
		if err != nil {
			return err
		}
		project, err := tx.GetProject(ctx, projectID)
		if err != nil {
			return err
		}

		translator, err = tx.GetUser(ctx, translatorID)
		if err != nil {
			return err
		}
		if translator.Role != rbac.RoleTranslator {
			return ErrNotATranslator
		}

		assigned, err := tx.IsTaskResponsible(ctx, taskID, translatorID)
		if err != nil {
			return err
		}
		if assigned {
			return ErrAlreadyAssigned
		}

		if err := tx.AddTaskResponsible(ctx, taskID, translatorID); err != nil {
			return err
		}
		if err := tx.AddProjectTranslator(ctx, projectID, translatorID); err != nil {
			return err
		}

		events := []*NotificationEvent{
			{
				Recipients:  []int64{translatorID},
				ProjectID:   projectID,
				ProjectName: project.Name,
				Status:      NotifyTaskAssigned,
				Message:     fmt.Sprintf("You've been assigned as a translator to task %s in project %s", task.Name, project.Name),
			},
			{
				Recipients:  []int64{translatorID},
				ProjectID:   projectID,
				ProjectName: project.Name,
				Status:      NotifyChooseDeadline,
				Message:     fmt.Sprintf("Please choose a deadline for task %s in project %s", task.Name, project.Name),
			},
		}
		for _, ev := range events {
			if err := tx.EnqueueNotification(ctx, ev); err != nil {
				return err
			}
		}
		return nil
	})

	e.finish("AssignTranslator", start, err)
	if err != nil {
		return nil, err
	}

	e.logger.Info("Translator assigned",
		zap.Int64("project_id", projectID),
		zap.Int64("task_id", taskID),
		zap.Int64("translator_id", translatorID),
	)
	return translator, nil
}

// SubmitWork creates a submission in status IN_VERIFYING and notifies every
// editor. Only a responsible translator may submit, and pages_done must fit
// within the task.
func (e *Engine) SubmitWork(ctx context.Context, translatorID, taskID int64, text string, pagesDone int) (*model.Submission, error) {
	start := time.Now()
	var submission *model.Submission

	err := e.store.WithTx(ctx, func(tx Tx) error {
		translator, err := tx.GetUser(ctx, translatorID)
		if err != nil {
			return err
		}
		if !rbac.HasPermission(translator.Role, rbac.PermissionSubmitWork) {
			return ErrRoleMismatch
		}

		task, err := tx.GetTask(ctx, taskID)
		if err != nil {
			return err
		}

		assigned, err := tx.IsTaskResponsible(ctx, taskID, translatorID)
		if err != nil {
			return err
		}
		if !assigned {
			return ErrNotAssigned
		}

		if pagesDone < 1 || pagesDone > task.Pages {
			return ErrInvalidPageCount
		}

		project, err := tx.GetProject(ctx, task.ProjectID)
		if err != nil {
			return err
		}

		submission = &model.Submission{
			TaskID:       taskID,
			TranslatorID: translatorID,
			Text:         text,
			PagesDone:    pagesDone,
			Status:       model.SubmissionStatusInVerifying,
		}
		if err := tx.InsertSubmission(ctx, submission); err != nil {
			return err
		}

		// Every editor gets notified; the submitter's own unread counter is
		// untouched because they are not a recipient.
		editorIDs, err := tx.ListUserIDsByRole(ctx, rbac.RoleEditor)
		if err != nil {
			return err
		}
		if len(editorIDs) == 0 {
			return nil
		}
		return tx.EnqueueNotification(ctx, &NotificationEvent{
			Recipients:  editorIDs,
			ProjectID:   project.ID,
			ProjectName: project.Name,
			Status:      model.SubmissionStatusInVerifying,
			Message: fmt.Sprintf("%s has submitted the task %s in project %s for review",
				translator.FullName(), task.Name, project.Name),
		})
	})

	e.finish("SubmitWork", start, err)
	if err != nil {
		return nil, err
	}

	metrics.RecordSubmissionTransition(model.SubmissionStatusInVerifying)
	e.logger.Info("Work submitted",
		zap.Int64("submission_id", submission.ID),
		zap.Int64("task_id", taskID),
		zap.Int64("translator_id", translatorID),
		zap.Int("pages_done", submission.PagesDone),
	)
	return submission, nil
}

// GradeSubmission approves a submission and propagates progress to the task
// and the project in the same transaction. Either commits as one unit or
// nothing does.
func (e *Engine) GradeSubmission(ctx context.Context, editorID, taskID, submissionID int64, grade int) (*model.Submission, error) {
	start := time.Now()
	var submission *model.Submission

	err := e.store.WithTx(ctx, func(tx Tx) error {
		editor, err := tx.GetUser(ctx, editorID)
		if err != nil {
			return err
		}
		if !rbac.HasPermission(editor.Role, rbac.PermissionGradeSubmission) {
			return ErrRoleMismatch
		}

		task, err := tx.GetTaskForUpdate(ctx, taskID)
		if err != nil {
			return err
		}

		submission, err = tx.GetSubmissionForUpdate(ctx, submissionID)
		if err != nil {
			return err
		}
		if submission.TaskID != taskID {
			return ErrNotFound
		}
		if submission.Status != model.SubmissionStatusInVerifying {
			return ErrInvalidTransition
		}

		project, err := tx.GetProjectForUpdate(ctx, task.ProjectID)
		if err != nil {
			return err
		}

		taskProgress := CappedAdd(task.Progress, ProgressIncrement(submission.PagesDone, task.Pages))
		projectProgress := CappedAdd(project.Progress, ProgressIncrement(submission.PagesDone, project.NumberOfPages))

		taskStatus := task.Status
		if taskProgress >= 100 {
			taskStatus = model.TaskStatusDone
		}

		projectStatus := project.Status
		var endedAt *time.Time
		if projectProgress >= 100 {
			projectStatus = model.ProjectStatusFinished
			now := time.Now()
			endedAt = &now
		}

		if err := tx.ApproveSubmission(ctx, submissionID, grade); err != nil {
			return err
		}
		if err := tx.IncrementTasksEvaluated(ctx, editorID); err != nil {
			return err
		}
		if err := tx.UpdateTaskProgress(ctx, taskID, taskProgress, taskStatus); err != nil {
			return err
		}
		if err := tx.UpdateProjectProgress(ctx, project.ID, projectProgress, projectStatus, endedAt); err != nil {
			return err
		}

		submission.Status = model.SubmissionStatusApproved
		submission.Grade = &grade

		// Only the submitting translator hears about the grade.
		translator, err := tx.GetUser(ctx, submission.TranslatorID)
		if err != nil {
			return err
		}
		if translator.Role != rbac.RoleTranslator {
			return nil
		}
		return tx.EnqueueNotification(ctx, &NotificationEvent{
			Recipients:  []int64{translator.ID},
			ProjectID:   project.ID,
			ProjectName: project.Name,
			Status:      model.SubmissionStatusApproved,
			Message: fmt.Sprintf("%s has graded the task %s in project %s. Grade: %d",
				editor.FullName(), task.Name, project.Name, grade),
		})
	})

	e.finish("GradeSubmission", start, err)
	if err != nil {
		return nil, err
	}

	metrics.RecordSubmissionTransition(model.SubmissionStatusApproved)
	e.logger.Info("Submission graded",
		zap.Int64("submission_id", submissionID),
		zap.Int64("task_id", taskID),
		zap.Int64("editor_id", editorID),
		zap.Int("grade", grade),
	)
	return submission, nil
}

// RejectSubmission marks a submission NOT_APPROVED, records the correction
// comment and bumps the task's rejection counter. Every translator on the
// project is notified. Progress is untouched.
func (e *Engine) RejectSubmission(ctx context.Context, editorID, taskID, submissionID int64, comment string) (*model.Submission, error) {
	start := time.Now()
	var submission *model.Submission

	err := e.store.WithTx(ctx, func(tx Tx) error {
		editor, err := tx.GetUser(ctx, editorID)
		if err != nil {
			return err
		}
		if !rbac.HasPermission(editor.Role, rbac.PermissionRejectSubmission) {
			return ErrRoleMismatch
		}
		if strings.TrimSpace(comment) == "" {
			return ErrCommentRequired
		}

		task, err := tx.GetTaskForUpdate(ctx, taskID)
		if err != nil {
			return err
		}
		project, err := tx.GetProject(ctx, task.ProjectID)
		if err != nil {
			return err
		}

		isEditor, err := tx.IsProjectEditor(ctx, project.ID, editorID)
		if err != nil {
			return err
		}
		if !isEditor {
			return ErrNotAssignedToProject
		}

		submission, err = tx.GetSubmissionForUpdate(ctx, submissionID)
		if err != nil {
			return err
		}
		if submission.TaskID != taskID {
			return ErrNotFound
		}
		if submission.Status != model.SubmissionStatusInVerifying {
			return ErrInvalidTransition
		}

		if err := tx.RejectSubmission(ctx, submissionID, comment); err != nil {
			return err
		}
		// The rejection counter lives on the task, accumulated across all of
		// its submissions.
		if err := tx.IncrementTaskRejected(ctx, taskID); err != nil {
			return err
		}

		submission.Status = model.SubmissionStatusNotApproved
		submission.Comment = comment

		translatorIDs, err := tx.ListProjectTranslatorIDs(ctx, project.ID)
		if err != nil {
			return err
		}
		if len(translatorIDs) == 0 {
			return nil
		}
		return tx.EnqueueNotification(ctx, &NotificationEvent{
			Recipients:  translatorIDs,
			ProjectID:   project.ID,
			ProjectName: project.Name,
			Status:      model.SubmissionStatusNotApproved,
			Message: fmt.Sprintf("%s hasn't approved the task %s in project %s. Comment: %s",
				editor.FullName(), task.Name, project.Name, comment),
		})
	})

	e.finish("RejectSubmission", start, err)
	if err != nil {
		return nil, err
	}

	metrics.RecordSubmissionTransition(model.SubmissionStatusNotApproved)
	e.logger.Info("Submission rejected",
		zap.Int64("submission_id", submissionID),
		zap.Int64("task_id", taskID),
		zap.Int64("editor_id", editorID),
	)
	return submission, nil
}

// SendForCorrection flags a submission that carries validation errors and
// notifies its translator. Submissions without errors cannot be sent back.
func (e *Engine) SendForCorrection(ctx context.Context, editorID, submissionID int64) error {
	start := time.Now()

	err := e.store.WithTx(ctx, func(tx Tx) error {
		editor, err := tx.GetUser(ctx, editorID)
		if err != nil {
			return err
		}
		if !rbac.HasPermission(editor.Role, rbac.PermissionRejectSubmission) {
			return ErrRoleMismatch
		}

		submission, err := tx.GetSubmission(ctx, submissionID)
		if err != nil {
			return err
		}
		task, err := tx.GetTask(ctx, submission.TaskID)
		if err != nil {
			return err
		}
		project, err := tx.GetProject(ctx, task.ProjectID)
		if err != nil {
			return err
		}

		isEditor, err := tx.IsProjectEditor(ctx, project.ID, editorID)
		if err != nil {
			return err
		}
		if !isEditor {
			return ErrNotAssignedToProject
		}

		if !submission.HasErrors {
			return ErrNoCorrectionNeeded
		}

		return tx.EnqueueNotification(ctx, &NotificationEvent{
			Recipients:  []int64{submission.TranslatorID},
			ProjectID:   project.ID,
			ProjectName: project.Name,
			Status:      NotifyRequiresCorrection,
			Message: fmt.Sprintf("Your submission for task %s in project %s contains mistakes. Please review and make corrections.",
				task.Name, project.Name),
		})
	})

	e.finish("SendForCorrection", start, err)
	if err != nil {
		return err
	}

	e.logger.Info("Submission sent for correction",
		zap.Int64("submission_id", submissionID),
		zap.Int64("editor_id", editorID),
	)
	return nil
}

// SetDeadline writes a task's deadline. Two writers are legitimate: the
// manager and any translator responsible for the task. Last write wins.
func (e *Engine) SetDeadline(ctx context.Context, callerID, taskID int64, deadline time.Time) (*model.Task, error) {
	start := time.Now()
	var task *model.Task

	err := e.store.WithTx(ctx, func(tx Tx) error {
		caller, err := tx.GetUser(ctx, callerID)
		if err != nil {
			return err
		}

		task, err = tx.GetTask(ctx, taskID)
		if err != nil {
			return err
		}

		if !rbac.HasPermission(caller.Role, rbac.PermissionSetDeadline) {
			return ErrRoleMismatch
		}
		// Translators may only reschedule their own tasks; managers any.
		if caller.Role == rbac.RoleTranslator {
			assigned, err := tx.IsTaskResponsible(ctx, taskID, callerID)
			if err != nil {
				return err
			}
			if !assigned {
				return ErrNotAssigned
			}
		}

		if err := tx.SetTaskDeadline(ctx, taskID, deadline); err != nil {
			return err
		}
		task.Deadline = &deadline
		return nil
	})

	e.finish("SetDeadline", start, err)
	if err != nil {
		return nil, err
	}

	e.logger.Info("Task deadline set",
		zap.Int64("task_id", taskID),
		zap.Int64("caller_id", callerID),
		zap.Time("deadline", deadline),
	)
	return task, nil
}

func (e *Engine) finish(op string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
		e.logger.Debug("Workflow operation failed",
			zap.String("operation", op),
			zap.Error(err),
		)
	}
	metrics.RecordWorkflowOp(op, result, time.Since(start))
}

// GenerateProjectCode builds a project code from the name plus a sequence
// number: initials for multi-word names ("War and Peace" -> "WAP-3"), the
// first three letters otherwise ("Book" -> "BOO-3").
func GenerateProjectCode(name string, number int) string {
	words := strings.Fields(name)
	var letters []rune
	if len(words) > 1 {
		for _, word := range words {
			letters = append(letters, []rune(word)[0])
		}
	} else if len(words) == 1 {
		letters = []rune(words[0])
	}
	if len(letters) > 3 {
		letters = letters[:3]
	}
	return fmt.Sprintf("%s-%d", strings.ToUpper(string(letters)), number)
}
