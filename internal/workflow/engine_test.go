package workflow

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/barakov14/easylang-backend/internal/model"
	"github.com/barakov14/easylang-backend/pkg/rbac"
)

func newTestEngine(store *fakeStore) *Engine {
	return NewEngine(store, zap.NewNop())
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCreateProject(t *testing.T) {
	store := newFakeStore()
	manager := store.addUser(rbac.RoleManager, "Aida", "Bekova")
	engine := newTestEngine(store)

	p, err := engine.CreateProject(context.Background(), manager.ID, CreateProjectInput{
		Name:          "War and Peace",
		NumberOfPages: 120,
	})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if p.Status != model.ProjectStatusNew {
		t.Errorf("status = %q, want %q", p.Status, model.ProjectStatusNew)
	}
	if p.Code != "WAP-1" {
		t.Errorf("code = %q, want WAP-1", p.Code)
	}
	if p.Progress != 0 {
		t.Errorf("progress = %v, want 0", p.Progress)
	}
}

func TestCreateProjectRequiresManager(t *testing.T) {
	store := newFakeStore()
	translator := store.addUser(rbac.RoleTranslator, "Dana", "Kim")
	engine := newTestEngine(store)

	_, err := engine.CreateProject(context.Background(), translator.ID, CreateProjectInput{
		Name:          "Short Story",
		NumberOfPages: 30,
	})
	if !errors.Is(err, ErrRoleMismatch) {
		t.Fatalf("err = %v, want ErrRoleMismatch", err)
	}
	if len(store.projects) != 0 {
		t.Errorf("project was created despite role mismatch")
	}
}

func TestCreateTaskSequencesCodes(t *testing.T) {
	store := newFakeStore()
	manager := store.addUser(rbac.RoleManager, "Aida", "Bekova")
	project := store.addProject("War and Peace", 120, manager.ID)
	engine := newTestEngine(store)

	for want := 1; want <= 3; want++ {
		task, err := engine.CreateTask(context.Background(), manager.ID, project.ID, CreateTaskInput{
			Name:  "Chapter",
			Pages: 10,
		})
		if err != nil {
			t.Fatalf("CreateTask #%d: %v", want, err)
		}
		if task.Code != want {
			t.Errorf("task code = %d, want %d", task.Code, want)
		}
	}
}

func TestCreateTaskPageLimit(t *testing.T) {
	store := newFakeStore()
	manager := store.addUser(rbac.RoleManager, "Aida", "Bekova")
	project := store.addProject("War and Peace", 120, manager.ID)
	engine := newTestEngine(store)

	// 120/6 = 20 pages is the ceiling for a single task.
	if _, err := engine.CreateTask(context.Background(), manager.ID, project.ID, CreateTaskInput{
		Name:  "Too big",
		Pages: 21,
	}); !errors.Is(err, ErrPageLimitExceeded) {
		t.Errorf("pages=21: err = %v, want ErrPageLimitExceeded", err)
	}
	if _, err := engine.CreateTask(context.Background(), manager.ID, project.ID, CreateTaskInput{
		Name:  "At limit",
		Pages: 20,
	}); err != nil {
		t.Errorf("pages=20: %v", err)
	}
	if _, err := engine.CreateTask(context.Background(), manager.ID, project.ID, CreateTaskInput{
		Name:  "Empty",
		Pages: 0,
	}); !errors.Is(err, ErrInvalidPageCount) {
		t.Errorf("pages=0: err = %v, want ErrInvalidPageCount", err)
	}
}

func TestAssignEditor(t *testing.T) {
	store := newFakeStore()
	manager := store.addUser(rbac.RoleManager, "Aida", "Bekova")
	editor := store.addUser(rbac.RoleEditor, "Erlan", "Suleimenov")
	project := store.addProject("War and Peace", 120, manager.ID)
	engine := newTestEngine(store)

	if _, err := engine.AssignEditor(context.Background(), manager.ID, project.ID, editor.ID); err != nil {
		t.Fatalf("AssignEditor: %v", err)
	}
	if !store.projectEditors[project.ID][editor.ID] {
		t.Errorf("editor not recorded on project")
	}
	if len(store.events) != 1 || store.events[0].Status != NotifyEditorAssigned {
		t.Fatalf("events = %+v, want one EDITOR_ASSIGNED", store.events)
	}
	if got := store.events[0].Recipients; len(got) != 1 || got[0] != editor.ID {
		t.Errorf("recipients = %v, want [%d]", got, editor.ID)
	}
}

func TestAssignEditorRejectsWrongRole(t *testing.T) {
	store := newFakeStore()
	manager := store.addUser(rbac.RoleManager, "Aida", "Bekova")
	translator := store.addUser(rbac.RoleTranslator, "Dana", "Kim")
	project := store.addProject("War and Peace", 120, manager.ID)
	engine := newTestEngine(store)

	if _, err := engine.AssignEditor(context.Background(), manager.ID, project.ID, translator.ID); !errors.Is(err, ErrRoleMismatch) {
		t.Fatalf("err = %v, want ErrRoleMismatch", err)
	}
	if len(store.events) != 0 {
		t.Errorf("no notification expected on failed assignment")
	}
}

func TestAssignTranslator(t *testing.T) {
	store := newFakeStore()
	manager := store.addUser(rbac.RoleManager, "Aida", "Bekova")
	translator := store.addUser(rbac.RoleTranslator, "Dana", "Kim")
	project := store.addProject("War and Peace", 120, manager.ID)
	task := store.addTask(project.ID, "Chapter 1", 20)
	engine := newTestEngine(store)

	if _, err := engine.AssignTranslator(context.Background(), manager.ID, project.ID, task.ID, translator.ID); err != nil {
		t.Fatalf("AssignTranslator: %v", err)
	}
	if !store.taskResponsibles[task.ID][translator.ID] {
		t.Errorf("translator not responsible for task")
	}
	if !store.projectTranslators[project.ID][translator.ID] {
		t.Errorf("translator not in project translator set")
	}
	// Assignment notice plus the deadline prompt.
	if len(store.events) != 2 {
		t.Fatalf("got %d events, want 2", len(store.events))
	}
	if store.events[0].Status != NotifyTaskAssigned || store.events[1].Status != NotifyChooseDeadline {
		t.Errorf("event statuses = %q, %q", store.events[0].Status, store.events[1].Status)
	}
}

func TestAssignTranslatorDuplicate(t *testing.T) {
	store := newFakeStore()
	manager := store.addUser(rbac.RoleManager, "Aida", "Bekova")
	translator := store.addUser(rbac.RoleTranslator, "Dana", "Kim")
	project := store.addProject("War and Peace", 120, manager.ID)
	task := store.addTask(project.ID, "Chapter 1", 20)
	engine := newTestEngine(store)

	if _, err := engine.AssignTranslator(context.Background(), manager.ID, project.ID, task.ID, translator.ID); err != nil {
		t.Fatalf("first assignment: %v", err)
	}
	if _, err := engine.AssignTranslator(context.Background(), manager.ID, project.ID, task.ID, translator.ID); !errors.Is(err, ErrAlreadyAssigned) {
		t.Fatalf("second assignment: err = %v, want ErrAlreadyAssigned", err)
	}
	if len(store.events) != 2 {
		t.Errorf("duplicate assignment produced extra events: %d", len(store.events))
	}
}

func TestAssignTranslatorRejectsNonTranslator(t *testing.T) {
	store := newFakeStore()
	manager := store.addUser(rbac.RoleManager, "Aida", "Bekova")
	editor := store.addUser(rbac.RoleEditor, "Erlan", "Suleimenov")
	project := store.addProject("War and Peace", 120, manager.ID)
	task := store.addTask(project.ID, "Chapter 1", 20)
	engine := newTestEngine(store)

	if _, err := engine.AssignTranslator(context.Background(), manager.ID, project.ID, task.ID, editor.ID); !errors.Is(err, ErrNotATranslator) {
		t.Fatalf("err = %v, want ErrNotATranslator", err)
	}
}

func TestSubmitWork(t *testing.T) {
	store := newFakeStore()
	manager := store.addUser(rbac.RoleManager, "Aida", "Bekova")
	translator := store.addUser(rbac.RoleTranslator, "Dana", "Kim")
	editor := store.addUser(rbac.RoleEditor, "Erlan", "Suleimenov")
	project := store.addProject("War and Peace", 120, manager.ID)
	task := store.addTask(project.ID, "Chapter 1", 20)
	store.taskResponsibles[task.ID] = map[int64]bool{translator.ID: true}
	engine := newTestEngine(store)

	sub, err := engine.SubmitWork(context.Background(), translator.ID, task.ID, "translated text", 10)
	if err != nil {
		t.Fatalf("SubmitWork: %v", err)
	}
	if sub.Status != model.SubmissionStatusInVerifying {
		t.Errorf("status = %q, want %q", sub.Status, model.SubmissionStatusInVerifying)
	}
	if len(store.events) != 1 {
		t.Fatalf("got %d events, want 1", len(store.events))
	}
	ev := store.events[0]
	if len(ev.Recipients) != 1 || ev.Recipients[0] != editor.ID {
		t.Errorf("recipients = %v, want just the editor %d", ev.Recipients, editor.ID)
	}
	for _, id := range ev.Recipients {
		if id == translator.ID {
			t.Errorf("submitter must not be notified about their own submission")
		}
	}
}

func TestSubmitWorkValidation(t *testing.T) {
	store := newFakeStore()
	translator := store.addUser(rbac.RoleTranslator, "Dana", "Kim")
	outsider := store.addUser(rbac.RoleTranslator, "Olzhas", "Akhmetov")
	manager := store.addUser(rbac.RoleManager, "Aida", "Bekova")
	project := store.addProject("War and Peace", 120, manager.ID)
	task := store.addTask(project.ID, "Chapter 1", 20)
	store.taskResponsibles[task.ID] = map[int64]bool{translator.ID: true}
	engine := newTestEngine(store)

	if _, err := engine.SubmitWork(context.Background(), outsider.ID, task.ID, "t", 5); !errors.Is(err, ErrNotAssigned) {
		t.Errorf("unassigned: err = %v, want ErrNotAssigned", err)
	}
	if _, err := engine.SubmitWork(context.Background(), translator.ID, task.ID, "t", 0); !errors.Is(err, ErrInvalidPageCount) {
		t.Errorf("pages=0: err = %v, want ErrInvalidPageCount", err)
	}
	if _, err := engine.SubmitWork(context.Background(), translator.ID, task.ID, "t", 21); !errors.Is(err, ErrInvalidPageCount) {
		t.Errorf("pages>task: err = %v, want ErrInvalidPageCount", err)
	}
	if _, err := engine.SubmitWork(context.Background(), manager.ID, task.ID, "t", 5); !errors.Is(err, ErrRoleMismatch) {
		t.Errorf("manager: err = %v, want ErrRoleMismatch", err)
	}
	if len(store.submissions) != 0 {
		t.Errorf("no submissions should exist after failed attempts")
	}
}

func TestGradeSubmissionPropagatesProgress(t *testing.T) {
	store := newFakeStore()
	manager := store.addUser(rbac.RoleManager, "Aida", "Bekova")
	translator := store.addUser(rbac.RoleTranslator, "Dana", "Kim")
	editor := store.addUser(rbac.RoleEditor, "Erlan", "Suleimenov")
	project := store.addProject("War and Peace", 100, manager.ID)
	task := store.addTask(project.ID, "Chapter 1", 20)
	sub := store.addSubmission(task.ID, translator.ID, 10, model.SubmissionStatusInVerifying)
	engine := newTestEngine(store)

	got, err := engine.GradeSubmission(context.Background(), editor.ID, task.ID, sub.ID, 5)
	if err != nil {
		t.Fatalf("GradeSubmission: %v", err)
	}
	if got.Status != model.SubmissionStatusApproved {
		t.Errorf("submission status = %q, want APPROVED", got.Status)
	}
	if got.Grade == nil || *got.Grade != 5 {
		t.Errorf("grade = %v, want 5", got.Grade)
	}
	// 10 of 20 task pages, 10 of 100 project pages.
	if !almostEqual(store.tasks[task.ID].Progress, 50) {
		t.Errorf("task progress = %v, want 50", store.tasks[task.ID].Progress)
	}
	if !almostEqual(store.projects[project.ID].Progress, 10) {
		t.Errorf("project progress = %v, want 10", store.projects[project.ID].Progress)
	}
	if store.users[editor.ID].TasksEvaluated != 1 {
		t.Errorf("editor tasks_evaluated = %d, want 1", store.users[editor.ID].TasksEvaluated)
	}
	if len(store.events) != 1 {
		t.Fatalf("got %d events, want 1", len(store.events))
	}
	ev := store.events[0]
	if len(ev.Recipients) != 1 || ev.Recipients[0] != translator.ID {
		t.Errorf("recipients = %v, want just the translator", ev.Recipients)
	}
	if ev.Status != model.SubmissionStatusApproved {
		t.Errorf("event status = %q, want APPROVED", ev.Status)
	}
}

func TestGradeSubmissionCapsAtHundred(t *testing.T) {
	store := newFakeStore()
	manager := store.addUser(rbac.RoleManager, "Aida", "Bekova")
	translator := store.addUser(rbac.RoleTranslator, "Dana", "Kim")
	editor := store.addUser(rbac.RoleEditor, "Erlan", "Suleimenov")
	project := store.addProject("Short Story", 10, manager.ID)
	task := store.addTask(project.ID, "All of it", 10)
	store.tasks[task.ID].Progress = 90
	store.projects[project.ID].Progress = 90
	sub := store.addSubmission(task.ID, translator.ID, 10, model.SubmissionStatusInVerifying)
	engine := newTestEngine(store)

	if _, err := engine.GradeSubmission(context.Background(), editor.ID, task.ID, sub.ID, 4); err != nil {
		t.Fatalf("GradeSubmission: %v", err)
	}
	if store.tasks[task.ID].Progress != 100 {
		t.Errorf("task progress = %v, want capped 100", store.tasks[task.ID].Progress)
	}
	if store.tasks[task.ID].Status != model.TaskStatusDone {
		t.Errorf("task status = %q, want DONE", store.tasks[task.ID].Status)
	}
	p := store.projects[project.ID]
	if p.Progress != 100 {
		t.Errorf("project progress = %v, want capped 100", p.Progress)
	}
	if p.Status != model.ProjectStatusFinished {
		t.Errorf("project status = %q, want FINISHED", p.Status)
	}
	if p.EndedAt == nil {
		t.Errorf("ended_at not set on finished project")
	}
}

func TestGradeSubmissionInvalidTransition(t *testing.T) {
	store := newFakeStore()
	manager := store.addUser(rbac.RoleManager, "Aida", "Bekova")
	translator := store.addUser(rbac.RoleTranslator, "Dana", "Kim")
	editor := store.addUser(rbac.RoleEditor, "Erlan", "Suleimenov")
	project := store.addProject("War and Peace", 100, manager.ID)
	task := store.addTask(project.ID, "Chapter 1", 20)
	sub := store.addSubmission(task.ID, translator.ID, 10, model.SubmissionStatusApproved)
	engine := newTestEngine(store)

	if _, err := engine.GradeSubmission(context.Background(), editor.ID, task.ID, sub.ID, 5); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
	if store.tasks[task.ID].Progress != 0 {
		t.Errorf("progress moved on an invalid transition")
	}
}

func TestGradeSubmissionRoleMismatchLeavesStateUntouched(t *testing.T) {
	store := newFakeStore()
	manager := store.addUser(rbac.RoleManager, "Aida", "Bekova")
	translator := store.addUser(rbac.RoleTranslator, "Dana", "Kim")
	project := store.addProject("War and Peace", 100, manager.ID)
	task := store.addTask(project.ID, "Chapter 1", 20)
	sub := store.addSubmission(task.ID, translator.ID, 10, model.SubmissionStatusInVerifying)
	engine := newTestEngine(store)

	if _, err := engine.GradeSubmission(context.Background(), translator.ID, task.ID, sub.ID, 5); !errors.Is(err, ErrRoleMismatch) {
		t.Fatalf("err = %v, want ErrRoleMismatch", err)
	}
	if store.submissions[sub.ID].Status != model.SubmissionStatusInVerifying {
		t.Errorf("submission status changed")
	}
	if store.tasks[task.ID].Progress != 0 || store.projects[project.ID].Progress != 0 {
		t.Errorf("progress changed")
	}
	if len(store.events) != 0 {
		t.Errorf("events enqueued on failed grade")
	}
}

func TestGradeSubmissionRollsBackOnCommitFailure(t *testing.T) {
	store := newFakeStore()
	manager := store.addUser(rbac.RoleManager, "Aida", "Bekova")
	translator := store.addUser(rbac.RoleTranslator, "Dana", "Kim")
	editor := store.addUser(rbac.RoleEditor, "Erlan", "Suleimenov")
	project := store.addProject("War and Peace", 100, manager.ID)
	task := store.addTask(project.ID, "Chapter 1", 20)
	sub := store.addSubmission(task.ID, translator.ID, 10, model.SubmissionStatusInVerifying)
	store.commitErr = errors.New("connection reset")
	engine := newTestEngine(store)

	if _, err := engine.GradeSubmission(context.Background(), editor.ID, task.ID, sub.ID, 5); err == nil {
		t.Fatal("expected commit error")
	}
	// Either everything lands or nothing does.
	if store.submissions[sub.ID].Status != model.SubmissionStatusInVerifying {
		t.Errorf("submission status leaked past failed commit")
	}
	if store.tasks[task.ID].Progress != 0 {
		t.Errorf("task progress leaked past failed commit")
	}
	if store.projects[project.ID].Progress != 0 {
		t.Errorf("project progress leaked past failed commit")
	}
	if len(store.events) != 0 {
		t.Errorf("notification enqueued past failed commit")
	}
}

func TestRejectSubmission(t *testing.T) {
	store := newFakeStore()
	manager := store.addUser(rbac.RoleManager, "Aida", "Bekova")
	translator := store.addUser(rbac.RoleTranslator, "Dana", "Kim")
	other := store.addUser(rbac.RoleTranslator, "Olzhas", "Akhmetov")
	editor := store.addUser(rbac.RoleEditor, "Erlan", "Suleimenov")
	project := store.addProject("War and Peace", 100, manager.ID)
	task := store.addTask(project.ID, "Chapter 1", 20)
	store.projectEditors[project.ID] = map[int64]bool{editor.ID: true}
	store.projectTranslators[project.ID] = map[int64]bool{translator.ID: true, other.ID: true}
	sub := store.addSubmission(task.ID, translator.ID, 10, model.SubmissionStatusInVerifying)
	engine := newTestEngine(store)

	got, err := engine.RejectSubmission(context.Background(), editor.ID, task.ID, sub.ID, "terminology is off in 2.3")
	if err != nil {
		t.Fatalf("RejectSubmission: %v", err)
	}
	if got.Status != model.SubmissionStatusNotApproved {
		t.Errorf("status = %q, want NOT_APPROVED", got.Status)
	}
	if got.Comment != "terminology is off in 2.3" {
		t.Errorf("comment = %q", got.Comment)
	}
	if store.tasks[task.ID].Rejected != 1 {
		t.Errorf("task rejected counter = %d, want 1", store.tasks[task.ID].Rejected)
	}
	if store.tasks[task.ID].Progress != 0 || store.projects[project.ID].Progress != 0 {
		t.Errorf("rejection must not move progress")
	}
	if len(store.events) != 1 {
		t.Fatalf("got %d events, want 1", len(store.events))
	}
	if len(store.events[0].Recipients) != 2 {
		t.Errorf("recipients = %v, want both project translators", store.events[0].Recipients)
	}
}

func TestRejectSubmissionRequiresComment(t *testing.T) {
	store := newFakeStore()
	manager := store.addUser(rbac.RoleManager, "Aida", "Bekova")
	translator := store.addUser(rbac.RoleTranslator, "Dana", "Kim")
	editor := store.addUser(rbac.RoleEditor, "Erlan", "Suleimenov")
	project := store.addProject("War and Peace", 100, manager.ID)
	task := store.addTask(project.ID, "Chapter 1", 20)
	store.projectEditors[project.ID] = map[int64]bool{editor.ID: true}
	sub := store.addSubmission(task.ID, translator.ID, 10, model.SubmissionStatusInVerifying)
	engine := newTestEngine(store)

	if _, err := engine.RejectSubmission(context.Background(), editor.ID, task.ID, sub.ID, "   "); !errors.Is(err, ErrCommentRequired) {
		t.Fatalf("err = %v, want ErrCommentRequired", err)
	}
	if store.tasks[task.ID].Rejected != 0 {
		t.Errorf("rejected counter moved without a comment")
	}
}

func TestRejectSubmissionRequiresProjectEditor(t *testing.T) {
	store := newFakeStore()
	manager := store.addUser(rbac.RoleManager, "Aida", "Bekova")
	translator := store.addUser(rbac.RoleTranslator, "Dana", "Kim")
	editor := store.addUser(rbac.RoleEditor, "Erlan", "Suleimenov")
	project := store.addProject("War and Peace", 100, manager.ID)
	task := store.addTask(project.ID, "Chapter 1", 20)
	sub := store.addSubmission(task.ID, translator.ID, 10, model.SubmissionStatusInVerifying)
	engine := newTestEngine(store)

	if _, err := engine.RejectSubmission(context.Background(), editor.ID, task.ID, sub.ID, "fix 2.3"); !errors.Is(err, ErrNotAssignedToProject) {
		t.Fatalf("err = %v, want ErrNotAssignedToProject", err)
	}
}

func TestSendForCorrection(t *testing.T) {
	store := newFakeStore()
	manager := store.addUser(rbac.RoleManager, "Aida", "Bekova")
	translator := store.addUser(rbac.RoleTranslator, "Dana", "Kim")
	editor := store.addUser(rbac.RoleEditor, "Erlan", "Suleimenov")
	project := store.addProject("War and Peace", 100, manager.ID)
	task := store.addTask(project.ID, "Chapter 1", 20)
	store.projectEditors[project.ID] = map[int64]bool{editor.ID: true}
	sub := store.addSubmission(task.ID, translator.ID, 10, model.SubmissionStatusInVerifying)
	store.submissions[sub.ID].HasErrors = true
	engine := newTestEngine(store)

	if err := engine.SendForCorrection(context.Background(), editor.ID, sub.ID); err != nil {
		t.Fatalf("SendForCorrection: %v", err)
	}
	if len(store.events) != 1 || store.events[0].Status != NotifyRequiresCorrection {
		t.Fatalf("events = %+v, want one REQUIRES_CORRECTION", store.events)
	}

	clean := store.addSubmission(task.ID, translator.ID, 5, model.SubmissionStatusInVerifying)
	if err := engine.SendForCorrection(context.Background(), editor.ID, clean.ID); !errors.Is(err, ErrNoCorrectionNeeded) {
		t.Fatalf("clean submission: err = %v, want ErrNoCorrectionNeeded", err)
	}
}

func TestSetDeadline(t *testing.T) {
	store := newFakeStore()
	manager := store.addUser(rbac.RoleManager, "Aida", "Bekova")
	translator := store.addUser(rbac.RoleTranslator, "Dana", "Kim")
	outsider := store.addUser(rbac.RoleTranslator, "Olzhas", "Akhmetov")
	editor := store.addUser(rbac.RoleEditor, "Erlan", "Suleimenov")
	project := store.addProject("War and Peace", 100, manager.ID)
	task := store.addTask(project.ID, "Chapter 1", 20)
	store.taskResponsibles[task.ID] = map[int64]bool{translator.ID: true}
	engine := newTestEngine(store)

	first := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	if _, err := engine.SetDeadline(context.Background(), manager.ID, task.ID, first); err != nil {
		t.Fatalf("manager SetDeadline: %v", err)
	}
	if store.tasks[task.ID].Deadline == nil || !store.tasks[task.ID].Deadline.Equal(first) {
		t.Errorf("deadline = %v, want %v", store.tasks[task.ID].Deadline, first)
	}

	// The assigned translator may overwrite; last write wins.
	second := time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC)
	if _, err := engine.SetDeadline(context.Background(), translator.ID, task.ID, second); err != nil {
		t.Fatalf("translator SetDeadline: %v", err)
	}
	if !store.tasks[task.ID].Deadline.Equal(second) {
		t.Errorf("deadline = %v, want %v", store.tasks[task.ID].Deadline, second)
	}

	if _, err := engine.SetDeadline(context.Background(), outsider.ID, task.ID, first); !errors.Is(err, ErrNotAssigned) {
		t.Errorf("outsider: err = %v, want ErrNotAssigned", err)
	}
	if _, err := engine.SetDeadline(context.Background(), editor.ID, task.ID, first); !errors.Is(err, ErrRoleMismatch) {
		t.Errorf("editor: err = %v, want ErrRoleMismatch", err)
	}
}

func TestGenerateProjectCode(t *testing.T) {
	cases := []struct {
		name   string
		number int
		want   string
	}{
		{"War and Peace", 1, "WAP-1"},
		{"Book", 7, "BOO-7"},
		{"a b c d", 12, "ABC-12"},
		{"x", 3, "X-3"},
	}
	for _, c := range cases {
		if got := GenerateProjectCode(c.name, c.number); got != c.want {
			t.Errorf("GenerateProjectCode(%q, %d) = %q, want %q", c.name, c.number, got, c.want)
		}
	}
}
