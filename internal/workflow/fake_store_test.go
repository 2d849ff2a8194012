package workflow

import (
	"context"
	"time"

	"github.com/barakov14/easylang-backend/internal/model"
	"github.com/barakov14/easylang-backend/pkg/rbac"
)

// fakeStore is an in-memory Store. Mutations land in a staged copy first and
// are copied back only when fn succeeds and commitErr is nil, so tests can
// verify that a failed transaction leaves no partial state behind.
type fakeStore struct {
	users       map[int64]*model.User
	projects    map[int64]*model.Project
	tasks       map[int64]*model.Task
	submissions map[int64]*model.Submission

	projectEditors     map[int64]map[int64]bool
	projectTranslators map[int64]map[int64]bool
	taskResponsibles   map[int64]map[int64]bool

	events []*NotificationEvent

	nextID    int64
	commitErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:              make(map[int64]*model.User),
		projects:           make(map[int64]*model.Project),
		tasks:              make(map[int64]*model.Task),
		submissions:        make(map[int64]*model.Submission),
		projectEditors:     make(map[int64]map[int64]bool),
		projectTranslators: make(map[int64]map[int64]bool),
		taskResponsibles:   make(map[int64]map[int64]bool),
		nextID:             1,
	}
}

func (s *fakeStore) addUser(role rbac.Role, name, surname string) *model.User {
	u := &model.User{
		ID:      s.nextID,
		Name:    name,
		Surname: surname,
		Role:    role,
		Status:  model.UserStatusReady,
	}
	s.nextID++
	s.users[u.ID] = u
	return u
}

func (s *fakeStore) addProject(name string, pages int, creatorID int64) *model.Project {
	p := &model.Project{
		ID:            s.nextID,
		Code:          GenerateProjectCode(name, int(s.nextID)),
		Name:          name,
		Status:        model.ProjectStatusNew,
		NumberOfPages: pages,
		CreatorID:     creatorID,
	}
	s.nextID++
	s.projects[p.ID] = p
	return p
}

func (s *fakeStore) addTask(projectID int64, name string, pages int) *model.Task {
	t := &model.Task{
		ID:        s.nextID,
		ProjectID: projectID,
		Code:      1,
		Name:      name,
		Status:    model.TaskStatusInProgress,
		Pages:     pages,
	}
	s.nextID++
	s.tasks[t.ID] = t
	return t
}

func (s *fakeStore) addSubmission(taskID, translatorID int64, pagesDone int, status string) *model.Submission {
	sub := &model.Submission{
		ID:           s.nextID,
		TaskID:       taskID,
		TranslatorID: translatorID,
		PagesDone:    pagesDone,
		Status:       status,
	}
	s.nextID++
	s.submissions[sub.ID] = sub
	return sub
}

func (s *fakeStore) WithTx(_ context.Context, fn func(tx Tx) error) error {
	staged := s.clone()
	tx := &fakeTx{store: staged}
	if err := fn(tx); err != nil {
		return err
	}
	if s.commitErr != nil {
		return s.commitErr
	}
	*s = *staged
	return nil
}

func (s *fakeStore) clone() *fakeStore {
	c := newFakeStore()
	c.nextID = s.nextID
	c.commitErr = s.commitErr
	for id, u := range s.users {
		cp := *u
		c.users[id] = &cp
	}
	for id, p := range s.projects {
		cp := *p
		c.projects[id] = &cp
	}
	for id, t := range s.tasks {
		cp := *t
		c.tasks[id] = &cp
	}
	for id, sub := range s.submissions {
		cp := *sub
		c.submissions[id] = &cp
	}
	copySets := func(dst, src map[int64]map[int64]bool) {
		for k, set := range src {
			dst[k] = make(map[int64]bool, len(set))
			for id := range set {
				dst[k][id] = true
			}
		}
	}
	copySets(c.projectEditors, s.projectEditors)
	copySets(c.projectTranslators, s.projectTranslators)
	copySets(c.taskResponsibles, s.taskResponsibles)
	c.events = append(c.events, s.events...)
	return c
}

type fakeTx struct {
	store *fakeStore
}

func (t *fakeTx) GetUser(_ context.Context, id int64) (*model.User, error) {
	u, ok := t.store.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (t *fakeTx) IncrementTasksEvaluated(_ context.Context, userID int64) error {
	u, ok := t.store.users[userID]
	if !ok {
		return ErrNotFound
	}
	u.TasksEvaluated++
	return nil
}

func (t *fakeTx) ListUserIDsByRole(_ context.Context, role rbac.Role) ([]int64, error) {
	var ids []int64
	for id, u := range t.store.users {
		if u.Role == role {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (t *fakeTx) GetProject(_ context.Context, id int64) (*model.Project, error) {
	p, ok := t.store.projects[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (t *fakeTx) GetProjectForUpdate(ctx context.Context, id int64) (*model.Project, error) {
	return t.GetProject(ctx, id)
}

func (t *fakeTx) CountProjects(_ context.Context) (int, error) {
	return len(t.store.projects), nil
}

func (t *fakeTx) InsertProject(_ context.Context, p *model.Project) error {
	p.ID = t.store.nextID
	t.store.nextID++
	p.StartedAt = time.Now()
	cp := *p
	t.store.projects[p.ID] = &cp
	return nil
}

func (t *fakeTx) UpdateProjectProgress(_ context.Context, id int64, progress float64, status string, endedAt *time.Time) error {
	p, ok := t.store.projects[id]
	if !ok {
		return ErrNotFound
	}
	p.Progress = progress
	p.Status = status
	p.EndedAt = endedAt
	return nil
}

func (t *fakeTx) IsProjectEditor(_ context.Context, projectID, userID int64) (bool, error) {
	return t.store.projectEditors[projectID][userID], nil
}

func (t *fakeTx) AddProjectEditor(_ context.Context, projectID, userID int64) error {
	if t.store.projectEditors[projectID] == nil {
		t.store.projectEditors[projectID] = make(map[int64]bool)
	}
	t.store.projectEditors[projectID][userID] = true
	return nil
}

func (t *fakeTx) AddProjectTranslator(_ context.Context, projectID, userID int64) error {
	if t.store.projectTranslators[projectID] == nil {
		t.store.projectTranslators[projectID] = make(map[int64]bool)
	}
	t.store.projectTranslators[projectID][userID] = true
	return nil
}

func (t *fakeTx) ListProjectTranslatorIDs(_ context.Context, projectID int64) ([]int64, error) {
	var ids []int64
	for id := range t.store.projectTranslators[projectID] {
		ids = append(ids, id)
	}
	return ids, nil
}

func (t *fakeTx) GetTask(_ context.Context, id int64) (*model.Task, error) {
	tk, ok := t.store.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *tk
	return &cp, nil
}

func (t *fakeTx) GetTaskForUpdate(ctx context.Context, id int64) (*model.Task, error) {
	return t.GetTask(ctx, id)
}

func (t *fakeTx) GetTaskInProject(ctx context.Context, projectID, taskID int64) (*model.Task, error) {
	tk, err := t.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if tk.ProjectID != projectID {
		return nil, ErrNotFound
	}
	return tk, nil
}

func (t *fakeTx) CountTasks(_ context.Context, projectID int64) (int, error) {
	n := 0
	for _, tk := range t.store.tasks {
		if tk.ProjectID == projectID {
			n++
		}
	}
	return n, nil
}

func (t *fakeTx) InsertTask(_ context.Context, tk *model.Task) error {
	tk.ID = t.store.nextID
	t.store.nextID++
	tk.StartedAt = time.Now()
	cp := *tk
	t.store.tasks[tk.ID] = &cp
	return nil
}

func (t *fakeTx) SetTaskDeadline(_ context.Context, taskID int64, deadline time.Time) error {
	tk, ok := t.store.tasks[taskID]
	if !ok {
		return ErrNotFound
	}
	tk.Deadline = &deadline
	return nil
}

func (t *fakeTx) UpdateTaskProgress(_ context.Context, taskID int64, progress float64, status string) error {
	tk, ok := t.store.tasks[taskID]
	if !ok {
		return ErrNotFound
	}
	tk.Progress = progress
	tk.Status = status
	return nil
}

func (t *fakeTx) IncrementTaskRejected(_ context.Context, taskID int64) error {
	tk, ok := t.store.tasks[taskID]
	if !ok {
		return ErrNotFound
	}
	tk.Rejected++
	return nil
}

func (t *fakeTx) IsTaskResponsible(_ context.Context, taskID, userID int64) (bool, error) {
	return t.store.taskResponsibles[taskID][userID], nil
}

func (t *fakeTx) AddTaskResponsible(_ context.Context, taskID, userID int64) error {
	if t.store.taskResponsibles[taskID] == nil {
		t.store.taskResponsibles[taskID] = make(map[int64]bool)
	}
	t.store.taskResponsibles[taskID][userID] = true
	return nil
}

func (t *fakeTx) InsertSubmission(_ context.Context, s *model.Submission) error {
	s.ID = t.store.nextID
	t.store.nextID++
	s.CreatedAt = time.Now()
	cp := *s
	t.store.submissions[s.ID] = &cp
	return nil
}

func (t *fakeTx) GetSubmission(_ context.Context, id int64) (*model.Submission, error) {
	s, ok := t.store.submissions[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (t *fakeTx) GetSubmissionForUpdate(ctx context.Context, id int64) (*model.Submission, error) {
	return t.GetSubmission(ctx, id)
}

func (t *fakeTx) ApproveSubmission(_ context.Context, id int64, grade int) error {
	s, ok := t.store.submissions[id]
	if !ok {
		return ErrNotFound
	}
	s.Status = model.SubmissionStatusApproved
	s.Grade = &grade
	return nil
}

func (t *fakeTx) RejectSubmission(_ context.Context, id int64, comment string) error {
	s, ok := t.store.submissions[id]
	if !ok {
		return ErrNotFound
	}
	s.Status = model.SubmissionStatusNotApproved
	s.Comment = comment
	return nil
}

func (t *fakeTx) EnqueueNotification(_ context.Context, ev *NotificationEvent) error {
	t.store.events = append(t.store.events, ev)
	return nil
}
