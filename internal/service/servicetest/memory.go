// Package servicetest provides in-memory stores, a recording notifier and a
// settable clock for exercising the service layer without a database.
package servicetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Anthanoess/task-app/internal/model"
	"github.com/Anthanoess/task-app/internal/repository"
)

// Memory holds every collection. Err, when set, is returned by every store call.
type Memory struct {
	mu      sync.Mutex
	seq     int
	users   map[uuid.UUID]model.User
	sprints map[uuid.UUID]model.Sprint
	tasks   map[uuid.UUID]taskRow
	flags   map[string]time.Time

	Err error

	MarkCompletedCalls int
	UpdateStatusCalls  int
}

type taskRow struct {
	task model.Task
	seq  int
}

func NewMemory() *Memory {
	return &Memory{
		users:   map[uuid.UUID]model.User{},
		sprints: map[uuid.UUID]model.Sprint{},
		tasks:   map[uuid.UUID]taskRow{},
		flags:   map[string]time.Time{},
	}
}

func (m *Memory) Users() *UserStore     { return &UserStore{m} }
func (m *Memory) Sprints() *SprintStore { return &SprintStore{m} }
func (m *Memory) Flags() *FlagStore     { return &FlagStore{m} }
func (m *Memory) Tasks() *TaskStore     { return &TaskStore{m} }

// Sprint returns the stored sprint as persisted, bypassing the service layer.
func (m *Memory) Sprint(id uuid.UUID) (model.Sprint, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sprints[id]
	return s, ok
}

func (m *Memory) Task(id uuid.UUID) (model.Task, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.tasks[id]
	return row.task, ok
}

type UserStore struct{ m *Memory }

func (s *UserStore) Create(_ context.Context, user *model.User) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.Err != nil {
		return s.m.Err
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	s.m.users[user.ID] = *user
	return nil
}

func (s *UserStore) FindByUsername(_ context.Context, username string) (*model.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.Err != nil {
		return nil, s.m.Err
	}
	for _, u := range s.m.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

func (s *UserStore) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.Err != nil {
		return nil, s.m.Err
	}
	u, ok := s.m.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *UserStore) List(_ context.Context) ([]model.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.Err != nil {
		return nil, s.m.Err
	}
	out := make([]model.User, 0, len(s.m.users))
	for _, u := range s.m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

type SprintStore struct{ m *Memory }

func (s *SprintStore) Create(_ context.Context, sprint *model.Sprint) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.Err != nil {
		return s.m.Err
	}
	if sprint.ID == uuid.Nil {
		sprint.ID = uuid.New()
	}
	now := time.Now()
	sprint.CreatedAt, sprint.UpdatedAt = now, now
	s.m.sprints[sprint.ID] = *sprint
	return nil
}

func (s *SprintStore) List(_ context.Context) ([]model.Sprint, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.Err != nil {
		return nil, s.m.Err
	}
	out := make([]model.Sprint, 0, len(s.m.sprints))
	for _, sp := range s.m.sprints {
		out = append(out, sp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EndDate.Before(out[j].EndDate) })
	return out, nil
}

func (s *SprintStore) GetByID(_ context.Context, id uuid.UUID) (*model.Sprint, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.Err != nil {
		return nil, s.m.Err
	}
	sp, ok := s.m.sprints[id]
	if !ok {
		return nil, nil
	}
	return &sp, nil
}

func (s *SprintStore) Update(_ context.Context, sprint *model.Sprint) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.Err != nil {
		return s.m.Err
	}
	if _, ok := s.m.sprints[sprint.ID]; !ok {
		return repository.ErrSprintNotFound
	}
	sprint.UpdatedAt = time.Now()
	s.m.sprints[sprint.ID] = *sprint
	return nil
}

func (s *SprintStore) MarkCompleted(_ context.Context, ids []uuid.UUID) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.Err != nil {
		return s.m.Err
	}
	s.m.MarkCompletedCalls++
	for _, id := range ids {
		if sp, ok := s.m.sprints[id]; ok {
			sp.Status = model.SprintCompleted
			s.m.sprints[id] = sp
		}
	}
	return nil
}

type FlagStore struct{ m *Memory }

func (s *FlagStore) Claim(_ context.Context, name string) (bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.Err != nil {
		return false, s.m.Err
	}
	if _, ok := s.m.flags[name]; ok {
		return false, nil
	}
	s.m.flags[name] = time.Now()
	return true, nil
}

func (s *FlagStore) Release(_ context.Context, name string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	delete(s.m.flags, name)
	return nil
}

type TaskStore struct{ m *Memory }

func (s *TaskStore) Create(_ context.Context, task *model.Task) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.Err != nil {
		return s.m.Err
	}
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	now := time.Now()
	task.CreatedAt, task.UpdatedAt = now, now
	s.m.seq++
	stored := *task
	stored.Assignee, stored.Sprint = nil, nil
	s.m.tasks[task.ID] = taskRow{task: stored, seq: s.m.seq}
	return nil
}

func (s *TaskStore) GetByID(_ context.Context, id uuid.UUID) (*model.Task, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.Err != nil {
		return nil, s.m.Err
	}
	row, ok := s.m.tasks[id]
	if !ok {
		return nil, nil
	}
	t := s.m.resolve(row.task, false)
	return &t, nil
}

func (s *TaskStore) List(_ context.Context) ([]model.Task, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.Err != nil {
		return nil, s.m.Err
	}
	return s.m.ordered(func(model.Task) bool { return true }, true), nil
}

func (s *TaskStore) ListByIDs(_ context.Context, ids []uuid.UUID) ([]model.Task, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.Err != nil {
		return nil, s.m.Err
	}
	want := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	return s.m.ordered(func(t model.Task) bool { return want[t.ID] }, false), nil
}

func (s *TaskStore) Update(_ context.Context, task *model.Task) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.Err != nil {
		return s.m.Err
	}
	row, ok := s.m.tasks[task.ID]
	if !ok {
		return repository.ErrTaskNotFound
	}
	stored := *task
	stored.Assignee, stored.Sprint = nil, nil
	stored.CreatedAt = row.task.CreatedAt
	stored.UpdatedAt = time.Now()
	s.m.tasks[task.ID] = taskRow{task: stored, seq: row.seq}
	return nil
}

func (s *TaskStore) Delete(_ context.Context, id uuid.UUID) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.Err != nil {
		return s.m.Err
	}
	if _, ok := s.m.tasks[id]; !ok {
		return repository.ErrTaskNotFound
	}
	delete(s.m.tasks, id)
	return nil
}

func (s *TaskStore) UpdateStatus(_ context.Context, ids []uuid.UUID, status model.TaskStatus) (int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.Err != nil {
		return 0, s.m.Err
	}
	s.m.UpdateStatusCalls++
	var n int64
	for _, id := range ids {
		row, ok := s.m.tasks[id]
		if !ok {
			continue
		}
		row.task.Status = status
		s.m.tasks[id] = row
		n++
	}
	return n, nil
}

// ordered returns matching tasks in insertion order; callers hold m.mu.
func (m *Memory) ordered(match func(model.Task) bool, withSprint bool) []model.Task {
	rows := make([]taskRow, 0, len(m.tasks))
	for _, row := range m.tasks {
		if match(row.task) {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })

	out := make([]model.Task, 0, len(rows))
	for _, row := range rows {
		out = append(out, m.resolve(row.task, withSprint))
	}
	return out
}

func (m *Memory) resolve(t model.Task, withSprint bool) model.Task {
	if t.AssignedTo != nil {
		if u, ok := m.users[*t.AssignedTo]; ok {
			t.Assignee = &u
		}
	}
	if withSprint {
		if sp, ok := m.sprints[t.SprintID]; ok {
			t.Sprint = &sp
		}
	}
	return t
}
