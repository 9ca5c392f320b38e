// Package board keeps the client-side view of a sprint's tasks: the filtered
// view, bulk selection, and the drag state machine that decides between a local
// reorder and a server round trip.
//
// A Board serialises its own state. Network calls run without holding the lock,
// so readers can observe Phase and Busy while a request is in flight.
package board

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Anthanoess/task-app/internal/model"
)

type Task struct {
	ID          string
	Title       string
	Description string
	Status      model.TaskStatus
	Priority    model.TaskPriority
	AssigneeID  string
	Assignee    string
	SprintID    string
}

type Sprint struct {
	ID        string
	Name      string
	StartDate time.Time
	EndDate   time.Time
	Status    model.SprintStatus
}

// API is the slice of the server the board needs.
type API interface {
	ListTasks(ctx context.Context) ([]Task, error)
	BatchUpdateStatus(ctx context.Context, ids []string, status model.TaskStatus) ([]Task, error)
}

// Reporter surfaces transient notices to the user.
type Reporter interface {
	Warn(msg string)
	Error(msg string)
	Success(msg string)
}

var (
	ErrBusy           = errors.New("board: bulk update already in progress")
	ErrEmptySelection = errors.New("board: no tasks selected")
	ErrTerminalStatus = errors.New("board: tasks in review cannot be moved")
	ErrNoStatus       = errors.New("board: no target status")
)

type Board struct {
	api      API
	reporter Reporter

	mu       sync.Mutex
	sprintID string
	tasks    []Task
	filter   Filter
	filtered []Task

	selected            []string
	firstSelectedStatus model.TaskStatus

	phase  Phase
	active *Task
	busy   bool
}

func New(api API, reporter Reporter) *Board {
	return &Board{api: api, reporter: reporter}
}

// Load fetches every task, keeps the current sprint's and clears the selection.
// On failure the previous state is kept.
func (b *Board) Load(ctx context.Context) error {
	tasks, err := b.api.ListTasks(ctx)
	if err != nil {
		b.reporter.Error("Error fetching tasks")
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.replaceLocked(tasks)
	b.clearSelectionLocked()
	return nil
}

// SelectSprint switches the board to another sprint, dropping the selection and
// search query. The switch only happens once the sprint's tasks are fetched; on
// failure the board stays on the previous sprint.
func (b *Board) SelectSprint(ctx context.Context, sprintID string) error {
	tasks, err := b.api.ListTasks(ctx)
	if err != nil {
		b.reporter.Error("Error fetching tasks")
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.sprintID = sprintID
	b.filter.Query = ""
	b.replaceLocked(tasks)
	b.clearSelectionLocked()
	return nil
}

func (b *Board) SprintID() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sprintID
}

// Tasks returns the current sprint's tasks in board order.
func (b *Board) Tasks() []Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Task(nil), b.tasks...)
}

// Filtered returns the tasks visible under the current filter.
func (b *Board) Filtered() []Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Task(nil), b.filtered...)
}

// Column returns the visible tasks of one status in board order.
func (b *Board) Column(status model.TaskStatus) []Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []Task
	for _, t := range b.filtered {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

func (b *Board) task(id string) (Task, bool) {
	for _, t := range b.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// replaceLocked swaps in a server response, scoped to the current sprint.
func (b *Board) replaceLocked(all []Task) {
	scoped := make([]Task, 0, len(all))
	for _, t := range all {
		if b.sprintID == "" || t.SprintID == b.sprintID {
			scoped = append(scoped, t)
		}
	}
	b.tasks = scoped
	b.recomputeLocked()
}

func (b *Board) recomputeLocked() {
	b.filtered = Apply(b.tasks, b.filter)
}
