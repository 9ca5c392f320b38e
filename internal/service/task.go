package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Anthanoess/task-app/internal/model"
	"github.com/Anthanoess/task-app/internal/repository"
)

type TaskInput struct {
	Title       string             `validate:"required"`
	Description string
	Status      model.TaskStatus   `validate:"omitempty,oneof=Planning Execution Review"`
	Priority    model.TaskPriority `validate:"omitempty,oneof=high medium low"`
	AssignedTo  *uuid.UUID
	SprintID    *uuid.UUID
}

type TaskPatch struct {
	Title         *string             `validate:"omitempty,min=1"`
	Description   *string
	Status        *model.TaskStatus   `validate:"omitempty,oneof=Planning Execution Review"`
	Priority      *model.TaskPriority `validate:"omitempty,oneof=high medium low"`
	AssignedTo    *uuid.UUID
	ClearAssignee bool
	SprintID      *uuid.UUID
}

type TaskService struct {
	tasks    TaskStore
	users    UserStore
	sprints  *SprintService
	notifier Notifier
	logger   *slog.Logger
}

func NewTaskService(tasks TaskStore, users UserStore, sprints *SprintService, notifier Notifier, logger *slog.Logger) *TaskService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskService{
		tasks:    tasks,
		users:    users,
		sprints:  sprints,
		notifier: notifier,
		logger:   logger,
	}
}

// Create stores a task in an open sprint and notifies its assignee.
func (s *TaskService) Create(ctx context.Context, in TaskInput) (*model.Task, error) {
	if in.SprintID == nil || *in.SprintID == uuid.Nil {
		return nil, invalid("Sprint ID is required")
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	// Not transactional with the insert below: a sprint crossing its end date
	// between the two calls may still receive the task.
	if _, err := s.sprints.CheckAcceptsNewTasks(ctx, *in.SprintID); err != nil {
		return nil, err
	}

	assignedTo, assignee, err := s.resolveAssignee(ctx, in.AssignedTo, "Error creating task")
	if err != nil {
		return nil, err
	}

	task := &model.Task{
		ID:          uuid.New(),
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		AssignedTo:  assignedTo,
		SprintID:    *in.SprintID,
	}
	if task.Status == "" {
		task.Status = model.StatusPlanning
	}
	if task.Priority == "" {
		task.Priority = model.PriorityLow
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, storeFailure("Error creating task", err)
	}

	if assignee != nil {
		s.notifier.NotifyAssignment(ctx, assignee.Email, task.Title)
		task.Assignee = assignee
	}
	return task, nil
}

// Update applies patch to an existing task and returns it with the assignee resolved.
func (s *TaskService) Update(ctx context.Context, id uuid.UUID, patch TaskPatch) (*model.Task, error) {
	if err := validateStruct(patch); err != nil {
		return nil, err
	}

	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, storeFailure("Error updating task", err)
	}
	if task == nil {
		return nil, notFound("Task not found")
	}

	previousAssignee := task.AssignedTo
	var assignee *model.User
	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Status != nil {
		task.Status = *patch.Status
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}
	if patch.ClearAssignee {
		task.AssignedTo = nil
	} else if patch.AssignedTo != nil {
		task.AssignedTo, assignee, err = s.resolveAssignee(ctx, patch.AssignedTo, "Error updating task")
		if err != nil {
			return nil, err
		}
	}
	if patch.SprintID != nil && *patch.SprintID != task.SprintID {
		if _, err := s.sprints.Get(ctx, *patch.SprintID); err != nil {
			return nil, err
		}
		task.SprintID = *patch.SprintID
	}
	task.Assignee = nil
	task.Sprint = nil

	if err := s.tasks.Update(ctx, task); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, notFound("Task not found")
		}
		return nil, storeFailure("Error updating task", err)
	}

	if assignee != nil && !sameAssignee(previousAssignee, task.AssignedTo) {
		s.notifier.NotifyAssignment(ctx, assignee.Email, task.Title)
	}

	updated, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, storeFailure("Error updating task", err)
	}
	if updated == nil {
		return nil, notFound("Task not found")
	}
	return updated, nil
}

func (s *TaskService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.tasks.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return notFound("Task not found")
		}
		return storeFailure("Error deleting task", err)
	}
	return nil
}

// List returns all tasks with assignee and sprint resolved.
func (s *TaskService) List(ctx context.Context) ([]model.Task, error) {
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, storeFailure("Error fetching tasks", err)
	}
	return tasks, nil
}

// BatchUpdateStatus moves every listed task to status and returns the whole task
// list so callers can resynchronise in one round trip. Unknown ids are ignored.
// Moving into Review notifies each affected assignee once.
func (s *TaskService) BatchUpdateStatus(ctx context.Context, ids []uuid.UUID, status model.TaskStatus) ([]model.Task, error) {
	if len(ids) == 0 || status == "" {
		return nil, invalid("Invalid request: taskIds and newStatus are required")
	}
	if !status.Valid() {
		return nil, invalid("newStatus must be one of: Planning, Execution, Review")
	}

	ids = uniqueIDs(ids)
	if _, err := s.tasks.UpdateStatus(ctx, ids, status); err != nil {
		return nil, storeFailure("Error updating tasks", err)
	}

	if status.Terminal() {
		s.notifyCompleted(ctx, ids)
	}

	return s.List(ctx)
}

func (s *TaskService) notifyCompleted(ctx context.Context, ids []uuid.UUID) {
	affected, err := s.tasks.ListByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("load tasks for completion notice", slog.String("error", err.Error()))
		return
	}
	for _, task := range affected {
		if task.Assignee == nil {
			continue
		}
		s.notifier.NotifyCompletion(ctx, task.Assignee.Email, task.Title)
	}
}

// resolveAssignee looks up the user a task is being assigned to. An id that
// matches no user is dropped and the task is stored unassigned.
func (s *TaskService) resolveAssignee(ctx context.Context, id *uuid.UUID, op string) (*uuid.UUID, *model.User, error) {
	if id == nil {
		return nil, nil, nil
	}
	user, err := s.users.GetByID(ctx, *id)
	if err != nil {
		return nil, nil, storeFailure(op, err)
	}
	if user == nil {
		s.logger.Warn("unknown assignee dropped", slog.String("user_id", id.String()))
		return nil, nil, nil
	}
	userID := user.ID
	return &userID, user, nil
}

func sameAssignee(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
