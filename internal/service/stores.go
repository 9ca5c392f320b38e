package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/Anthanoess/task-app/internal/model"
)

// Lookups return (nil, nil) when the record does not exist.

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
}

type SprintStore interface {
	Create(ctx context.Context, sprint *model.Sprint) error
	List(ctx context.Context) ([]model.Sprint, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Sprint, error)
	Update(ctx context.Context, sprint *model.Sprint) error
	// MarkCompleted sets status Completed on every listed sprint in one write.
	MarkCompleted(ctx context.Context, ids []uuid.UUID) error
}

type FlagStore interface {
	// Claim sets the named flag and reports whether this call was the one that set it.
	Claim(ctx context.Context, name string) (bool, error)
	Release(ctx context.Context, name string) error
}

// TaskStore resolves Assignee on single and by-id reads, and Assignee plus Sprint on List.
// Update and Delete report repository.ErrTaskNotFound for unknown ids.
type TaskStore interface {
	Create(ctx context.Context, task *model.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error)
	List(ctx context.Context) ([]model.Task, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Task, error)
	Update(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateStatus(ctx context.Context, ids []uuid.UUID, status model.TaskStatus) (int64, error)
}

// Notifier delivers best-effort e-mails; it never reports failure to the caller.
type Notifier interface {
	NotifyAssignment(ctx context.Context, email, taskTitle string)
	NotifyCompletion(ctx context.Context, email, taskTitle string)
}
