package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Anthanoess/task-app/internal/model"
	"github.com/Anthanoess/task-app/internal/repository"
)

type SprintInput struct {
	Name      string             `validate:"required"`
	StartDate time.Time          `validate:"required"`
	EndDate   time.Time          `validate:"required,gtefield=StartDate"`
	Status    model.SprintStatus `validate:"omitempty,oneof=Pending Active Completed"`
}

type SprintPatch struct {
	Name      *string             `validate:"omitempty,min=1"`
	StartDate *time.Time
	EndDate   *time.Time
	Status    *model.SprintStatus `validate:"omitempty,oneof=Pending Active Completed"`
}

// SprintService owns the sprint lifecycle: first-sprint promotion and lazy completion
// of sprints whose end date has passed.
type SprintService struct {
	sprints SprintStore
	flags   FlagStore
	logger  *slog.Logger
	now     func() time.Time
}

func NewSprintService(sprints SprintStore, flags FlagStore, logger *slog.Logger) *SprintService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SprintService{sprints: sprints, flags: flags, logger: logger, now: time.Now}
}

// WithClock replaces the time source; used by tests.
func (s *SprintService) WithClock(now func() time.Time) *SprintService {
	s.now = now
	return s
}

// Create stores a new sprint. The first sprint ever created on the board is
// promoted to Active whatever status was requested.
func (s *SprintService) Create(ctx context.Context, role model.Role, in SprintInput) (*model.Sprint, error) {
	if role != model.RoleManager {
		return nil, forbidden("Only managers can create sprints")
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = model.SprintPending
	}

	first, err := s.flags.Claim(ctx, model.FlagFirstSprintPromoted)
	if err != nil {
		return nil, storeFailure("Error creating sprint", err)
	}
	if first {
		status = model.SprintActive
	}

	sprint := &model.Sprint{
		ID:        uuid.New(),
		Name:      in.Name,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		Status:    status,
	}
	if err := s.sprints.Create(ctx, sprint); err != nil {
		if first {
			if rerr := s.flags.Release(ctx, model.FlagFirstSprintPromoted); rerr != nil {
				s.logger.Error("release first sprint flag", slog.String("error", rerr.Error()))
			}
		}
		return nil, storeFailure("Error creating sprint", err)
	}

	if first {
		s.logger.Info("first sprint promoted to Active", slog.String("sprint_id", sprint.ID.String()))
	}
	return sprint, nil
}

// List returns every sprint after completing the ones past their end date.
// This read writes: expired sprints are persisted as Completed before they are returned.
func (s *SprintService) List(ctx context.Context) ([]model.Sprint, error) {
	sprints, err := s.sprints.List(ctx)
	if err != nil {
		return nil, storeFailure("Error fetching sprints", err)
	}
	if err := s.reconcile(ctx, sprints); err != nil {
		return nil, err
	}
	return sprints, nil
}

// Get returns the sprint without reconciling it.
func (s *SprintService) Get(ctx context.Context, id uuid.UUID) (*model.Sprint, error) {
	sprint, err := s.sprints.GetByID(ctx, id)
	if err != nil {
		return nil, storeFailure("Error fetching sprint", err)
	}
	if sprint == nil {
		return nil, notFound("Sprint not found")
	}
	return sprint, nil
}

// Update applies a manager edit. Status changes are not forced forward: a manager
// may reopen a Completed sprint, which is only logged.
func (s *SprintService) Update(ctx context.Context, role model.Role, id uuid.UUID, patch SprintPatch) (*model.Sprint, error) {
	if role != model.RoleManager {
		return nil, forbidden("Only managers can update sprints")
	}
	if err := validateStruct(patch); err != nil {
		return nil, err
	}

	sprint, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := sprint.Status
	if patch.Name != nil {
		sprint.Name = *patch.Name
	}
	if patch.StartDate != nil {
		sprint.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		sprint.EndDate = *patch.EndDate
	}
	if patch.Status != nil {
		sprint.Status = *patch.Status
	}
	if sprint.EndDate.Before(sprint.StartDate) {
		return nil, invalid("endDate must not be before startDate")
	}

	if err := s.sprints.Update(ctx, sprint); err != nil {
		if errors.Is(err, repository.ErrSprintNotFound) {
			return nil, notFound("Sprint not found")
		}
		return nil, storeFailure("Error updating sprint", err)
	}

	if previous == model.SprintCompleted && sprint.Status != model.SprintCompleted {
		s.logger.Warn("completed sprint reopened",
			slog.String("sprint_id", sprint.ID.String()),
			slog.String("status", string(sprint.Status)),
		)
	}
	return sprint, nil
}

// CheckAcceptsNewTasks fails with SprintClosed when the sprint's end date has passed,
// completing the sprint first if it was still open.
func (s *SprintService) CheckAcceptsNewTasks(ctx context.Context, id uuid.UUID) (*model.Sprint, error) {
	sprint, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if sprint.Expired(s.now()) {
		batch := []model.Sprint{*sprint}
		if err := s.reconcile(ctx, batch); err != nil {
			return nil, err
		}
		return nil, &Error{Kind: KindSprintClosed, Msg: "Cannot add tasks to a sprint past its end date"}
	}
	return sprint, nil
}

// reconcile persists Completed for every expired, unfinished sprint in one
// update-many and mirrors the change into the given slice.
func (s *SprintService) reconcile(ctx context.Context, sprints []model.Sprint) error {
	now := s.now()

	var (
		ids     []uuid.UUID
		indexes []int
	)
	for i := range sprints {
		if sprints[i].Expired(now) && sprints[i].Status != model.SprintCompleted {
			ids = append(ids, sprints[i].ID)
			indexes = append(indexes, i)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	if err := s.sprints.MarkCompleted(ctx, ids); err != nil {
		return storeFailure("Error completing sprints", err)
	}
	for _, i := range indexes {
		sprints[i].Status = model.SprintCompleted
	}

	s.logger.Info("sprints completed past end date", slog.Int("count", len(ids)))
	return nil
}
