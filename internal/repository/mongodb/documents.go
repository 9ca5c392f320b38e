package mongodb

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Anthanoess/task-app/internal/model"
)

type userDoc struct {
	ID             string    `bson:"_id"`
	Username       string    `bson:"username"`
	Email          string    `bson:"email"`
	HashedPassword string    `bson:"password"`
	Role           string    `bson:"role"`
	CreatedAt      time.Time `bson:"createdAt"`
}

type sprintDoc struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	StartDate time.Time `bson:"startDate"`
	EndDate   time.Time `bson:"endDate"`
	Status    string    `bson:"status"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

type taskDoc struct {
	ID          string    `bson:"_id"`
	Title       string    `bson:"title"`
	Description string    `bson:"description,omitempty"`
	Status      string    `bson:"status"`
	Priority    string    `bson:"priority"`
	AssignedTo  *string   `bson:"assignedTo"`
	Sprint      string    `bson:"sprint"`
	CreatedAt   time.Time `bson:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

func newUserDoc(u *model.User) userDoc {
	return userDoc{
		ID:             u.ID.String(),
		Username:       u.Username,
		Email:          u.Email,
		HashedPassword: u.HashedPassword,
		Role:           string(u.Role),
		CreatedAt:      u.CreatedAt,
	}
}

func (d userDoc) model() (model.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return model.User{}, fmt.Errorf("user %q: %w", d.ID, err)
	}
	return model.User{
		ID:             id,
		Username:       d.Username,
		Email:          d.Email,
		HashedPassword: d.HashedPassword,
		Role:           model.Role(d.Role),
		CreatedAt:      d.CreatedAt,
	}, nil
}

func newSprintDoc(s *model.Sprint) sprintDoc {
	return sprintDoc{
		ID:        s.ID.String(),
		Name:      s.Name,
		StartDate: s.StartDate,
		EndDate:   s.EndDate,
		Status:    string(s.Status),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func (d sprintDoc) model() (model.Sprint, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return model.Sprint{}, fmt.Errorf("sprint %q: %w", d.ID, err)
	}
	return model.Sprint{
		ID:        id,
		Name:      d.Name,
		StartDate: d.StartDate,
		EndDate:   d.EndDate,
		Status:    model.SprintStatus(d.Status),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}

func newTaskDoc(t *model.Task) taskDoc {
	doc := taskDoc{
		ID:          t.ID.String(),
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		Sprint:      t.SprintID.String(),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.AssignedTo != nil {
		assignee := t.AssignedTo.String()
		doc.AssignedTo = &assignee
	}
	return doc
}

func (d taskDoc) model() (model.Task, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return model.Task{}, fmt.Errorf("task %q: %w", d.ID, err)
	}
	sprintID, err := uuid.Parse(d.Sprint)
	if err != nil {
		return model.Task{}, fmt.Errorf("task %q sprint: %w", d.ID, err)
	}

	task := model.Task{
		ID:          id,
		Title:       d.Title,
		Description: d.Description,
		Status:      model.TaskStatus(d.Status),
		Priority:    model.TaskPriority(d.Priority),
		SprintID:    sprintID,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if d.AssignedTo != nil {
		assignee, err := uuid.Parse(*d.AssignedTo)
		if err != nil {
			return model.Task{}, fmt.Errorf("task %q assignee: %w", d.ID, err)
		}
		task.AssignedTo = &assignee
	}
	return task, nil
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
