package handler

import (
	"time"

	"github.com/Anthanoess/task-app/internal/model"
)

type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
}

type SprintResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Status    string    `json:"status"`
}

// TaskResponse carries the raw references plus their resolved entities when loaded.
type TaskResponse struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Status      string          `json:"status"`
	Priority    string          `json:"priority"`
	AssigneeID  *string         `json:"assigneeId"`
	AssignedTo  *UserResponse   `json:"assignedTo"`
	SprintID    string          `json:"sprintId"`
	Sprint      *SprintResponse `json:"sprint,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func newUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:       u.ID.String(),
		Username: u.Username,
		Email:    u.Email,
		Role:     string(u.Role),
	}
}

// newUserSummary is the assignment-picker view of a user: no contact details or role.
func newUserSummary(u *model.User) UserResponse {
	return UserResponse{ID: u.ID.String(), Username: u.Username}
}

func newSprintResponse(s *model.Sprint) SprintResponse {
	return SprintResponse{
		ID:        s.ID.String(),
		Name:      s.Name,
		StartDate: s.StartDate,
		EndDate:   s.EndDate,
		Status:    string(s.Status),
	}
}

func newTaskResponse(t *model.Task) TaskResponse {
	resp := TaskResponse{
		ID:          t.ID.String(),
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		SprintID:    t.SprintID.String(),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.AssignedTo != nil {
		id := t.AssignedTo.String()
		resp.AssigneeID = &id
	}
	if t.Assignee != nil {
		u := newUserResponse(t.Assignee)
		u.Role = ""
		resp.AssignedTo = &u
	}
	if t.Sprint != nil {
		s := newSprintResponse(t.Sprint)
		resp.Sprint = &s
	}
	return resp
}

func newTaskResponses(tasks []model.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, newTaskResponse(&tasks[i]))
	}
	return out
}
