package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Anthanoess/task-app/internal/handler"
	"github.com/Anthanoess/task-app/internal/model"
	"github.com/Anthanoess/task-app/internal/service"
)

func setupSprintTest(role model.Role) (*MockSprintService, http.Handler) {
	sprints := new(MockSprintService)
	h := handler.NewSprintHandler(sprints, quietLogger())

	r := newRouter(role)
	r.POST("/sprints", h.Create)
	r.GET("/sprints", h.List)
	r.PUT("/sprints/:id", h.Update)
	return sprints, r
}

func TestCreateSprint_AcceptsDateOnlyInput(t *testing.T) {
	// Arrange
	sprints, router := setupSprintTest(model.RoleManager)
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	created := &model.Sprint{ID: uuid.New(), Name: "Sprint 1", StartDate: start, EndDate: end, Status: model.SprintActive}
	sprints.On("Create", mock.Anything, model.RoleManager, service.SprintInput{
		Name:      "Sprint 1",
		StartDate: start,
		EndDate:   end,
	}).Return(created, nil)

	// Act
	resp := doJSON(router, "POST", "/sprints", `{"name":"Sprint 1","startDate":"2026-03-01","endDate":"2026-03-14"}`)

	// Assert
	require.Equal(t, http.StatusCreated, resp.Code)
	var body handler.SprintResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "Active", body.Status)
	assert.True(t, end.Equal(body.EndDate))
	sprints.AssertExpectations(t)
}

func TestCreateSprint_EmployeeForbidden(t *testing.T) {
	// Arrange
	sprints, router := setupSprintTest(model.RoleEmployee)
	sprints.On("Create", mock.Anything, model.RoleEmployee, mock.Anything).
		Return(nil, &service.Error{Kind: service.KindForbidden, Msg: "Only managers can create sprints"})

	// Act
	resp := doJSON(router, "POST", "/sprints", `{"name":"S","startDate":"2026-03-01T00:00:00Z","endDate":"2026-03-14T00:00:00Z"}`)

	// Assert
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Equal(t, "Only managers can create sprints", errorMessage(resp))
}

func TestCreateSprint_MalformedDate(t *testing.T) {
	sprints, router := setupSprintTest(model.RoleManager)

	resp := doJSON(router, "POST", "/sprints", `{"name":"S","startDate":"March first","endDate":"2026-03-14"}`)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	sprints.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestListSprints(t *testing.T) {
	// Arrange
	sprints, router := setupSprintTest(model.RoleEmployee)
	sprints.On("List", mock.Anything).Return([]model.Sprint{
		{ID: uuid.New(), Name: "Old", Status: model.SprintCompleted},
		{ID: uuid.New(), Name: "Now", Status: model.SprintActive},
	}, nil)

	// Act
	resp := doJSON(router, "GET", "/sprints", nil)

	// Assert
	require.Equal(t, http.StatusOK, resp.Code)
	var body []handler.SprintResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Len(t, body, 2)
	assert.Equal(t, "Completed", body[0].Status)
}

func TestUpdateSprint(t *testing.T) {
	id := uuid.New()
	name := "Renamed"
	completed := model.SprintCompleted

	tests := []struct {
		name       string
		path       string
		body       string
		setup      func(*MockSprintService)
		wantStatus int
	}{
		{
			name: "applies present fields only",
			path: "/sprints/" + id.String(),
			body: `{"name":"Renamed","status":"Completed"}`,
			setup: func(m *MockSprintService) {
				m.On("Update", mock.Anything, model.RoleManager, id, service.SprintPatch{Name: &name, Status: &completed}).
					Return(&model.Sprint{ID: id, Name: name, Status: completed}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "malformed id",
			path:       "/sprints/not-a-uuid",
			body:       `{}`,
			setup:      func(*MockSprintService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "unknown sprint",
			path: "/sprints/" + id.String(),
			body: `{"name":"Renamed"}`,
			setup: func(m *MockSprintService) {
				m.On("Update", mock.Anything, model.RoleManager, id, mock.Anything).
					Return(nil, &service.Error{Kind: service.KindNotFound, Msg: "Sprint not found"})
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sprints, router := setupSprintTest(model.RoleManager)
			tt.setup(sprints)

			resp := doJSON(router, "PUT", tt.path, tt.body)

			assert.Equal(t, tt.wantStatus, resp.Code)
			sprints.AssertExpectations(t)
		})
	}
}
