package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Anthanoess/task-app/internal/handler"
	"github.com/Anthanoess/task-app/internal/model"
	"github.com/Anthanoess/task-app/internal/service"
)

func setupTaskTest() (*MockTaskService, http.Handler) {
	tasks := new(MockTaskService)
	h := handler.NewTaskHandler(tasks, quietLogger())

	r := newRouter(model.RoleEmployee)
	r.GET("/tasks", h.List)
	r.POST("/tasks", h.Create)
	r.POST("/tasks/batch-update", h.BatchUpdate)
	r.PUT("/tasks/:id", h.Update)
	r.DELETE("/tasks/:id", h.Delete)
	return tasks, r
}

func TestListTasks_PopulatesReferences(t *testing.T) {
	// Arrange
	tasks, router := setupTaskTest()
	userID, sprintID := uuid.New(), uuid.New()
	tasks.On("List", mock.Anything).Return([]model.Task{{
		ID:         uuid.New(),
		Title:      "Write docs",
		Status:     model.StatusPlanning,
		Priority:   model.PriorityHigh,
		AssignedTo: &userID,
		Assignee:   &model.User{ID: userID, Username: "carol", Email: "carol@example.com", HashedPassword: "hash"},
		SprintID:   sprintID,
		Sprint:     &model.Sprint{ID: sprintID, Name: "Sprint 1", Status: model.SprintActive},
	}}, nil)

	// Act
	resp := doJSON(router, "GET", "/tasks", nil)

	// Assert
	require.Equal(t, http.StatusOK, resp.Code)
	var body []handler.TaskResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Len(t, body, 1)
	require.NotNil(t, body[0].AssignedTo)
	assert.Equal(t, "carol", body[0].AssignedTo.Username)
	require.NotNil(t, body[0].Sprint)
	assert.Equal(t, "Sprint 1", body[0].Sprint.Name)
	assert.Equal(t, sprintID.String(), body[0].SprintID)
	assert.NotContains(t, resp.Body.String(), "hash")
}

func TestCreateTask(t *testing.T) {
	sprintID := uuid.New()

	tests := []struct {
		name       string
		body       string
		setup      func(*MockTaskService)
		wantStatus int
		wantError  string
	}{
		{
			name: "created",
			body: `{"title":"Fix login","sprint":"` + sprintID.String() + `"}`,
			setup: func(m *MockTaskService) {
				m.On("Create", mock.Anything, service.TaskInput{Title: "Fix login", SprintID: &sprintID}).
					Return(&model.Task{ID: uuid.New(), Title: "Fix login", Status: model.StatusPlanning, Priority: model.PriorityLow, SprintID: sprintID}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "missing sprint",
			body: `{"title":"Fix login"}`,
			setup: func(m *MockTaskService) {
				m.On("Create", mock.Anything, service.TaskInput{Title: "Fix login"}).
					Return(nil, &service.Error{Kind: service.KindValidation, Msg: "Sprint ID is required"})
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "Sprint ID is required",
		},
		{
			name:       "malformed sprint id",
			body:       `{"title":"Fix login","sprint":"abc"}`,
			setup:      func(*MockTaskService) {},
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid sprint ID format",
		},
		{
			name: "sprint closed",
			body: `{"title":"Late","sprint":"` + sprintID.String() + `"}`,
			setup: func(m *MockTaskService) {
				m.On("Create", mock.Anything, mock.Anything).
					Return(nil, &service.Error{Kind: service.KindSprintClosed, Msg: "Cannot add tasks to a sprint past its end date"})
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "Cannot add tasks to a sprint past its end date",
		},
		{
			name: "unknown sprint",
			body: `{"title":"Lost","sprint":"` + sprintID.String() + `"}`,
			setup: func(m *MockTaskService) {
				m.On("Create", mock.Anything, mock.Anything).
					Return(nil, &service.Error{Kind: service.KindNotFound, Msg: "Sprint not found"})
			},
			wantStatus: http.StatusNotFound,
			wantError:  "Sprint not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, router := setupTaskTest()
			tt.setup(tasks)

			resp := doJSON(router, "POST", "/tasks", tt.body)

			assert.Equal(t, tt.wantStatus, resp.Code)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, errorMessage(resp))
			}
			tasks.AssertExpectations(t)
		})
	}
}

func TestUpdateTask_NullAssigneeClears(t *testing.T) {
	// Arrange
	tasks, router := setupTaskTest()
	id := uuid.New()
	tasks.On("Update", mock.Anything, id, service.TaskPatch{ClearAssignee: true}).
		Return(&model.Task{ID: id, Title: "T", Status: model.StatusPlanning}, nil)

	// Act
	resp := doJSON(router, "PUT", "/tasks/"+id.String(), `{"assignedTo":null}`)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	tasks.AssertExpectations(t)
}

func TestUpdateTask_AbsentAssigneeUntouched(t *testing.T) {
	// Arrange
	tasks, router := setupTaskTest()
	id := uuid.New()
	title := "Renamed"
	review := model.StatusReview
	tasks.On("Update", mock.Anything, id, service.TaskPatch{Title: &title, Status: &review}).
		Return(&model.Task{ID: id, Title: title, Status: review}, nil)

	// Act
	resp := doJSON(router, "PUT", "/tasks/"+id.String(), `{"title":"Renamed","status":"Review"}`)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	tasks.AssertExpectations(t)
}

func TestUpdateTask_NotFound(t *testing.T) {
	tasks, router := setupTaskTest()
	id := uuid.New()
	tasks.On("Update", mock.Anything, id, mock.Anything).
		Return(nil, &service.Error{Kind: service.KindNotFound, Msg: "Task not found"})

	resp := doJSON(router, "PUT", "/tasks/"+id.String(), `{"title":"x"}`)

	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "Task not found", errorMessage(resp))
}

func TestDeleteTask(t *testing.T) {
	// Arrange
	tasks, router := setupTaskTest()
	id := uuid.New()
	tasks.On("Delete", mock.Anything, id).Return(nil)

	// Act
	resp := doJSON(router, "DELETE", "/tasks/"+id.String(), nil)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Task deleted successfully")
}

func TestDeleteTask_NotFound(t *testing.T) {
	tasks, router := setupTaskTest()
	tasks.On("Delete", mock.Anything, mock.Anything).
		Return(&service.Error{Kind: service.KindNotFound, Msg: "Task not found"})

	resp := doJSON(router, "DELETE", "/tasks/"+uuid.NewString(), nil)

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestBatchUpdate_ReturnsFullList(t *testing.T) {
	// Arrange
	tasks, router := setupTaskTest()
	moved := uuid.New()
	tasks.On("BatchUpdateStatus", mock.Anything, []uuid.UUID{moved}, model.StatusExecution).Return([]model.Task{
		{ID: moved, Title: "Moved", Status: model.StatusExecution},
		{ID: uuid.New(), Title: "Other", Status: model.StatusPlanning},
	}, nil)

	// Act
	resp := doJSON(router, "POST", "/tasks/batch-update", handler.BatchUpdateRequest{
		TaskIDs:   []string{moved.String()},
		NewStatus: "Execution",
	})

	// Assert
	require.Equal(t, http.StatusOK, resp.Code)
	var body []handler.TaskResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Len(t, body, 2)
	tasks.AssertExpectations(t)
}

func TestBatchUpdate_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		setup func(*MockTaskService)
	}{
		{"malformed json", `{"taskIds":`, func(*MockTaskService) {}},
		{"malformed id", `{"taskIds":["nope"],"newStatus":"Review"}`, func(*MockTaskService) {}},
		{
			name: "missing status",
			body: `{"taskIds":["` + uuid.NewString() + `"]}`,
			setup: func(m *MockTaskService) {
				m.On("BatchUpdateStatus", mock.Anything, mock.Anything, model.TaskStatus("")).
					Return(nil, &service.Error{Kind: service.KindValidation, Msg: "Invalid request: taskIds and newStatus are required"})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, router := setupTaskTest()
			tt.setup(tasks)

			resp := doJSON(router, "POST", "/tasks/batch-update", tt.body)

			assert.Equal(t, http.StatusBadRequest, resp.Code)
			tasks.AssertExpectations(t)
		})
	}
}
