package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/Anthanoess/task-app/internal/handler"
	"github.com/Anthanoess/task-app/internal/middleware"
	"github.com/Anthanoess/task-app/internal/model"
	"github.com/Anthanoess/task-app/internal/service"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Login(ctx context.Context, username, password string) (string, model.Role, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.Get(1).(model.Role), args.Error(2)
}

func (m *MockUserService) Register(ctx context.Context, in service.RegisterInput) (*model.User, error) {
	args := m.Called(ctx, in)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*model.User), args.Error(1)
}

func (m *MockUserService) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	users := args.Get(0)
	if users == nil {
		return nil, args.Error(1)
	}
	return users.([]model.User), args.Error(1)
}

type MockSprintService struct {
	mock.Mock
}

func (m *MockSprintService) Create(ctx context.Context, role model.Role, in service.SprintInput) (*model.Sprint, error) {
	args := m.Called(ctx, role, in)
	sprint := args.Get(0)
	if sprint == nil {
		return nil, args.Error(1)
	}
	return sprint.(*model.Sprint), args.Error(1)
}

func (m *MockSprintService) List(ctx context.Context) ([]model.Sprint, error) {
	args := m.Called(ctx)
	sprints := args.Get(0)
	if sprints == nil {
		return nil, args.Error(1)
	}
	return sprints.([]model.Sprint), args.Error(1)
}

func (m *MockSprintService) Update(ctx context.Context, role model.Role, id uuid.UUID, patch service.SprintPatch) (*model.Sprint, error) {
	args := m.Called(ctx, role, id, patch)
	sprint := args.Get(0)
	if sprint == nil {
		return nil, args.Error(1)
	}
	return sprint.(*model.Sprint), args.Error(1)
}

type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) Create(ctx context.Context, in service.TaskInput) (*model.Task, error) {
	args := m.Called(ctx, in)
	task := args.Get(0)
	if task == nil {
		return nil, args.Error(1)
	}
	return task.(*model.Task), args.Error(1)
}

func (m *MockTaskService) Update(ctx context.Context, id uuid.UUID, patch service.TaskPatch) (*model.Task, error) {
	args := m.Called(ctx, id, patch)
	task := args.Get(0)
	if task == nil {
		return nil, args.Error(1)
	}
	return task.(*model.Task), args.Error(1)
}

func (m *MockTaskService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockTaskService) List(ctx context.Context) ([]model.Task, error) {
	args := m.Called(ctx)
	tasks := args.Get(0)
	if tasks == nil {
		return nil, args.Error(1)
	}
	return tasks.([]model.Task), args.Error(1)
}

func (m *MockTaskService) BatchUpdateStatus(ctx context.Context, ids []uuid.UUID, status model.TaskStatus) ([]model.Task, error) {
	args := m.Called(ctx, ids, status)
	tasks := args.Get(0)
	if tasks == nil {
		return nil, args.Error(1)
	}
	return tasks.([]model.Task), args.Error(1)
}

var (
	_ handler.UserService   = (*MockUserService)(nil)
	_ handler.SprintService = (*MockSprintService)(nil)
	_ handler.TaskService   = (*MockTaskService)(nil)
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// asRole stands in for the JWT middleware.
func asRole(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, uuid.New())
		c.Set(middleware.UserRoleKey, role)
		c.Next()
	}
}

func newRouter(role model.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if role != "" {
		r.Use(asRole(role))
	}
	return r
}

func doJSON(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewBuffer(raw)
	}
	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func errorMessage(resp *httptest.ResponseRecorder) string {
	var body map[string]string
	_ = json.Unmarshal(resp.Body.Bytes(), &body)
	return body["error"]
}
