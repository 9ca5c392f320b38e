package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Anthanoess/task-app/internal/config"
	"github.com/Anthanoess/task-app/internal/handler"
	"github.com/Anthanoess/task-app/internal/notify"
	"github.com/Anthanoess/task-app/internal/server"
	"github.com/Anthanoess/task-app/internal/service/servicetest"
)

type capturingSender struct {
	sent chan notify.Message
}

func (s *capturingSender) Send(_ context.Context, msg notify.Message) error {
	s.sent <- msg
	return nil
}

func setupServer(t *testing.T) (*server.Server, *capturingSender) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.FromEnv()
	cfg.JWTSecret = "test-secret"
	cfg.NotifyWorkers = 1
	cfg.NotifyQueue = 16
	cfg.SeedManager = config.SeedUser{Username: "boss", Password: "password123", Email: "boss@example.com"}

	mem := servicetest.NewMemory()
	backend := &server.Backend{
		Users:   mem.Users(),
		Sprints: mem.Sprints(),
		Flags:   mem.Flags(),
		Tasks:   mem.Tasks(),
	}
	sender := &capturingSender{sent: make(chan notify.Message, 16)}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s, err := server.New(context.Background(), cfg, backend, sender, logger)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close(context.Background()) })
	return s, sender
}

func call(t *testing.T, s *server.Server, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	s.Engine.ServeHTTP(resp, req)
	return resp
}

func login(t *testing.T, s *server.Server, username, password string) string {
	t.Helper()
	resp := call(t, s, "POST", "/login", "", handler.LoginRequest{Username: username, Password: password})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var auth handler.AuthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &auth))
	return auth.Token
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &v), resp.Body.String())
	return v
}

func TestHealthz(t *testing.T) {
	s, _ := setupServer(t)

	resp := call(t, s, "GET", "/healthz", "", nil)

	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s, _ := setupServer(t)

	for _, path := range []string{"/users", "/tasks", "/sprints"} {
		resp := call(t, s, "GET", path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.Code, path)
	}
}

func TestBoardFlow(t *testing.T) {
	s, sender := setupServer(t)

	// The seeded manager logs in and opens the first sprint.
	managerToken := login(t, s, "boss", "password123")
	start := time.Now().UTC().Truncate(time.Second)
	resp := call(t, s, "POST", "/sprints", managerToken, map[string]string{
		"name":      "Sprint 1",
		"startDate": start.Format(time.RFC3339),
		"endDate":   start.Add(14 * 24 * time.Hour).Format(time.RFC3339),
		"status":    "Pending",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	sprint := decode[handler.SprintResponse](t, resp)
	assert.Equal(t, "Active", sprint.Status)

	// An employee signs up, cannot create sprints, but can work tasks.
	resp = call(t, s, "POST", "/register", "", handler.RegisterRequest{Username: "dev", Email: "dev@example.com", Password: "password123"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	dev := decode[handler.UserResponse](t, resp)
	devToken := login(t, s, "dev", "password123")

	resp = call(t, s, "POST", "/sprints", devToken, map[string]string{"name": "Nope"})
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Contains(t, resp.Body.String(), "Only managers can create sprints")

	resp = call(t, s, "POST", "/tasks", devToken, map[string]interface{}{
		"title":      "Fix login",
		"priority":   "high",
		"assignedTo": dev.ID,
		"sprint":     sprint.ID,
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	task := decode[handler.TaskResponse](t, resp)
	assert.Equal(t, "Planning", task.Status)

	select {
	case msg := <-sender.sent:
		assert.Equal(t, "dev@example.com", msg.To)
		assert.Equal(t, "New Task Assigned", msg.Subject)
	case <-time.After(2 * time.Second):
		t.Fatal("assignment e-mail not sent")
	}

	// Moving the task to Review returns the full board and mails the assignee.
	resp = call(t, s, "POST", "/tasks/batch-update", devToken, handler.BatchUpdateRequest{
		TaskIDs:   []string{task.ID},
		NewStatus: "Review",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	board := decode[[]handler.TaskResponse](t, resp)
	require.Len(t, board, 1)
	assert.Equal(t, "Review", board[0].Status)
	require.NotNil(t, board[0].Sprint)
	assert.Equal(t, "Sprint 1", board[0].Sprint.Name)

	select {
	case msg := <-sender.sent:
		assert.Equal(t, "Task Completed", msg.Subject)
		assert.Equal(t, `The task "Fix login" has been completed.`, msg.Body)
	case <-time.After(2 * time.Second):
		t.Fatal("completion e-mail not sent")
	}

	// Users are listed without credentials.
	resp = call(t, s, "GET", "/users", devToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.NotContains(t, resp.Body.String(), "password")
	assert.NotContains(t, resp.Body.String(), "@example.com")

	resp = call(t, s, "DELETE", "/tasks/"+task.ID, devToken, nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	resp = call(t, s, "DELETE", "/tasks/"+task.ID, devToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestExpiredSprintRejectsTasks(t *testing.T) {
	s, _ := setupServer(t)
	token := login(t, s, "boss", "password123")

	past := time.Now().UTC().Add(-72 * time.Hour)
	resp := call(t, s, "POST", "/sprints", token, map[string]string{
		"name":      "Old",
		"startDate": past.Format(time.RFC3339),
		"endDate":   past.Add(24 * time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	sprint := decode[handler.SprintResponse](t, resp)

	resp = call(t, s, "POST", "/tasks", token, map[string]string{"title": "Late", "sprint": sprint.ID})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "Cannot add tasks to a sprint past its end date")

	resp = call(t, s, "GET", "/sprints", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	sprints := decode[[]handler.SprintResponse](t, resp)
	require.Len(t, sprints, 1)
	assert.Equal(t, "Completed", sprints[0].Status)
}
