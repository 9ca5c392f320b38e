// Package client talks to the task server over HTTP. It implements board.API so
// the terminal board can drive the same endpoints as the web front end.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Anthanoess/task-app/internal/board"
	"github.com/Anthanoess/task-app/internal/handler"
	"github.com/Anthanoess/task-app/internal/model"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Token() string { return c.token }

// Login exchanges credentials for a token and keeps it for later calls.
func (c *Client) Login(ctx context.Context, username, password string) (handler.AuthResponse, error) {
	var resp handler.AuthResponse
	err := c.do(ctx, http.MethodPost, "/login", handler.LoginRequest{Username: username, Password: password}, &resp)
	if err != nil {
		return handler.AuthResponse{}, err
	}
	c.token = resp.Token
	return resp, nil
}

func (c *Client) Register(ctx context.Context, req handler.RegisterRequest) (handler.UserResponse, error) {
	var user handler.UserResponse
	if err := c.do(ctx, http.MethodPost, "/register", req, &user); err != nil {
		return handler.UserResponse{}, err
	}
	return user, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]handler.UserResponse, error) {
	var users []handler.UserResponse
	if err := c.do(ctx, http.MethodGet, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) ListSprints(ctx context.Context) ([]board.Sprint, error) {
	var resp []handler.SprintResponse
	if err := c.do(ctx, http.MethodGet, "/sprints", nil, &resp); err != nil {
		return nil, err
	}
	out := make([]board.Sprint, 0, len(resp))
	for _, s := range resp {
		out = append(out, toSprint(s))
	}
	return out, nil
}

func (c *Client) CreateSprint(ctx context.Context, req handler.SprintRequest) (board.Sprint, error) {
	var resp handler.SprintResponse
	if err := c.do(ctx, http.MethodPost, "/sprints", req, &resp); err != nil {
		return board.Sprint{}, err
	}
	return toSprint(resp), nil
}

func (c *Client) UpdateSprint(ctx context.Context, id string, req handler.SprintUpdateRequest) (board.Sprint, error) {
	var resp handler.SprintResponse
	if err := c.do(ctx, http.MethodPut, "/sprints/"+url.PathEscape(id), req, &resp); err != nil {
		return board.Sprint{}, err
	}
	return toSprint(resp), nil
}

func (c *Client) ListTasks(ctx context.Context) ([]board.Task, error) {
	var resp []handler.TaskResponse
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, &resp); err != nil {
		return nil, err
	}
	return toTasks(resp), nil
}

func (c *Client) CreateTask(ctx context.Context, req handler.TaskRequest) (board.Task, error) {
	var resp handler.TaskResponse
	if err := c.do(ctx, http.MethodPost, "/tasks", req, &resp); err != nil {
		return board.Task{}, err
	}
	return toTask(resp), nil
}

// TaskPatch lists the fields to change. Unassign clears the assignee and wins
// over AssignedTo.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *model.TaskStatus
	Priority    *model.TaskPriority
	AssignedTo  *string
	Unassign    bool
	Sprint      *string
}

func (p TaskPatch) body() map[string]any {
	body := map[string]any{}
	if p.Title != nil {
		body["title"] = *p.Title
	}
	if p.Description != nil {
		body["description"] = *p.Description
	}
	if p.Status != nil {
		body["status"] = *p.Status
	}
	if p.Priority != nil {
		body["priority"] = *p.Priority
	}
	switch {
	case p.Unassign:
		body["assignedTo"] = nil
	case p.AssignedTo != nil:
		body["assignedTo"] = *p.AssignedTo
	}
	if p.Sprint != nil {
		body["sprint"] = *p.Sprint
	}
	return body
}

func (c *Client) UpdateTask(ctx context.Context, id string, patch TaskPatch) (board.Task, error) {
	var resp handler.TaskResponse
	if err := c.do(ctx, http.MethodPut, "/tasks/"+url.PathEscape(id), patch.body(), &resp); err != nil {
		return board.Task{}, err
	}
	return toTask(resp), nil
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(id), nil, nil)
}

// BatchUpdateStatus moves tasks to status and returns the full task list.
func (c *Client) BatchUpdateStatus(ctx context.Context, ids []string, status model.TaskStatus) ([]board.Task, error) {
	var resp []handler.TaskResponse
	req := handler.BatchUpdateRequest{TaskIDs: ids, NewStatus: string(status)}
	if err := c.do(ctx, http.MethodPost, "/tasks/batch-update", req, &resp); err != nil {
		return nil, err
	}
	return toTasks(resp), nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e handler.ErrorResponse
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		if json.Unmarshal(raw, &e) != nil || e.Error == "" {
			e.Error = strings.TrimSpace(string(raw))
		}
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func toSprint(s handler.SprintResponse) board.Sprint {
	return board.Sprint{
		ID:        s.ID,
		Name:      s.Name,
		StartDate: s.StartDate,
		EndDate:   s.EndDate,
		Status:    model.SprintStatus(s.Status),
	}
}

func toTask(t handler.TaskResponse) board.Task {
	task := board.Task{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      model.TaskStatus(t.Status),
		Priority:    model.TaskPriority(t.Priority),
		SprintID:    t.SprintID,
	}
	if t.AssigneeID != nil {
		task.AssigneeID = *t.AssigneeID
	}
	if t.AssignedTo != nil {
		task.Assignee = t.AssignedTo.Username
	}
	return task
}

func toTasks(resp []handler.TaskResponse) []board.Task {
	out := make([]board.Task, 0, len(resp))
	for _, t := range resp {
		out = append(out, toTask(t))
	}
	return out
}
