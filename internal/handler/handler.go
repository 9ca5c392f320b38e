package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Anthanoess/task-app/internal/model"
	"github.com/Anthanoess/task-app/internal/service"
)

type UserService interface {
	Login(ctx context.Context, username, password string) (string, model.Role, error)
	Register(ctx context.Context, in service.RegisterInput) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
}

type SprintService interface {
	Create(ctx context.Context, role model.Role, in service.SprintInput) (*model.Sprint, error)
	List(ctx context.Context) ([]model.Sprint, error)
	Update(ctx context.Context, role model.Role, id uuid.UUID, patch service.SprintPatch) (*model.Sprint, error)
}

type TaskService interface {
	Create(ctx context.Context, in service.TaskInput) (*model.Task, error)
	Update(ctx context.Context, id uuid.UUID, patch service.TaskPatch) (*model.Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]model.Task, error)
	BatchUpdateStatus(ctx context.Context, ids []uuid.UUID, status model.TaskStatus) ([]model.Task, error)
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// respondError writes the status matching err's kind. Store failures are logged
// and reported with their operation message only.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	status := statusFor(service.KindOf(err))

	msg := "Internal server error"
	var se *service.Error
	if errors.As(err, &se) && se.Msg != "" {
		msg = se.Msg
	}

	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.String("error", err.Error()),
		)
	}
	c.JSON(status, gin.H{"error": msg})
}

func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindUnauthorized:
		return http.StatusUnauthorized
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindValidation, service.KindSprintClosed:
		return http.StatusBadRequest
	case service.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func parseIDParam(c *gin.Context, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + what + " ID format"})
		return uuid.Nil, false
	}
	return id, true
}

func parseOptionalID(raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// Date accepts RFC 3339 timestamps as well as bare YYYY-MM-DD dates, which the
// browser's date inputs send.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return errors.New("date must be a string")
	}
	s = s[1 : len(s)-1]

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return errors.New("date must be RFC 3339 or YYYY-MM-DD")
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return d.Time.MarshalJSON()
}

func (d *Date) ptr() *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

// OptionalID tells an absent JSON field apart from an explicit null.
type OptionalID struct {
	Set   bool
	Value *string
}

func (o *OptionalID) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Value = nil
		return nil
	}
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return errors.New("id must be a string")
	}
	v := string(b[1 : len(b)-1])
	o.Value = &v
	return nil
}
