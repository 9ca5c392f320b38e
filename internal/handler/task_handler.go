package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Anthanoess/task-app/internal/model"
	"github.com/Anthanoess/task-app/internal/service"
)

type TaskHandler struct {
	tasks  TaskService
	logger *slog.Logger
}

func NewTaskHandler(tasks TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{tasks: tasks, logger: logger}
}

type TaskRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	AssignedTo  *string `json:"assignedTo"`
	Sprint      *string `json:"sprint"`
}

// TaskUpdateRequest only changes the fields present in the body; an explicit
// null assignedTo unassigns the task.
type TaskUpdateRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	AssignedTo  OptionalID `json:"assignedTo" swaggertype:"string"`
	Sprint      *string    `json:"sprint"`
}

type BatchUpdateRequest struct {
	TaskIDs   []string `json:"taskIds"`
	NewStatus string   `json:"newStatus"`
}

// List godoc
// @Summary  List every task with assignee and sprint resolved
// @Tags     tasks
// @Produce  json
// @Security BearerAuth
// @Success  200 {array} TaskResponse
// @Router   /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	tasks, err := h.tasks.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, newTaskResponses(tasks))
}

// Create godoc
// @Summary  Create a task in an open sprint
// @Tags     tasks
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body TaskRequest true "Task"
// @Success  201 {object} TaskResponse
// @Failure  400 {object} ErrorResponse
// @Failure  404 {object} ErrorResponse
// @Router   /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	sprintID, err := parseOptionalID(req.Sprint)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sprint ID format"})
		return
	}
	assignee, err := parseOptionalID(req.AssignedTo)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), service.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      model.TaskStatus(req.Status),
		Priority:    model.TaskPriority(req.Priority),
		AssignedTo:  assignee,
		SprintID:    sprintID,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, newTaskResponse(task))
}

// Update godoc
// @Summary  Edit a task
// @Tags     tasks
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id   path string            true "Task ID"
// @Param    body body TaskUpdateRequest true "Changes"
// @Success  200 {object} TaskResponse
// @Failure  404 {object} ErrorResponse
// @Router   /tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "task")
	if !ok {
		return
	}

	var req TaskUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	patch := service.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Status != nil {
		status := model.TaskStatus(*req.Status)
		patch.Status = &status
	}
	if req.Priority != nil {
		priority := model.TaskPriority(*req.Priority)
		patch.Priority = &priority
	}
	if req.AssignedTo.Set {
		assignee, err := parseOptionalID(req.AssignedTo.Value)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
			return
		}
		patch.AssignedTo = assignee
		patch.ClearAssignee = assignee == nil
	}
	if req.Sprint != nil {
		sprintID, err := parseOptionalID(req.Sprint)
		if err != nil || sprintID == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sprint ID format"})
			return
		}
		patch.SprintID = sprintID
	}

	task, err := h.tasks.Update(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, newTaskResponse(task))
}

// Delete godoc
// @Summary  Delete a task
// @Tags     tasks
// @Produce  json
// @Security BearerAuth
// @Param    id path string true "Task ID"
// @Success  200 {object} MessageResponse
// @Failure  404 {object} ErrorResponse
// @Router   /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "task")
	if !ok {
		return
	}

	if err := h.tasks.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Task deleted successfully"})
}

// BatchUpdate godoc
// @Summary  Move several tasks to one status
// @Description Returns the full task list so the board can resynchronise.
// @Tags     tasks
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body BatchUpdateRequest true "Tasks and target status"
// @Success  200 {array} TaskResponse
// @Failure  400 {object} ErrorResponse
// @Router   /tasks/batch-update [post]
func (h *TaskHandler) BatchUpdate(c *gin.Context) {
	var req BatchUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: taskIds and newStatus are required"})
		return
	}

	ids := make([]uuid.UUID, 0, len(req.TaskIDs))
	for _, raw := range req.TaskIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
			return
		}
		ids = append(ids, id)
	}

	tasks, err := h.tasks.BatchUpdateStatus(c.Request.Context(), ids, model.TaskStatus(req.NewStatus))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, newTaskResponses(tasks))
}
