package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Anthanoess/task-app/internal/middleware"
	"github.com/Anthanoess/task-app/internal/model"
	"github.com/Anthanoess/task-app/internal/service"
)

type SprintHandler struct {
	sprints SprintService
	logger  *slog.Logger
}

func NewSprintHandler(sprints SprintService, logger *slog.Logger) *SprintHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SprintHandler{sprints: sprints, logger: logger}
}

type SprintRequest struct {
	Name      string `json:"name"`
	StartDate *Date  `json:"startDate" swaggertype:"string"`
	EndDate   *Date  `json:"endDate" swaggertype:"string"`
	Status    string `json:"status"`
}

type SprintUpdateRequest struct {
	Name      *string `json:"name"`
	StartDate *Date   `json:"startDate" swaggertype:"string"`
	EndDate   *Date   `json:"endDate" swaggertype:"string"`
	Status    *string `json:"status"`
}

// Create godoc
// @Summary  Create a sprint (managers only)
// @Tags     sprints
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body SprintRequest true "Sprint"
// @Success  201 {object} SprintResponse
// @Failure  400 {object} ErrorResponse
// @Failure  403 {object} ErrorResponse
// @Router   /sprints [post]
func (h *SprintHandler) Create(c *gin.Context) {
	var req SprintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	in := service.SprintInput{
		Name:   req.Name,
		Status: model.SprintStatus(req.Status),
	}
	if req.StartDate != nil {
		in.StartDate = req.StartDate.Time
	}
	if req.EndDate != nil {
		in.EndDate = req.EndDate.Time
	}

	sprint, err := h.sprints.Create(c.Request.Context(), middleware.CurrentRole(c), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, newSprintResponse(sprint))
}

// List godoc
// @Summary  List sprints, completing the ones past their end date
// @Tags     sprints
// @Produce  json
// @Security BearerAuth
// @Success  200 {array} SprintResponse
// @Router   /sprints [get]
func (h *SprintHandler) List(c *gin.Context) {
	sprints, err := h.sprints.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	resp := make([]SprintResponse, 0, len(sprints))
	for i := range sprints {
		resp = append(resp, newSprintResponse(&sprints[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary  Edit a sprint (managers only)
// @Tags     sprints
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id   path string              true "Sprint ID"
// @Param    body body SprintUpdateRequest true "Changes"
// @Success  200 {object} SprintResponse
// @Failure  403 {object} ErrorResponse
// @Failure  404 {object} ErrorResponse
// @Router   /sprints/{id} [put]
func (h *SprintHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "sprint")
	if !ok {
		return
	}

	var req SprintUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	patch := service.SprintPatch{
		Name:      req.Name,
		StartDate: req.StartDate.ptr(),
		EndDate:   req.EndDate.ptr(),
	}
	if req.Status != nil {
		status := model.SprintStatus(*req.Status)
		patch.Status = &status
	}

	sprint, err := h.sprints.Update(c.Request.Context(), middleware.CurrentRole(c), id, patch)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, newSprintResponse(sprint))
}
