package handler

import (
	"context"
	"net/http"

	"workforce/internal/apierror"
	"workforce/internal/dto"
	"workforce/internal/middleware"
	"workforce/internal/model"
	"workforce/internal/service"
	"workforce/internal/session"

	"github.com/gin-gonic/gin"
)

type TasksHandler struct{ svc service.TaskService }

func NewTasksHandler(svc service.TaskService) *TasksHandler { return &TasksHandler{svc: svc} }

// List GET /api/tasks?company_id=&assigned_to=&priority=&status=
func (h *TasksHandler) List(c *gin.Context) {
	assignedTo, ok := optionalInt64(c, "assigned_to")
	if !ok {
		return
	}
	q := dto.TaskQuery{
		CompanyID:  c.Query("company_id"),
		AssignedTo: assignedTo,
		Priority:   c.Query("priority"),
		Status:     c.Query("status"),
	}
	tasks, err := h.svc.List(c.Request.Context(), middleware.GetClaims(c), q)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, tasks)
}

// Create POST /api/tasks
func (h *TasksHandler) Create(c *gin.Context) {
	var req dto.CreateTaskRequest
	if !bindAndValidate(c, &req) {
		return
	}
	t, err := h.svc.Create(c.Request.Context(), middleware.GetClaims(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusCreated, t)
}

// Update PATCH /api/tasks. A body carrying subtask_id patches that subtask.
func (h *TasksHandler) Update(c *gin.Context) {
	var req dto.UpdateTaskRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	var (
		out interface{}
		err error
	)
	switch {
	case req.SubtaskID != nil:
		out, err = h.svc.UpdateSubtask(c.Request.Context(), claims, req)
	case req.ID != nil:
		out, err = h.svc.Update(c.Request.Context(), claims, req)
	default:
		c.JSON(http.StatusBadRequest, apierror.New("id or subtask_id is required"))
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, out)
}

// Delete DELETE /api/tasks
func (h *TasksHandler) Delete(c *gin.Context) {
	var req dto.DeleteTaskRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	var err error
	switch {
	case req.SubtaskID != nil:
		err = h.svc.DeleteSubtask(c.Request.Context(), claims, *req.SubtaskID)
	case req.ID != nil:
		err = h.svc.Delete(c.Request.Context(), claims, *req.ID)
	default:
		c.JSON(http.StatusBadRequest, apierror.New("id or subtask_id is required"))
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.OK{OK: true})
}

// CreateSubtask POST /api/tasks/subtasks
func (h *TasksHandler) CreateSubtask(c *gin.Context) {
	var req dto.CreateSubtaskRequest
	if !bindAndValidate(c, &req) {
		return
	}
	st, err := h.svc.CreateSubtask(c.Request.Context(), middleware.GetClaims(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusCreated, st)
}

// Start POST /api/tasks/:id/start
func (h *TasksHandler) Start(c *gin.Context) { h.transition(c, h.svc.Start) }

// Pause POST /api/tasks/:id/pause
func (h *TasksHandler) Pause(c *gin.Context) { h.transition(c, h.svc.Pause) }

// Complete POST /api/tasks/:id/complete
func (h *TasksHandler) Complete(c *gin.Context) { h.transition(c, h.svc.Complete) }

// Block POST /api/tasks/:id/block
func (h *TasksHandler) Block(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.BlockTaskRequest
	if !bindAndValidate(c, &req) {
		return
	}
	t, err := h.svc.Block(c.Request.Context(), middleware.GetClaims(c), id, req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, t)
}

func (h *TasksHandler) transition(c *gin.Context, fn func(context.Context, *session.Claims, int64) (*model.Task, error)) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	t, err := fn(c.Request.Context(), middleware.GetClaims(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, t)
}
