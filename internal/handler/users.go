package handler

import (
	"net/http"

	"workforce/internal/dto"
	"workforce/internal/middleware"
	"workforce/internal/service"

	"github.com/gin-gonic/gin"
)

type UsersHandler struct{ svc service.UserService }

func NewUsersHandler(svc service.UserService) *UsersHandler { return &UsersHandler{svc: svc} }

// List GET /api/users?role=&company_id=
func (h *UsersHandler) List(c *gin.Context) {
	users, err := h.svc.List(c.Request.Context(), middleware.GetClaims(c), c.Query("role"), c.Query("company_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, users)
}

// Create POST /api/users
func (h *UsersHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if !bindAndValidate(c, &req) {
		return
	}
	u, err := h.svc.Create(c.Request.Context(), middleware.GetClaims(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusCreated, u)
}

// Update PATCH /api/users
func (h *UsersHandler) Update(c *gin.Context) {
	var req dto.UpdateUserRequest
	if !bindAndValidate(c, &req) {
		return
	}
	u, err := h.svc.Update(c.Request.Context(), middleware.GetClaims(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, u)
}

// Delete DELETE /api/users
func (h *UsersHandler) Delete(c *gin.Context) {
	var req dto.IDRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.GetClaims(c), req.ID); err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.OK{OK: true})
}
