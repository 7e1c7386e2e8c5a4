package handler

import (
	"net/http"

	"workforce/internal/dto"
	"workforce/internal/middleware"
	"workforce/internal/service"

	"github.com/gin-gonic/gin"
)

type RequestsHandler struct{ svc service.RequestService }

func NewRequestsHandler(svc service.RequestService) *RequestsHandler {
	return &RequestsHandler{svc: svc}
}

// List GET /api/requests?status=&company_id=
func (h *RequestsHandler) List(c *gin.Context) {
	q := dto.RequestQuery{Status: c.Query("status"), CompanyID: c.Query("company_id")}
	list, err := h.svc.List(c.Request.Context(), middleware.GetClaims(c), q)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, list)
}

// Create POST /api/requests
func (h *RequestsHandler) Create(c *gin.Context) {
	var req dto.CreateRequestRequest
	if !bindAndValidate(c, &req) {
		return
	}
	r, err := h.svc.Create(c.Request.Context(), middleware.GetClaims(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusCreated, r)
}

// Update PATCH /api/requests
func (h *RequestsHandler) Update(c *gin.Context) {
	var req dto.UpdateRequestRequest
	if !bindAndValidate(c, &req) {
		return
	}
	r, err := h.svc.Update(c.Request.Context(), middleware.GetClaims(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, r)
}

// Delete DELETE /api/requests
func (h *RequestsHandler) Delete(c *gin.Context) {
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
