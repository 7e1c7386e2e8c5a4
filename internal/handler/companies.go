package handler

import (
	"net/http"

	"workforce/internal/dto"
	"workforce/internal/middleware"
	"workforce/internal/service"

	"github.com/gin-gonic/gin"
)

type CompaniesHandler struct{ svc service.CompanyService }

func NewCompaniesHandler(svc service.CompanyService) *CompaniesHandler {
	return &CompaniesHandler{svc: svc}
}

// List GET /api/companies
func (h *CompaniesHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context(), middleware.GetClaims(c))
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, list)
}

// Create POST /api/companies
func (h *CompaniesHandler) Create(c *gin.Context) {
	var req dto.CreateCompanyRequest
	if !bindAndValidate(c, &req) {
		return
	}
	company, err := h.svc.Create(c.Request.Context(), middleware.GetClaims(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusCreated, company)
}

// Update PATCH /api/companies
func (h *CompaniesHandler) Update(c *gin.Context) {
	var req dto.UpdateCompanyRequest
	if !bindAndValidate(c, &req) {
		return
	}
	company, err := h.svc.Update(c.Request.Context(), middleware.GetClaims(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, company)
}

// Delete DELETE /api/companies
func (h *CompaniesHandler) Delete(c *gin.Context) {
	var req dto.SlugRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.GetClaims(c), req.ID); err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.OK{OK: true})
}
