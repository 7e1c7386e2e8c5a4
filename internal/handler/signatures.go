package handler

import (
	"net/http"

	"workforce/internal/dto"
	"workforce/internal/middleware"
	"workforce/internal/service"

	"github.com/gin-gonic/gin"
)

type SignaturesHandler struct{ svc service.SignatureService }

func NewSignaturesHandler(svc service.SignatureService) *SignaturesHandler {
	return &SignaturesHandler{svc: svc}
}

// List GET /api/signatures?company_id=&worker_id=&year=&month=
func (h *SignaturesHandler) List(c *gin.Context) {
	q := dto.SignatureQuery{CompanyID: c.Query("company_id")}
	var ok bool
	if q.WorkerID, ok = optionalInt64(c, "worker_id"); !ok {
		return
	}
	if q.Year, ok = optionalInt(c, "year"); !ok {
		return
	}
	if q.Month, ok = optionalInt(c, "month"); !ok {
		return
	}
	list, err := h.svc.List(c.Request.Context(), middleware.GetClaims(c), q)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, list)
}

// Sign POST /api/signatures
func (h *SignaturesHandler) Sign(c *gin.Context) {
	var req dto.SignMonthRequest
	if !bindAndValidate(c, &req) {
		return
	}
	sig, err := h.svc.Sign(c.Request.Context(), middleware.GetClaims(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, sig)
}

// Delete DELETE /api/signatures
func (h *SignaturesHandler) Delete(c *gin.Context) {
	var req dto.DeleteSignatureRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.GetClaims(c), req); err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.OK{OK: true})
}
