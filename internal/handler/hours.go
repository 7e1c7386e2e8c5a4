package handler

import (
	"net/http"

	"workforce/internal/dto"
	"workforce/internal/middleware"
	"workforce/internal/service"

	"github.com/gin-gonic/gin"
)

type HoursHandler struct{ svc service.HoursService }

func NewHoursHandler(svc service.HoursService) *HoursHandler { return &HoursHandler{svc: svc} }

func hoursQuery(c *gin.Context) (dto.HoursQuery, bool) {
	var q dto.HoursQuery
	var ok bool
	if q.WorkerID, ok = optionalInt64(c, "worker_id"); !ok {
		return q, false
	}
	if q.Year, ok = optionalInt(c, "year"); !ok {
		return q, false
	}
	if q.Month, ok = optionalInt(c, "month"); !ok {
		return q, false
	}
	return q, true
}

// Month godoc
// @Summary Hours of one worker for a month
// @Tags hours
// @Produce json
// @Param worker_id query int false "Worker (defaults to the caller)"
// @Param year query int false "Year"
// @Param month query int false "Month 1-12"
// @Success 200 {object} dto.HoursMonthResponse
// @Failure 403 {object} apierror.APIError
// @Router /api/hours [get]
func (h *HoursHandler) Month(c *gin.Context) {
	q, ok := hoursQuery(c)
	if !ok {
		return
	}
	resp, err := h.svc.Month(c.Request.Context(), middleware.GetClaims(c), q)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, resp)
}

// Upsert POST /api/hours
func (h *HoursHandler) Upsert(c *gin.Context) {
	var req dto.UpsertHoursRequest
	if !bindAndValidate(c, &req) {
		return
	}
	row, err := h.svc.Upsert(c.Request.Context(), middleware.GetClaims(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, row)
}

// Delete DELETE /api/hours
func (h *HoursHandler) Delete(c *gin.Context) {
	var req dto.DeleteHoursRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.GetClaims(c), req); err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.OK{OK: true})
}

// Report GET /api/hours/report returns the month as a PDF.
func (h *HoursHandler) Report(c *gin.Context) {
	q, ok := hoursQuery(c)
	if !ok {
		return
	}
	pdf, err := h.svc.Report(c.Request.Context(), middleware.GetClaims(c), q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="timesheet.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
