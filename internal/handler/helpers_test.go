package handler

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"workforce/internal/dto"
	"workforce/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() { gin.SetMode(gin.TestMode) }

func TestWriteError_StatusMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{&service.Error{Kind: service.ErrBadRequest, Msg: "x"}, http.StatusBadRequest},
		{&service.Error{Kind: service.ErrUnauthorized, Msg: "x"}, http.StatusUnauthorized},
		{&service.Error{Kind: service.ErrForbidden, Msg: "x"}, http.StatusForbidden},
		{&service.Error{Kind: service.ErrNotFound, Msg: "x"}, http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", &service.Error{Kind: service.ErrConflict, Msg: "x"}), http.StatusConflict},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		writeError(c, tc.err)
		assert.Equal(t, tc.status, w.Code, tc.err.Error())
		assert.Contains(t, w.Body.String(), `"error"`)
	}
}

func TestBindAndValidate_DecimalHours(t *testing.T) {
	cases := map[string]int{
		`{"work_date":"2026-03-01","hours":7.5}`:  http.StatusOK,
		`{"work_date":"2026-03-01","hours":24.5}`: http.StatusBadRequest,
		`{"work_date":"2026-03-01","hours":-1}`:   http.StatusBadRequest,
		`{"work_date":"03/01/2026","hours":1}`:    http.StatusBadRequest,
		`{"work_date":`:                           http.StatusBadRequest,
	}
	for body, want := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
		c.Request.Header.Set("Content-Type", "application/json")

		var req dto.UpsertHoursRequest
		if bindAndValidate(c, &req) {
			c.Status(http.StatusOK)
		}
		assert.Equal(t, want, w.Code, body)
	}
}
