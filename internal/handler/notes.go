package handler

import (
	"net/http"

	"workforce/internal/dto"
	"workforce/internal/middleware"
	"workforce/internal/service"

	"github.com/gin-gonic/gin"
)

type NotesHandler struct{ svc service.NoteService }

func NewNotesHandler(svc service.NoteService) *NotesHandler { return &NotesHandler{svc: svc} }

func (h *NotesHandler) Get(c *gin.Context) {
	n, err := h.svc.Get(c.Request.Context(), middleware.GetClaims(c))
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, n)
}

func (h *NotesHandler) Save(c *gin.Context) {
	var req dto.SaveNoteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	n, err := h.svc.Save(c.Request.Context(), middleware.GetClaims(c), req.Content)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, n)
}
