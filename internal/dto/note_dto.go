package dto

type SaveNoteRequest struct {
	Content string `json:"content" validate:"max=20000"`
}
