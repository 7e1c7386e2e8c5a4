package dto

import (
	"time"

	"workforce/internal/model"
)

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SessionResponse mirrors the signed session payload.
type SessionResponse struct {
	UserID       int64   `json:"userId"`
	Username     string  `json:"username"`
	Role         string  `json:"role"`
	CompanyID    *string `json:"companyId"`
	CEOInterface bool    `json:"ceoInterface"`
	FieldWorker  bool    `json:"fieldWorker"`
}

type LoginResponse struct {
	User      *model.User     `json:"user"`
	Session   SessionResponse `json:"session"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
}

type MeResponse struct {
	User    *model.User     `json:"user"`
	Session SessionResponse `json:"session"`
}
