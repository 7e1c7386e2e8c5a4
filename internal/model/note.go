package model

import "time"

// Note is the single free-text note of a user.
type Note struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"uniqueIndex;not null" json:"user_id"`
	Content   string    `gorm:"not null;default:''" json:"content"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Note) TableName() string { return "notes" }
