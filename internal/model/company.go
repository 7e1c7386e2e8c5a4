package model

import "time"

// Company is a tenant. Its ID is a slug derived from the name.
type Company struct {
	ID    string `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Name  string `gorm:"not null" json:"name"`
	Field string `json:"field"`
	Emoji string `json:"emoji"`
	Color string `json:"color"`
	// SigPasswordHash guards monthly signatures; empty means no password.
	SigPasswordHash string    `gorm:"column:sig_password" json:"-"`
	CreatedAt       time.Time `json:"created_at"`
}

func (Company) TableName() string { return "companies" }

// HasSigPassword reports whether signing a month for this company needs a password.
func (c *Company) HasSigPassword() bool { return c.SigPasswordHash != "" }
