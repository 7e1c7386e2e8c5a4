package model

import "time"

// Roles. A Role is stored as text on the users table.
const (
	RoleAdmin    = "admin"
	RoleCEO      = "ceo"
	RoleEmployee = "employee"
	RoleWorker   = "worker"
)

// User is an account. PasswordHash is never serialized.
type User struct {
	ID           int64   `gorm:"primaryKey" json:"id"`
	Username     string  `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string  `gorm:"not null" json:"-"`
	Name         string  `gorm:"not null" json:"name"`
	Role         string  `gorm:"type:varchar(20);not null" json:"role"`
	CompanyID    *string `gorm:"type:varchar(64);index" json:"company_id"`
	Avatar       string  `json:"avatar"`
	AvatarColor  string  `json:"avatar_color"`
	IDType       string  `gorm:"type:varchar(10);default:id" json:"id_type"`
	IDNumber     *string `json:"id_number,omitempty"`
	Email        *string `json:"email,omitempty"`
	// CEOInterface lets an employee act with company-scoped admin rights.
	CEOInterface bool `gorm:"not null;default:false" json:"ceo_interface"`
	// FieldWorker restricts some destructive actions for an employee.
	FieldWorker bool      `gorm:"not null;default:false" json:"field_worker"`
	CreatedAt   time.Time `json:"created_at"`
}

func (User) TableName() string { return "users" }

// InCompany reports whether the user belongs to company id.
func (u *User) InCompany(id string) bool {
	return u.CompanyID != nil && *u.CompanyID == id
}
