// Package session defines the signed session carried in the cookie or the
// Bearer header, and the role-scoping rules derived from it.
package session

import (
	"workforce/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

// Effective roles. A flagged employee acts as "ceo" or "fieldWorker".
const (
	EffectiveCEO         = "ceo"
	EffectiveFieldWorker = "fieldWorker"
)

// Claims are the custom claims embedded in every session token.
type Claims struct {
	UserID       int64   `json:"userId"`
	Username     string  `json:"username"`
	Role         string  `json:"role"`
	CompanyID    *string `json:"companyId"`
	CEOInterface bool    `json:"ceoInterface"`
	FieldWorker  bool    `json:"fieldWorker"`
	jwt.RegisteredClaims
}

// FromUser builds the session payload for u. It never includes the password hash.
func FromUser(u *model.User) Claims {
	return Claims{
		UserID:       u.ID,
		Username:     u.Username,
		Role:         u.Role,
		CompanyID:    u.CompanyID,
		CEOInterface: u.CEOInterface,
		FieldWorker:  u.FieldWorker,
	}
}

func (c *Claims) IsAdmin() bool  { return c.Role == model.RoleAdmin }
func (c *Claims) IsWorker() bool { return c.Role == model.RoleWorker }

// ActsAsCEO is true for a ceo and for an employee with the CEO interface flag.
func (c *Claims) ActsAsCEO() bool {
	return c.Role == model.RoleCEO || (c.Role == model.RoleEmployee && c.CEOInterface)
}

// IsFieldWorker is true for an employee flagged as field worker.
func (c *Claims) IsFieldWorker() bool {
	return c.Role == model.RoleEmployee && c.FieldWorker
}

// IsPlainEmployee is an employee with no capability flag granting company scope.
func (c *Claims) IsPlainEmployee() bool {
	return c.Role == model.RoleEmployee && !c.CEOInterface
}

// EffectiveRole folds the capability flags into the role.
// Field worker wins over CEO interface when both flags are set.
func (c *Claims) EffectiveRole() string {
	if c.Role == model.RoleEmployee {
		switch {
		case c.FieldWorker:
			return EffectiveFieldWorker
		case c.CEOInterface:
			return EffectiveCEO
		}
	}
	return c.Role
}

// HasRole reports whether either the stored or the effective role is listed.
func (c *Claims) HasRole(roles ...string) bool {
	eff := c.EffectiveRole()
	for _, r := range roles {
		if r == c.Role || r == eff {
			return true
		}
	}
	return false
}

// Company returns the caller's company id or "" when they have none.
func (c *Claims) Company() string {
	if c.CompanyID == nil {
		return ""
	}
	return *c.CompanyID
}

// CanAccessCompany: admins reach every company, everybody else only their own.
func (c *Claims) CanAccessCompany(id string) bool {
	if c.IsAdmin() {
		return true
	}
	return id != "" && c.Company() == id
}
