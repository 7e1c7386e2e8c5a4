package service

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is lowered by tests.
var bcryptCost = 12

// HashPassword returns the bcrypt hash of plain.
func HashPassword(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// VerifyPassword compares plain with a stored hash. Seed data may carry
// plain-text values; anything that is not a bcrypt hash is compared verbatim.
func VerifyPassword(plain, hash string) bool {
	if !strings.HasPrefix(hash, "$2") {
		return subtle.ConstantTimeCompare([]byte(plain), []byte(hash)) == 1
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// NormalizeUsername trims and lower-cases a username before lookup or insert.
func NormalizeUsername(u string) string {
	return strings.ToLower(strings.TrimSpace(u))
}
