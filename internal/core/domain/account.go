package domain

import (
	"errors"
	"fmt"
	"time"
)

// Role is the closed set of permission classes an Account can hold.
// Admins may mutate element data; students (the default) may only read.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

// ParseRole maps a wire-level string onto the Role enumeration. The empty
// string defaults to student; any other value outside the enumeration is
// rejected with ErrInvalidInput.
func ParseRole(s string) (Role, error) {
	switch s {
	case "":
		return RoleStudent, nil
	case string(RoleAdmin):
		return RoleAdmin, nil
	case string(RoleStudent):
		return RoleStudent, nil
	}
	return "", fmt.Errorf("%w: unknown role %q", ErrInvalidInput, s)
}

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountNotFound    = errors.New("account not found")
)

// ErrInvalidToken is the single outcome class for every token verification
// failure. The wrapping sentinels below carry the reason for diagnostics;
// callers must branch on ErrInvalidToken only.
var (
	ErrInvalidToken      = errors.New("invalid token")
	ErrTokenExpired      = fmt.Errorf("%w: expired", ErrInvalidToken)
	ErrTokenBadSignature = fmt.Errorf("%w: bad signature", ErrInvalidToken)
	ErrTokenMalformed    = fmt.Errorf("%w: malformed", ErrInvalidToken)
)

// Account models a registered user of the API. The password hash is never
// serialized into a response.
type Account struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
