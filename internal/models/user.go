package models

import (
	"time"
)

// PlatformRole is a platform-wide role stored on the user row. It is
// independent of per-establishment roles: a platform admin can use the
// admin endpoints without holding any establishment membership.
type PlatformRole string

const (
	PlatformRoleUser  PlatformRole = "user"
	PlatformRoleAdmin PlatformRole = "admin"
)

// User represents a registered account.
type User struct {
	ID             int          `json:"id"`
	Email          string       `json:"email"`
	PasswordHash   string       `json:"-"`
	NombreCompleto *string      `json:"nombre_completo,omitempty"`
	PlatformRole   PlatformRole `json:"-"`
	FechaCreacion  time.Time    `json:"fecha_creacion"`
}

// RegisterRequest is the payload for POST /api/auth/register
type RegisterRequest struct {
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=8"`
	NombreCompleto string `json:"nombre_completo" binding:"required"`
}

// LoginRequest is the payload for POST /api/auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the signed token plus the public user fields
type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

// ErrorResponse is the standard error body
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
