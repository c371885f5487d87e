package models

import (
	"time"
)

// Account roles. Admins are invited and receive a system-issued password on
// approval; clients register themselves with a password of their own.
const (
	RoleAdmin  = "admin"
	RoleClient = "client"
)

type Account struct {
	ID                  int64      `json:"id" db:"id"`
	Role                string     `json:"role" db:"role"`
	Email               string     `json:"email" db:"email"`
	FirstName           string     `json:"first_name" db:"first_name"`
	LastName            string     `json:"last_name" db:"last_name"`
	PasswordHash        *string    `json:"-" db:"password_hash"` // Never serialize in JSON
	IsVerified          bool       `json:"is_verified" db:"is_verified"`
	ForcePasswordChange bool       `json:"force_password_change" db:"force_password_change"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
	VerifiedAt          *time.Time `json:"verified_at" db:"verified_at"`
}

func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func (a *Account) FullName() string {
	return a.FirstName + " " + a.LastName
}
