package models

import (
	"time"
)

// UserProfile holds the optional company metadata of a client account.
// At most one profile exists per account; it is created lazily on first
// profile access.
type UserProfile struct {
	UserID      int64     `json:"user_id" db:"user_id"`
	CompanyName string    `json:"company_name" db:"company_name"`
	Location    string    `json:"location" db:"location"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
