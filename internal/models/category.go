package models

import (
	"time"
)

type Category struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	Items     []*Item   `json:"items,omitempty" db:"-"` // For nested responses
}
