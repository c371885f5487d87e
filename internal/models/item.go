package models

import (
	"time"
)

// Item is a reusable product tracked by the calculator. BaseCO2 is the CO2
// saved per use in kilograms; Count is how often the item has been used.
type Item struct {
	ID         int64     `json:"id" db:"id"`
	CategoryID int64     `json:"category_id" db:"category_id"`
	Name       string    `json:"name" db:"name"`
	Count      int       `json:"count" db:"count"`
	BaseCO2    float64   `json:"base_co2" db:"base_co2"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// Savings returns the total CO2 saved by this item in kilograms.
func (i *Item) Savings() float64 {
	return float64(i.Count) * i.BaseCO2
}
