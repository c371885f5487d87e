package models

// JSONB represents a PostgreSQL jsonb column value.
type JSONB map[string]interface{}
