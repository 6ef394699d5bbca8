package models

import "time"

// Account is a tenant. It owns issuance tokens and the log records
// ingested through them.
type Account struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"` // stable external identity
	DisplayName  string    `json:"display_name"`
	PasswordHash string    `json:"-"` // don't expose hash
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}
