package models

import "time"

// TokenPrefix is the fixed literal prefix every issuance-token value
// starts with, so a token is recognizable before any store lookup.
const TokenPrefix = "logs_"

// IssuanceToken is a bearer credential authorizing log ingestion on
// behalf of one account. Tokens are soft-deleted (Active=false), never
// physically removed and never reactivated.
type IssuanceToken struct {
	ID        int       `json:"id"`
	AccountID int       `json:"account_id"`
	Value     string    `json:"value"` // unique, "logs_" + random hex
	Label     string    `json:"label"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}
