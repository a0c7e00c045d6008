package domain

import "time"

// AuthUser is the domain model for accounts that can be issued tokens.
//
// Roles keeps the order the account was stored with; issued access tokens
// carry the same sequence.
type AuthUser struct {
	ID           string
	Username     string
	PasswordHash string
	Roles        []string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
