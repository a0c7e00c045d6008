package domain

import "time"

// TokenKind differentiates the two issued token variants.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// TokenPair couples the access and refresh tokens issued on a successful login.
// It is handed to the caller once and never persisted.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}
