package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventLoginSucceeded EventType = "login_succeeded"
	EventLoginRejected  EventType = "login_rejected"
	EventTokensIssued   EventType = "tokens_issued"
)

// Event represents an authentication event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Username  string      `json:"username"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// LoginSucceededPayload payload.
type LoginSucceededPayload struct {
	Roles []string `json:"roles"`
}

// LoginRejectedPayload payload.
type LoginRejectedPayload struct {
	Reason string `json:"reason"`
}

// TokensIssuedPayload payload.
type TokensIssuedPayload struct {
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}
