package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventIdentityRegistered      EventType = "identity_registered"
	EventIdentityReauthenticated EventType = "identity_reauthenticated"
)

// Event represents a domain event emitted by the lifecycle service.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	IdentityID string      `json:"identity_id"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// IdentityRegisteredPayload payload.
type IdentityRegisteredPayload struct {
	Email      string `json:"email"`
	PhoneCount int    `json:"phone_count"`
}

// IdentityReauthenticatedPayload payload.
type IdentityReauthenticatedPayload struct {
	LastLogin time.Time `json:"last_login"`
}
