package events

import "time"

// Event types
const (
	UserRegistered  = "user.registered"
	UserConfirmed   = "user.confirmed"
	UserDeleted     = "user.deleted"
	PasswordChanged = "password.changed"
)

// Stream names
const (
	AuthEventsStream = "auth.events"
)

// Base event structure
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

type UserRegisteredEvent struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type UserConfirmedEvent struct {
	UserID int64 `json:"userId"`
}

type UserDeletedEvent struct {
	UserID int64 `json:"userId"`
}

// PasswordChangedEvent is published for both the change-password and the
// reset flows so downstream services can invalidate sessions.
type PasswordChangedEvent struct {
	UserID int64 `json:"userId"`
}
