// Package queue defines the session events exchanged over the message
// broker and the publisher/consumer pair that moves them.
package queue

import (
	"time"

	"github.com/google/uuid"
)

const sessionQueueName = "auth.session"

// Session event actions.
const (
	ActionLogin   = "login"
	ActionReissue = "reissue"
	ActionLogout  = "logout"
)

// SessionEvent is published after a session transition succeeds. It
// carries enough for downstream consumers to audit or alert without
// calling back into this service.
type SessionEvent struct {
	EventID    string   `json:"event_id"`
	Action     string   `json:"action"`
	UserID     int64    `json:"user_id"`
	Roles      []string `json:"roles,omitempty"`
	OccurredAt string   `json:"occurred_at"`
}

// NewSessionEvent builds an event with a fresh id and the current UTC
// timestamp.
func NewSessionEvent(action string, userID int64, roles []string) SessionEvent {
	return SessionEvent{
		EventID:    uuid.NewString(),
		Action:     action,
		UserID:     userID,
		Roles:      roles,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
}
