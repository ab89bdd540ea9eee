// Package audit archives security events such as registrations and account
// lockouts.
package audit

import (
	"context"
	"time"
)

type EventType string

const (
	EventRegistered  EventType = "user.registered"
	EventLockedOut   EventType = "user.locked_out"
	EventLoginFailed EventType = "user.login_failed"
)

// Event never carries passwords, hashes or tokens.
type Event struct {
	ID         string     `json:"id"`
	Type       EventType  `json:"type"`
	Username   string     `json:"username"`
	Role       string     `json:"role,omitempty"`
	Attempts   int        `json:"failed_attempts,omitempty"`
	LockoutEnd *time.Time `json:"lockout_end,omitempty"`
	At         time.Time  `json:"at"`
}

type Recorder interface {
	Record(ctx context.Context, e Event) error
}

// Nop discards events.
type Nop struct{}

func (Nop) Record(context.Context, Event) error { return nil }
