// Package lockout holds the account-lockout state machine.
//
// An account is either Unlocked or Locked. A failed authentication while
// Unlocked increments the failure counter and, once the counter reaches the
// threshold, locks the account for a fixed window. A success resets both
// fields. Attempts against a Locked account are rejected by the caller
// before any transition runs, so they never touch the counters.
//
// Everything here is pure: time is always passed in.
package lockout

import (
	"fmt"
	"time"
)

// State is the lockout state of an account at a given instant.
type State int

const (
	Unlocked State = iota
	Locked
)

func (s State) String() string {
	switch s {
	case Unlocked:
		return "unlocked"
	case Locked:
		return "locked"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

const (
	DefaultThreshold = 5
	DefaultDuration  = 15 * time.Minute
)

// Counters is the mutable part of a user record the policy works on.
// A nil LockoutEnd means "not locked".
type Counters struct {
	FailedAttempts int
	LockoutEnd     *time.Time
}

// Policy configures when and for how long an account is locked.
type Policy struct {
	Threshold int
	Duration  time.Duration
}

func DefaultPolicy() Policy {
	return Policy{Threshold: DefaultThreshold, Duration: DefaultDuration}
}

// State reports whether c is locked at now. An expired lockout counts as
// Unlocked; nothing needs to clear it.
func (p Policy) State(c Counters, now time.Time) State {
	if c.LockoutEnd != nil && c.LockoutEnd.After(now) {
		return Locked
	}
	return Unlocked
}

// OnFailure applies a failed attempt made while Unlocked. When the new
// counter reaches the threshold the lockout end is set to now+Duration.
func (p Policy) OnFailure(c Counters, now time.Time) Counters {
	next := Counters{FailedAttempts: c.FailedAttempts + 1, LockoutEnd: c.LockoutEnd}
	if next.FailedAttempts >= p.Threshold {
		end := now.Add(p.Duration)
		next.LockoutEnd = &end
	}
	return next
}

// OnSuccess applies a successful attempt: counter to zero, lockout cleared.
func (p Policy) OnSuccess(Counters) Counters {
	return Counters{}
}

// Remaining is how long until lockoutEnd, or zero when not locked.
func Remaining(lockoutEnd *time.Time, now time.Time) time.Duration {
	if lockoutEnd == nil || !lockoutEnd.After(now) {
		return 0
	}
	return lockoutEnd.Sub(now)
}

// RetryHint formats a remaining lockout as a message for the account owner.
// Minutes are truncated, so the last minute of a lockout reads "0 minute(s)".
func RetryHint(remaining time.Duration) string {
	return fmt.Sprintf(
		"Your account is locked due to multiple failed login attempts. Please try again in %d minute(s).",
		int(remaining/time.Minute))
}
