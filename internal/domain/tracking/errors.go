package tracking

import "errors"

var (
	// ErrTimerAlreadyRunning is the Conflict surfaced when a start or a
	// storage unique-constraint violation hits an existing timer.
	ErrTimerAlreadyRunning = errors.New("a timer is already running for this user")
	// ErrNoActiveTimer is the NotFound surfaced by stop/switch/cancel
	// without a running timer.
	ErrNoActiveTimer = errors.New("no active timer for this user")
	ErrEntryNotFound = errors.New("time entry not found")
	ErrInvalidEntry  = errors.New("invalid time entry")
)
