package services

import (
	"errors"
	"fmt"
)

// Policy violations surfaced to callers so the request can be rejected or the
// user re-prompted. None of these are fatal.
var (
	// ErrTooManyItemLists is returned when a second item list is supplied to a
	// trade that is not two-way.
	ErrTooManyItemLists = errors.New("trade already has its item list")

	// ErrTooManyLocations is returned when a second location is supplied for a
	// permanent (single meeting) exchange.
	ErrTooManyLocations = errors.New("meeting already has its location")

	// ErrTooManyTimes is returned when more than one initial meeting date is
	// supplied; the return meeting's date is derived, never user-given.
	ErrTooManyTimes = errors.New("meeting already has its time")

	// ErrTooManyEdits is returned when a user has used up their edit
	// allowance on a meeting.
	ErrTooManyEdits = errors.New("meeting edit limit reached")

	// ErrEditAgreedMeeting is returned when editing a meeting whose current
	// proposal has already been agreed to.
	ErrEditAgreedMeeting = errors.New("meeting is already agreed")

	// ErrRuleDoesNotExist is returned for an unregistered system rule name.
	ErrRuleDoesNotExist = errors.New("system rule does not exist")
)

// CommandExecutionError wraps any failure raised while undoing a recorded
// action, so the audit layer has a single catchable error type.
type CommandExecutionError struct {
	Action string
	Cause  error
}

func (e *CommandExecutionError) Error() string {
	return fmt.Sprintf("undo of %s failed: %v", e.Action, e.Cause)
}

func (e *CommandExecutionError) Unwrap() error {
	return e.Cause
}
