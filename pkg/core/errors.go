package core

import (
	"errors"
	"fmt"
)

// Parse and validation errors
var (
	ErrMalformedDateTime        = errors.New("reminders: malformed date/time (want YYYY-MM-DD HH:MM)")
	ErrLineTooLong              = errors.New("reminders: line exceeds maximum length")
	ErrQualifiersWithoutCadence = errors.New("reminders: weekday qualifiers require a recurrence cadence")
	ErrQualifiersNotSupported   = errors.New("reminders: cadence does not support weekday qualifiers")
	ErrOffsetOutOfRange         = errors.New("reminders: weekday offset out of range for cadence")
	ErrInvalidSource            = errors.New("reminders: invalid source name")
	ErrSourceTooLong            = errors.New("reminders: source name too long")
)

// MalformedDateTimeError reports an anchor that does not match the fixed layout.
type MalformedDateTimeError struct {
	Input string // Offending substring, empty when the anchor is missing
	Err   error  // Underlying time.Parse error, if any
}

func (e *MalformedDateTimeError) Error() string {
	if e.Input == "" {
		return "reminders: missing date/time"
	}
	if e.Err != nil {
		return fmt.Sprintf("reminders: malformed date/time %q: %v", e.Input, e.Err)
	}
	return fmt.Sprintf("reminders: malformed date/time %q", e.Input)
}

func (e *MalformedDateTimeError) Unwrap() error {
	return e.Err
}

// Is makes every MalformedDateTimeError match ErrMalformedDateTime.
func (e *MalformedDateTimeError) Is(target error) bool {
	return target == ErrMalformedDateTime
}

// RuleError reports a rule that parsed but failed validation.
type RuleError struct {
	Rule Rule
	Err  error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Rule)
}

func (e *RuleError) Unwrap() error {
	return e.Err
}
