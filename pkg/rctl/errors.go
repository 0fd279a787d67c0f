package rctl

import (
	"errors"
	"fmt"
	"syscall"
)

// Grammar errors. All of these are deterministic parse-time failures and are
// never retried. Callers can match them with errors.Is.
var (
	ErrUnknownSubjectType  = errors.New("unknown subject type")
	ErrUnknownUser         = errors.New("no such user")
	ErrUnknownResource     = errors.New("unknown resource")
	ErrUnknownAction       = errors.New("unknown action")
	ErrInvalidLimitLiteral = errors.New("invalid limit literal")
	ErrInvalidNumeral      = errors.New("invalid numeric value")
	ErrNoSubjectGiven      = errors.New("no subject specified")
	ErrSubjectBogusData    = errors.New("bogus data at end of subject")
	ErrLimitBogusData      = errors.New("bogus data at end of limit")
	ErrInvalidRuleSyntax   = errors.New("invalid rule syntax")

	// ErrInvalidStatistics reports a malformed entry in a kernel usage
	// response.
	ErrInvalidStatistics = errors.New("invalid statistics data")
)

// Kernel exchange errors.
var (
	// ErrBufferExhausted reports that the kernel kept asking for a larger
	// response buffer than the channel's retry policy allows.
	ErrBufferExhausted = errors.New("response buffer limit exhausted")

	// ErrPlatformUnsupported is returned on systems without the RACCT/RCTL
	// kernel facility.
	ErrPlatformUnsupported = errors.New("rctl is only supported on FreeBSD")
)

// StateError reports that the kernel cannot serve rctl requests in its
// current state, e.g. because racct accounting is disabled or the feature is
// not compiled in. It carries the state detected at the time of the failure.
type StateError struct {
	State State
}

func (e *StateError) Error() string {
	return fmt.Sprintf("invalid RCTL / RACCT kernel state: %s", e.State)
}

// OSError wraps an unexpected errno from an rctl entry point.
type OSError struct {
	Op    string
	Errno syscall.Errno
}

func (e *OSError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Errno)
}

func (e *OSError) Unwrap() error {
	return e.Errno
}
