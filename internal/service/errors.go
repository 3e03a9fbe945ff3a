package service

import (
	"errors"
	"fmt"
)

// ValidationError reports bad or missing caller input. It is surfaced
// synchronously and never retried automatically.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ErrInvalidTransition marks a lifecycle operation that is not legal from
// the task's current status. Deleted is terminal: every operation on a
// deleted task fails with this.
var ErrInvalidTransition = errors.New("invalid task transition")

// ErrNoInterruption is returned when a sentinel resolution arrives while
// nothing is being interrupted.
var ErrNoInterruption = errors.New("no interruption to resolve")

// RestoreIntegrityError marks a malformed backup bundle. It is always
// raised before any destructive write.
type RestoreIntegrityError struct {
	Reason string
}

func (e *RestoreIntegrityError) Error() string {
	return "invalid backup bundle: " + e.Reason
}
