package ot

import (
	"errors"
	"fmt"
)

// Errors returned by Sequence operations.
var (
	ErrLengthMismatch   = errors.New("length mismatch")
	ErrInvalidOperation = errors.New("invalid operation")
)

// LengthError reports which length precondition failed. It unwraps to ErrLengthMismatch.
type LengthError struct {
	// Op is the name of the failed operation, e.g., "compose".
	Op string
	// Want is the length expected by the operation.
	Want int
	// Got is the length of the offending argument.
	Got int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("%s: %v: want %d, got %d", e.Op, ErrLengthMismatch, e.Want, e.Got)
}

func (e *LengthError) Unwrap() error {
	return ErrLengthMismatch
}

func checkLength(op string, want, got int) error {
	if want != got {
		return &LengthError{Op: op, Want: want, Got: got}
	}
	return nil
}
