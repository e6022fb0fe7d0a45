// SPDX-License-Identifier: MPL-2.0

package types

import (
	"context"
	"errors"
	"fmt"
	"strconv"
)

const (
	// ExitSuccess is returned when a command completes.
	ExitSuccess ExitCode = 0
	// ExitFailure is returned for any client or server error.
	ExitFailure ExitCode = 1
	// ExitInterrupted is returned when the command was canceled by SIGINT.
	ExitInterrupted ExitCode = 130
)

// ErrInvalidExitCode is the sentinel error wrapped by InvalidExitCodeError.
var ErrInvalidExitCode = errors.New("invalid exit code")

type (
	// ExitCode is a process exit status. POSIX limits it to 0-255.
	ExitCode int

	// ExitCoder is implemented by errors that choose the process exit status.
	ExitCoder interface {
		error
		ExitCode() ExitCode
	}

	// InvalidExitCodeError is returned when an ExitCode is outside 0-255.
	InvalidExitCodeError struct {
		Value ExitCode
	}
)

// ExitCodeOf maps the error returned by a command to an exit status. The
// first ExitCoder in the chain decides; an out of range code falls back to
// ExitFailure.
func ExitCodeOf(err error) ExitCode {
	if err == nil {
		return ExitSuccess
	}
	var coder ExitCoder
	if errors.As(err, &coder) {
		if code := coder.ExitCode(); code.Validate() == nil {
			return code
		}
		return ExitFailure
	}
	if errors.Is(err, context.Canceled) {
		return ExitInterrupted
	}
	return ExitFailure
}

// String returns the decimal representation of c.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }

// Validate returns an error if c is outside 0-255.
func (c ExitCode) Validate() error {
	if c < 0 || c > 255 {
		return &InvalidExitCodeError{Value: c}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("invalid exit code %d (must be in range 0-255)", e.Value)
}

// Unwrap returns ErrInvalidExitCode.
func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }
