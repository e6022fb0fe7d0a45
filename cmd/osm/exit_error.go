// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/osmnfv/osm/pkg/types"
)

// ExitError carries the exit status of a command that fails without an
// error worth rendering, such as package-validate finding invalid descriptors.
type ExitError struct {
	Code types.ExitCode
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// ExitCode implements types.ExitCoder.
func (e *ExitError) ExitCode() types.ExitCode { return e.Code }

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}
