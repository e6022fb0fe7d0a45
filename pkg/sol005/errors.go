// SPDX-License-Identifier: MPL-2.0

package sol005

import (
	"errors"
	"fmt"
)

var (
	// ErrClient is wrapped by ClientError.
	ErrClient = errors.New("osm client error")
	// ErrNotFound is wrapped by NotFoundError.
	ErrNotFound = errors.New("resource not found")
	// ErrHTTPStatus is wrapped by HTTPError.
	ErrHTTPStatus = errors.New("unexpected HTTP status")
	// ErrAuthentication is wrapped by AuthenticationError.
	ErrAuthentication = errors.New("authentication failed")
	// ErrTimeout is wrapped by TimeoutError.
	ErrTimeout = errors.New("operation timeout")
)

type (
	// ClientError reports a failed or rejected operation.
	ClientError struct {
		Message string
		Err     error
	}

	// NotFoundError is returned when a name or id matches no resource.
	NotFoundError struct {
		// Kind is the human-readable resource kind, e.g. "SDN controller".
		Kind string
		Name string
	}

	// HTTPError is a response with status >= 300.
	HTTPError struct {
		Status int
		Body   string
	}

	// TimeoutError is returned when a resource did not settle before the
	// client timeout. It matches both ErrClient and ErrTimeout.
	TimeoutError struct {
		Seconds int
	}

	// AuthenticationError is returned when no token could be obtained.
	AuthenticationError struct {
		User    string
		Project string
		Err     error
	}
)

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("operation timeout, waited for %d seconds", e.Seconds)
}

// Unwrap returns ErrClient and ErrTimeout.
func (e *TimeoutError) Unwrap() []error { return []error{ErrClient, ErrTimeout} }

// Error implements the error interface. A ClientError without a Message
// prints its cause alone.
func (e *ClientError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	if e.Message == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s - %v", e.Message, e.Err)
}

// Unwrap returns ErrClient and the cause.
func (e *ClientError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrClient}
	}
	return []error{ErrClient, e.Err}
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.Name)
}

// Unwrap returns ErrNotFound for errors.Is() compatibility.
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// Error implements the error interface.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("Error %d: %s", e.Status, e.Body)
}

// Unwrap returns ErrHTTPStatus for errors.Is() compatibility.
func (e *HTTPError) Unwrap() error { return ErrHTTPStatus }

// Error implements the error interface.
func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("failed to obtain a token for user %q in project %q: %v", e.User, e.Project, e.Err)
}

// Unwrap returns ErrAuthentication and the cause.
func (e *AuthenticationError) Unwrap() []error {
	return []error{ErrAuthentication, e.Err}
}
