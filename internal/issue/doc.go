// SPDX-License-Identifier: MPL-2.0

// Package issue pairs CLI failures with remediation.
//
// ActionableError records the operation that failed, the resource it
// touched and concrete suggestions. Id links an error to a catalog entry:
// a Markdown page rendered with glamour below the error message.
package issue
