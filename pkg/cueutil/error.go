// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

// ErrFileTooLarge is wrapped by FileTooLargeError.
var ErrFileTooLarge = errors.New("file too large")

type (
	// SchemaError lists every problem CUE reported for one file. Each problem
	// is "<json-path>: <message>", or just the message when CUE gives no path.
	SchemaError struct {
		File     string
		Problems []string
		cause    error
	}

	// FileTooLargeError is returned before evaluation when the input exceeds
	// the configured size limit.
	FileTooLargeError struct {
		File  string
		Size  int64
		Limit int64
	}
)

// Error implements the error interface.
func (e *SchemaError) Error() string {
	if len(e.Problems) == 1 {
		return e.File + ": " + e.Problems[0]
	}
	return e.File + ": validation failed:\n  " + strings.Join(e.Problems, "\n  ")
}

// Unwrap returns the CUE error the problems were extracted from.
func (e *SchemaError) Unwrap() error { return e.cause }

// Error implements the error interface.
func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("%s: file size %d bytes exceeds maximum %d bytes", e.File, e.Size, e.Limit)
}

// Unwrap returns ErrFileTooLarge.
func (e *FileTooLargeError) Unwrap() error { return ErrFileTooLarge }

// FormatError converts a CUE evaluation error into a *SchemaError for file,
// e.g. "ping_vnfd.yaml: vnfd:vnfd-catalog.vnfd[0].id: incomplete value string".
// Errors that carry no CUE detail are wrapped with the file name only.
func FormatError(err error, file string) error {
	if err == nil {
		return nil
	}

	list := cueerrors.Errors(err)
	if len(list) == 0 {
		return fmt.Errorf("%s: %w", file, err)
	}

	schemaErr := &SchemaError{File: file, cause: err}
	for _, e := range list {
		selectors := cueerrors.Path(e)
		path := jsonPath(selectors)
		msg := problemMessage(e, selectors)
		if path == "" {
			schemaErr.Problems = append(schemaErr.Problems, msg)
			continue
		}
		schemaErr.Problems = append(schemaErr.Problems, path+": "+msg)
	}
	return schemaErr
}

// problemMessage returns the message of e without the path CUE prepends to
// Error(), which is rendered in CUE's own dotted form.
func problemMessage(e cueerrors.Error, selectors []string) string {
	if format, args := e.Msg(); format != "" {
		return fmt.Sprintf(format, args...)
	}
	msg := e.Error()
	if cuePath := strings.Join(selectors, "."); cuePath != "" {
		if rest, ok := strings.CutPrefix(msg, cuePath); ok {
			msg = strings.TrimSpace(strings.TrimPrefix(rest, ":"))
		}
	}
	return msg
}

// jsonPath renders CUE path selectors as dotted JSON paths with list indexes
// in brackets: ["nsd", "0", "id"] becomes "nsd[0].id". A leading definition
// selector such as "#VNFD" names the schema, not the document, and is dropped.
// Quoted labels are unquoted.
func jsonPath(selectors []string) string {
	if len(selectors) > 0 && strings.HasPrefix(selectors[0], "#") {
		selectors = selectors[1:]
	}
	var b strings.Builder
	for i, sel := range selectors {
		if _, err := strconv.ParseUint(sel, 10, 64); err == nil && i > 0 {
			b.WriteString("[" + sel + "]")
			continue
		}
		if unquoted, err := strconv.Unquote(sel); err == nil {
			sel = unquoted
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(sel)
	}
	return b.String()
}

func checkFileSize(data []byte, limit int64, file string) error {
	if size := int64(len(data)); size > limit {
		return &FileTooLargeError{File: file, Size: size, Limit: limit}
	}
	return nil
}
