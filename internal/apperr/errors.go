// Package apperr defines the sentinel errors shared across fileio packages.
package apperr

import "errors"

var (
	// ErrNotFound reports that the target file does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput reports a line number below 1.
	ErrInvalidInput = errors.New("invalid input")
)
