// Package apperrors defines the four error kinds every operation resolves to.
// Services wrap them with context via fmt.Errorf("%w"); the HTTP layer maps
// each kind to a status code with errors.Is.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound — referenced user, item, booking or request does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation — caller-fixable input: bad interval, unavailable item,
	// ineligible comment.
	ErrValidation = errors.New("validation failed")
	// ErrForbidden — authenticated but unauthorized actor.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict — booking already decided or email already taken; caller
	// must re-fetch state before retrying.
	ErrConflict = errors.New("conflict")
)

func NotFound(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func Forbidden(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrForbidden, fmt.Sprintf(format, args...))
}

func Conflict(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}
