package apperror

import (
	"errors"
	"fmt"
)

// Common sentinel errors.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError reports a rule violation on a single field or input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

// Validation builds a ValidationError.
func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// GenreExclusivityError means the user's gender does not match a
// gender-exclusive diary.
type GenreExclusivityError struct {
	Required string
	Got      string
}

func (e *GenreExclusivityError) Error() string {
	return fmt.Sprintf("diary is exclusive to %s users, got %s", e.Required, e.Got)
}

// CapacityExceededError means the diary already has as many active
// enrollments as it allows.
type CapacityExceededError struct {
	DiaryID  int64
	Capacity int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("diary %d is full (capacity %d)", e.DiaryID, e.Capacity)
}

// PersistenceError wraps a storage failure so driver details are logged
// but never shown to clients.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Persistence wraps err as a PersistenceError; nil stays nil.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}

// IsNotFound reports whether err is (or wraps) ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
