package catalog

import (
	"errors"
	"fmt"
)

var (
	ErrValidation  = errors.New("validation failed")
	ErrDuplicateID = errors.New("duplicate id")
	ErrNotFound    = errors.New("not found")
)

// ValidationError reports a field that broke its domain rule.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("a product with id %q already exists", e.ID)
}

func (e *DuplicateIDError) Is(target error) bool { return target == ErrDuplicateID }

type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no product with id %q", e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
