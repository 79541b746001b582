package services

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is checks across the service layer. Handlers map
// ErrValidation to 400 and ErrNotFound to 404; anything else is a
// persistence or collaborator failure and surfaces as 500.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
)

// ValidationError reports malformed input on a mutation path.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NotFoundError reports a referenced entity that does not exist where
// existence is required. Mutation paths return it instead of silently
// no-oping; pure listing paths return empty results.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
