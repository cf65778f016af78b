package models

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrValidation                  = errors.New("validation failed")
	ErrForbidden                   = errors.New("not permitted")
	ErrUnauthenticated             = errors.New("not authenticated")
	ErrNotFound                    = errors.New("not found")
	ErrJobNotAcceptingApplications = errors.New("job is not accepting applications")

	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrStoreRead        = errors.New("store read failed")
	ErrStoreWrite       = errors.New("store write failed")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ValidationError keeps one message per offending field so callers can show
// it next to the input.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

func (e *ValidationError) Add(field, message string) {
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = message
	}
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// OrNil returns nil when no field was rejected.
func (e *ValidationError) OrNil() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
