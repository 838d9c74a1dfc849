package usecase

import (
	"errors"
	"fmt"

	"shop-api/internal/data/repository"
	"shop-api/pkg/utils"
)

// Error kinds. Handlers map them to HTTP status codes with errors.Is.
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrNotFound      = errors.New("not found")
	ErrNotAcceptable = errors.New("not acceptable")
	ErrConflict      = errors.New("conflict")
)

// Error is a client-facing failure: Msg is safe to return to the caller.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// ValidationError carries per-field messages from the validator.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "validation failed" }

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// validate runs the struct validator and wraps failures in a ValidationError.
func validate(req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

// notFoundAs turns a repository miss into ErrNotFound with msg.
func notFoundAs(err error, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &Error{Kind: ErrNotFound, Msg: msg}
	}
	return err
}
