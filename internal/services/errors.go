package services

import (
	"errors"
	"fmt"

	"hospot/internal/repos"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrInvalid              = errors.New("invalid input")
	ErrConflict             = errors.New("conflict")
	ErrPrescriptionRequired = errors.New("prescription required")
)

// Error carries a user-facing detail for one of the sentinel kinds above.
type Error struct {
	Kind   error
	Detail string
}

func (e *Error) Error() string { return e.Detail }
func (e *Error) Unwrap() error { return e.Kind }

func invalidf(format string, args ...any) error {
	return &Error{Kind: ErrInvalid, Detail: fmt.Sprintf(format, args...)}
}

func conflictf(format string, args ...any) error {
	return &Error{Kind: ErrConflict, Detail: fmt.Sprintf(format, args...)}
}

func notFound(what string) error {
	return &Error{Kind: ErrNotFound, Detail: what + " not found"}
}

// mapRepo turns repos.ErrNotFound into a service not-found error.
func mapRepo(err error, what string) error {
	if errors.Is(err, repos.ErrNotFound) {
		return notFound(what)
	}
	return err
}
