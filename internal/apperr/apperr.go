// Package apperr holds the error vocabulary shared by repositories, services
// and HTTP handlers.
package apperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("already exists")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidInput    = errors.New("invalid input")
	ErrBlankContent    = errors.New("content must not be blank")
	ErrPendingInFlight = errors.New("a message is already pending in this thread")
)

// Error pairs a sentinel with the message shown to the client.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Kind }

// Forbidden reports an authenticated caller acting on something it does not own.
func Forbidden(msg string) error {
	return &Error{Kind: ErrForbidden, Message: msg}
}

// Unauthorized reports missing or rejected credentials.
func Unauthorized(msg string) error {
	return &Error{Kind: ErrUnauthorized, Message: msg}
}

// Status maps an error chain onto an HTTP status code.
func Status(err error) int {
	var fe *fiber.Error
	switch {
	case err == nil:
		return fiber.StatusOK
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, ErrConflict), errors.Is(err, ErrPendingInFlight):
		return fiber.StatusConflict
	case errors.Is(err, ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrBlankContent):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}
