package apperrors

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindConflict
	KindUpstream
)

// Error is a classified failure. Message is safe to show to the caller.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Cause() error {
	return e.Err
}

func NewValidation(message string) error {
	return &Error{Kind: KindValidation, Message: message}
}

func NewNotFound(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

func NewConflict(message string) error {
	return &Error{Kind: KindConflict, Message: message}
}

func WrapUpstream(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindUpstream, Message: message, Err: err}
}

func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUpstream
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the caller facing message and the underlying error text, if any.
func Message(err error) (message, detail string) {
	var appErr *Error
	if errors.As(err, &appErr) {
		if appErr.Err != nil {
			detail = appErr.Err.Error()
		}
		return appErr.Message, detail
	}
	return "internal error", err.Error()
}

func StatusCode(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return fiber.StatusBadRequest
	case KindNotFound:
		return fiber.StatusNotFound
	case KindConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
