// Package apierr defines the error kinds the API reports and renders them
// as HTTP responses.
package apierr

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type Kind int

const (
	KindAuthentication Kind = iota + 1
	KindAuthorization
	KindValidation
	KindNotFound
	KindPagination
	KindBadRequest
)

const (
	MessageInvalidCredentials = "Invalid credentials."
	MessageAccessDenied       = "Access Denied."
	MessageNotFound           = "Not Found"
)

// Violation names a field that failed a constraint.
type Violation struct {
	PropertyPath string `json:"propertyPath"`
	Message      string `json:"message"`
}

type Error struct {
	Kind       Kind
	Message    string
	Violations []Violation
	Err        error
}

func (e *Error) Error() string {
	if e.Kind == KindValidation && len(e.Violations) > 0 {
		return e.describeViolations()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Status is the HTTP status code for the error kind.
func (e *Error) Status() int {
	switch e.Kind {
	case KindAuthentication:
		return fiber.StatusUnauthorized
	case KindAuthorization:
		return fiber.StatusForbidden
	case KindValidation:
		return fiber.StatusUnprocessableEntity
	case KindNotFound:
		return fiber.StatusNotFound
	case KindPagination, KindBadRequest:
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

// Fields lists the property paths of all violations.
func (e *Error) Fields() []string {
	fields := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		fields = append(fields, v.PropertyPath)
	}
	return fields
}

func (e *Error) describeViolations() string {
	lines := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		lines = append(lines, v.PropertyPath+": "+v.Message)
	}
	return strings.Join(lines, "\n")
}

func Unauthenticated() *Error {
	return &Error{Kind: KindAuthentication, Message: MessageInvalidCredentials}
}

// Forbidden denies an operation. An empty message means a plain role denial.
func Forbidden(message string) *Error {
	if message == "" {
		message = MessageAccessDenied
	}
	return &Error{Kind: KindAuthorization, Message: message}
}

func NotFound(err error) *Error {
	return &Error{Kind: KindNotFound, Message: MessageNotFound, Err: err}
}

func Invalid(violations ...Violation) *Error {
	return &Error{Kind: KindValidation, Message: "Validation failed", Violations: violations}
}

// InvalidField is a single-violation validation failure.
func InvalidField(path, message string) *Error {
	return Invalid(Violation{PropertyPath: path, Message: message})
}

func PageOutOfRange(format string, args ...any) *Error {
	return &Error{Kind: KindPagination, Message: fmt.Sprintf(format, args...)}
}

func BadRequest(message string, err error) *Error {
	return &Error{Kind: KindBadRequest, Message: message, Err: err}
}
