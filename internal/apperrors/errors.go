// Package apperrors defines the error kinds the API reports to clients.
// Handlers and services return these; the HTTP error handler turns them into
// problem responses.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an error for translation into an HTTP status.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindBadRequest
	KindValidation
	KindFieldValidation
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindBadRequest:
		return "bad_request"
	case KindValidation:
		return "validation"
	case KindFieldValidation:
		return "field_validation"
	case KindMalformed:
		return "malformed"
	default:
		return "internal"
	}
}

// Error is the tagged error carried from the service layer to the HTTP boundary.
type Error struct {
	Kind   Kind
	Detail string
	// Fields maps a JSON field name to its violation message. Only set for KindFieldValidation.
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound reports a missing resource, e.g. NotFound("Product", 7) -> "Product not found with id: 7".
func NotFound(resource string, id any) *Error {
	return &Error{Kind: KindNotFound, Detail: fmt.Sprintf("%s not found with id: %v", resource, id)}
}

// BadRequest reports a violated caller precondition.
func BadRequest(detail string) *Error {
	return &Error{Kind: KindBadRequest, Detail: detail}
}

// Validation reports a domain rule the data store or service refused.
func Validation(detail string, err error) *Error {
	return &Error{Kind: KindValidation, Detail: detail, Err: err}
}

// FieldValidation reports one or more field-level constraint violations.
func FieldValidation(fields map[string]string) *Error {
	return &Error{
		Kind:   KindFieldValidation,
		Detail: "Request validation failed. See 'errors' for details.",
		Fields: fields,
	}
}

// Malformed reports a request body that could not be decoded.
func Malformed(err error) *Error {
	return &Error{Kind: KindMalformed, Detail: "Request body is not readable or malformed", Err: err}
}

// KindOf returns the Kind of err, or KindInternal if err is not an *Error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}
