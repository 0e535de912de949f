package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeForbidden    Code = "FORBIDDEN"
	CodeNotFound     Code = "NOT_FOUND"
	CodeConflict     Code = "CONFLICT"
	CodeInternal     Code = "INTERNAL_ERROR"
)

var statusByCode = map[Code]int{
	CodeValidation:   http.StatusBadRequest,
	CodeUnauthorized: http.StatusUnauthorized,
	CodeForbidden:    http.StatusForbidden,
	CodeNotFound:     http.StatusNotFound,
	CodeConflict:     http.StatusConflict,
	CodeInternal:     http.StatusInternalServerError,
}

var publicMessageByCode = map[Code]string{
	CodeValidation:   "validation failed",
	CodeUnauthorized: "Authentication credentials were not provided.",
	CodeForbidden:    "You do not have permission to perform this action.",
	CodeNotFound:     "Not found.",
	CodeConflict:     "conflict detected",
	CodeInternal:     "internal server error",
}

// Error is the application error carried from services up to the HTTP layer.
// Details holds per-field messages for validation failures.
type Error struct {
	code    Code
	message string
	details map[string]string
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	return &Error{code: code, message: message, cause: err}
}

// Field builds a validation error scoped to a single request field.
func Field(field, message string) *Error {
	return &Error{
		code:    CodeValidation,
		message: message,
		details: map[string]string{field: message},
	}
}

func NotFound(what string) *Error {
	return New(CodeNotFound, fmt.Sprintf("No %s matches the given query.", what))
}

func Conflict(message string) *Error {
	return New(CodeConflict, message)
}

func Forbidden() *Error {
	return New(CodeForbidden, publicMessageByCode[CodeForbidden])
}

func Unauthorized(message string) *Error {
	return New(CodeUnauthorized, message)
}

func Internal(err error, message string) *Error {
	return Wrap(CodeInternal, err, message)
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() map[string]string {
	if e == nil {
		return nil
	}
	return e.details
}

// WithDetail adds a field message to the error and returns it.
func (e *Error) WithDetail(field, message string) *Error {
	if e.details == nil {
		e.details = map[string]string{}
	}
	e.details[field] = message
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Is matches on code so callers can test errors.Is(err, apperr.New(apperr.CodeNotFound, "")).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.code == e.code && (t.message == "" || t.message == e.message)
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}
	return nil
}

// CodeOf returns the code of err, CodeInternal for untyped errors.
func CodeOf(err error) Code {
	if typed := As(err); typed != nil {
		return typed.Code()
	}
	return CodeInternal
}

func HTTPStatus(code Code) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// PublicMessage is what a client sees for the error. Internal errors never leak their text.
func PublicMessage(e *Error) string {
	if e == nil || e.code == CodeInternal || e.message == "" {
		return publicMessageByCode[e.Code()]
	}
	return e.message
}
