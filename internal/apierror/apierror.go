// Package apierror defines the error taxonomy shared by services and handlers
// and the JSON envelope every endpoint responds with. Services return *Error
// values; handlers map them to HTTP statuses here so internal details (SQL
// errors, stack traces) never reach clients.
package apierror

import (
	"fmt"
	"net/http"
)

// Code classifies an error for status mapping and logging.
type Code string

const (
	CodeValidation        Code = "VALIDATION_ERROR"
	CodeNotFound          Code = "NOT_FOUND"
	CodeConflict          Code = "CONFLICT"
	CodeAuth              Code = "AUTH_ERROR"
	CodeInsufficientStock Code = "INSUFFICIENT_STOCK"
	CodeInternal          Code = "INTERNAL_ERROR"
)

var statusByCode = map[Code]int{
	CodeValidation:        http.StatusBadRequest,
	CodeNotFound:          http.StatusNotFound,
	CodeConflict:          http.StatusConflict,
	CodeAuth:              http.StatusUnauthorized,
	CodeInsufficientStock: http.StatusBadRequest,
	CodeInternal:          http.StatusInternalServerError,
}

// Error is the canonical service-layer error.
type Error struct {
	code    Code
	message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *Error) Unwrap() error { return e.cause }

func (e *Error) Code() Code { return e.code }

// Message returns the client-safe description.
func (e *Error) Message() string { return e.message }

// HTTPStatus resolves the status for this error's code.
func (e *Error) HTTPStatus() int {
	if s, ok := statusByCode[e.code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

func newError(code Code, format string, args ...interface{}) *Error {
	return &Error{code: code, message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...interface{}) *Error {
	return newError(CodeValidation, format, args...)
}

func NotFound(format string, args ...interface{}) *Error {
	return newError(CodeNotFound, format, args...)
}

func Conflict(format string, args ...interface{}) *Error {
	return newError(CodeConflict, format, args...)
}

func Auth(format string, args ...interface{}) *Error {
	return newError(CodeAuth, format, args...)
}

// InsufficientStock reports a retail line that exceeds available stock.
func InsufficientStock(producto string, disponible, solicitado int) *Error {
	return newError(CodeInsufficientStock,
		"Stock insuficiente para %s. Disponible: %d, solicitado: %d",
		producto, disponible, solicitado)
}

// Internal wraps an unexpected error behind a generic client message.
// The cause is kept for server-side logging only.
func Internal(cause error, publicMsg string) *Error {
	return &Error{code: CodeInternal, message: publicMsg, cause: cause}
}

// From coerces any error into an *Error; unclassified errors become internal.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	if ae, ok := err.(*Error); ok {
		return ae
	}
	return Internal(err, "Error interno del servidor")
}
