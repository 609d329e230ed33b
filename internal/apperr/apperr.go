// Package apperr defines the application error taxonomy. Every rejection a
// client can see carries one of these machine-readable codes alongside a
// human-readable message.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type Code string

const (
	CodeUnauthenticated   Code = "UNAUTHENTICATED"
	CodeForbiddenRole     Code = "FORBIDDEN_ROLE"
	CodeForbiddenScope    Code = "FORBIDDEN_SCOPE"
	CodeNotFound          Code = "NOT_FOUND"
	CodeValidation        Code = "VALIDATION"
	CodeDuplicate         Code = "DUPLICATE"
	CodeInsufficientStock Code = "INSUFFICIENT_STOCK"
	CodeInvalidTransition Code = "INVALID_TRANSITION"
	CodeStoreUnavailable  Code = "STORE_UNAVAILABLE"
)

// FieldError names one violated field. Validation responses enumerate every
// violated field in a single error rather than stopping at the first.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Error struct {
	Code    Code         `json:"code"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return e.Message + ": " + strings.Join(parts, "; ")
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// NotFound builds a NOT_FOUND error for the named entity.
func NotFound(entity string) *Error {
	return &Error{Code: CodeNotFound, Message: entity + " not found"}
}

// Duplicate builds a DUPLICATE error for the conflicting field.
func Duplicate(field string) *Error {
	return &Error{Code: CodeDuplicate, Message: field + " already exists"}
}

// Validation builds a VALIDATION error carrying every violated field.
func Validation(fields ...FieldError) *Error {
	return &Error{Code: CodeValidation, Message: "validation failed", Fields: fields}
}

// AsError extracts an *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// CodeOf returns err's taxonomy code, or empty for untyped errors.
func CodeOf(err error) Code {
	if ae, ok := AsError(err); ok {
		return ae.Code
	}
	return ""
}

// HTTPStatus maps a taxonomy code to its HTTP status. Untyped errors map to
// 500 so internal details never leak.
func HTTPStatus(err error) int {
	ae, ok := AsError(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch ae.Code {
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodeForbiddenRole, CodeForbiddenScope:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeValidation, CodeDuplicate, CodeInsufficientStock, CodeInvalidTransition:
		return http.StatusBadRequest
	case CodeStoreUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
