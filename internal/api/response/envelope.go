package response

import (
	"fmt"
	"net/http"
)

// Code is the closed set of error codes returned on the wire.
type Code string

const (
	CodeInternal         Code = "INTERNAL_ERROR"
	CodeDatabase         Code = "DATABASE_ERROR"
	CodeValidation       Code = "VALIDATION_ERROR"
	CodeNotFound         Code = "NOT_FOUND"
	CodeUnauthorized     Code = "UNAUTHORIZED"
	CodeForbidden        Code = "FORBIDDEN"
	CodeBadRequest       Code = "BAD_REQUEST"
	CodeUpload           Code = "UPLOAD_ERROR"
	CodeStorage          Code = "STORAGE_ERROR"
	CodeMissingParameter Code = "MISSING_PARAMETER"
	CodeUnknown          Code = "UNKNOWN_ERROR"
)

// HTTPStatus maps an error code to its fixed HTTP status.
func HTTPStatus(code Code) int {
	switch code {
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeValidation, CodeBadRequest, CodeMissingParameter:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Envelope is the uniform wire shape returned by every route handler.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

// ErrorBody carries the error half of the envelope.
type ErrorBody struct {
	Code    Code        `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Error is a coded error that the Wrap combinator knows how to map onto the
// envelope and its HTTP status.
type Error struct {
	Code    Code
	Message string
	Details interface{}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Validation builds a VALIDATION_ERROR.
func Validation(message string) *Error {
	return &Error{Code: CodeValidation, Message: message}
}

// ValidationDetails builds a VALIDATION_ERROR with field-level details.
func ValidationDetails(message string, details interface{}) *Error {
	return &Error{Code: CodeValidation, Message: message, Details: details}
}

// BadRequest builds a BAD_REQUEST error.
func BadRequest(message string) *Error {
	return &Error{Code: CodeBadRequest, Message: message}
}

// MissingParameter builds a MISSING_PARAMETER error for a named parameter.
func MissingParameter(name string) *Error {
	return &Error{Code: CodeMissingParameter, Message: fmt.Sprintf("missing required parameter: %s", name)}
}

// NotFound builds a NOT_FOUND error.
func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message}
}

// Unauthorized builds an UNAUTHORIZED error.
func Unauthorized(message string) *Error {
	return &Error{Code: CodeUnauthorized, Message: message}
}

// Forbidden builds a FORBIDDEN error.
func Forbidden(message string) *Error {
	return &Error{Code: CodeForbidden, Message: message}
}

// Result is a successful handler outcome: the data to envelope plus the HTTP
// status to send it with.
type Result struct {
	Status int
	Data   interface{}
	Meta   interface{}
}

// OK wraps data with a 200 status.
func OK(data interface{}) *Result {
	return &Result{Status: http.StatusOK, Data: data}
}

// Created wraps data with a 201 status.
func Created(data interface{}) *Result {
	return &Result{Status: http.StatusCreated, Data: data}
}

// NoContent reports success with no data.
func NoContent() *Result {
	return &Result{Status: http.StatusOK}
}

// WithMeta attaches meta information to a result.
func (r *Result) WithMeta(meta interface{}) *Result {
	r.Meta = meta
	return r
}
