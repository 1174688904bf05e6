package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// Issue is a single field-level validation failure.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error represents an application error
type Error struct {
	Code    int     `json:"code"`
	Message string  `json:"message"`
	Issues  []Issue `json:"errors,omitempty"`
	Err     error   `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target carries the same status and message, so callers
// can match constructed errors against the package sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// JSON returns the error as a JSON string
func (e *Error) JSON() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, message, nil)
}

func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, message, nil)
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, message, nil)
}

// Internal wraps an infrastructure failure. The cause is logged, never rendered.
func Internal(err error) *Error {
	return New(http.StatusInternalServerError, "Internal server error", err)
}

// Validation builds a 400 carrying per-field issues.
func Validation(issues ...Issue) *Error {
	e := New(http.StatusBadRequest, "Validation error", nil)
	e.Issues = issues
	return e
}

// Common error types
var (
	ErrBadRequest         = New(http.StatusBadRequest, "Bad request", nil)
	ErrUnauthorized       = New(http.StatusUnauthorized, "Unauthorized", nil)
	ErrForbidden          = New(http.StatusForbidden, "Forbidden", nil)
	ErrNotFound           = New(http.StatusNotFound, "Not found", nil)
	ErrInternalServer     = New(http.StatusInternalServerError, "Internal server error", nil)
	ErrServiceUnavailable = New(http.StatusServiceUnavailable, "Service unavailable", nil)
	ErrRequestTimeout     = New(http.StatusGatewayTimeout, "Request timed out", nil)
)

// Validation error types
var (
	ErrValidation  = New(http.StatusBadRequest, "Validation error", nil)
	ErrInvalidJSON = New(http.StatusBadRequest, "Invalid JSON body", nil)
)

// Business logic error types
var (
	ErrInsufficientStock = New(http.StatusBadRequest, "Insufficient stock", nil)
)

// From converts any error into an *Error. Unknown errors become a 500 that
// keeps the cause for logging.
func From(err error) *Error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr
	}

	var verrs validator.ValidationErrors
	if stderrors.As(err, &verrs) {
		return fromValidationErrors(verrs)
	}

	return Internal(err)
}

// FromBinding converts a gin ShouldBindJSON failure. Decode failures become
// a BadRequest, type mismatches a field issue, and schema failures a
// Validation error.
func FromBinding(err error) *Error {
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if stderrors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return Validation(Issue{Field: field, Message: "must be a " + typeErr.Type.String()})
	}

	var syntaxErr *json.SyntaxError
	if stderrors.As(err, &syntaxErr) || stderrors.Is(err, io.EOF) || stderrors.Is(err, io.ErrUnexpectedEOF) {
		return New(ErrInvalidJSON.Code, ErrInvalidJSON.Message, err)
	}

	var verrs validator.ValidationErrors
	if stderrors.As(err, &verrs) {
		return fromValidationErrors(verrs)
	}

	return New(ErrInvalidJSON.Code, ErrInvalidJSON.Message, err)
}

func fromValidationErrors(verrs validator.ValidationErrors) *Error {
	issues := make([]Issue, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, Issue{Field: fe.Field(), Message: issueMessage(fe)})
	}
	return Validation(issues...)
}

func issueMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "len":
		return fmt.Sprintf("must be exactly %s characters long", fe.Param())
	case "hexadecimal":
		return "must be a hexadecimal string"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
