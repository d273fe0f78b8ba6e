// Package apierror defines the JSON error envelope rendered for every 4xx/5xx
// response and the typed error that carries it through echo.
package apierror

import (
	"fmt"
	"net/http"
	"strings"
)

// Issue is a single validation failure.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Body is the canonical error envelope: {"error", "message", "issues"}.
type Body struct {
	Error   string  `json:"error"`
	Message string  `json:"message,omitempty"`
	Issues  []Issue `json:"issues,omitempty"`
}

// Error is returned by handlers and middleware and rendered by the central
// HTTP error handler.
type Error struct {
	Status int
	Body   Body
}

func (e *Error) Error() string {
	if e.Body.Message == "" {
		return fmt.Sprintf("%d %s", e.Status, e.Body.Error)
	}
	return fmt.Sprintf("%d %s: %s", e.Status, e.Body.Error, e.Body.Message)
}

func New(status int, title, message string) *Error {
	return &Error{Status: status, Body: Body{Error: title, Message: message}}
}

func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, "Access denied", message)
}

func Forbidden(message string) *Error {
	return New(http.StatusForbidden, "Forbidden", message)
}

// Validation builds a 400 whose message joins every issue.
func Validation(issues ...Issue) *Error {
	msgs := make([]string, 0, len(issues))
	for _, is := range issues {
		msgs = append(msgs, is.Message)
	}
	return &Error{
		Status: http.StatusBadRequest,
		Body: Body{
			Error:   "Validation failed",
			Message: strings.Join(msgs, "; "),
			Issues:  issues,
		},
	}
}
