// Package httperr centralizes the mapping from domain and infrastructure
// errors to HTTP responses, keeping the service layer free of status codes.
package httperr

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Error is a request-rejecting error with an HTTP status attached.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

// NotFound reports an unknown user, conversation or notification id.
func NotFound(msg string) *Error {
	return &Error{Status: http.StatusNotFound, Message: msg}
}

// InvalidInput reports missing or malformed request fields.
func InvalidInput(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: msg}
}

// Map converts repository/infra errors into *Error values.
// Domain errors pass through untouched; anything unrecognized becomes a 500
// so transient store failures surface to the caller instead of being
// silently swallowed.
func Map(err error) *Error {
	if err == nil {
		return nil
	}

	var e *Error
	switch {
	case errors.As(err, &e):
		return e

	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFound("record not found")

	case errors.Is(err, context.DeadlineExceeded):
		return &Error{Status: http.StatusGatewayTimeout, Message: "request timed out"}

	case errors.Is(err, context.Canceled):
		return &Error{Status: 499, Message: "request was canceled"}

	default:
		return &Error{Status: http.StatusInternalServerError, Message: err.Error()}
	}
}

// Respond writes the mapped error as a JSON body on the gin context.
func Respond(c *gin.Context, err error) {
	e := Map(err)
	c.JSON(e.Status, gin.H{"message": e.Message})
}
