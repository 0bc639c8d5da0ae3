package httperr

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Error is a failure the API translates into a JSON body and status code.
// Anything that is not an *Error reaches the caller as a generic 500.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

func Validation(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Status: http.StatusUnauthorized, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Status: http.StatusForbidden, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Status: http.StatusNotFound, Message: message}
}

func NotConfigured(message string) *Error {
	return &Error{Status: http.StatusNotImplemented, Message: message}
}

// Status maps err to an HTTP status and user-facing message. Unrecognized
// errors collapse to a generic server error so internals never leak.
func Status(err error) (int, string) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status, apiErr.Message
	}
	return http.StatusInternalServerError, "Server error"
}

// JSON writes err as the API's standard {"message": ...} body.
func JSON(c echo.Context, err error) error {
	status, message := Status(err)
	return c.JSON(status, map[string]string{"message": message})
}
