// Package apierr defines the error taxonomy shared by all handlers and
// services and maps it to structured JSON at the handler boundary.
package apierr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const (
	CodeValidation     = "validation_error"
	CodeAuthentication = "authentication_error"
	CodePermission     = "permission_denied"
	CodeNotFound       = "not_found"
	CodeThrottled      = "throttled"
	CodeInternal       = "internal_error"
)

type Error struct {
	Status  int               `json:"-"`
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func Validation(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: CodeValidation, Message: message}
}

func ValidationFields(message string, fields map[string]string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: CodeValidation, Message: message, Fields: fields}
}

func Unauthorized(message string) *Error {
	return &Error{Status: http.StatusUnauthorized, Code: CodeAuthentication, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Status: http.StatusForbidden, Code: CodePermission, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Status: http.StatusNotFound, Code: CodeNotFound, Message: message}
}

func Throttled(message string) *Error {
	return &Error{Status: http.StatusTooManyRequests, Code: CodeThrottled, Message: message}
}

// FromBinding converts a gin ShouldBindJSON error into a validation error
// with per-field messages where the underlying validator provides them.
func FromBinding(err error) *Error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fmt.Sprintf("failed on the '%s' rule", fe.Tag())
		}
		return ValidationFields("invalid request body", fields)
	}
	return Validation(err.Error())
}

// Respond writes err to the client. Unknown error values are reported as an
// opaque 500 so internal details never leak.
func Respond(c *gin.Context, err error) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.Status, apiErr)
		return
	}
	c.JSON(http.StatusInternalServerError, &Error{
		Status:  http.StatusInternalServerError,
		Code:    CodeInternal,
		Message: "internal server error",
	})
}

// Abort writes err and stops the middleware chain.
func Abort(c *gin.Context, err error) {
	Respond(c, err)
	c.Abort()
}
