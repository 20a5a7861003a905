package server

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/errors"
)

// APIError is the JSON body of every failed request.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewBadRequestError creates a 400 error.
func NewBadRequestError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusBadRequest,
		Code:    "BAD_REQUEST",
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// toAPIError converts any handler error to its response form. Coded errors
// keep their code and map to a status by code.
func toAPIError(err error) *APIError {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr
	}
	if he, ok := err.(*echo.HTTPError); ok {
		return &APIError{
			Status:  he.Code,
			Code:    "HTTP_ERROR",
			Message: fmt.Sprintf("%v", he.Message),
		}
	}
	if code := errors.GetCode(err); code != "" {
		apiErr := &APIError{
			Status:  errors.HTTPStatus(err),
			Code:    string(code),
			Message: errors.UserMessage(err),
		}
		if cause := causeOf(err); cause != nil {
			apiErr.Details = cause.Error()
		}
		return apiErr
	}
	return &APIError{
		Status:  http.StatusInternalServerError,
		Code:    string(errors.ErrCodeInternal),
		Message: "an unexpected error occurred",
		Details: err.Error(),
	}
}

func causeOf(err error) error {
	if e, ok := err.(*errors.Error); ok {
		return e.Cause
	}
	return nil
}

// ErrorHandler writes errors as APIError JSON.
// Usage: e.HTTPErrorHandler = ErrorHandler
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	apiErr := toAPIError(err)
	_ = c.JSON(apiErr.Status, apiErr)
}
