// Package apierr defines the error types shared by the OTLP receivers and
// the query transports, and the HTTP status/JSON response helpers that
// translate them at the wire.
package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ValidationError represents errors from invalid input, including
// rejected SQL statements.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError represents errors when a resource is not found.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s with ID '%s' not found", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// NewNotFoundError creates a new not found error.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// TimeoutError represents timeout errors. Neither the query path nor
// Follow constructs one.
type TimeoutError struct {
	Operation string
	Duration  string
}

func (e *TimeoutError) Error() string {
	if e.Duration != "" {
		return fmt.Sprintf("timeout during %s after %s", e.Operation, e.Duration)
	}
	return fmt.Sprintf("timeout during %s", e.Operation)
}

// NewTimeoutError creates a new timeout error.
func NewTimeoutError(operation, duration string) *TimeoutError {
	return &TimeoutError{Operation: operation, Duration: duration}
}

// PayloadTooLargeError represents errors when a request payload exceeds
// the configured size limit.
type PayloadTooLargeError struct {
	MaxSize    int64
	ActualSize int64
}

func (e *PayloadTooLargeError) Error() string {
	return fmt.Sprintf("payload too large: maximum size is %d bytes, got %d bytes", e.MaxSize, e.ActualSize)
}

// NewPayloadTooLargeError creates a new payload too large error.
func NewPayloadTooLargeError(maxSize, actualSize int64) *PayloadTooLargeError {
	return &PayloadTooLargeError{MaxSize: maxSize, ActualSize: actualSize}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsNotFoundError(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}

func IsTimeoutError(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

func IsPayloadTooLargeError(err error) bool {
	var ptle *PayloadTooLargeError
	return errors.As(err, &ptle)
}

// HTTPStatusFromError returns the appropriate HTTP status code for an error.
func HTTPStatusFromError(err error) int {
	switch {
	case IsValidationError(err):
		return http.StatusBadRequest
	case IsNotFoundError(err):
		return http.StatusNotFound
	case IsTimeoutError(err):
		return http.StatusGatewayTimeout
	case IsPayloadTooLargeError(err):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// WriteErrorFromError writes an error response based on the error's type.
func WriteErrorFromError(w http.ResponseWriter, err error) {
	statusCode := HTTPStatusFromError(err)
	WriteError(w, statusCode, err.Error())
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func WriteError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}

func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}
