package http

import (
	"encoding/json"
	"errors"
	"fmt"
	nethttp "net/http"
)

// ErrUnauthorized is matched by *APIError values carrying a 401 status
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a non-2xx response from the API
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Is lets errors.Is(err, ErrUnauthorized) match 401 responses
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == nethttp.StatusUnauthorized
}

// NotFound reports whether the API answered 404
func (e *APIError) NotFound() bool {
	return e.StatusCode == nethttp.StatusNotFound
}

// ErrorMessage extracts the human readable message from an error payload,
// preferring "message" over "error" and using fallback when neither is set.
func ErrorMessage(body []byte, fallback string) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return fallback
}

// UserMessage returns the text to show a user for err
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
