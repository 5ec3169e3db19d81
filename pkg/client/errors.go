package client

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors returned by the client.
var (
	// ErrRetryExhausted is returned when all retry attempts are exhausted.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrContextCancelled is returned when the context is cancelled during retry.
	ErrContextCancelled = errors.New("context cancelled")
)

// ErrorClass represents a classification of request failures.
type ErrorClass string

const (
	// ErrorClassNotFound represents 404 responses.
	ErrorClassNotFound ErrorClass = "not_found"

	// ErrorClassServer represents 500 responses.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassClient represents every other 4xx response.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassUpstream represents every other 5xx response.
	ErrorClassUpstream ErrorClass = "upstream"

	// ErrorClassNetwork represents transport failures and timeouts.
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassDecode represents a response body that is not a search result.
	ErrorClassDecode ErrorClass = "decode"
)

// APIError is a failed payments API call.
type APIError struct {
	// StatusCode is 0 when no HTTP response was received.
	StatusCode int
	Class      ErrorClass
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("payments API %s error (status %d): %s: %v",
			e.Class, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("payments API %s error (status %d): %s",
		e.Class, e.StatusCode, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *APIError) Unwrap() error {
	return e.Err
}

// classifyStatus maps an HTTP error status to its class.
func classifyStatus(status int) ErrorClass {
	switch {
	case status == http.StatusNotFound:
		return ErrorClassNotFound
	case status == http.StatusInternalServerError:
		return ErrorClassServer
	case status >= 400 && status < 500:
		return ErrorClassClient
	case status >= 500:
		return ErrorClassUpstream
	default:
		return ""
	}
}

// Classify returns the class of err. Errors that did not come from an HTTP
// response are network errors. A nil error has no class.
func Classify(err error) ErrorClass {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Class
	}
	return ErrorClassNetwork
}

// shouldRetry determines if a failure of the given class is worth retrying.
func shouldRetry(class ErrorClass) bool {
	switch class {
	case ErrorClassServer, ErrorClassUpstream, ErrorClassNetwork:
		return true
	default:
		// 4xx and malformed bodies will fail the same way again
		return false
	}
}
