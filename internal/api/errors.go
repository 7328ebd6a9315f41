package api

import (
	"errors"
	"fmt"
)

// FallbackMessage is shown when a failed response carries no usable message.
const FallbackMessage = "Failed to fetch results"

// NetworkError means the request never produced a response.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("network error: %v", e.Err) }
func (e *NetworkError) Unwrap() error { return e.Err }

// ServiceError is a non-2xx response from the service.
type ServiceError struct {
	Status  int
	Kind    string
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("service error (HTTP %d): %s", e.Status, e.Message)
}

// MalformedResponseError is a 2xx response whose body is not a search result.
type MalformedResponseError struct {
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed response: %s: %v", e.Reason, e.Err)
	}
	return "malformed response: " + e.Reason
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// DisplayMessage converts an error from the client into the single line of
// text shown to the user.
func DisplayMessage(err error) string {
	if err == nil {
		return ""
	}

	var svc *ServiceError
	if errors.As(err, &svc) {
		if svc.Message != "" {
			return svc.Message
		}
		return FallbackMessage
	}

	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return FallbackMessage
	}

	var bad *MalformedResponseError
	if errors.As(err, &bad) {
		return "Unexpected response from the search service"
	}

	return err.Error()
}
