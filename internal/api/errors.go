package api

import (
	"errors"
	"fmt"
)

// NotFoundError represents a resource not found error with contextual information.
// The Kibana client returns it for 404 responses so callers can tell a missing
// agent apart from a failed request.
type NotFoundError struct {
	// ResourceType categorizes the resource (e.g., "agent", "agent policy")
	ResourceType string

	// ResourceName is the identifier that was looked up
	ResourceName string

	// Message overrides the default message when set
	Message string
}

// Error implements the error interface for NotFoundError.
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s not found", e.ResourceType, e.ResourceName)
}

// IsNotFound checks if an error is or wraps a NotFoundError.
//
// Example:
//
//	agent, err := client.GetAgent(ctx, id)
//	if api.IsNotFound(err) {
//	    // render the "Agent not found" body
//	}
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// NewNotFoundError creates a new NotFoundError with the specified resource type and name.
func NewNotFoundError(resourceType, resourceName string) *NotFoundError {
	return &NotFoundError{
		ResourceType: resourceType,
		ResourceName: resourceName,
	}
}

var (
	// NewAgentNotFoundError creates an agent not found error.
	NewAgentNotFoundError = func(id string) *NotFoundError {
		return NewNotFoundError("agent", id)
	}

	// NewAgentPolicyNotFoundError creates an agent policy not found error.
	NewAgentPolicyNotFoundError = func(id string) *NotFoundError {
		return NewNotFoundError("agent policy", id)
	}
)

// RequestError is a non-2xx answer from the backend. Detail holds the decoded
// error body when the backend sent one.
type RequestError struct {
	Method     string
	Path       string
	StatusCode int
	Detail     *ErrorDetail
}

// Error implements the error interface for RequestError.
func (e *RequestError) Error() string {
	if e.Detail != nil && (e.Detail.Message != "" || e.Detail.Name != "") {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Detail.Error())
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
}

// IsRequestError checks if an error is or wraps a RequestError.
func IsRequestError(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr)
}
