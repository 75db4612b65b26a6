package errors

import "fmt"

// ErrorCode represents a stringvault error code.
type ErrorCode string

const (
	ErrInvalidRequest   ErrorCode = "INVALID_REQUEST"    // 400
	ErrUnparseableQuery ErrorCode = "UNPARSEABLE_QUERY"  // 400
	ErrNotFound         ErrorCode = "NOT_FOUND"          // 404
	ErrMethodNotAllowed ErrorCode = "METHOD_NOT_ALLOWED" // 405
	ErrConflict         ErrorCode = "CONFLICT"           // 409
	ErrValidation       ErrorCode = "VALIDATION_ERROR"   // 422
	ErrInternal         ErrorCode = "INTERNAL"           // 500
)

// VaultError represents a structured error with code, status, and details.
type VaultError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *VaultError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *VaultError {
	return &VaultError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewUnparseableQuery creates a 400 error for a natural language query
// that matched no known phrase.
func NewUnparseableQuery(query string) *VaultError {
	return &VaultError{
		Code:    ErrUnparseableQuery,
		Status:  400,
		Message: "unable to parse natural language query",
		Details: map[string]any{"query": query},
	}
}

// NewNotFound creates a 404 error for when a string cannot be found.
func NewNotFound(identifier string) *VaultError {
	return &VaultError{
		Code:    ErrNotFound,
		Status:  404,
		Message: "string not found",
		Details: map[string]any{"identifier": identifier},
	}
}

// NewFileNotFound creates a 404 error for a missing import file.
func NewFileNotFound(path string) *VaultError {
	return &VaultError{
		Code:    ErrNotFound,
		Status:  404,
		Message: "file not found",
		Details: map[string]any{"path": path},
	}
}

// NewRouteNotFound creates a 404 error for a path no route serves.
func NewRouteNotFound(path string) *VaultError {
	return &VaultError{
		Code:    ErrNotFound,
		Status:  404,
		Message: "route not found",
		Details: map[string]any{"path": path},
	}
}

// NewMethodNotAllowed creates a 405 error for a known path requested with
// an unsupported method. allowed lists the methods the path does serve.
func NewMethodNotAllowed(method string, allowed []string) *VaultError {
	return &VaultError{
		Code:    ErrMethodNotAllowed,
		Status:  405,
		Message: fmt.Sprintf("method %s not allowed", method),
		Details: map[string]any{"allowed": allowed},
	}
}

// NewConflict creates a 409 error for a value that is already stored.
func NewConflict(id string) *VaultError {
	return &VaultError{
		Code:    ErrConflict,
		Status:  409,
		Message: "string already exists",
		Details: map[string]any{"id": id},
	}
}

// NewValidation creates a 422 error for malformed or missing input.
func NewValidation(field, msg string) *VaultError {
	return &VaultError{
		Code:    ErrValidation,
		Status:  422,
		Message: msg,
		Details: map[string]any{"field": field},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *VaultError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &VaultError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a VaultError with the given code.
func Is(err error, code ErrorCode) bool {
	if vErr, ok := err.(*VaultError); ok {
		return vErr.Code == code
	}
	return false
}

// StatusOf returns the HTTP status for err. Errors that are not a
// VaultError map to 500.
func StatusOf(err error) int {
	if vErr, ok := err.(*VaultError); ok {
		return vErr.Status
	}
	return 500
}
