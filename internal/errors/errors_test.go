package errors

import (
	"fmt"
	"testing"
)

func TestVaultError_Error(t *testing.T) {
	err := &VaultError{
		Code:    ErrNotFound,
		Status:  404,
		Message: "string not found",
	}

	expected := "NOT_FOUND: string not found"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewInvalidRequest(t *testing.T) {
	err := NewInvalidRequest("value is required")

	if err.Code != ErrInvalidRequest {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidRequest)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
	if err.Message != "value is required" {
		t.Errorf("Message = %q, want %q", err.Message, "value is required")
	}
}

func TestNewUnparseableQuery(t *testing.T) {
	err := NewUnparseableQuery("hello")

	if err.Code != ErrUnparseableQuery {
		t.Errorf("Code = %q, want %q", err.Code, ErrUnparseableQuery)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
	if err.Details["query"] != "hello" {
		t.Errorf("Details[query] = %v, want %q", err.Details["query"], "hello")
	}
}

func TestNewNotFound(t *testing.T) {
	err := NewNotFound("abc")

	if err.Code != ErrNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotFound)
	}
	if err.Status != 404 {
		t.Errorf("Status = %d, want 404", err.Status)
	}
	if err.Details["identifier"] != "abc" {
		t.Errorf("Details[identifier] = %v, want %q", err.Details["identifier"], "abc")
	}
}

func TestNewFileNotFound(t *testing.T) {
	err := NewFileNotFound("/tmp/in.jsonl")

	if err.Code != ErrNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotFound)
	}
	if err.Message != "file not found" {
		t.Errorf("Message = %q, want %q", err.Message, "file not found")
	}
	if err.Details["path"] != "/tmp/in.jsonl" {
		t.Errorf("Details[path] = %v, want %q", err.Details["path"], "/tmp/in.jsonl")
	}
}

func TestNewRouteNotFound(t *testing.T) {
	err := NewRouteNotFound("/nope")

	if err.Code != ErrNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotFound)
	}
	if err.Status != 404 {
		t.Errorf("Status = %d, want 404", err.Status)
	}
	if err.Details["path"] != "/nope" {
		t.Errorf("Details[path] = %v, want %q", err.Details["path"], "/nope")
	}
}

func TestNewMethodNotAllowed(t *testing.T) {
	err := NewMethodNotAllowed("PUT", []string{"DELETE", "GET", "HEAD"})

	if err.Code != ErrMethodNotAllowed {
		t.Errorf("Code = %q, want %q", err.Code, ErrMethodNotAllowed)
	}
	if err.Status != 405 {
		t.Errorf("Status = %d, want 405", err.Status)
	}
	if err.Message != "method PUT not allowed" {
		t.Errorf("Message = %q, want %q", err.Message, "method PUT not allowed")
	}
}

func TestNewConflict(t *testing.T) {
	err := NewConflict("deadbeef")

	if err.Code != ErrConflict {
		t.Errorf("Code = %q, want %q", err.Code, ErrConflict)
	}
	if err.Status != 409 {
		t.Errorf("Status = %d, want 409", err.Status)
	}
	if err.Details["id"] != "deadbeef" {
		t.Errorf("Details[id] = %v, want %q", err.Details["id"], "deadbeef")
	}
}

func TestNewValidation(t *testing.T) {
	err := NewValidation("value", `"value" must be a string`)

	if err.Code != ErrValidation {
		t.Errorf("Code = %q, want %q", err.Code, ErrValidation)
	}
	if err.Status != 422 {
		t.Errorf("Status = %d, want 422", err.Status)
	}
	if err.Details["field"] != "value" {
		t.Errorf("Details[field] = %v, want %q", err.Details["field"], "value")
	}
}

func TestNewInternal(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{"with error", fmt.Errorf("disk full"), "disk full"},
		{"nil error", nil, "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewInternal(tt.err)
			if err.Code != ErrInternal {
				t.Errorf("Code = %q, want %q", err.Code, ErrInternal)
			}
			if err.Status != 500 {
				t.Errorf("Status = %d, want 500", err.Status)
			}
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
		})
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code ErrorCode
		want bool
	}{
		{"matching code", NewNotFound("x"), ErrNotFound, true},
		{"different code", NewNotFound("x"), ErrConflict, false},
		{"plain error", fmt.Errorf("boom"), ErrInternal, false},
		{"nil error", nil, ErrNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStatusOf(t *testing.T) {
	if got := StatusOf(NewConflict("x")); got != 409 {
		t.Errorf("StatusOf(conflict) = %d, want 409", got)
	}
	if got := StatusOf(fmt.Errorf("boom")); got != 500 {
		t.Errorf("StatusOf(plain) = %d, want 500", got)
	}
}
