package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestGhostError_Error(t *testing.T) {
	err := &GhostError{
		Code:    ErrNotFound,
		Status:  404,
		Message: "not found: abc",
	}

	expected := "NOT_FOUND: not found: abc"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewInvalidRequest(t *testing.T) {
	err := NewInvalidRequest("command is required")

	if err.Code != ErrInvalidRequest {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidRequest)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
	if err.Message != "command is required" {
		t.Errorf("Message = %q, want %q", err.Message, "command is required")
	}
}

func TestNewIndexOutOfRange(t *testing.T) {
	err := NewIndexOutOfRange(999, 52)

	if err.Code != ErrIndexOutOfRange {
		t.Errorf("Code = %q, want %q", err.Code, ErrIndexOutOfRange)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
	if err.Details["index"] != 999 {
		t.Errorf("Details[index] = %v, want 999", err.Details["index"])
	}
	if err.Details["length"] != 52 {
		t.Errorf("Details[length] = %v, want 52", err.Details["length"])
	}
}

func TestNewNotFound(t *testing.T) {
	err := NewNotFound("01HZX")

	if err.Code != ErrNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotFound)
	}
	if err.Status != 404 {
		t.Errorf("Status = %d, want 404", err.Status)
	}
	if err.Details["identifier"] != "01HZX" {
		t.Errorf("Details[identifier] = %v, want %q", err.Details["identifier"], "01HZX")
	}
}

func TestNewFileNotFound(t *testing.T) {
	err := NewFileNotFound("/tmp/missing.jsonl")

	if err.Code != ErrFileNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrFileNotFound)
	}
	if err.Status != 404 {
		t.Errorf("Status = %d, want 404", err.Status)
	}
}

func TestNewConflict(t *testing.T) {
	err := NewConflict("category already exists")

	if err.Code != ErrConflict {
		t.Errorf("Code = %q, want %q", err.Code, ErrConflict)
	}
	if err.Status != 409 {
		t.Errorf("Status = %d, want 409", err.Status)
	}
}

func TestNewInternal(t *testing.T) {
	err := NewInternal(fmt.Errorf("disk full"))
	if err.Code != ErrInternal || err.Status != 500 {
		t.Errorf("got %s/%d, want INTERNAL/500", err.Code, err.Status)
	}
	if err.Message != "disk full" {
		t.Errorf("Message = %q, want %q", err.Message, "disk full")
	}

	nilErr := NewInternal(nil)
	if nilErr.Message != "internal error" {
		t.Errorf("Message = %q, want %q", nilErr.Message, "internal error")
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
		{"wrapped", fmt.Errorf("edit: %w", NewIndexOutOfRange(3, 2)), ErrIndexOutOfRange, true},
		{"plain error", stderrors.New("boom"), ErrInternal, false},
		{"nil", nil, ErrInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAs(t *testing.T) {
	orig := NewConflict("dup")
	if got := As(fmt.Errorf("wrap: %w", orig)); got != orig {
		t.Errorf("As() = %v, want original error", got)
	}

	got := As(stderrors.New("boom"))
	if got.Code != ErrInternal {
		t.Errorf("As(plain).Code = %q, want %q", got.Code, ErrInternal)
	}
}
