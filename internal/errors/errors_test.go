package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAdfError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *AdfError
		wantMsg string
	}{
		{
			name:    "without cause",
			err:     New(ExitGeneralError, "something went wrong"),
			wantMsg: "something went wrong",
		},
		{
			name:    "with cause",
			err:     Wrap(ExitGeneralError, "operation failed", fmt.Errorf("underlying error")),
			wantMsg: "operation failed: underlying error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestAdfError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := Wrap(ExitGeneralError, "wrapped", cause)

	if unwrapped := err.Unwrap(); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	errNoCause := New(ExitGeneralError, "no cause")
	if unwrapped := errNoCause.Unwrap(); unwrapped != nil {
		t.Errorf("Unwrap() = %v, want nil", unwrapped)
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *AdfError
		wantCode int
		wantMsg  string
	}{
		{"file not found", FileNotFound("/tmp/default.cfg"), ExitFileNotFound, "not found: /tmp/default.cfg"},
		{"path conflict", PathConflict("blank.adf"), ExitPathConflict, "exists: blank.adf"},
		{"tool unavailable", ToolUnavailable("xdftool"), ExitToolUnavailable, "xdftool not found"},
		{"connection failure", ConnectionFailure("error: connection refused"), ExitConnectionFailure, "error: connection refused"},
		{"no free unit", NoFreeUnit(), ExitNoFreeUnit, "no free unit"},
		{"validation", ValidationError("bad unit"), ExitValidation, "bad unit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("Code = %d, want %d", tt.err.Code, tt.wantCode)
			}
			if tt.err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", tt.err.Message, tt.wantMsg)
			}
		})
	}
}

func TestConfigError(t *testing.T) {
	cause := fmt.Errorf("invalid toml")
	err := ConfigError("failed to parse settings", cause)

	if err.Code != ExitConfigError {
		t.Errorf("Code = %d, want %d", err.Code, ExitConfigError)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{
			name:     "AdfError",
			err:      FileNotFound("x"),
			wantCode: ExitFileNotFound,
		},
		{
			name:     "wrapped AdfError",
			err:      fmt.Errorf("outer: %w", NoFreeUnit()),
			wantCode: ExitNoFreeUnit,
		},
		{
			name:     "regular error",
			err:      fmt.Errorf("some error"),
			wantCode: ExitGeneralError,
		},
		{
			name:     "nil error",
			err:      nil,
			wantCode: ExitGeneralError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.wantCode {
				t.Errorf("GetExitCode() = %d, want %d", got, tt.wantCode)
			}
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{FileNotFound("x"), http.StatusNotFound},
		{PathConflict("x"), http.StatusConflict},
		{NoFreeUnit(), http.StatusConflict},
		{ToolUnavailable("xdftool"), http.StatusServiceUnavailable},
		{ConnectionFailure("error: timeout"), http.StatusBadGateway},
		{ValidationError("bad"), http.StatusBadRequest},
		{ConfigError("bad", nil), http.StatusInternalServerError},
		{fmt.Errorf("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAs(t *testing.T) {
	adfErr := PathConflict("test.adf")
	wrapped := fmt.Errorf("wrapped: %w", adfErr)

	var target *AdfError
	if !As(wrapped, &target) {
		t.Error("As() should return true for wrapped AdfError")
	}

	if target.Code != ExitPathConflict {
		t.Errorf("target.Code = %d, want %d", target.Code, ExitPathConflict)
	}

	regularErr := fmt.Errorf("regular error")
	if As(regularErr, &target) {
		t.Error("As() should return false for non-AdfError")
	}
}

func TestErrorChaining(t *testing.T) {
	root := fmt.Errorf("root cause")
	middle := Wrap(ExitConfigError, "config error", root)
	outer := fmt.Errorf("operation failed: %w", middle)

	if !errors.Is(outer, root) {
		t.Error("errors.Is should find root cause")
	}
	if !Is(outer, root) {
		t.Error("Is should find root cause")
	}

	var adfErr *AdfError
	if !errors.As(outer, &adfErr) {
		t.Fatal("errors.As should find AdfError")
	}

	if adfErr.Code != ExitConfigError {
		t.Errorf("Code = %d, want %d", adfErr.Code, ExitConfigError)
	}
}
