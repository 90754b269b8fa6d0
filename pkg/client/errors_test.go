package client

import (
	"errors"
	"fmt"
	"testing"
)

func TestUpstreamError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *UpstreamError
		want string
	}{
		{
			name: "status error",
			err:  &UpstreamError{Endpoint: "/api/v2/pokemon/1", StatusCode: 404},
			want: "upstream /api/v2/pokemon/1: status 404",
		},
		{
			name: "transport error",
			err:  &UpstreamError{Endpoint: "/api/v2/pokemon", Err: errors.New("connection refused")},
			want: "upstream /api/v2/pokemon: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUpstreamError_Unwrap(t *testing.T) {
	inner := errors.New("dial tcp: timeout")
	err := &UpstreamError{Endpoint: "/api/v2/pokemon", Err: inner}

	if !errors.Is(err, inner) {
		t.Error("errors.Is should find the wrapped transport error")
	}

	wrapped := fmt.Errorf("fetch page: %w", err)
	var ue *UpstreamError
	if !errors.As(wrapped, &ue) {
		t.Error("errors.As should find *UpstreamError through wrapping")
	}
}

func TestIsUpstreamError(t *testing.T) {
	if !IsUpstreamError(&UpstreamError{StatusCode: 500}) {
		t.Error("Expected true for *UpstreamError")
	}

	if !IsUpstreamError(fmt.Errorf("wrap: %w", &UpstreamError{StatusCode: 500})) {
		t.Error("Expected true for wrapped *UpstreamError")
	}

	if IsUpstreamError(errors.New("plain")) {
		t.Error("Expected false for unrelated error")
	}
}
