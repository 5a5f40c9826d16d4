package resilience

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"testing"
)

func TestIsTransient_Nil(t *testing.T) {
	if IsTransient(nil) {
		t.Error("nil error should not be transient")
	}
}

func TestIsTransient_ExplicitWrapper(t *testing.T) {
	err := NewTransientError(errors.New("503 from upstream"), 503)
	if !IsTransient(err) {
		t.Error("TransientError should be transient")
	}

	wrapped := fmt.Errorf("fetch failed: %w", err)
	if !IsTransient(wrapped) {
		t.Error("wrapped TransientError should be transient")
	}
}

func TestIsTransient_PermanentWins(t *testing.T) {
	inner := NewTransientError(errors.New("timeout"), 504)
	err := NewPermanentError(inner)
	if IsTransient(err) {
		t.Error("PermanentError must never be transient")
	}
	if !IsPermanent(err) {
		t.Error("expected IsPermanent true")
	}
}

func TestIsTransient_DeadlineExceeded(t *testing.T) {
	if !IsTransient(context.DeadlineExceeded) {
		t.Error("deadline exceeded should be transient")
	}
	wrapped := fmt.Errorf("navigate: %w", context.DeadlineExceeded)
	if !IsTransient(wrapped) {
		t.Error("wrapped deadline exceeded should be transient")
	}
}

func TestIsTransient_Syscall(t *testing.T) {
	if !IsTransient(syscall.ECONNRESET) {
		t.Error("ECONNRESET should be transient")
	}
	if !IsTransient(syscall.ECONNREFUSED) {
		t.Error("ECONNREFUSED should be transient")
	}
}

func TestIsTransient_StringPatterns(t *testing.T) {
	cases := []struct {
		msg  string
		want bool
	}{
		{"read tcp: connection reset by peer", true},
		{"lookup acme.io: no such host", true},
		{"net::ERR_CONNECTION_REFUSED", true},
		{"net::ERR_TIMED_OUT", true},
		{"browser: fetch https://x.io: page load error net::ERR_NAME_NOT_RESOLVED", true},
		{"page load error net::ERR_ADDRESS_UNREACHABLE", true},
		{"page load error net::ERR_PROXY_CONNECTION_FAILED", true},
		{"page not found", false},
		{"invalid URL", false},
	}
	for _, tt := range cases {
		if got := IsTransient(errors.New(tt.msg)); got != tt.want {
			t.Errorf("IsTransient(%q) = %v, want %v", tt.msg, got, tt.want)
		}
	}
}

func TestIsTransientHTTPStatus(t *testing.T) {
	for _, code := range []int{408, 429, 500, 502, 503, 504} {
		if !IsTransientHTTPStatus(code) {
			t.Errorf("status %d should be transient", code)
		}
	}
	for _, code := range []int{200, 301, 400, 401, 403, 404} {
		if IsTransientHTTPStatus(code) {
			t.Errorf("status %d should not be transient", code)
		}
	}
}
