package services_test

import (
	"errors"
	"strings"
	"testing"

	"lameta/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "validate", "collector", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"validate", "collector", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutMarkerDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "export failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestFailureStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, services.StatusSucceeded},
		{"validation", services.Wrap(services.ErrValidation, "rocrate", "lock", "busy", nil), services.StatusInvalid},
		{"config", services.Wrap(services.ErrConfiguration, "config", "load", "bad", nil), services.StatusInvalid},
		{"cancelled", services.Wrap(services.ErrCancelled, "copy", "", "interrupted", nil), services.StatusCancelled},
		{"transient", services.Wrap(services.ErrTransient, "imdi", "write", "disk", errors.New("io")), services.StatusFailed},
		{"plain", errors.New("other"), services.StatusFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := services.FailureStatus(tt.err); got != tt.want {
				t.Fatalf("FailureStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}
