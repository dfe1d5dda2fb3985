package services_test

import (
	"errors"
	"strings"
	"testing"

	"cratepress/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	err := services.Wrap(services.ErrTransient, "instagram", "publish", "http 500", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "instagram: publish: http 500") {
		t.Fatalf("unexpected error detail: %v", err)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("boom")
	err := services.Wrap(services.ErrGeneration, "gemini", "generate", "", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	if !errors.Is(err, services.ErrGeneration) {
		t.Fatalf("expected generation marker, got %v", err)
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient fallback, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected generic detail, got %v", err)
	}
}

func TestIsFatal(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		expect bool
	}{
		{"configuration", services.Wrap(services.ErrConfiguration, "config", "load", "missing folder", nil), true},
		{"auth", services.Wrap(services.ErrAuth, "instagram", "publish", "token expired", nil), true},
		{"transient", services.Wrap(services.ErrTransient, "drive", "download", "http 503", nil), false},
		{"generation", services.Wrap(services.ErrGeneration, "gemini", "generate", "quota", nil), false},
		{"plain", errors.New("boom"), false},
	}
	for _, tc := range cases {
		if got := services.IsFatal(tc.err); got != tc.expect {
			t.Fatalf("%s: IsFatal = %v, want %v", tc.name, got, tc.expect)
		}
	}
}
