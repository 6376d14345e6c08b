package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"renamer/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "probe", "ffprobe", "failed", base)
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
	for _, fragment := range []string{"probe", "ffprobe", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarkerAndDetail(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestExitCodeMapping(t *testing.T) {
	configErr := services.Wrap(services.ErrConfiguration, "plan", "compile regex", "invalid", nil)
	if code := services.ExitCode(configErr); code != 2 {
		t.Fatalf("expected exit 2 for configuration error, got %d", code)
	}
	validationErr := services.Wrap(services.ErrValidation, "plan", "collision", "duplicate", nil)
	if code := services.ExitCode(validationErr); code != 1 {
		t.Fatalf("expected exit 1 for validation error, got %d", code)
	}
	if code := services.ExitCode(nil); code != 0 {
		t.Fatalf("expected exit 0 for nil error, got %d", code)
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := services.WithStage(services.WithRunID(context.Background(), "abc"), "plan")
	if id, ok := services.RunIDFromContext(ctx); !ok || id != "abc" {
		t.Fatalf("unexpected run id %q (%v)", id, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "plan" {
		t.Fatalf("unexpected stage %q (%v)", stage, ok)
	}
	if _, ok := services.RunIDFromContext(services.WithRunID(context.Background(), "")); ok {
		t.Fatal("expected empty run id to be ignored")
	}
}
