package services_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"hermes/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrTransient, "remote", "list", "propfind failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"remote", "list", "propfind failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestClassification(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		retryable bool
		kind      string
	}{
		{"nil", nil, false, "ok"},
		{"transient", services.Wrap(services.ErrTransient, "remote", "fetch", "timeout", nil), true, "transient"},
		{"parse", services.Wrap(services.ErrParse, "directory", "parse", "no rows", nil), false, "parse"},
		{"validation", services.Wrap(services.ErrValidation, "station", "scan", "no zone", nil), false, "validation"},
		{"unclassified", fmt.Errorf("dial: %w", errors.New("refused")), true, "transient"},
		{"not found", services.Wrap(services.ErrNotFound, "ledger", "get", "", nil), true, "not_found"},
	}
	for _, tc := range cases {
		if got := services.Retryable(tc.err); got != tc.retryable {
			t.Fatalf("%s: Retryable=%v want %v", tc.name, got, tc.retryable)
		}
		if got := services.Kind(tc.err); got != tc.kind {
			t.Fatalf("%s: Kind=%q want %q", tc.name, got, tc.kind)
		}
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithComponent(ctx, "sync")
	ctx = services.WithRequestID(ctx, "req-123")
	ctx = services.WithSessionID(ctx, "sess-1")

	if c, ok := services.ComponentFromContext(ctx); !ok || c != "sync" {
		t.Fatalf("unexpected component: %v %v", c, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
	if sid, ok := services.SessionIDFromContext(ctx); !ok || sid != "sess-1" {
		t.Fatalf("unexpected session id: %v %v", sid, ok)
	}
	if _, ok := services.RequestIDFromContext(services.WithRequestID(context.Background(), "")); ok {
		t.Fatal("expected blank request id to be ignored")
	}
}
