package main

import (
	"fmt"
	"strings"
	"testing"

	"hermes/internal/resolver"
	"hermes/internal/snapshot"
	"hermes/internal/station"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Directory", statusError, "empty", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Directory:", "[ERROR] empty")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("Remote", statusOK, "webdav", true)
	if !strings.HasPrefix(got, ansiGreen) {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestRenderMatchLine(t *testing.T) {
	name := "Anna Weber / Anne Weber"
	score := 88.5
	match := resolver.Result{
		Code:         "H7001234567",
		ResolvedName: &name,
		MatchedCodes: []string{"H7001234561", "H7001234568"},
		Confidence:   resolver.ConfidenceAmbiguous,
		Score:        &score,
	}

	got := renderMatchLine("#3 ", match, false)
	want := "#3 Anna Weber / Anne Weber [ambiguous 88.50] candidates: H7001234561, H7001234568"
	if got != want {
		t.Fatalf("renderMatchLine mismatch\n got: %q\nwant: %q", got, want)
	}

	colored := renderMatchLine("", match, true)
	if !strings.HasPrefix(colored, ansiYellow) {
		t.Fatalf("expected yellow for ambiguous match, got %q", colored)
	}

	none := renderMatchLine("", resolver.Result{Code: "X", Confidence: resolver.ConfidenceNone}, false)
	if none != "- [none -]" {
		t.Fatalf("unexpected unresolved line %q", none)
	}
}

func TestRenderStatus(t *testing.T) {
	out := renderStatus(station.Status{
		RemoteKind:       "webdav",
		RemoteConfigured: true,
		DirectoryEntries: 0,
		Packages:         4,
		DatabasePath:     "/tmp/hermes.db",
		LastSnapshot:     snapshot.State{},
	}, false)

	for _, want := range []string{"[OK] webdav", "empty; run hermes sync", "none applied yet", "4 recorded"} {
		if !strings.Contains(out, want) {
			t.Fatalf("status output missing %q:\n%s", want, out)
		}
	}
}
