package snapshot_test

import (
	"context"
	"errors"
	"testing"

	"hermes/internal/remote"
	"hermes/internal/services"
	"hermes/internal/snapshot"
)

func TestFingerprint(t *testing.T) {
	a := snapshot.Fingerprint([]byte("sendungsnr\nA1\n"))
	if len(a) != 64 {
		t.Fatalf("expected 256-bit hex digest, got %q", a)
	}
	if a != snapshot.Fingerprint([]byte("sendungsnr\nA1\n")) {
		t.Fatal("fingerprint must be deterministic")
	}
	if a == snapshot.Fingerprint([]byte("sendungsnr\nA2\n")) {
		t.Fatal("different content must differ")
	}
}

func TestDetectorCheck(t *testing.T) {
	const body = "sendungsnr,name\nA1,Ada\n"
	hash := snapshot.Fingerprint([]byte(body))
	file := remote.File{Href: "/share/export.csv", Name: "export.csv", ChangeTag: "v2"}

	tests := []struct {
		name        string
		file        remote.File
		last        snapshot.State
		force       bool
		wantChanged bool
		wantReason  string
		wantFetch   bool
	}{
		{
			name:       "matching tags skip download",
			file:       file,
			last:       snapshot.State{Href: file.Href, ChangeTag: "v2", ContentHash: "stale"},
			wantReason: snapshot.ReasonChangeTag,
		},
		{
			name:       "new tag with identical content",
			file:       file,
			last:       snapshot.State{Href: file.Href, ChangeTag: "v1", ContentHash: hash},
			wantReason: snapshot.ReasonContentHash,
			wantFetch:  true,
		},
		{
			name:       "absent tags fall back to content hash",
			file:       remote.File{Href: file.Href, Name: file.Name},
			last:       snapshot.State{Href: file.Href, ContentHash: hash},
			wantReason: snapshot.ReasonContentHash,
			wantFetch:  true,
		},
		{
			name:        "absent tags never short circuit",
			file:        remote.File{Href: file.Href, Name: file.Name},
			last:        snapshot.State{Href: file.Href, ContentHash: "other"},
			wantChanged: true,
			wantReason:  snapshot.ReasonChanged,
			wantFetch:   true,
		},
		{
			name:        "different href with same content",
			file:        file,
			last:        snapshot.State{Href: "/share/old.csv", ChangeTag: "v2", ContentHash: hash},
			wantChanged: true,
			wantReason:  snapshot.ReasonChanged,
			wantFetch:   true,
		},
		{
			name:        "first sync",
			file:        file,
			wantChanged: true,
			wantReason:  snapshot.ReasonChanged,
			wantFetch:   true,
		},
		{
			name:        "force bypasses both shortcuts",
			file:        file,
			last:        snapshot.State{Href: file.Href, ChangeTag: "v2", ContentHash: hash},
			force:       true,
			wantChanged: true,
			wantReason:  snapshot.ReasonChanged,
			wantFetch:   true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := newFakeSource()
			source.put(remote.File{Href: file.Href, Name: file.Name}, body)
			detector := snapshot.NewDetector(source)

			decision, err := detector.Check(context.Background(), tt.file, tt.last, tt.force)
			if err != nil {
				t.Fatalf("Check: %v", err)
			}
			if decision.Changed != tt.wantChanged || decision.Reason != tt.wantReason {
				t.Fatalf("got changed=%v reason=%s, want changed=%v reason=%s", decision.Changed, decision.Reason, tt.wantChanged, tt.wantReason)
			}
			if fetched := source.fetchCount() > 0; fetched != tt.wantFetch {
				t.Fatalf("fetched=%v, want %v", fetched, tt.wantFetch)
			}
			if tt.wantChanged && (string(decision.Content) != body || decision.Hash != hash) {
				t.Fatalf("changed decision must carry content and hash: %+v", decision)
			}
		})
	}
}

func TestDetectorFetchFailureIsNotAChange(t *testing.T) {
	source := newFakeSource()
	source.fetchErr = services.Wrap(services.ErrTransient, "fake", "fetch", "timeout", nil)
	detector := snapshot.NewDetector(source)

	decision, err := detector.Check(context.Background(), remote.File{Href: "/x.csv", Name: "x.csv"}, snapshot.State{}, false)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient error, got %v", err)
	}
	if decision.Changed {
		t.Fatal("failed fetch must not report a change")
	}
}
