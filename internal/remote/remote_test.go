package remote_test

import (
	"context"
	"errors"
	"testing"

	"hermes/internal/config"
	"hermes/internal/remote"
	"hermes/internal/services"
	"hermes/internal/testsupport"
)

func TestRecognized(t *testing.T) {
	tests := map[string]bool{
		"export.csv":     true,
		"EXPORT.CSV":     true,
		"list.tsv":       true,
		"list.txt":       true,
		"list.csv.gz":    true,
		"list.csv.zst":   true,
		"list.gz":        false,
		"scan.pdf":       false,
		".csv":           false,
		"export.csv.bak": false,
	}
	for name, want := range tests {
		if got := remote.Recognized(name); got != want {
			t.Errorf("Recognized(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestNewRequiresConfiguredSource(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if _, err := remote.New(context.Background(), cfg); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}

	cfg = testsupport.NewConfig(t, testsupport.WithRemote(config.RemoteHTTP, "https://example.com/d.csv"))
	source, err := remote.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := source.(*remote.HTTPFile); !ok {
		t.Fatalf("expected HTTPFile source, got %T", source)
	}
}
