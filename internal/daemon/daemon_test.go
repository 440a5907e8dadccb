package daemon_test

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"hermes/internal/config"
	"hermes/internal/daemon"
	"hermes/internal/remote"
	"hermes/internal/station"
	"hermes/internal/testsupport"
)

type emptySource struct{}

func (emptySource) List(context.Context) ([]remote.File, error) { return nil, nil }

func (emptySource) Fetch(context.Context, remote.File) ([]byte, error) { return nil, nil }

func newDaemon(t *testing.T, cfg *config.Config, opts ...station.Option) *daemon.Daemon {
	t.Helper()
	st := testsupport.MustOpenStore(t, cfg)
	s, err := station.New(context.Background(), cfg, st, nil, opts...)
	if err != nil {
		t.Fatalf("station.New: %v", err)
	}
	d, err := daemon.New(cfg, s, nil, nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(d.Stop)
	return d
}

func TestDaemonStartStopWithMetrics(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Sync.Enabled = true
	cfg.Metrics.Listen = "127.0.0.1:0"
	d := newDaemon(t, cfg, station.WithSource(emptySource{}))

	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := d.Start(context.Background()); err == nil {
		t.Fatal("expected second Start to fail")
	}
	status := d.Status()
	if !status.Running || !status.Sync.Running || status.MetricsAddr == "" {
		t.Fatalf("unexpected status %+v", status)
	}

	resp, err := http.Get("http://" + status.MetricsAddr + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), "hermes_sync_cycles_total") && !strings.Contains(string(body), "go_goroutines") {
		t.Fatalf("metrics endpoint returned unexpected body: %.200s", body)
	}

	d.Stop()
	if d.Status().Running {
		t.Fatal("expected daemon to be stopped")
	}
}

func TestDaemonLockIsExclusive(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	first := newDaemon(t, cfg)
	second := newDaemon(t, cfg)

	if err := first.Start(context.Background()); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	if err := second.Start(context.Background()); err == nil || !strings.Contains(err.Error(), "another hermes process") {
		t.Fatalf("expected lock contention error, got %v", err)
	}
	if err := second.Lock(); err == nil {
		t.Fatal("expected Lock to fail while the daemon runs")
	}

	first.Stop()
	if err := second.Lock(); err != nil {
		t.Fatalf("Lock after stop: %v", err)
	}
	second.Unlock()
}

func TestDaemonWithoutRemoteRunsWithoutCadence(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	d := newDaemon(t, cfg)
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if status := d.Status(); status.Sync.Running || status.MetricsAddr != "" {
		t.Fatalf("expected no cadence and no metrics, got %+v", status)
	}
}

func TestTestNotificationWithoutTopic(t *testing.T) {
	d := newDaemon(t, testsupport.NewConfig(t))
	sent, msg, err := d.TestNotification(context.Background())
	if err != nil || sent || msg != "ntfy topic not configured" {
		t.Fatalf("TestNotification = %v, %q, %v", sent, msg, err)
	}
}
