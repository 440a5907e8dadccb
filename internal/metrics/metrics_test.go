package metrics_test

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hermes/internal/metrics"
)

func TestHandlerExposesStationMetrics(t *testing.T) {
	metrics.RecordSyncCycle("applied", 120*time.Millisecond)
	metrics.RecordSyncFailure("transient")
	metrics.SetDirectory(412, time.Unix(1_700_000_000, 0))
	metrics.RecordResolution("confident")
	metrics.RecordIntake("A")
	metrics.RecordSearch()
	metrics.RecordSnapshotDownload(2048)

	server := httptest.NewServer(metrics.Handler())
	defer server.Close()

	resp, err := server.Client().Get(server.URL)
	if err != nil {
		t.Fatalf("GET metrics: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	text := string(body)
	for _, want := range []string{
		`hermes_sync_cycles_total{outcome="applied"}`,
		`hermes_sync_failures_total{kind="transient"}`,
		"hermes_directory_entries 412",
		`hermes_resolutions_total{confidence="confident"}`,
		`hermes_intakes_total{zone="A"}`,
		"hermes_ledger_searches_total",
		"hermes_snapshot_bytes_downloaded_total",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in metrics output", want)
		}
	}
}
