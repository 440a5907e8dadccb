// Package metrics exposes Prometheus metrics for the station.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Sync metrics
	syncCyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hermes_sync_cycles_total",
			Help: "Sync cycles by outcome (applied, unchanged, failed)",
		},
		[]string{"outcome"},
	)

	syncFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hermes_sync_failures_total",
			Help: "Failed sync cycles by error kind",
		},
		[]string{"kind"},
	)

	syncDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hermes_sync_duration_seconds",
			Help:    "Duration of a sync cycle including listing and download",
			Buckets: prometheus.DefBuckets,
		},
	)

	snapshotBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hermes_snapshot_bytes_downloaded_total",
			Help: "Bytes downloaded from the snapshot source",
		},
	)

	directoryEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hermes_directory_entries",
			Help: "Number of codes in the directory cache",
		},
	)

	lastAppliedTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hermes_directory_last_applied_timestamp_seconds",
			Help: "Unix time the directory cache was last replaced",
		},
	)

	// Intake metrics
	resolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hermes_resolutions_total",
			Help: "Code resolutions by confidence",
		},
		[]string{"confidence"},
	)

	intakesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hermes_intakes_total",
			Help: "Packages recorded in the ledger by zone",
		},
		[]string{"zone"},
	)

	searchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hermes_ledger_searches_total",
			Help: "Ledger searches with a non-empty term",
		},
	)
)

// RecordSyncCycle records one finished sync cycle.
func RecordSyncCycle(outcome string, duration time.Duration) {
	syncCyclesTotal.WithLabelValues(outcome).Inc()
	syncDuration.Observe(duration.Seconds())
}

// RecordSyncFailure counts a failed cycle by error kind.
func RecordSyncFailure(kind string) {
	syncFailuresTotal.WithLabelValues(kind).Inc()
}

// RecordSnapshotDownload adds downloaded snapshot bytes.
func RecordSnapshotDownload(bytes int) {
	snapshotBytes.Add(float64(bytes))
}

// SetDirectory updates the cache size and replacement time.
func SetDirectory(entries int, appliedAt time.Time) {
	directoryEntries.Set(float64(entries))
	if !appliedAt.IsZero() {
		lastAppliedTimestamp.Set(float64(appliedAt.Unix()))
	}
}

// RecordResolution counts a resolution by confidence.
func RecordResolution(confidence string) {
	resolutionsTotal.WithLabelValues(confidence).Inc()
}

// RecordIntake counts a ledger upsert.
func RecordIntake(zone string) {
	intakesTotal.WithLabelValues(zone).Inc()
}

// RecordSearch counts a ledger search.
func RecordSearch() {
	searchesTotal.Inc()
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
