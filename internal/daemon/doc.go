// Package daemon hosts the long-running station process.
//
// It takes the data directory lock so only one process writes the ledger,
// drives the background sync cadence, and serves Prometheus metrics when
// metrics.listen is set.
package daemon
