// Package logging assembles structured slog loggers and formatting helpers used
// across hermes.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so sync cycles and intake
// sessions tag their log lines with correlation and session IDs. A no-op
// logger is provided for tests and wiring code that cannot fail.
package logging
