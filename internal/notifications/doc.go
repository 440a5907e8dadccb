// Package notifications pushes station events to ntfy.
//
// Only sync trouble and, optionally, applied snapshots are announced. When no
// topic is configured NewService returns a no-op implementation so callers
// never branch on configuration.
package notifications
