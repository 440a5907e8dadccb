// Package services defines shared helpers consumed by the sync, resolution
// and intake components.
//
// Key responsibilities:
//   - Context helpers that stamp sync cycle correlation IDs, intake session
//     IDs and component names for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     (transient, parse, validation) so callers decide between "retry next
//     tick", "keep prior state" and "reject the operator input".
//
// Use these helpers when wiring new components so error handling and
// observability stay uniform across the station.
package services
