// Package station assembles the intake station from its parts.
//
// A Station owns the directory cache, the resolver, the ledger and, when a
// remote source is configured, the synchronizer. The CLI and the daemon only
// talk to a Station; they never reach into the cache or the store directly.
//
// The intake session mirrors the scanner workflow at the counter: intake mode
// is toggled on and off, a zone is chosen by button or by scanning a
// "ZONE:<name>" label, and every other scan records a package in that zone.
package station
