// Package snapshot keeps the recipient directory in step with the remote
// export.
//
// Each cycle lists the remote collection, selects the current export, skips
// work when the change tag or the content fingerprint says nothing changed,
// and otherwise parses the download and swaps it into the directory cache.
// Sync state and the directory mirror are persisted together, after a
// successful parse, so a failed cycle never disturbs the last good snapshot.
//
// Runner drives cycles on a fixed cadence, and the CLI calls Synchronizer.Sync
// directly for on-demand refreshes.
package snapshot
