// Package ledger records which package was put into which zone.
//
// A rescan overwrites the row for its code, so the ledger always shows the
// latest location. Every operation holds the ledger lock only for its own
// duration. Search ranks rows by similarity of a free-text term against the
// code, recipient and zone.
package ledger
