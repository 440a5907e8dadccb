// Package store persists station state in SQLite.
//
// Three tables live in one database file under the data directory: the
// intake ledger (packages), the single-row sync state, and a mirror of the
// last applied directory snapshot so a fresh process can rebuild its cache
// without touching the network. Sync state and the mirror are always
// written together in one transaction.
//
// Writes retry briefly on SQLITE_BUSY because the daemon and one-shot CLI
// commands may share the file.
package store
