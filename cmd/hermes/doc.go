// Package main hosts the hermes CLI entrypoint and command graph.
//
// One-shot commands (resolve, intake, search, list, delete, sync) open the
// station database directly and work from the mirrored directory, so they
// are usable while the daemon or console runs elsewhere. The daemon and
// console commands keep a station open and drive the background sync.
package main
