// Package directory turns published recipient exports into code to name
// entries and holds the in-memory cache the resolver reads.
//
// Exports are tabular text produced upstream. Column names vary between
// producers, so each logical field is looked up in a prioritized list of
// header names. Compressed exports (gzip, zstd) and legacy Windows-1252
// encodings are accepted.
//
// The Cache is replaced wholesale after every successful parse and never
// merged, so readers always see one complete snapshot.
package directory
