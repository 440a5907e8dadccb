// Package resolver maps a scanned package code to a recipient name using the
// directory cache.
//
// Exact codes win outright. Otherwise every cached code is scored against
// the input and the strongest candidates decide between a confident match,
// an ambiguous composite of plausible names, or no match. Ambiguity and no
// match are ordinary results, not errors.
package resolver
