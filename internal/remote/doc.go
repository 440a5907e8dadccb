// Package remote lists and downloads published directory exports.
//
// Three source kinds share the Source interface: a WebDAV collection (for
// example a Nextcloud public share), a single file served over plain HTTP,
// and an S3 or MinIO bucket prefix. Listings only report files with a
// recognized tabular extension. Every call is bounded by the configured
// timeout and failures are reported as transient.
package remote
