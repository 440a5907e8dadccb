package remote

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"hermes/internal/config"
	"hermes/internal/services"
)

// maxSnapshotBytes bounds a single download.
const maxSnapshotBytes = 64 << 20

// File describes one remote export.
type File struct {
	// Href identifies the file within its source and is stable across listings.
	Href string `json:"href"`
	// URL is what Fetch retrieves.
	URL string `json:"url"`
	// ChangeTag is an opaque version marker such as an ETag; empty when the
	// source does not provide one.
	ChangeTag string `json:"change_tag,omitempty"`
	// ModifiedAt is zero when the source reports no timestamp.
	ModifiedAt time.Time `json:"modified_at,omitzero"`
	Name       string    `json:"name"`
	Size       int64     `json:"size,omitempty"`
}

// Source lists and fetches exports.
type Source interface {
	List(ctx context.Context) ([]File, error)
	Fetch(ctx context.Context, file File) ([]byte, error)
}

var recognizedExtensions = []string{".csv", ".tsv", ".txt", ".csv.gz", ".csv.zst"}

// Recognized reports whether name has a tabular extension the parser reads.
func Recognized(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	for _, ext := range recognizedExtensions {
		if strings.HasSuffix(lower, ext) && len(lower) > len(ext) {
			return true
		}
	}
	return false
}

// New builds the Source selected by cfg.Remote.Kind.
func New(ctx context.Context, cfg *config.Config) (Source, error) {
	if cfg == nil || !cfg.RemoteConfigured() {
		return nil, services.Wrap(services.ErrConfiguration, "remote", "init", "no snapshot source configured", nil)
	}
	var (
		source Source
		err    error
	)
	timeout := cfg.RemoteTimeout()
	switch cfg.Remote.Kind {
	case config.RemoteWebDAV:
		source, err = NewWebDAV(cfg.Remote.CollectionURL, cfg.Remote.Username, cfg.Remote.Password, timeout)
	case config.RemoteHTTP:
		source, err = NewHTTPFile(cfg.Remote.CollectionURL, cfg.Remote.Username, cfg.Remote.Password, timeout)
	case config.RemoteS3:
		source, err = NewS3(ctx, cfg.Remote.S3, timeout)
	default:
		err = fmt.Errorf("unsupported remote kind %q", cfg.Remote.Kind)
	}
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "remote", "init", "build snapshot source", err)
	}
	return source, nil
}

func readBounded(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxSnapshotBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxSnapshotBytes {
		return nil, fmt.Errorf("snapshot exceeds %d bytes", maxSnapshotBytes)
	}
	return data, nil
}

func unquoteTag(tag string) string {
	tag = strings.TrimSpace(tag)
	tag = strings.TrimPrefix(tag, "W/")
	return strings.Trim(tag, `"`)
}

func transient(operation, message string, err error) error {
	return services.Wrap(services.ErrTransient, "remote", operation, message, err)
}
