package snapshot

import (
	"context"
	"encoding/hex"

	"golang.org/x/crypto/blake2b"

	"hermes/internal/remote"
)

// Reasons reported by Detector.Check.
const (
	ReasonChangeTag   = "change_tag_unchanged"
	ReasonContentHash = "content_unchanged"
	ReasonChanged     = "changed"
)

// Decision is the outcome of change detection for one selected export.
type Decision struct {
	Changed bool
	Reason  string
	// Content and Hash are set whenever the file was downloaded, including
	// the content-hash skip.
	Content []byte
	Hash    string
}

// Downloaded reports whether the detector had to fetch the file.
func (d Decision) Downloaded() bool {
	return d.Hash != ""
}

// Detector decides whether an export needs to be downloaded and parsed.
type Detector struct {
	source remote.Source
}

// NewDetector returns a detector fetching through source.
func NewDetector(source remote.Source) *Detector {
	return &Detector{source: source}
}

// Fingerprint returns the hex BLAKE2b-256 digest of data.
func Fingerprint(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Check compares file against the last applied state. The change tag shortcut
// only applies when both tags are present and the href is unchanged, and it is
// bypassed when force is set so an empty cache always reloads. Fetch errors
// are returned as is and never count as a change.
func (d *Detector) Check(ctx context.Context, file remote.File, last State, force bool) (Decision, error) {
	if !force && file.ChangeTag != "" && last.ChangeTag != "" &&
		file.Href == last.Href && file.ChangeTag == last.ChangeTag {
		return Decision{Reason: ReasonChangeTag}, nil
	}

	content, err := d.source.Fetch(ctx, file)
	if err != nil {
		return Decision{}, err
	}
	hash := Fingerprint(content)
	if !force && file.Href == last.Href && hash == last.ContentHash {
		return Decision{Reason: ReasonContentHash, Content: content, Hash: hash}, nil
	}
	return Decision{Changed: true, Reason: ReasonChanged, Content: content, Hash: hash}, nil
}
