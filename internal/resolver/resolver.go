package resolver

import (
	"slices"
	"strings"
	"unicode"

	"hermes/internal/directory"
	"hermes/internal/textutil"
)

// Confidence classifies a resolution.
type Confidence string

const (
	ConfidenceExact     Confidence = "exact"
	ConfidenceConfident Confidence = "confident"
	ConfidenceAmbiguous Confidence = "ambiguous"
	ConfidenceNone      Confidence = "none"
)

// Thresholds and limits for approximate matching.
const (
	CandidateCutoff    = 85.0
	CandidateLimit     = 6
	ConfidentThreshold = 90.0
	CompositeMin       = 85.0
	CompositeMax       = 95.0
	CompositeDelimiter = " / "
	ExactScore         = 100.0
)

// Result describes how a code was resolved. ResolvedName and Score are nil
// when there is nothing to report.
type Result struct {
	Code         string     `json:"code"`
	ResolvedName *string    `json:"resolved_name"`
	MatchedCodes []string   `json:"matched_codes"`
	Confidence   Confidence `json:"confidence"`
	Score        *float64   `json:"score"`
}

// Name returns the resolved name or an empty string.
func (r Result) Name() string {
	if r.ResolvedName == nil {
		return ""
	}
	return *r.ResolvedName
}

// Matched reports whether resolution produced any candidate.
func (r Result) Matched() bool {
	return r.Confidence != ConfidenceNone && r.Confidence != ""
}

// Resolver resolves codes against a directory cache.
type Resolver struct {
	cache  *directory.Cache
	scorer textutil.Scorer
}

// Option customizes a Resolver.
type Option func(*Resolver)

// WithScorer replaces the default similarity scorer.
func WithScorer(scorer textutil.Scorer) Option {
	return func(r *Resolver) {
		if scorer != nil {
			r.scorer = scorer
		}
	}
}

// New builds a resolver reading from cache.
func New(cache *directory.Cache, opts ...Option) *Resolver {
	r := &Resolver{cache: cache, scorer: textutil.Default}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NormalizeCode removes all whitespace; scanners insert spaces and line
// breaks into long codes. Case is preserved.
func NormalizeCode(raw string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
}

// Resolve maps raw to a recipient. It reads one cache snapshot and never
// blocks a concurrent replace for longer than taking that snapshot.
func (r *Resolver) Resolve(raw string) Result {
	code := NormalizeCode(raw)
	result := Result{Code: code, MatchedCodes: []string{}, Confidence: ConfidenceNone}
	if code == "" {
		return result
	}
	view := r.cache.Snapshot()

	if name, ok := view.Lookup(code); ok {
		result.Confidence = ConfidenceExact
		result.MatchedCodes = []string{code}
		result.ResolvedName = optional(name)
		result.Score = score(ExactScore)
		return result
	}
	if view.Len() == 0 {
		return result
	}

	candidates := textutil.Extract(code, view.Keys(), r.scorer, CandidateCutoff, CandidateLimit)
	if len(candidates) == 0 {
		return result
	}

	best := candidates[0]
	result.Score = score(best.Score)
	for _, c := range candidates {
		result.MatchedCodes = append(result.MatchedCodes, c.Choice)
	}

	if best.Score >= ConfidentThreshold {
		name, _ := view.Lookup(best.Choice)
		result.Confidence = ConfidenceConfident
		result.ResolvedName = optional(name)
		return result
	}

	result.Confidence = ConfidenceAmbiguous
	result.ResolvedName = optional(composite(view, candidates))
	return result
}

// composite joins the distinct non-empty names of candidates inside the
// composite band, sorted.
func composite(view directory.View, candidates []textutil.Match) string {
	var names []string
	for _, c := range candidates {
		if c.Score < CompositeMin || c.Score > CompositeMax {
			continue
		}
		if name, _ := view.Lookup(c.Choice); name != "" {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	names = slices.Compact(names)
	return strings.Join(names, CompositeDelimiter)
}

func optional(name string) *string {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	return &name
}

func score(v float64) *float64 {
	return &v
}
