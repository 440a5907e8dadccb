package ledger

import (
	"context"
	"strings"
	"sync"
	"time"

	"hermes/internal/services"
	"hermes/internal/store"
	"hermes/internal/textutil"
)

const (
	// DefaultFetchLimit bounds FetchAll when callers pass no limit.
	DefaultFetchLimit = 500
	// DefaultSearchLimit bounds Search results.
	DefaultSearchLimit = 200
	// SearchCutoff is the minimum similarity for a search hit.
	SearchCutoff = 70.0
)

// Record is one intake row.
type Record struct {
	Code         string    `json:"code"`
	Zone         string    `json:"zone"`
	ReceivedAt   time.Time `json:"received_at"`
	ResolvedName *string   `json:"resolved_name"`
}

// Name returns the resolved name or an empty string.
func (r Record) Name() string {
	if r.ResolvedName == nil {
		return ""
	}
	return *r.ResolvedName
}

// Backend is the durable storage behind the ledger.
type Backend interface {
	UpsertPackage(ctx context.Context, pkg store.Package) error
	DeletePackage(ctx context.Context, code string) (bool, error)
	GetPackage(ctx context.Context, code string) (*store.Package, error)
	ListPackages(ctx context.Context, limit int) ([]store.Package, error)
	CountPackages(ctx context.Context) (int, error)
}

// Ledger serializes access to the intake rows and tracks the session counter.
type Ledger struct {
	mu          sync.Mutex
	backend     Backend
	now         func() time.Time
	scorer      textutil.Scorer
	fetchLimit  int
	searchLimit int
	session     int
}

// Option customizes a Ledger.
type Option func(*Ledger)

// WithClock replaces time.Now for receive timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		if now != nil {
			l.now = now
		}
	}
}

// WithScorer replaces the similarity scorer used by Search.
func WithScorer(scorer textutil.Scorer) Option {
	return func(l *Ledger) {
		if scorer != nil {
			l.scorer = scorer
		}
	}
}

// WithLimits overrides the fetch and search limits. Non-positive values keep
// the defaults.
func WithLimits(fetch, search int) Option {
	return func(l *Ledger) {
		if fetch > 0 {
			l.fetchLimit = fetch
		}
		if search > 0 {
			l.searchLimit = search
		}
	}
}

// New builds a ledger over backend.
func New(backend Backend, opts ...Option) *Ledger {
	l := &Ledger{
		backend:     backend,
		now:         time.Now,
		scorer:      textutil.Default,
		fetchLimit:  DefaultFetchLimit,
		searchLimit: DefaultSearchLimit,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Upsert writes or overwrites the row for code with the current time and
// increments the session counter.
func (l *Ledger) Upsert(ctx context.Context, code, zone string, resolvedName *string) (Record, error) {
	code = strings.TrimSpace(code)
	zone = strings.TrimSpace(zone)
	if code == "" {
		return Record{}, services.Wrap(services.ErrValidation, "ledger", "upsert", "package code is empty", nil)
	}
	if zone == "" {
		return Record{}, services.Wrap(services.ErrValidation, "ledger", "upsert", "zone is empty", nil)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	record := Record{Code: code, Zone: zone, ReceivedAt: l.now().UTC(), ResolvedName: trimName(resolvedName)}
	if err := l.backend.UpsertPackage(ctx, toPackage(record)); err != nil {
		return Record{}, services.Wrap(services.ErrTransient, "ledger", "upsert", "write package", err)
	}
	l.session++
	return record, nil
}

// Delete removes the row for code and reports whether it existed.
func (l *Ledger) Delete(ctx context.Context, code string) (bool, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return false, services.Wrap(services.ErrValidation, "ledger", "delete", "package code is empty", nil)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	deleted, err := l.backend.DeletePackage(ctx, code)
	if err != nil {
		return false, services.Wrap(services.ErrTransient, "ledger", "delete", "delete package", err)
	}
	return deleted, nil
}

// Get returns the row for code, or nil when absent.
func (l *Ledger) Get(ctx context.Context, code string) (*Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	pkg, err := l.backend.GetPackage(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "ledger", "get", "read package", err)
	}
	if pkg == nil {
		return nil, nil
	}
	record := fromPackage(*pkg)
	return &record, nil
}

// FetchAll returns rows newest first. A non-positive limit uses the
// configured fetch limit.
func (l *Ledger) FetchAll(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = l.fetchLimit
	}
	return l.list(ctx, limit)
}

// Count returns the number of rows in the ledger.
func (l *Ledger) Count(ctx context.Context) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	count, err := l.backend.CountPackages(ctx)
	if err != nil {
		return 0, services.Wrap(services.ErrTransient, "ledger", "count", "count packages", err)
	}
	return count, nil
}

// SessionCount returns the number of upserts since the last ResetSession.
func (l *Ledger) SessionCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.session
}

// ResetSession zeroes the session counter.
func (l *Ledger) ResetSession() {
	l.mu.Lock()
	l.session = 0
	l.mu.Unlock()
}

func (l *Ledger) list(ctx context.Context, limit int) ([]Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	pkgs, err := l.backend.ListPackages(ctx, limit)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "ledger", "list", "read packages", err)
	}
	records := make([]Record, 0, len(pkgs))
	for _, pkg := range pkgs {
		records = append(records, fromPackage(pkg))
	}
	return records, nil
}

func toPackage(r Record) store.Package {
	return store.Package{Code: r.Code, Zone: r.Zone, ReceivedAt: r.ReceivedAt, ResolvedName: r.ResolvedName}
}

func fromPackage(p store.Package) Record {
	return Record{Code: p.Code, Zone: p.Zone, ReceivedAt: p.ReceivedAt, ResolvedName: p.ResolvedName}
}

func trimName(name *string) *string {
	if name == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*name)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
