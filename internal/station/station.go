package station

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"hermes/internal/config"
	"hermes/internal/directory"
	"hermes/internal/ledger"
	"hermes/internal/logging"
	"hermes/internal/metrics"
	"hermes/internal/remote"
	"hermes/internal/resolver"
	"hermes/internal/services"
	"hermes/internal/snapshot"
	"hermes/internal/store"
	"hermes/internal/textutil"
)

// Station is the public face of the intake subsystem.
type Station struct {
	cfg      *config.Config
	store    *store.Store
	cache    *directory.Cache
	resolver *resolver.Resolver
	ledger   *ledger.Ledger
	sync     *snapshot.Synchronizer
	logger   *slog.Logger
	now      func() time.Time

	mu      sync.Mutex
	session Session
}

// Option customizes a Station.
type Option func(*options)

type options struct {
	source remote.Source
	scorer textutil.Scorer
	now    func() time.Time
}

// WithSource replaces the configured remote source.
func WithSource(source remote.Source) Option {
	return func(o *options) {
		o.source = source
	}
}

// WithScorer replaces the similarity scorer for resolution and search.
func WithScorer(scorer textutil.Scorer) Option {
	return func(o *options) {
		o.scorer = scorer
	}
}

// WithClock replaces time.Now for ledger timestamps and sessions.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// New builds a station over st and warms the directory cache from the local
// mirror. Without a configured remote source the station still resolves
// against the mirror; Sync then reports a configuration error.
func New(ctx context.Context, cfg *config.Config, st *store.Store, logger *slog.Logger, opts ...Option) (*Station, error) {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.now == nil {
		o.now = time.Now
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	source := o.source
	if source == nil && cfg.RemoteConfigured() {
		built, err := remote.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		source = built
	}

	cache := directory.NewCache()
	resolverOpts := []resolver.Option{}
	ledgerOpts := []ledger.Option{
		ledger.WithClock(o.now),
		ledger.WithLimits(cfg.Intake.FetchLimit, cfg.Intake.SearchLimit),
	}
	if o.scorer != nil {
		resolverOpts = append(resolverOpts, resolver.WithScorer(o.scorer))
		ledgerOpts = append(ledgerOpts, ledger.WithScorer(o.scorer))
	}

	s := &Station{
		cfg:      cfg,
		store:    st,
		cache:    cache,
		resolver: resolver.New(cache, resolverOpts...),
		ledger:   ledger.New(st, ledgerOpts...),
		logger:   logging.NewComponentLogger(logger, "station"),
		now:      o.now,
	}
	if source != nil {
		s.sync = snapshot.NewSynchronizer(source, st, cache, logger,
			snapshot.WithTarget(cfg.Remote.TargetFilename),
			snapshot.WithClock(o.now),
		)
	}

	if err := s.restore(ctx); err != nil {
		logging.WarnWithContext(s.logger, "directory mirror could not be loaded", "directory_restore_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "run hermes sync once the remote is reachable"),
			logging.String(logging.FieldImpact, "codes resolve as none until the next successful sync"),
		)
	}
	return s, nil
}

func (s *Station) restore(ctx context.Context) error {
	if s.sync != nil {
		_, err := s.sync.Restore(ctx)
		return err
	}
	entries, err := s.store.LoadDirectory(ctx)
	if err != nil {
		return err
	}
	if len(entries) > 0 {
		s.cache.Replace(entries)
		metrics.SetDirectory(s.cache.Len(), s.cache.ReplacedAt())
	}
	return nil
}

// Synchronizer returns the synchronizer, or nil when no source is configured.
func (s *Station) Synchronizer() *snapshot.Synchronizer {
	return s.sync
}

// Resolve maps a raw scan to a recipient.
func (s *Station) Resolve(raw string) resolver.Result {
	result := s.resolver.Resolve(raw)
	metrics.RecordResolution(string(result.Confidence))
	return result
}

// Sync runs one sync cycle now.
func (s *Station) Sync(ctx context.Context) (snapshot.Result, error) {
	if s.sync == nil {
		return snapshot.Result{}, services.Wrap(services.ErrConfiguration, "station", "sync", "no snapshot source configured", nil)
	}
	return s.sync.Sync(ctx)
}

// UpsertPackage records code in zone with its resolved name. The zone must
// be one of the configured zones; it is stored in its configured spelling.
func (s *Station) UpsertPackage(ctx context.Context, code, zone string) (ledger.Record, resolver.Result, error) {
	if !s.cfg.ZoneAllowed(zone) {
		return ledger.Record{}, resolver.Result{}, services.Wrap(services.ErrValidation, "station", "intake", "unknown zone "+strconv.Quote(zone), nil)
	}
	zone = s.cfg.CanonicalZone(zone)

	match := s.Resolve(code)
	if match.Code == "" {
		return ledger.Record{}, match, services.Wrap(services.ErrValidation, "station", "intake", "package code is empty", nil)
	}
	record, err := s.ledger.Upsert(ctx, match.Code, zone, match.ResolvedName)
	if err != nil {
		return ledger.Record{}, match, err
	}
	metrics.RecordIntake(zone)

	logger := logging.WithContext(ctx, s.logger)
	logger.Info("package recorded",
		logging.String(logging.FieldCode, record.Code),
		logging.String(logging.FieldZone, record.Zone),
		logging.String("confidence", string(match.Confidence)),
		logging.String("name", record.Name()),
	)
	return record, match, nil
}

// Search ranks ledger rows against term; an empty term lists the newest rows.
func (s *Station) Search(ctx context.Context, term string) ([]ledger.Hit, error) {
	if strings.TrimSpace(term) != "" {
		metrics.RecordSearch()
	}
	return s.ledger.Search(ctx, term)
}

// DeletePackage removes the row for code.
func (s *Station) DeletePackage(ctx context.Context, code string) (bool, error) {
	deleted, err := s.ledger.Delete(ctx, resolver.NormalizeCode(code))
	if err != nil {
		return false, err
	}
	if deleted {
		logging.WithContext(ctx, s.logger).Info("package deleted",
			logging.String(logging.FieldCode, resolver.NormalizeCode(code)),
		)
	}
	return deleted, nil
}

// Package returns the row for code. A code that was never scanned, or was
// deleted, yields ErrNotFound.
func (s *Station) Package(ctx context.Context, code string) (*ledger.Record, error) {
	code = resolver.NormalizeCode(code)
	record, err := s.ledger.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, services.Wrap(services.ErrNotFound, "station", "get package", "no package "+strconv.Quote(code), nil)
	}
	return record, nil
}

// Packages lists rows newest first. A non-positive limit uses the configured
// fetch limit.
func (s *Station) Packages(ctx context.Context, limit int) ([]ledger.Record, error) {
	return s.ledger.FetchAll(ctx, limit)
}
