package snapshot

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"hermes/internal/directory"
	"hermes/internal/logging"
	"hermes/internal/metrics"
	"hermes/internal/remote"
	"hermes/internal/services"
)

// Cycle outcomes.
const (
	OutcomeApplied   = "applied"
	OutcomeUnchanged = "unchanged"
	OutcomeEmpty     = "empty"
	OutcomeFailed    = "failed"
)

// Result summarizes one sync cycle.
type Result struct {
	Outcome       string        `json:"outcome"`
	Reason        string        `json:"reason,omitempty"`
	Changed       bool          `json:"changed"`
	File          *remote.File  `json:"file,omitempty"`
	EntryCount    int           `json:"entry_count"`
	Skipped       int           `json:"skipped,omitempty"`
	Duplicates    int           `json:"duplicates,omitempty"`
	CorrelationID string        `json:"correlation_id"`
	Duration      time.Duration `json:"duration"`
}

// Synchronizer runs sync cycles against one source. Cycles are serialized;
// the cache lock is only taken for the final swap.
type Synchronizer struct {
	mu       sync.Mutex
	source   remote.Source
	detector *Detector
	states   StateStore
	cache    *directory.Cache
	target   string
	logger   *slog.Logger
	now      func() time.Time
}

// Option customizes a Synchronizer.
type Option func(*Synchronizer)

// WithTarget pins selection to a file name.
func WithTarget(name string) Option {
	return func(s *Synchronizer) {
		s.target = name
	}
}

// WithClock overrides the time source used for AppliedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Synchronizer) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSynchronizer wires a synchronizer. A nil logger discards output.
func NewSynchronizer(source remote.Source, states StateStore, cache *directory.Cache, logger *slog.Logger, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		source:   source,
		detector: NewDetector(source),
		states:   states,
		cache:    cache,
		logger:   logging.NewComponentLogger(logger, "sync"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore fills an empty cache from the persisted directory mirror and
// returns the number of entries loaded. A populated cache is left alone.
func (s *Synchronizer) Restore(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cache.Len() > 0 {
		return s.cache.Len(), nil
	}
	entries, err := s.states.LoadDirectory(ctx)
	if err != nil {
		return 0, services.Wrap(services.ErrTransient, "sync", "restore", "load directory mirror", err)
	}
	if len(entries) == 0 {
		return 0, nil
	}
	state, err := s.states.LoadSyncState(ctx)
	if err != nil {
		return 0, services.Wrap(services.ErrTransient, "sync", "restore", "load sync state", err)
	}
	s.cache.Replace(entries)
	metrics.SetDirectory(s.cache.Len(), state.AppliedAt)
	s.logger.Debug("directory restored from mirror",
		logging.Int("entries", s.cache.Len()),
		logging.String("file", state.Href),
	)
	return s.cache.Len(), nil
}

// Sync performs one cycle. Errors carry a services marker; on error the cache
// and persisted state are exactly as they were before the call.
func (s *Synchronizer) Sync(ctx context.Context) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ctx == nil {
		ctx = context.Background()
	}
	result := Result{CorrelationID: uuid.NewString()}
	ctx = services.WithRequestID(ctx, result.CorrelationID)
	logger := logging.WithContext(ctx, s.logger)

	start := time.Now()
	err := s.cycle(ctx, logger, &result)
	result.Duration = time.Since(start)
	if err != nil {
		result.Outcome = OutcomeFailed
		metrics.RecordSyncFailure(services.Kind(err))
	}
	metrics.RecordSyncCycle(result.Outcome, result.Duration)
	return result, err
}

func (s *Synchronizer) cycle(ctx context.Context, logger *slog.Logger, result *Result) error {
	files, err := s.source.List(ctx)
	if err != nil {
		return err
	}
	selected := Select(files, s.target)
	if selected == nil {
		result.Outcome = OutcomeEmpty
		logging.WarnWithContext(logger, "no directory export found in remote collection", "sync_no_snapshot",
			logging.String(logging.FieldErrorHint, "check that the export job still uploads to the share"),
			logging.String(logging.FieldImpact, "resolution keeps using the current directory"),
		)
		return nil
	}
	if s.target != "" && selected.Name != s.target {
		logging.WarnWithContext(logger, "target export missing; using newest file", "sync_target_missing",
			logging.String("target", s.target),
			logging.String("file", selected.Name),
			logging.String(logging.FieldErrorHint, "check remote.target_filename"),
			logging.String(logging.FieldImpact, "directory loaded from a different export"),
		)
	}
	result.File = selected

	last, err := s.states.LoadSyncState(ctx)
	if err != nil {
		return services.Wrap(services.ErrTransient, "sync", "load state", "", err)
	}

	decision, err := s.detector.Check(ctx, *selected, last, s.cache.Len() == 0)
	if err != nil {
		return err
	}
	if decision.Downloaded() {
		metrics.RecordSnapshotDownload(len(decision.Content))
	}
	result.Reason = decision.Reason
	if !decision.Changed {
		result.Outcome = OutcomeUnchanged
		result.EntryCount = s.cache.Len()
		logger.Debug("snapshot unchanged",
			logging.String("file", selected.Name),
			logging.String("reason", decision.Reason),
		)
		return nil
	}

	parsed, err := directory.Parse(selected.Name, decision.Content)
	if err != nil {
		return err
	}

	state := State{
		Href:        selected.Href,
		ChangeTag:   selected.ChangeTag,
		ContentHash: decision.Hash,
		ModifiedAt:  selected.ModifiedAt,
		AppliedAt:   s.now(),
	}
	if err := s.states.ApplySnapshot(ctx, state, parsed.Entries); err != nil {
		return services.Wrap(services.ErrTransient, "sync", "apply", "persist snapshot", err)
	}
	s.cache.Replace(parsed.Entries)
	metrics.SetDirectory(s.cache.Len(), state.AppliedAt)

	result.Outcome = OutcomeApplied
	result.Changed = true
	result.EntryCount = s.cache.Len()
	result.Skipped = parsed.Skipped
	result.Duplicates = parsed.Duplicates
	logger.Info("snapshot applied",
		logging.String(logging.FieldEventType, "snapshot_applied"),
		logging.String("file", selected.Name),
		logging.Int("entries", result.EntryCount),
		logging.Int("skipped", parsed.Skipped),
		logging.Int("duplicates", parsed.Duplicates),
	)
	return nil
}
