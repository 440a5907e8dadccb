package snapshot

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"hermes/internal/config"
	"hermes/internal/logging"
	"hermes/internal/notifications"
	"hermes/internal/services"
)

// Syncer is the cycle the Runner drives.
type Syncer interface {
	Sync(ctx context.Context) (Result, error)
}

// Status is a point-in-time view of the cadence.
type Status struct {
	Running             bool      `json:"running"`
	LastRun             time.Time `json:"last_run,omitzero"`
	LastOutcome         string    `json:"last_outcome,omitempty"`
	LastError           string    `json:"last_error,omitempty"`
	LastApplied         time.Time `json:"last_applied,omitzero"`
	ConsecutiveFailures int       `json:"consecutive_failures"`
}

// Runner executes sync cycles on a fixed cadence: one cycle after the start
// delay, then one per interval. Failures are logged, counted and announced,
// and the next tick simply tries again.
type Runner struct {
	syncer       Syncer
	notifier     notifications.Service
	logger       *slog.Logger
	interval     time.Duration
	startDelay   time.Duration
	cycleTimeout time.Duration

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	status  Status
}

// NewRunner builds a runner using the cadence from cfg.
func NewRunner(cfg *config.Config, syncer Syncer, notifier notifications.Service, logger *slog.Logger) *Runner {
	if notifier == nil {
		notifier = notifications.NewService(nil)
	}
	interval := cfg.SyncInterval()
	if interval <= 0 {
		interval = 30 * time.Second
	}
	// A cycle lists and fetches, each bounded by the remote timeout.
	cycleTimeout := 2*cfg.RemoteTimeout() + 10*time.Second
	return &Runner{
		syncer:       syncer,
		notifier:     notifier,
		logger:       logging.NewComponentLogger(logger, "sync"),
		interval:     interval,
		startDelay:   cfg.SyncStartDelay(),
		cycleTimeout: cycleTimeout,
	}
}

// Start launches the cadence goroutine.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return errors.New("sync runner already running")
	}
	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.running = true
	r.status.Running = true
	r.wg.Add(1)
	go r.loop(runCtx)
	return nil
}

// Stop cancels the cadence and waits for an in-flight cycle to return.
func (r *Runner) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	cancel := r.cancel
	r.running = false
	r.status.Running = false
	r.cancel = nil
	r.mu.Unlock()

	cancel()
	r.wg.Wait()
}

// Status returns the latest cadence status.
func (r *Runner) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

func (r *Runner) loop(ctx context.Context) {
	defer r.wg.Done()

	wait := r.startDelay
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
		_, _ = r.RunOnce(ctx)
		wait = r.interval
	}
}

// RunOnce executes a single cycle under the per-cycle timeout and records its
// outcome. It is safe to call while the cadence is running.
func (r *Runner) RunOnce(ctx context.Context) (Result, error) {
	cycleCtx, cancel := context.WithTimeout(ctx, r.cycleTimeout)
	defer cancel()

	result, err := r.syncer.Sync(cycleCtx)

	r.mu.Lock()
	previousFailures := r.status.ConsecutiveFailures
	r.status.LastRun = time.Now()
	r.status.LastOutcome = result.Outcome
	if err != nil {
		r.status.ConsecutiveFailures++
		r.status.LastError = err.Error()
	} else {
		r.status.ConsecutiveFailures = 0
		r.status.LastError = ""
		if result.Changed {
			r.status.LastApplied = r.status.LastRun
		}
	}
	failures := r.status.ConsecutiveFailures
	r.mu.Unlock()

	logger := r.logger
	if result.CorrelationID != "" {
		logger = logger.With(logging.String(logging.FieldCorrelationID, result.CorrelationID))
	}

	if err != nil {
		if ctx.Err() != nil {
			return result, err
		}
		logging.WarnWithContext(logger, "directory sync failed; keeping previous directory", "sync_failed",
			logging.Error(err),
			logging.String("kind", services.Kind(err)),
			logging.Bool("retryable", services.Retryable(err)),
			logging.Int("consecutive_failures", failures),
			logging.String(logging.FieldErrorHint, errorHint(err)),
			logging.String(logging.FieldImpact, "resolution uses the last good directory until the next cycle succeeds"),
		)
		if failures == 1 {
			r.notify(ctx, logger, func(nctx context.Context) error {
				return r.notifier.NotifySyncFailed(nctx, err, failures)
			})
		}
		return result, err
	}

	if previousFailures > 0 {
		logger.Info("directory sync recovered", logging.Int("failed_cycles", previousFailures))
		r.notify(ctx, logger, func(nctx context.Context) error {
			return r.notifier.NotifySyncRecovered(nctx, previousFailures)
		})
	}
	if result.Changed && result.File != nil {
		name := result.File.Name
		entries := result.EntryCount
		r.notify(ctx, logger, func(nctx context.Context) error {
			return r.notifier.NotifySnapshotApplied(nctx, name, entries)
		})
	}
	return result, nil
}

func (r *Runner) notify(ctx context.Context, logger *slog.Logger, send func(context.Context) error) {
	if err := send(ctx); err != nil {
		logging.WarnWithContext(logger, "notification delivery failed", "notification_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check notifications.ntfy_topic and network access"),
			logging.String(logging.FieldImpact, "operators were not alerted about this sync event"),
		)
	}
}

func errorHint(err error) string {
	switch {
	case errors.Is(err, services.ErrParse):
		return "the export file has no recognizable code column or no rows; check the upstream export"
	case errors.Is(err, services.ErrConfiguration):
		return "check the [remote] section of the config"
	default:
		return "check network access to the remote collection; the next cycle retries"
	}
}
