package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"hermes/internal/config"
	"hermes/internal/logging"
	"hermes/internal/metrics"
	"hermes/internal/notifications"
	"hermes/internal/snapshot"
	"hermes/internal/station"
)

// Daemon runs the background sync cadence and the metrics endpoint, and
// enforces a single writer per data directory.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	station  *station.Station
	notifier notifications.Service
	runner   *snapshot.Runner

	lockPath string
	lock     *flock.Flock

	server   *http.Server
	listener net.Listener

	running atomic.Bool
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool            `json:"running"`
	Sync         snapshot.Status `json:"sync"`
	MetricsAddr  string          `json:"metrics_addr,omitempty"`
	LockFilePath string          `json:"lock_file_path"`
}

// New constructs a daemon around st. The runner is only created when the
// station has a snapshot source and sync is enabled.
func New(cfg *config.Config, st *station.Station, notifier notifications.Service, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || st == nil {
		return nil, errors.New("daemon requires config and station")
	}
	if notifier == nil {
		notifier = notifications.NewService(cfg)
	}
	logger = logging.NewComponentLogger(logger, "daemon")

	d := &Daemon{
		cfg:      cfg,
		logger:   logger,
		station:  st,
		notifier: notifier,
		lockPath: cfg.LockPath(),
		lock:     flock.New(cfg.LockPath()),
	}
	if syncer := st.Synchronizer(); syncer != nil && cfg.Sync.Enabled {
		d.runner = snapshot.NewRunner(cfg, syncer, notifier, logger)
	}
	return d, nil
}

// Lock takes the data directory lock without starting background work. The
// console and one-shot sync use it to keep a second writer out.
func (d *Daemon) Lock() error {
	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another hermes process holds %s", d.lockPath)
	}
	return nil
}

// Unlock releases the data directory lock.
func (d *Daemon) Unlock() {
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release station lock",
			logging.Error(err),
			logging.String(logging.FieldEventType, "lock_release_failed"),
			logging.String(logging.FieldErrorHint, "remove "+d.lockPath+" if no hermes process is running"),
		)
	}
}

// Start acquires the lock, launches the sync cadence and, when configured,
// the metrics endpoint.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}
	if err := d.Lock(); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	if err := d.startMetrics(); err != nil {
		cancel()
		d.Unlock()
		return err
	}
	if d.runner != nil {
		if err := d.runner.Start(runCtx); err != nil {
			cancel()
			d.stopMetrics()
			d.Unlock()
			return fmt.Errorf("start sync runner: %w", err)
		}
	} else {
		logging.WarnWithContext(d.logger, "background sync disabled", "sync_disabled",
			logging.Bool("remote_configured", d.station.Synchronizer() != nil),
			logging.Bool("sync_enabled", d.cfg.Sync.Enabled),
			logging.String(logging.FieldErrorHint, "configure [remote] and set sync.enabled = true"),
			logging.String(logging.FieldImpact, "the directory only changes on manual hermes sync"),
		)
	}

	d.cancel = cancel
	d.running.Store(true)
	d.logger.Info("hermes daemon started",
		logging.String("lock", d.lockPath),
		logging.String("metrics", d.MetricsAddr()),
	)
	return nil
}

// Stop halts background work and releases the lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if d.runner != nil {
		d.runner.Stop()
	}
	d.stopMetrics()
	d.Unlock()
	d.running.Store(false)
	d.logger.Info("hermes daemon stopped")
}

// Status returns daemon runtime information.
func (d *Daemon) Status() Status {
	status := Status{
		Running:      d.running.Load(),
		MetricsAddr:  d.MetricsAddr(),
		LockFilePath: d.lockPath,
	}
	if d.runner != nil {
		status.Sync = d.runner.Status()
	}
	return status
}

// MetricsAddr returns the bound metrics address, or "" when disabled.
func (d *Daemon) MetricsAddr() string {
	if d.listener == nil {
		return ""
	}
	return d.listener.Addr().String()
}

// TestNotification triggers a test notification using the current configuration.
func (d *Daemon) TestNotification(ctx context.Context) (bool, string, error) {
	if d.cfg.Notifications.NtfyTopic == "" {
		return false, "ntfy topic not configured", nil
	}
	if err := d.notifier.TestNotification(ctx); err != nil {
		return false, "failed to send notification", err
	}
	return true, "test notification sent", nil
}

func (d *Daemon) startMetrics() error {
	addr := d.cfg.Metrics.Listen
	if addr == "" {
		return nil
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on metrics address %s: %w", addr, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	d.listener = listener
	d.server = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := d.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.ErrorWithContext(d.logger, "metrics server stopped", "metrics_server_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check metrics.listen"),
			)
		}
	}()
	return nil
}

func (d *Daemon) stopMetrics() {
	if d.server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = d.server.Shutdown(ctx)
	d.server = nil
	d.listener = nil
}
