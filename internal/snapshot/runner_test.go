package snapshot_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"hermes/internal/remote"
	"hermes/internal/services"
	"hermes/internal/snapshot"
	"hermes/internal/testsupport"
)

type scriptedSyncer struct {
	mu      sync.Mutex
	results []snapshot.Result
	errs    []error
	calls   int
	called  chan struct{}
}

func (s *scriptedSyncer) Sync(ctx context.Context) (snapshot.Result, error) {
	s.mu.Lock()
	i := s.calls
	s.calls++
	s.mu.Unlock()
	if s.called != nil {
		select {
		case s.called <- struct{}{}:
		default:
		}
	}
	if _, ok := ctx.Deadline(); !ok {
		return snapshot.Result{}, errors.New("cycle context has no deadline")
	}
	if i >= len(s.results) {
		return snapshot.Result{Outcome: snapshot.OutcomeUnchanged}, nil
	}
	return s.results[i], s.errs[i]
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingNotifier) add(event string) error {
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
	return nil
}

func (r *recordingNotifier) NotifySyncFailed(context.Context, error, int) error {
	return r.add("failed")
}

func (r *recordingNotifier) NotifySyncRecovered(context.Context, int) error {
	return r.add("recovered")
}

func (r *recordingNotifier) NotifySnapshotApplied(context.Context, string, int) error {
	return r.add("applied")
}

func (r *recordingNotifier) TestNotification(context.Context) error { return nil }

func (r *recordingNotifier) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func TestRunnerRunOnceTracksFailures(t *testing.T) {
	transient := services.Wrap(services.ErrTransient, "remote", "list", "503", nil)
	applied := snapshot.Result{Outcome: snapshot.OutcomeApplied, Changed: true, EntryCount: 3, File: &remote.File{Name: "export.csv"}}
	syncer := &scriptedSyncer{
		results: []snapshot.Result{{Outcome: snapshot.OutcomeFailed}, {Outcome: snapshot.OutcomeFailed}, applied},
		errs:    []error{transient, transient, nil},
	}
	notifier := &recordingNotifier{}
	runner := snapshot.NewRunner(testsupport.NewConfig(t), syncer, notifier, nil)
	ctx := context.Background()

	if _, err := runner.RunOnce(ctx); err == nil {
		t.Fatal("expected first cycle to fail")
	}
	if _, err := runner.RunOnce(ctx); err == nil {
		t.Fatal("expected second cycle to fail")
	}
	status := runner.Status()
	if status.ConsecutiveFailures != 2 || status.LastError == "" || status.LastOutcome != snapshot.OutcomeFailed {
		t.Fatalf("unexpected status after failures: %+v", status)
	}

	if _, err := runner.RunOnce(ctx); err != nil {
		t.Fatalf("third cycle: %v", err)
	}
	status = runner.Status()
	if status.ConsecutiveFailures != 0 || status.LastError != "" || status.LastApplied.IsZero() {
		t.Fatalf("unexpected status after recovery: %+v", status)
	}

	want := []string{"failed", "recovered", "applied"}
	got := notifier.list()
	if len(got) != len(want) {
		t.Fatalf("notifications = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("notifications = %v, want %v", got, want)
		}
	}
}

func TestRunnerStartStop(t *testing.T) {
	syncer := &scriptedSyncer{called: make(chan struct{}, 1)}
	runner := snapshot.NewRunner(testsupport.NewConfig(t), syncer, nil, nil)

	if err := runner.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := runner.Start(context.Background()); err == nil {
		t.Fatal("expected second Start to fail")
	}
	if !runner.Status().Running {
		t.Fatal("expected running status")
	}

	select {
	case <-syncer.called:
	case <-time.After(5 * time.Second):
		t.Fatal("first cycle did not run after the start delay")
	}

	runner.Stop()
	runner.Stop()
	if runner.Status().Running {
		t.Fatal("expected stopped status")
	}
}
