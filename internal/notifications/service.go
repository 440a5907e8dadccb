package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"hermes/internal/config"
)

const userAgent = "Hermes-Go/0.1.0"

// Service defines the notification surface used by the sync cadence and CLI.
type Service interface {
	NotifySyncFailed(ctx context.Context, err error, consecutive int) error
	NotifySyncRecovered(ctx context.Context, failures int) error
	NotifySnapshotApplied(ctx context.Context, file string, entries int) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	if cfg == nil {
		return noopService{}
	}
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:        topic,
		client:          &http.Client{Timeout: timeout},
		syncErrors:      cfg.Notifications.SyncErrors,
		snapshotApplied: cfg.Notifications.SnapshotApplied,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint        string
	client          *http.Client
	syncErrors      bool
	snapshotApplied bool
}

func (n *ntfyService) NotifySyncFailed(ctx context.Context, err error, consecutive int) error {
	if !n.syncErrors {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("Directory sync failed")
	if consecutive > 1 {
		fmt.Fprintf(&builder, " (%d cycles in a row)", consecutive)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}
	builder.WriteString("\nResolution keeps using the last good directory.")

	data := payload{
		title:    "Hermes - Sync Failed",
		message:  builder.String(),
		tags:     []string{"hermes", "sync", "error"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifySyncRecovered(ctx context.Context, failures int) error {
	if !n.syncErrors {
		return nil
	}
	data := payload{
		title:   "Hermes - Sync Recovered",
		message: fmt.Sprintf("Directory sync succeeded again after %d failed cycles", failures),
		tags:    []string{"hermes", "sync", "recovered"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifySnapshotApplied(ctx context.Context, file string, entries int) error {
	if !n.snapshotApplied {
		return nil
	}
	file = strings.TrimSpace(file)
	if file == "" {
		file = "unknown file"
	}
	data := payload{
		title:   "Hermes - Directory Updated",
		message: fmt.Sprintf("Loaded %d recipients from %s", entries, file),
		tags:    []string{"hermes", "directory", "updated"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Hermes - Test",
		message:  "Notification system test",
		tags:     []string{"hermes", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifySyncFailed(context.Context, error, int) error       { return nil }
func (noopService) NotifySyncRecovered(context.Context, int) error           { return nil }
func (noopService) NotifySnapshotApplied(context.Context, string, int) error { return nil }
func (noopService) TestNotification(context.Context) error                   { return nil }
