package testsupport

import (
	"path/filepath"
	"testing"

	"hermes/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Background sync is disabled; tests drive cycles explicitly.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Sync.Enabled = false
	cfgVal.Sync.StartDelaySeconds = 0
	cfgVal.Metrics.Listen = ""

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithZones overrides the configured intake zones.
func WithZones(zones ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Intake.Zones = zones
	}
}

// WithRemote points the config at a WebDAV or HTTP collection URL.
func WithRemote(kind, url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Remote.Kind = kind
		b.cfg.Remote.CollectionURL = url
	}
}

// WithNtfyTopic enables notifications against the given topic URL.
func WithNtfyTopic(topic string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Notifications.NtfyTopic = topic
	}
}
