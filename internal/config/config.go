package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Remote source kinds.
const (
	RemoteWebDAV = "webdav"
	RemoteHTTP   = "http"
	RemoteS3     = "s3"
)

// Paths contains directory configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// S3 contains object storage settings for the s3 remote kind.
type S3 struct {
	Endpoint  string `toml:"endpoint"`
	Bucket    string `toml:"bucket"`
	Prefix    string `toml:"prefix"`
	Region    string `toml:"region"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
}

// Remote describes where recipient directory snapshots are published.
type Remote struct {
	Kind           string `toml:"kind"`
	CollectionURL  string `toml:"collection_url"`
	Username       string `toml:"username"`
	Password       string `toml:"password"`
	TargetFilename string `toml:"target_filename"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	S3             S3     `toml:"s3"`
}

// Sync controls the background directory synchronization cadence.
type Sync struct {
	Enabled           bool `toml:"enabled"`
	IntervalSeconds   int  `toml:"interval_seconds"`
	StartDelaySeconds int  `toml:"start_delay_seconds"`
}

// Intake contains operator-facing intake and search limits.
type Intake struct {
	Zones       []string `toml:"zones"`
	FetchLimit  int      `toml:"fetch_limit"`
	SearchLimit int      `toml:"search_limit"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic       string `toml:"ntfy_topic"`
	RequestTimeout  int    `toml:"request_timeout"`
	SyncErrors      bool   `toml:"sync_errors"`
	SnapshotApplied bool   `toml:"snapshot_applied"`
}

// Metrics contains the Prometheus endpoint configuration.
type Metrics struct {
	Listen string `toml:"listen"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for a hermes station.
//
// Configuration sections by subsystem:
//   - Paths: database and log directories
//   - Remote: snapshot collection (WebDAV share, single HTTP file, or S3 bucket)
//   - Sync: background cadence
//   - Intake: zones and result limits
//   - Notifications: ntfy push notification settings
//   - Metrics: Prometheus listen address
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Remote        Remote        `toml:"remote"`
	Sync          Sync          `toml:"sync"`
	Intake        Intake        `toml:"intake"`
	Notifications Notifications `toml:"notifications"`
	Metrics       Metrics       `toml:"metrics"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/hermes/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("hermes.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the SQLite file holding the ledger, sync state and
// directory mirror.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, "hermes.db")
}

// LockPath returns the single-writer lock file for the data directory.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, "hermes.lock")
}

// LogPath returns the main log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.Paths.LogDir, "hermes.log")
}

// RemoteTimeout returns the bounded timeout applied to every listing and fetch.
func (c *Config) RemoteTimeout() time.Duration {
	return time.Duration(c.Remote.TimeoutSeconds) * time.Second
}

// SyncInterval returns the cadence between sync cycles.
func (c *Config) SyncInterval() time.Duration {
	return time.Duration(c.Sync.IntervalSeconds) * time.Second
}

// SyncStartDelay returns the delay before the first background cycle.
func (c *Config) SyncStartDelay() time.Duration {
	return time.Duration(c.Sync.StartDelaySeconds) * time.Second
}

// RemoteConfigured reports whether a snapshot source has been set up.
func (c *Config) RemoteConfigured() bool {
	switch c.Remote.Kind {
	case RemoteS3:
		return strings.TrimSpace(c.Remote.S3.Bucket) != ""
	default:
		return strings.TrimSpace(c.Remote.CollectionURL) != ""
	}
}

// ZoneAllowed reports whether zone is one of the configured zones. An empty
// zone list accepts any non-empty zone.
func (c *Config) ZoneAllowed(zone string) bool {
	zone = strings.TrimSpace(zone)
	if zone == "" {
		return false
	}
	if len(c.Intake.Zones) == 0 {
		return true
	}
	for _, z := range c.Intake.Zones {
		if strings.EqualFold(z, zone) {
			return true
		}
	}
	return false
}

// CanonicalZone returns the configured spelling of zone, or zone itself when
// no configured zone matches.
func (c *Config) CanonicalZone(zone string) string {
	zone = strings.TrimSpace(zone)
	for _, z := range c.Intake.Zones {
		if strings.EqualFold(z, zone) {
			return z
		}
	}
	return zone
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Sample returns the embedded sample configuration.
func Sample() string {
	return sampleConfig
}
