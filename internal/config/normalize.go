package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeRemote()
	c.normalizeSync()
	c.normalizeIntake()
	c.normalizeNotifications()
	c.normalizeLogging()
	c.Metrics.Listen = strings.TrimSpace(c.Metrics.Listen)
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeRemote() {
	c.Remote.Kind = strings.ToLower(strings.TrimSpace(c.Remote.Kind))
	if c.Remote.Kind == "" {
		c.Remote.Kind = defaultRemoteKind
	}
	c.Remote.CollectionURL = strings.TrimSpace(c.Remote.CollectionURL)
	c.Remote.Username = strings.TrimSpace(c.Remote.Username)
	c.Remote.TargetFilename = strings.TrimSpace(c.Remote.TargetFilename)
	if c.Remote.Password == "" {
		if value, ok := os.LookupEnv("HERMES_REMOTE_PASSWORD"); ok {
			c.Remote.Password = value
		}
	}
	if c.Remote.TimeoutSeconds <= 0 {
		c.Remote.TimeoutSeconds = defaultRemoteTimeout
	}

	s3 := &c.Remote.S3
	s3.Endpoint = strings.TrimSpace(s3.Endpoint)
	s3.Bucket = strings.TrimSpace(s3.Bucket)
	s3.Prefix = strings.TrimLeft(strings.TrimSpace(s3.Prefix), "/")
	s3.Region = strings.TrimSpace(s3.Region)
	if s3.Region == "" {
		s3.Region = defaultS3Region
	}
	s3.AccessKey = strings.TrimSpace(s3.AccessKey)
	if s3.AccessKey == "" {
		if value, ok := os.LookupEnv("AWS_ACCESS_KEY_ID"); ok {
			s3.AccessKey = strings.TrimSpace(value)
		}
	}
	s3.SecretKey = strings.TrimSpace(s3.SecretKey)
	if s3.SecretKey == "" {
		if value, ok := os.LookupEnv("AWS_SECRET_ACCESS_KEY"); ok {
			s3.SecretKey = strings.TrimSpace(value)
		}
	}
}

func (c *Config) normalizeSync() {
	if c.Sync.IntervalSeconds <= 0 {
		c.Sync.IntervalSeconds = defaultSyncInterval
	}
	if c.Sync.StartDelaySeconds < 0 {
		c.Sync.StartDelaySeconds = 0
	}
}

func (c *Config) normalizeIntake() {
	zones := make([]string, 0, len(c.Intake.Zones))
	seen := make(map[string]struct{}, len(c.Intake.Zones))
	for _, zone := range c.Intake.Zones {
		zone = strings.TrimSpace(zone)
		if zone == "" {
			continue
		}
		key := strings.ToUpper(zone)
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		zones = append(zones, zone)
	}
	c.Intake.Zones = zones
	if c.Intake.FetchLimit <= 0 {
		c.Intake.FetchLimit = defaultFetchLimit
	}
	if c.Intake.SearchLimit <= 0 {
		c.Intake.SearchLimit = defaultSearchLimit
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyRequestTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
