package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRemote(); err != nil {
		return err
	}
	if err := c.validateSync(); err != nil {
		return err
	}
	if err := c.validateIntake(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateRemote() error {
	switch c.Remote.Kind {
	case RemoteWebDAV, RemoteHTTP:
		if c.Remote.CollectionURL == "" {
			return nil
		}
		parsed, err := url.Parse(c.Remote.CollectionURL)
		if err != nil {
			return fmt.Errorf("remote.collection_url: %w", err)
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			return fmt.Errorf("remote.collection_url must use http or https, got %q", parsed.Scheme)
		}
		if parsed.Host == "" {
			return errors.New("remote.collection_url must include a host")
		}
	case RemoteS3:
		if c.Remote.S3.Bucket == "" {
			return nil
		}
		if (c.Remote.S3.AccessKey == "") != (c.Remote.S3.SecretKey == "") {
			return errors.New("remote.s3.access_key and remote.s3.secret_key must be set together")
		}
	default:
		return fmt.Errorf("remote.kind: unsupported value %q (expected webdav, http, or s3)", c.Remote.Kind)
	}
	if c.Remote.TimeoutSeconds <= 0 {
		return errors.New("remote.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateSync() error {
	if c.Sync.IntervalSeconds <= 0 {
		return errors.New("sync.interval_seconds must be positive")
	}
	if c.Sync.Enabled && c.Sync.IntervalSeconds < 5 {
		return errors.New("sync.interval_seconds must be at least 5")
	}
	return nil
}

func (c *Config) validateIntake() error {
	for _, zone := range c.Intake.Zones {
		if strings.ContainsAny(zone, " \t") {
			return fmt.Errorf("intake.zones: zone %q must not contain whitespace", zone)
		}
	}
	if c.Intake.FetchLimit <= 0 {
		return errors.New("intake.fetch_limit must be positive")
	}
	if c.Intake.SearchLimit <= 0 {
		return errors.New("intake.search_limit must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}
