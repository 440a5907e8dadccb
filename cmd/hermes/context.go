package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"hermes/internal/config"
	"hermes/internal/logging"
	"hermes/internal/station"
	"hermes/internal/store"
)

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		jsonFlag:   jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// fileLogger keeps one-shot command output clean by logging to the log file
// only.
func (c *commandContext) fileLogger(cfg *config.Config) *slog.Logger {
	logger, err := logging.NewFileLogger(cfg)
	if err != nil {
		return logging.NewNop()
	}
	return logger
}

// openStation opens the database and builds a station. The returned close
// function releases the database.
func (c *commandContext) openStation(ctx context.Context, logger *slog.Logger) (*station.Station, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	if logger == nil {
		logger = c.fileLogger(cfg)
	}
	st, err := store.Open(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open station database: %w", err)
	}
	s, err := station.New(ctx, cfg, st, logger)
	if err != nil {
		_ = st.Close()
		return nil, nil, err
	}
	return s, func() { _ = st.Close() }, nil
}

// withStation runs fn against a freshly opened station.
func (c *commandContext) withStation(cmd *cobra.Command, fn func(*station.Station) error) error {
	s, closeFn, err := c.openStation(cmd.Context(), nil)
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(s)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
