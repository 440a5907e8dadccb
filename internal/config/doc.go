// Package config loads, normalizes, and validates hermes station
// configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks for remote
// credentials such as HERMES_REMOTE_PASSWORD and AWS_ACCESS_KEY_ID. The Config
// type centralizes every knob the daemon, console and one-shot commands need.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
