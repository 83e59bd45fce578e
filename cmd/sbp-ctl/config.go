package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the sbp-ctl configuration, loadable from a YAML file.
// Command-line flags take precedence over file values.
type Config struct {
	// Endpoint is the default toy endpoint to connect to on startup.
	Endpoint string `yaml:"endpoint"`

	// DeviceName labels the session in protocol logs.
	DeviceName string `yaml:"device_name"`

	// ScanTimeout bounds discovery scans, in time.ParseDuration syntax
	// (e.g. "5s", "500ms").
	ScanTimeout string `yaml:"scan_timeout"`

	// ProtocolLog is the path protocol events are appended to.
	ProtocolLog string `yaml:"protocol_log"`

	// LogLevel is the console log level: debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// Aliases maps short names to endpoints, for 'connect <alias>'.
	Aliases map[string]string `yaml:"aliases"`
}

// LoadConfig reads and parses a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// ScanTimeoutDuration parses the scan_timeout field. An empty field
// yields zero, meaning "use the default".
func (c *Config) ScanTimeoutDuration() (time.Duration, error) {
	if c.ScanTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.ScanTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid scan_timeout %q: %w", c.ScanTimeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid scan_timeout %q: must not be negative", c.ScanTimeout)
	}
	return d, nil
}
