package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sbp-ctl.yaml")
	content := `
endpoint: f4:7a:22:08:11:35
device_name: SB-9A3F
scan_timeout: 8s
protocol_log: /tmp/session.sbplog
log_level: debug
aliases:
  kitchen: f4:7a:22:08:11:35
  desk: aa:bb:cc:dd:ee:ff
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Endpoint != "f4:7a:22:08:11:35" {
		t.Fatalf("unexpected endpoint: %q", cfg.Endpoint)
	}
	if cfg.DeviceName != "SB-9A3F" {
		t.Fatalf("unexpected device name: %q", cfg.DeviceName)
	}
	if cfg.ScanTimeout != "8s" {
		t.Fatalf("unexpected scan timeout: %q", cfg.ScanTimeout)
	}
	if cfg.ProtocolLog != "/tmp/session.sbplog" {
		t.Fatalf("unexpected protocol log: %q", cfg.ProtocolLog)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("unexpected log level: %q", cfg.LogLevel)
	}
	if len(cfg.Aliases) != 2 {
		t.Fatalf("unexpected alias count: %d", len(cfg.Aliases))
	}
	if cfg.Aliases["desk"] != "aa:bb:cc:dd:ee:ff" {
		t.Fatalf("unexpected alias: %q", cfg.Aliases["desk"])
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected read error")
	}
}

func TestLoadConfigBadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sbp-ctl.yaml")
	if err := os.WriteFile(path, []byte("aliases: [not, a, map"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestScanTimeoutDuration(t *testing.T) {
	cfg := &Config{ScanTimeout: "500ms"}
	d, err := cfg.ScanTimeoutDuration()
	if err != nil {
		t.Fatalf("parse scan timeout: %v", err)
	}
	if d != 500*time.Millisecond {
		t.Fatalf("unexpected duration: %v", d)
	}
}

func TestScanTimeoutDurationEmpty(t *testing.T) {
	cfg := &Config{}
	d, err := cfg.ScanTimeoutDuration()
	if err != nil {
		t.Fatalf("parse scan timeout: %v", err)
	}
	if d != 0 {
		t.Fatalf("expected zero duration, got %v", d)
	}
}

func TestScanTimeoutDurationInvalid(t *testing.T) {
	cfg := &Config{ScanTimeout: "soon"}
	if _, err := cfg.ScanTimeoutDuration(); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestScanTimeoutDurationNegative(t *testing.T) {
	cfg := &Config{ScanTimeout: "-3s"}
	if _, err := cfg.ScanTimeoutDuration(); err == nil {
		t.Fatalf("expected parse error")
	}
}
