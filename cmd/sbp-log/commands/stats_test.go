package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/sbp-robotics/sbp-go/pkg/log"
)

func TestStatsCountsByLayer(t *testing.T) {
	ts := time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: ts, Layer: log.LayerTransport, Category: log.CategoryCommand},
		{Timestamp: ts, Layer: log.LayerTransport, Category: log.CategoryCommand},
		{Timestamp: ts, Layer: log.LayerPacket, Category: log.CategoryCommand},
		{Timestamp: ts, Layer: log.LayerSession, Category: log.CategoryState},
	}

	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	err := RunStats(path, &buf)
	if err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	output := buf.String()

	// Check layer counts
	if !strings.Contains(output, "TRANSPORT:") {
		t.Error("expected TRANSPORT layer in output")
	}
	if !strings.Contains(output, "PACKET:") {
		t.Error("expected PACKET layer in output")
	}
	if !strings.Contains(output, "SESSION:") {
		t.Error("expected SESSION layer in output")
	}
}

func TestStatsCountsByCategory(t *testing.T) {
	ts := time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: ts, Category: log.CategoryCommand},
		{Timestamp: ts, Category: log.CategoryState},
		{Timestamp: ts, Category: log.CategoryError, Error: &log.ErrorEventData{Message: "test"}},
	}

	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	err := RunStats(path, &buf)
	if err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	output := buf.String()

	// Check category counts
	if !strings.Contains(output, "COMMAND:") {
		t.Error("expected COMMAND category in output")
	}
	if !strings.Contains(output, "STATE:") {
		t.Error("expected STATE category in output")
	}
	if !strings.Contains(output, "ERROR:") {
		t.Error("expected ERROR category in output")
	}
}

func TestStatsCountsCommands(t *testing.T) {
	ts := time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: ts, Category: log.CategoryCommand, Command: &log.CommandEvent{Name: log.CommandWake}},
		{Timestamp: ts, Category: log.CategoryCommand, Command: &log.CommandEvent{Name: log.CommandDrive}},
		{Timestamp: ts, Category: log.CategoryCommand, Command: &log.CommandEvent{Name: log.CommandDrive}},
		{Timestamp: ts, Category: log.CategoryCommand, Command: &log.CommandEvent{Name: log.CommandMainLED}},
	}

	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	err := RunStats(path, &buf)
	if err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "WAKE:") {
		t.Error("expected WAKE command in output")
	}
	if !strings.Contains(output, "DRIVE:") {
		t.Errorf("expected DRIVE command in output, got:\n%s", output)
	}
	if !strings.Contains(output, "MAIN_LED:") {
		t.Error("expected MAIN_LED command in output")
	}
}

func TestStatsCountsSessions(t *testing.T) {
	ts := time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: ts, SessionID: "sess-aaaa-bbbb", Category: log.CategoryCommand},
		{Timestamp: ts.Add(time.Second), SessionID: "sess-aaaa-bbbb", Category: log.CategoryCommand},
		{Timestamp: ts, SessionID: "sess-cccc-dddd", Category: log.CategoryCommand},
	}

	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	err := RunStats(path, &buf)
	if err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	output := buf.String()

	// Check session count
	if !strings.Contains(output, "Sessions: 2") {
		t.Errorf("expected 2 sessions in output, got:\n%s", output)
	}

	// Check session details
	if !strings.Contains(output, "[sess-aaa") {
		t.Error("expected sess-aaaa session details")
	}
}

func TestStatsSessionDeviceAndFrames(t *testing.T) {
	ts := time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC)
	events := []log.Event{
		{
			Timestamp:  ts,
			SessionID:  "sess-aaaa-bbbb",
			Layer:      log.LayerTransport,
			Category:   log.CategoryCommand,
			Endpoint:   "aa:bb:cc:dd:ee:ff",
			DeviceName: "SB-9A3F",
			Frame:      &log.FrameEvent{Size: 9},
		},
		{
			Timestamp:  ts.Add(time.Second),
			SessionID:  "sess-aaaa-bbbb",
			Layer:      log.LayerTransport,
			Category:   log.CategoryCommand,
			Endpoint:   "aa:bb:cc:dd:ee:ff",
			DeviceName: "SB-9A3F",
			Frame:      &log.FrameEvent{Size: 13},
		},
	}

	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	err := RunStats(path, &buf)
	if err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "Device: SB-9A3F") {
		t.Errorf("expected device name in output, got:\n%s", output)
	}
	if !strings.Contains(output, "Endpoint: aa:bb:cc:dd:ee:ff") {
		t.Errorf("expected endpoint in output, got:\n%s", output)
	}
	if !strings.Contains(output, "Frames: 2 (22 bytes)") {
		t.Errorf("expected frame totals in output, got:\n%s", output)
	}
}

func TestStatsTotalEvents(t *testing.T) {
	ts := time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: ts, Category: log.CategoryCommand},
		{Timestamp: ts, Category: log.CategoryCommand},
		{Timestamp: ts, Category: log.CategoryCommand},
	}

	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	err := RunStats(path, &buf)
	if err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "Total Events: 3") {
		t.Errorf("expected 3 total events in output, got:\n%s", output)
	}
}

func TestStatsTimeRange(t *testing.T) {
	start := time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: start, Category: log.CategoryCommand},
		{Timestamp: end, Category: log.CategoryCommand},
	}

	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	err := RunStats(path, &buf)
	if err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "Duration:") {
		t.Error("expected Duration in output")
	}
	if !strings.Contains(output, "1h0m0s") {
		t.Errorf("expected 1h0m0s duration in output, got:\n%s", output)
	}
}

func TestStatsErrorCount(t *testing.T) {
	ts := time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: ts, Category: log.CategoryCommand},
		{Timestamp: ts, Category: log.CategoryError, Error: &log.ErrorEventData{Message: "error 1"}},
		{Timestamp: ts, Category: log.CategoryError, Error: &log.ErrorEventData{Message: "error 2"}},
	}

	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	err := RunStats(path, &buf)
	if err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "Errors: 2") {
		t.Errorf("expected 2 errors in output, got:\n%s", output)
	}
}
