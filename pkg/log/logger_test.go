package log

import (
	"testing"
	"time"
)

func TestNoopLoggerDoesNotPanic(t *testing.T) {
	logger := NoopLogger{}

	// Should not panic with any event type
	event := Event{
		Timestamp: time.Now(),
		SessionID: "test-session",
		Direction: DirectionOut,
		Layer:     LayerTransport,
		Category:  CategoryCommand,
	}

	// Test with nil payloads
	logger.Log(event)

	// Test with frame payload
	event.Frame = &FrameEvent{Size: 9, Data: []byte{0x8D, 0x38, 0x11}}
	logger.Log(event)

	// Test with command payload
	event.Frame = nil
	speed := 128
	event.Command = &CommandEvent{Name: CommandDrive, Speed: &speed}
	logger.Log(event)

	// Test with state change payload
	event.Command = nil
	event.StateChange = &StateChangeEvent{NewState: "CONNECTED_AWAKE"}
	logger.Log(event)

	// Test with error payload
	event.StateChange = nil
	event.Error = &ErrorEventData{Message: "test error"}
	logger.Log(event)
}

func TestLoggerInterfaceSatisfaction(t *testing.T) {
	// Compile-time check that NoopLogger satisfies Logger interface
	var _ Logger = NoopLogger{}
	var _ Logger = &NoopLogger{}
}

func TestNoopLoggerIsZeroValue(t *testing.T) {
	// NoopLogger should be usable as zero value
	var logger NoopLogger
	logger.Log(Event{})
}
