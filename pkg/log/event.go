package log

import (
	"time"
)

// Event represents a protocol log event captured at any layer.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID uniquely identifies the session (UUID).
	SessionID string `cbor:"2,keyasint"`

	// Direction indicates message flow.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// Endpoint is the peripheral endpoint (populated once known).
	Endpoint string `cbor:"6,keyasint,omitempty"`

	// DeviceName is the advertised local name of the toy (e.g., "SB-9A3F").
	DeviceName string `cbor:"7,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Frame       *FrameEvent       `cbor:"8,keyasint,omitempty"`  // Transport layer
	Command     *CommandEvent     `cbor:"9,keyasint,omitempty"`  // Packet layer (decoded)
	StateChange *StateChangeEvent `cbor:"10,keyasint,omitempty"` // Session lifecycle
	Error       *ErrorEventData   `cbor:"11,keyasint,omitempty"` // Errors at any layer
}

// Direction indicates the direction of message flow.
type Direction uint8

const (
	// DirectionIn indicates data from the toy (notifications).
	DirectionIn Direction = 0
	// DirectionOut indicates data written to the toy.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which protocol layer captured the event.
type Layer uint8

const (
	// LayerTransport is the BLE link layer (raw characteristic writes).
	LayerTransport Layer = 0
	// LayerPacket is the frame encoding layer (decoded commands).
	LayerPacket Layer = 1
	// LayerSession is the session lifecycle layer.
	LayerSession Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerTransport:
		return "TRANSPORT"
	case LayerPacket:
		return "PACKET"
	case LayerSession:
		return "SESSION"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryCommand indicates a command sent to the toy.
	CategoryCommand Category = 0
	// CategoryState indicates a session state change.
	CategoryState Category = 1
	// CategoryError indicates an error event.
	CategoryError Category = 2
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryCommand:
		return "COMMAND"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// CommandName identifies a toy command.
type CommandName uint8

const (
	// CommandWake is the wake command.
	CommandWake CommandName = 0
	// CommandDrive is the drive command.
	CommandDrive CommandName = 1
	// CommandMainLED is the main LED color command.
	CommandMainLED CommandName = 2
	// CommandMatrixPixel is the matrix pixel command.
	CommandMatrixPixel CommandName = 3
)

// String returns the command name.
func (c CommandName) String() string {
	switch c {
	case CommandWake:
		return "WAKE"
	case CommandDrive:
		return "DRIVE"
	case CommandMainLED:
		return "MAIN_LED"
	case CommandMatrixPixel:
		return "MATRIX_PIXEL"
	default:
		return "UNKNOWN"
	}
}

// FrameEvent captures raw frame data at the transport layer.
type FrameEvent struct {
	// Size is the frame size in bytes (including SOP/EOP and checksum).
	Size int `cbor:"1,keyasint"`

	// Data is the raw frame bytes (may be truncated for large frames).
	Data []byte `cbor:"2,keyasint,omitempty"`

	// Truncated indicates if Data was truncated.
	Truncated bool `cbor:"3,keyasint,omitempty"`
}

// CommandEvent captures a decoded command at the packet layer.
// Argument fields hold the values after clamping, i.e. what was
// actually encoded on the wire.
type CommandEvent struct {
	// Name identifies the command.
	Name CommandName `cbor:"1,keyasint"`

	// For drive: the speed (0-255).
	Speed *int `cbor:"2,keyasint,omitempty"`

	// For drive: the heading in degrees (0-359).
	Heading *int `cbor:"3,keyasint,omitempty"`

	// For drive: the direction flag.
	Reverse *bool `cbor:"4,keyasint,omitempty"`

	// For matrix pixel: the coordinates (0-7).
	X *int `cbor:"5,keyasint,omitempty"`
	Y *int `cbor:"6,keyasint,omitempty"`

	// For LED commands: the color channels (0-255).
	R *int `cbor:"7,keyasint,omitempty"`
	G *int `cbor:"8,keyasint,omitempty"`
	B *int `cbor:"9,keyasint,omitempty"`
}

// StateChangeEvent captures session lifecycle events.
type StateChangeEvent struct {
	// OldState is the previous state (may be empty).
	OldState string `cbor:"1,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"2,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"3,keyasint,omitempty"`
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"3,keyasint,omitempty"`
}
