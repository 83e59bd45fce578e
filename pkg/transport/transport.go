package transport

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Well-known GATT identifiers for the toy's command interface.
var (
	// ServiceUUID is the primary service advertised by the toy.
	ServiceUUID = uuid.MustParse("00010001-574f-4f20-5370-6865726f2121")

	// CharacteristicUUID is the writable characteristic that accepts
	// command frames.
	CharacteristicUUID = uuid.MustParse("00010002-574f-4f20-5370-6865726f2121")
)

// Transport errors.
var (
	ErrCharacteristicNotFound = errors.New("characteristic not found")
	ErrEndpointNotFound       = errors.New("endpoint not found")
	ErrConnectionClosed       = errors.New("connection closed")
)

// Advertisement is one BLE advertisement observed during discovery.
type Advertisement struct {
	// Endpoint identifies the advertising peripheral in whatever form
	// the adapter understands (a MAC address on Linux, a CoreBluetooth
	// identifier on macOS). It is the handle passed back to Open.
	Endpoint string

	// LocalName is the advertised local name (e.g., "SB-9A3F").
	// Empty when the advertisement carried no name.
	LocalName string

	// RSSI is the received signal strength in dBm. Zero means the
	// adapter could not determine it.
	RSSI int

	// ServiceUUIDs lists the services the advertisement carried.
	ServiceUUIDs []uuid.UUID
}

// AdvertisesService reports whether the advertisement lists the given
// service UUID.
func (a Advertisement) AdvertisesService(service uuid.UUID) bool {
	for _, s := range a.ServiceUUIDs {
		if s == service {
			return true
		}
	}
	return false
}

// Conn is an open link to a single peripheral.
// Implementations must be safe for use from one goroutine at a time;
// callers serialize their own writes.
type Conn interface {
	// WriteCharacteristic writes data to the given characteristic and
	// waits for the link-layer acknowledgement.
	WriteCharacteristic(ctx context.Context, characteristic uuid.UUID, data []byte) error

	// Endpoint returns the endpoint this connection was opened with.
	Endpoint() string

	// Close tears the link down. Closing an already-closed connection
	// is a no-op.
	Close() error
}

// Transport discovers peripherals and opens connections to them.
// Implemented by platform BLE adapters and by the test simulator.
type Transport interface {
	// Discover scans for advertisements until the timeout elapses or
	// ctx is cancelled, then returns everything observed. Duplicate
	// advertisements from the same endpoint are collapsed to the most
	// recent one.
	Discover(ctx context.Context, timeout time.Duration) ([]Advertisement, error)

	// Open connects to the peripheral identified by endpoint. It
	// returns ErrEndpointNotFound when no such peripheral is
	// reachable.
	Open(ctx context.Context, endpoint string) (Conn, error)
}
