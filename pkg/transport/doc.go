// Package transport defines the link abstraction the session layer
// drives.
//
// The driver never talks to a radio directly. It issues discovery and
// characteristic writes through the Transport and Conn interfaces, and
// a platform adapter (or the test simulator) supplies the actual BLE
// plumbing:
//
//	┌────────────────────────────────┐
//	│       Command Frames           │
//	├────────────────────────────────┤
//	│  GATT Characteristic Write     │
//	├────────────────────────────────┤
//	│        BLE (GAP/ATT)           │
//	└────────────────────────────────┘
//
// # GATT Profile
//
// The toy exposes a single primary service with one writable
// characteristic. All command frames go to that characteristic:
//   - Service:        00010001-574f-4f20-5370-6865726f2121
//   - Characteristic: 00010002-574f-4f20-5370-6865726f2121
//
// An adapter that cannot resolve the characteristic on an open
// connection reports ErrCharacteristicNotFound so callers can tell a
// wrong-device connection from a radio failure.
package transport
