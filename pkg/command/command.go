package command

import (
	"encoding/binary"

	"github.com/sbp-robotics/sbp-go/pkg/packet"
)

// HeaderLength is the length of every command header in bytes.
const HeaderLength = 6

// Command headers. Each is a fixed 6-byte sequence the firmware
// dispatches on; the bytes are protocol constants, not derived at
// runtime.
var (
	// HeaderDrive precedes a drive payload (speed, heading, flags).
	HeaderDrive = [HeaderLength]byte{0x38, 0x12, 0x01, 0x16, 0x07, 0xFF}

	// HeaderMainLED precedes a main LED color payload (r, g, b).
	HeaderMainLED = [HeaderLength]byte{0x38, 0x11, 0x01, 0x20, 0x07, 0xFF}

	// HeaderMatrixPixel precedes a matrix pixel payload (x, y, r, g, b).
	HeaderMatrixPixel = [HeaderLength]byte{0x38, 0x11, 0x01, 0x2D, 0x09, 0xFF}

	// HeaderWake is the wake command; it carries no payload.
	HeaderWake = [HeaderLength]byte{0x38, 0x11, 0x01, 0x13, 0x0D, 0xFF}
)

// wakeFrame is the precomputed wake packet. The generic codec
// reproduces it exactly (checksum 0x96); it is kept as a literal
// because the device documentation specifies it byte for byte.
var wakeFrame = []byte{0x8D, 0x38, 0x11, 0x01, 0x13, 0x0D, 0xFF, 0x96, 0xD8}

// Argument ranges.
const (
	// MaxSpeed is the maximum drive speed.
	MaxSpeed = 255

	// MaxHeading is the maximum heading in degrees.
	MaxHeading = 359

	// MaxCoord is the maximum matrix coordinate on either axis (8×8
	// matrix, zero-indexed).
	MaxCoord = 7
)

// Wake returns the fixed wake frame. The caller receives a fresh copy
// on every call.
func Wake() []byte {
	frame := make([]byte, len(wakeFrame))
	copy(frame, wakeFrame)
	return frame
}

// Drive builds a drive command frame.
//
// speed is clamped to [0,255] and heading to [0,359]; an out-of-range
// heading is clamped to the nearest bound, not wrapped (400 encodes as
// 359). reverse sets the direction flag.
//
// Payload layout (big-endian): speed(1) heading(2) flags(1).
func Drive(speed, heading int, reverse bool) []byte {
	var flags byte
	if reverse {
		flags = 1
	}

	payload := make([]byte, 4)
	payload[0] = byte(ClampSpeed(speed))
	binary.BigEndian.PutUint16(payload[1:3], uint16(ClampHeading(heading)))
	payload[3] = flags

	return packet.Frame(HeaderDrive[:], payload)
}

// MainLED builds a main LED color frame. Each channel is clamped to
// [0,255].
//
// Payload layout: r(1) g(1) b(1).
func MainLED(r, g, b int) []byte {
	payload := []byte{
		byte(ClampChannel(r)),
		byte(ClampChannel(g)),
		byte(ClampChannel(b)),
	}
	return packet.Frame(HeaderMainLED[:], payload)
}

// MatrixPixel builds a frame that sets one pixel of the 8×8 LED matrix.
// x and y are clamped to [0,7], the color channels to [0,255].
//
// Payload layout: x(1) y(1) r(1) g(1) b(1).
func MatrixPixel(x, y, r, g, b int) []byte {
	payload := []byte{
		byte(ClampCoord(x)),
		byte(ClampCoord(y)),
		byte(ClampChannel(r)),
		byte(ClampChannel(g)),
		byte(ClampChannel(b)),
	}
	return packet.Frame(HeaderMatrixPixel[:], payload)
}

// ClampSpeed clamps a drive speed to [0,255].
func ClampSpeed(v int) int {
	return clamp(v, 0, MaxSpeed)
}

// ClampHeading clamps a heading to [0,359]. Values outside the range
// are clamped to the nearest bound, not reduced modulo 360.
func ClampHeading(v int) int {
	return clamp(v, 0, MaxHeading)
}

// ClampChannel clamps a color channel to [0,255].
func ClampChannel(v int) int {
	return clamp(v, 0, 255)
}

// ClampCoord clamps a matrix coordinate to [0,7].
func ClampCoord(v int) int {
	return clamp(v, 0, MaxCoord)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
