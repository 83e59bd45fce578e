package packet

import (
	"errors"
	"fmt"
)

// Framing constants.
const (
	// SOP is the start-of-packet marker byte.
	SOP = 0x8D

	// EOP is the end-of-packet marker byte.
	EOP = 0xD8

	// Overhead is the number of framing bytes added around a body:
	// SOP(1) + checksum(1) + EOP(1).
	Overhead = 3

	// MinFrameSize is the smallest parseable frame: SOP, checksum, EOP
	// around an empty body.
	MinFrameSize = Overhead
)

// Codec errors.
var (
	// ErrFrameTooShort indicates the frame is smaller than MinFrameSize.
	ErrFrameTooShort = errors.New("frame too short")

	// ErrInvalidStart indicates the frame does not begin with SOP.
	ErrInvalidStart = errors.New("invalid start-of-packet marker")

	// ErrInvalidEnd indicates the frame does not end with EOP.
	ErrInvalidEnd = errors.New("invalid end-of-packet marker")

	// ErrChecksumMismatch indicates the checksum byte does not match the
	// body contents.
	ErrChecksumMismatch = errors.New("checksum mismatch")
)

// Checksum computes the one-byte integrity value the device firmware
// expects: the sum of all bytes modulo 256, bitwise inverted.
func Checksum(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}
	return sum ^ 0xFF
}

// Frame assembles a complete packet from header and payload bytes:
//
//	[SOP] header payload [checksum] [EOP]
//
// The checksum covers header++payload. The output length is always
// len(header)+len(payload)+Overhead. Frame performs no semantic
// validation of the contents; callers are expected to pass byte
// sequences of the correct per-command shape.
func Frame(header, payload []byte) []byte {
	frame := make([]byte, 0, len(header)+len(payload)+Overhead)
	frame = append(frame, SOP)
	frame = append(frame, header...)
	frame = append(frame, payload...)
	frame = append(frame, Checksum(frame[1:]))
	frame = append(frame, EOP)
	return frame
}

// Parse validates a frame and returns its body (header++payload, the
// bytes between SOP and the checksum). The returned slice is a copy.
//
// Parse checks, in order: minimum length, the SOP marker, the EOP
// marker, and the checksum. Splitting the body into header and payload
// is the caller's concern.
func Parse(frame []byte) ([]byte, error) {
	if len(frame) < MinFrameSize {
		return nil, fmt.Errorf("%w: %d bytes, need at least %d", ErrFrameTooShort, len(frame), MinFrameSize)
	}
	if frame[0] != SOP {
		return nil, fmt.Errorf("%w: got 0x%02X, want 0x%02X", ErrInvalidStart, frame[0], SOP)
	}
	if frame[len(frame)-1] != EOP {
		return nil, fmt.Errorf("%w: got 0x%02X, want 0x%02X", ErrInvalidEnd, frame[len(frame)-1], EOP)
	}

	body := frame[1 : len(frame)-2]
	want := frame[len(frame)-2]
	if got := Checksum(body); got != want {
		return nil, fmt.Errorf("%w: computed 0x%02X, frame carries 0x%02X", ErrChecksumMismatch, got, want)
	}

	out := make([]byte, len(body))
	copy(out, body)
	return out, nil
}

// Validate reports whether frame is a well-formed packet. It is
// equivalent to Parse with the body discarded.
func Validate(frame []byte) error {
	_, err := Parse(frame)
	return err
}

// FrameSize returns the total frame size for a body of the given length.
func FrameSize(bodyLen int) int {
	return bodyLen + Overhead
}
