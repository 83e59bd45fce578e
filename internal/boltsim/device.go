// Package boltsim simulates a BOLT Plus toy behind the transport
// interfaces, so the full client stack can run without radio hardware.
//
// A simulated Device validates every incoming frame with the packet codec,
// dispatches on the command header, and tracks the observable effects
// (awake flag, LED colors, drive history). Tests assert against that state;
// the interactive controller uses it as an offline target.
package boltsim

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sbp-robotics/sbp-go/pkg/command"
	"github.com/sbp-robotics/sbp-go/pkg/packet"
)

// MatrixSize is the LED matrix edge length.
const MatrixSize = 8

var (
	// ErrUnknownCommand reports a frame with a valid envelope but an
	// unrecognized command header.
	ErrUnknownCommand = errors.New("unknown command header")

	// ErrBadPayload reports a recognized command with a payload of the
	// wrong length.
	ErrBadPayload = errors.New("unexpected payload length")

	// ErrAsleep reports a command that requires the toy to be awake.
	ErrAsleep = errors.New("toy is asleep")
)

// RGB is one LED color.
type RGB struct {
	R, G, B uint8
}

// DriveCommand is one decoded drive instruction.
type DriveCommand struct {
	Speed   uint8
	Heading uint16
	Reverse bool
}

// Device is a simulated toy. All methods are safe for concurrent use.
type Device struct {
	endpoint string
	name     string

	mu       sync.RWMutex
	rssi     int
	awake    bool
	mainLED  RGB
	matrix   [MatrixSize][MatrixSize]RGB
	drives   []DriveCommand
	frames   [][]byte
	rejected [][]byte
}

// NewDevice creates a simulated toy advertising the given local name.
// Its endpoint is derived from the name.
func NewDevice(name string) *Device {
	return &Device{
		endpoint: "sim:" + strings.ToLower(name),
		name:     name,
		rssi:     -42,
	}
}

// Endpoint returns the address the toy is reachable at.
func (d *Device) Endpoint() string { return d.endpoint }

// Name returns the advertised local name.
func (d *Device) Name() string { return d.name }

// RSSI returns the signal strength the toy advertises with.
func (d *Device) RSSI() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.rssi
}

// SetRSSI adjusts the advertised signal strength.
func (d *Device) SetRSSI(rssi int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rssi = rssi
}

// Awake reports whether the toy has received a wake command.
func (d *Device) Awake() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.awake
}

// Sleep puts the toy back to sleep, as if its inactivity timer fired.
func (d *Device) Sleep() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.awake = false
}

// MainLED returns the current main LED color.
func (d *Device) MainLED() RGB {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.mainLED
}

// Pixel returns the color of one matrix pixel. Coordinates are 0..7.
func (d *Device) Pixel(x, y int) RGB {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.matrix[x][y]
}

// Drives returns the decoded drive commands received so far.
func (d *Device) Drives() []DriveCommand {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]DriveCommand, len(d.drives))
	copy(out, d.drives)
	return out
}

// LastDrive returns the most recent drive command, if any.
func (d *Device) LastDrive() (DriveCommand, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if len(d.drives) == 0 {
		return DriveCommand{}, false
	}
	return d.drives[len(d.drives)-1], true
}

// Frames returns copies of all accepted frames, in arrival order.
func (d *Device) Frames() [][]byte {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return copyFrames(d.frames)
}

// Rejected returns copies of all frames that failed validation or dispatch.
func (d *Device) Rejected() [][]byte {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return copyFrames(d.rejected)
}

// Reset returns the toy to its powered-on state: asleep, LEDs dark,
// history cleared.
func (d *Device) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.awake = false
	d.mainLED = RGB{}
	d.matrix = [MatrixSize][MatrixSize]RGB{}
	d.drives = nil
	d.frames = nil
	d.rejected = nil
}

// handleFrame validates and executes one incoming frame.
func (d *Device) handleFrame(frame []byte) error {
	body, err := packet.Parse(frame)
	if err != nil {
		d.reject(frame)
		return fmt.Errorf("malformed frame: %w", err)
	}
	if len(body) < command.HeaderLength {
		d.reject(frame)
		return fmt.Errorf("%w: body too short", ErrUnknownCommand)
	}

	header := body[:command.HeaderLength]
	payload := body[command.HeaderLength:]

	d.mu.Lock()
	defer d.mu.Unlock()

	switch {
	case bytes.Equal(header, command.HeaderWake[:]):
		if len(payload) != 0 {
			return d.rejectLocked(frame, fmt.Errorf("%w: wake carries %d bytes", ErrBadPayload, len(payload)))
		}
		d.awake = true

	case bytes.Equal(header, command.HeaderDrive[:]):
		if len(payload) != 4 {
			return d.rejectLocked(frame, fmt.Errorf("%w: drive carries %d bytes", ErrBadPayload, len(payload)))
		}
		if !d.awake {
			return d.rejectLocked(frame, fmt.Errorf("%w: drive ignored", ErrAsleep))
		}
		d.drives = append(d.drives, DriveCommand{
			Speed:   payload[0],
			Heading: binary.BigEndian.Uint16(payload[1:3]),
			Reverse: payload[3]&0x01 != 0,
		})

	case bytes.Equal(header, command.HeaderMainLED[:]):
		if len(payload) != 3 {
			return d.rejectLocked(frame, fmt.Errorf("%w: main led carries %d bytes", ErrBadPayload, len(payload)))
		}
		if !d.awake {
			return d.rejectLocked(frame, fmt.Errorf("%w: main led ignored", ErrAsleep))
		}
		d.mainLED = RGB{R: payload[0], G: payload[1], B: payload[2]}

	case bytes.Equal(header, command.HeaderMatrixPixel[:]):
		if len(payload) != 5 {
			return d.rejectLocked(frame, fmt.Errorf("%w: matrix pixel carries %d bytes", ErrBadPayload, len(payload)))
		}
		if !d.awake {
			return d.rejectLocked(frame, fmt.Errorf("%w: matrix pixel ignored", ErrAsleep))
		}
		x, y := int(payload[0]), int(payload[1])
		if x >= MatrixSize || y >= MatrixSize {
			return d.rejectLocked(frame, fmt.Errorf("%w: pixel (%d,%d) off matrix", ErrBadPayload, x, y))
		}
		d.matrix[x][y] = RGB{R: payload[2], G: payload[3], B: payload[4]}

	default:
		return d.rejectLocked(frame, fmt.Errorf("%w: % X", ErrUnknownCommand, header))
	}

	d.frames = append(d.frames, copyFrame(frame))
	return nil
}

func (d *Device) reject(frame []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rejected = append(d.rejected, copyFrame(frame))
}

func (d *Device) rejectLocked(frame []byte, err error) error {
	d.rejected = append(d.rejected, copyFrame(frame))
	return err
}

func copyFrame(frame []byte) []byte {
	out := make([]byte, len(frame))
	copy(out, frame)
	return out
}

func copyFrames(frames [][]byte) [][]byte {
	out := make([][]byte, len(frames))
	for i, f := range frames {
		out[i] = copyFrame(f)
	}
	return out
}
