package command

import (
	"bytes"
	"testing"

	"github.com/sbp-robotics/sbp-go/pkg/packet"
)

// parseBody validates frame with the codec and splits the body into
// header and payload.
func parseBody(t *testing.T, frame []byte) (header, payload []byte) {
	t.Helper()

	body, err := packet.Parse(frame)
	if err != nil {
		t.Fatalf("built frame does not parse: %v", err)
	}
	if len(body) < HeaderLength {
		t.Fatalf("body too short for header: %d bytes", len(body))
	}
	return body[:HeaderLength], body[HeaderLength:]
}

func TestWake(t *testing.T) {
	want := []byte{0x8D, 0x38, 0x11, 0x01, 0x13, 0x0D, 0xFF, 0x96, 0xD8}

	got := Wake()
	if !bytes.Equal(got, want) {
		t.Errorf("Wake() = % X, want % X", got, want)
	}

	// The generic codec must reproduce the documented frame.
	built := packet.Frame(HeaderWake[:], nil)
	if !bytes.Equal(built, want) {
		t.Errorf("packet.Frame(HeaderWake, nil) = % X, want % X", built, want)
	}
}

func TestWakeReturnsCopy(t *testing.T) {
	first := Wake()
	first[0] = 0x00

	second := Wake()
	if second[0] != 0x8D {
		t.Error("mutating a returned frame affected subsequent calls")
	}
}

func TestDrive(t *testing.T) {
	tests := []struct {
		name    string
		speed   int
		heading int
		reverse bool
		payload []byte
	}{
		{
			name:    "stop",
			speed:   0,
			heading: 0,
			reverse: false,
			payload: []byte{0x00, 0x00, 0x00, 0x00},
		},
		{
			name:    "full speed east",
			speed:   255,
			heading: 90,
			reverse: false,
			payload: []byte{0xFF, 0x00, 0x5A, 0x00},
		},
		{
			name:    "heading above 255 uses both bytes",
			speed:   100,
			heading: 300,
			reverse: false,
			payload: []byte{0x64, 0x01, 0x2C, 0x00},
		},
		{
			name:    "reverse flag",
			speed:   50,
			heading: 180,
			reverse: true,
			payload: []byte{0x32, 0x00, 0xB4, 0x01},
		},
		{
			name:    "speed clamped high",
			speed:   300,
			heading: 0,
			reverse: false,
			payload: []byte{0xFF, 0x00, 0x00, 0x00},
		},
		{
			name:    "speed clamped low",
			speed:   -20,
			heading: 0,
			reverse: false,
			payload: []byte{0x00, 0x00, 0x00, 0x00},
		},
		{
			name:    "heading clamped not wrapped",
			speed:   10,
			heading: 400,
			reverse: false,
			payload: []byte{0x0A, 0x01, 0x67, 0x00},
		},
		{
			name:    "heading clamped low",
			speed:   10,
			heading: -90,
			reverse: false,
			payload: []byte{0x0A, 0x00, 0x00, 0x00},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame := Drive(tt.speed, tt.heading, tt.reverse)

			header, payload := parseBody(t, frame)
			if !bytes.Equal(header, HeaderDrive[:]) {
				t.Errorf("header = % X, want % X", header, HeaderDrive)
			}
			if !bytes.Equal(payload, tt.payload) {
				t.Errorf("payload = % X, want % X", payload, tt.payload)
			}
		})
	}
}

func TestDriveClampEquivalence(t *testing.T) {
	// Out-of-range arguments encode exactly as their clamped values.
	got := Drive(300, 400, false)
	want := Drive(255, 359, false)
	if !bytes.Equal(got, want) {
		t.Errorf("Drive(300, 400, false) = % X, want Drive(255, 359, false) = % X", got, want)
	}
}

func TestMainLED(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b int
		payload []byte
	}{
		{"off", 0, 0, 0, []byte{0x00, 0x00, 0x00}},
		{"white", 255, 255, 255, []byte{0xFF, 0xFF, 0xFF}},
		{"orange", 255, 128, 0, []byte{0xFF, 0x80, 0x00}},
		{"clamped high", 300, 256, 999, []byte{0xFF, 0xFF, 0xFF}},
		{"clamped low", -1, -255, -1000, []byte{0x00, 0x00, 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame := MainLED(tt.r, tt.g, tt.b)

			header, payload := parseBody(t, frame)
			if !bytes.Equal(header, HeaderMainLED[:]) {
				t.Errorf("header = % X, want % X", header, HeaderMainLED)
			}
			if !bytes.Equal(payload, tt.payload) {
				t.Errorf("payload = % X, want % X", payload, tt.payload)
			}
		})
	}
}

func TestMatrixPixel(t *testing.T) {
	tests := []struct {
		name          string
		x, y, r, g, b int
		payload       []byte
	}{
		{"origin red", 0, 0, 255, 0, 0, []byte{0x00, 0x00, 0xFF, 0x00, 0x00}},
		{"far corner", 7, 7, 0, 0, 255, []byte{0x07, 0x07, 0x00, 0x00, 0xFF}},
		{"x clamped high", 10, 3, 1, 2, 3, []byte{0x07, 0x03, 0x01, 0x02, 0x03}},
		{"y clamped low", 3, -1, 1, 2, 3, []byte{0x03, 0x00, 0x01, 0x02, 0x03}},
		{"both clamped", 10, -1, 255, 255, 255, []byte{0x07, 0x00, 0xFF, 0xFF, 0xFF}},
		{"color clamped", 4, 4, 300, -5, 256, []byte{0x04, 0x04, 0xFF, 0x00, 0xFF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame := MatrixPixel(tt.x, tt.y, tt.r, tt.g, tt.b)

			header, payload := parseBody(t, frame)
			if !bytes.Equal(header, HeaderMatrixPixel[:]) {
				t.Errorf("header = % X, want % X", header, HeaderMatrixPixel)
			}
			if !bytes.Equal(payload, tt.payload) {
				t.Errorf("payload = % X, want % X", payload, tt.payload)
			}
		})
	}
}

func TestMatrixPixelClampEquivalence(t *testing.T) {
	got := MatrixPixel(10, -1, 0, 255, 0)
	want := MatrixPixel(7, 0, 0, 255, 0)
	if !bytes.Equal(got, want) {
		t.Errorf("MatrixPixel(10, -1, ...) = % X, want MatrixPixel(7, 0, ...) = % X", got, want)
	}
}

func TestClampFunctions(t *testing.T) {
	tests := []struct {
		name string
		fn   func(int) int
		in   int
		want int
	}{
		{"speed in range", ClampSpeed, 128, 128},
		{"speed above", ClampSpeed, 300, 255},
		{"speed below", ClampSpeed, -1, 0},
		{"heading in range", ClampHeading, 359, 359},
		{"heading above not wrapped", ClampHeading, 400, 359},
		{"heading below", ClampHeading, -90, 0},
		{"channel above", ClampChannel, 256, 255},
		{"coord in range", ClampCoord, 7, 7},
		{"coord above", ClampCoord, 10, 7},
		{"coord below", ClampCoord, -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.in); got != tt.want {
				t.Errorf("clamp(%d) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func BenchmarkDrive(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Drive(128, 180, false)
	}
}
