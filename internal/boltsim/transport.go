package boltsim

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sbp-robotics/sbp-go/pkg/transport"
)

// Transport implements transport.Transport over simulated devices.
type Transport struct {
	mu       sync.RWMutex
	devices  map[string]*Device
	extraAds []transport.Advertisement

	discoverErr error
	openErr     error
	writeHook   func(endpoint string, frame []byte) error
}

// Compile-time interface satisfaction checks.
var (
	_ transport.Transport = (*Transport)(nil)
	_ transport.Conn      = (*Conn)(nil)
)

// NewTransport creates a transport with the given devices in radio range.
func NewTransport(devices ...*Device) *Transport {
	t := &Transport{devices: make(map[string]*Device)}
	for _, d := range devices {
		t.AddDevice(d)
	}
	return t
}

// AddDevice brings a device into radio range.
func (t *Transport) AddDevice(d *Device) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.devices[d.Endpoint()] = d
}

// Device looks up a device by endpoint.
func (t *Transport) Device(endpoint string) (*Device, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	d, ok := t.devices[endpoint]
	return d, ok
}

// AddAdvertisement injects a raw advertisement into discovery results.
// The advertised endpoint is not openable; use it to simulate unrelated
// peripherals sharing the airspace.
func (t *Transport) AddAdvertisement(ad transport.Advertisement) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.extraAds = append(t.extraAds, ad)
}

// FailDiscover makes Discover fail with err. Pass nil to restore.
func (t *Transport) FailDiscover(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.discoverErr = err
}

// FailOpen makes Open fail with err. Pass nil to restore.
func (t *Transport) FailOpen(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.openErr = err
}

// FailWrites makes every characteristic write fail with err, before the
// frame reaches any device. Pass nil to restore.
func (t *Transport) FailWrites(err error) {
	t.SetWriteHook(nil)
	if err != nil {
		t.SetWriteHook(func(string, []byte) error { return err })
	}
}

// SetWriteHook installs a hook that runs before each characteristic write.
// A non-nil return is surfaced to the writer and the frame never reaches
// the device. Pass nil to remove.
func (t *Transport) SetWriteHook(hook func(endpoint string, frame []byte) error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.writeHook = hook
}

// Discover lists one advertisement per device in range, plus any injected
// raw advertisements. The timeout is ignored; simulated discovery is
// instant.
func (t *Transport) Discover(ctx context.Context, _ time.Duration) ([]transport.Advertisement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.discoverErr != nil {
		return nil, t.discoverErr
	}

	ads := make([]transport.Advertisement, 0, len(t.devices)+len(t.extraAds))
	for _, d := range t.devices {
		ads = append(ads, transport.Advertisement{
			Endpoint:     d.Endpoint(),
			LocalName:    d.Name(),
			RSSI:         d.RSSI(),
			ServiceUUIDs: []uuid.UUID{transport.ServiceUUID},
		})
	}
	ads = append(ads, t.extraAds...)
	return ads, nil
}

// Open connects to a device by endpoint.
func (t *Transport) Open(ctx context.Context, endpoint string) (transport.Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.openErr != nil {
		return nil, t.openErr
	}

	d, ok := t.devices[endpoint]
	if !ok {
		return nil, fmt.Errorf("%w: %s", transport.ErrEndpointNotFound, endpoint)
	}
	return &Conn{transport: t, device: d}, nil
}

// Conn is an open link to a simulated device.
type Conn struct {
	transport *Transport
	device    *Device

	mu     sync.Mutex
	closed bool
}

// WriteCharacteristic delivers a frame to the device. Writes to any
// characteristic other than the command characteristic fail as a missing
// characteristic, matching a GATT lookup miss.
func (c *Conn) WriteCharacteristic(ctx context.Context, characteristic uuid.UUID, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return transport.ErrConnectionClosed
	}

	c.transport.mu.RLock()
	hook := c.transport.writeHook
	c.transport.mu.RUnlock()
	if hook != nil {
		if err := hook(c.device.Endpoint(), data); err != nil {
			return err
		}
	}

	if characteristic != transport.CharacteristicUUID {
		return fmt.Errorf("%w: %s", transport.ErrCharacteristicNotFound, characteristic)
	}

	return c.device.handleFrame(data)
}

// Endpoint returns the connected device's endpoint.
func (c *Conn) Endpoint() string { return c.device.Endpoint() }

// Close releases the link. Closing twice is a no-op.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}
