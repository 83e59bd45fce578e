package scan

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/sbp-robotics/sbp-go/pkg/transport"
)

// NamePrefix is the advertised local name prefix shared by all BOLT Plus
// toys, e.g. "SB-9A3F".
const NamePrefix = "SB-"

// DefaultTimeout bounds a scan when the caller passes no timeout.
const DefaultTimeout = 5 * time.Second

// referenceTxPower is the assumed transmit power at one meter, in dBm.
const referenceTxPower = -59

// ErrDeviceNotFound is returned by FindByName when no matching toy
// appeared within the scan window.
var ErrDeviceNotFound = errors.New("device not found")

// Device is a discovered toy.
type Device struct {
	// Endpoint is the transport address to connect to.
	Endpoint string

	// Name is the advertised local name.
	Name string

	// RSSI is the received signal strength in dBm.
	RSSI int

	// ApproxDistance estimates the range to the toy in meters.
	// Derived from RSSI; treat it as a coarse ordering hint.
	ApproxDistance float64
}

// Scanner discovers BOLT Plus toys through a transport.
type Scanner struct {
	transport transport.Transport
}

// NewScanner returns a Scanner that discovers toys via t.
func NewScanner(t transport.Transport) *Scanner {
	return &Scanner{transport: t}
}

// Scan discovers nearby toys, strongest signal first. A timeout of zero or
// less falls back to DefaultTimeout.
func (s *Scanner) Scan(ctx context.Context, timeout time.Duration) ([]Device, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ads, err := s.transport.Discover(ctx, timeout)
	if err != nil {
		return nil, fmt.Errorf("discover: %w", err)
	}

	devices := make([]Device, 0, len(ads))
	for _, ad := range ads {
		if !IsToy(ad) {
			continue
		}
		devices = append(devices, Device{
			Endpoint:       ad.Endpoint,
			Name:           ad.LocalName,
			RSSI:           ad.RSSI,
			ApproxDistance: EstimateDistance(ad.RSSI),
		})
	}

	sort.Slice(devices, func(i, j int) bool {
		return devices[i].RSSI > devices[j].RSSI
	})

	return devices, nil
}

// FindByName scans until the toy advertising the given local name is seen.
// Returns ErrDeviceNotFound when the scan window closes without a match.
func (s *Scanner) FindByName(ctx context.Context, timeout time.Duration, name string) (*Device, error) {
	devices, err := s.Scan(ctx, timeout)
	if err != nil {
		return nil, err
	}

	for i := range devices {
		if devices[i].Name == name {
			return &devices[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrDeviceNotFound, name)
}

// IsToy reports whether an advertisement belongs to a BOLT Plus toy.
func IsToy(ad transport.Advertisement) bool {
	return strings.HasPrefix(ad.LocalName, NamePrefix) &&
		ad.AdvertisesService(transport.ServiceUUID)
}

// EstimateDistance converts a signal strength in dBm to an approximate
// distance in meters using a log-distance path loss fit against a -59 dBm
// reference. An RSSI of zero means the strength is unknown and yields +Inf.
func EstimateDistance(rssi int) float64 {
	if rssi == 0 {
		return math.Inf(1)
	}

	ratio := float64(rssi) / referenceTxPower
	if ratio < 1 {
		return math.Pow(ratio, 10)
	}
	return 0.89976*math.Pow(ratio, 7.7095) + 0.111
}
