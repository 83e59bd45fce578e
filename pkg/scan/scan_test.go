package scan_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbp-robotics/sbp-go/pkg/scan"
	"github.com/sbp-robotics/sbp-go/pkg/transport"
)

// stubTransport returns scripted discovery results.
type stubTransport struct {
	ads         []transport.Advertisement
	err         error
	lastTimeout time.Duration
}

func (s *stubTransport) Discover(_ context.Context, timeout time.Duration) ([]transport.Advertisement, error) {
	s.lastTimeout = timeout
	return s.ads, s.err
}

func (s *stubTransport) Open(context.Context, string) (transport.Conn, error) {
	return nil, errors.New("stub transport cannot open connections")
}

func toyAd(endpoint, name string, rssi int) transport.Advertisement {
	return transport.Advertisement{
		Endpoint:     endpoint,
		LocalName:    name,
		RSSI:         rssi,
		ServiceUUIDs: []uuid.UUID{transport.ServiceUUID},
	}
}

func TestScan_FiltersAndSorts(t *testing.T) {
	tr := &stubTransport{ads: []transport.Advertisement{
		toyAd("ep-far", "SB-FAR0", -82),
		// Right service, wrong name: some other Sphero-era product.
		{Endpoint: "ep-other", LocalName: "SK-1234", RSSI: -40, ServiceUUIDs: []uuid.UUID{transport.ServiceUUID}},
		toyAd("ep-near", "SB-NEAR", -45),
		// Right name prefix but no Sphero service advertised.
		{Endpoint: "ep-fake", LocalName: "SB-FAKE", RSSI: -30},
		toyAd("ep-mid", "SB-MID0", -60),
		// Unrelated peripheral.
		{Endpoint: "ep-watch", LocalName: "Watch", RSSI: -50},
	}}

	devices, err := scan.NewScanner(tr).Scan(context.Background(), time.Second)
	require.NoError(t, err)

	require.Len(t, devices, 3)
	assert.Equal(t, "ep-near", devices[0].Endpoint)
	assert.Equal(t, "ep-mid", devices[1].Endpoint)
	assert.Equal(t, "ep-far", devices[2].Endpoint)

	assert.Equal(t, "SB-NEAR", devices[0].Name)
	assert.Equal(t, -45, devices[0].RSSI)

	// Strongest signal first means shortest estimated distance first.
	assert.Less(t, devices[0].ApproxDistance, devices[1].ApproxDistance)
	assert.Less(t, devices[1].ApproxDistance, devices[2].ApproxDistance)
}

func TestScan_NoToysFound(t *testing.T) {
	tr := &stubTransport{ads: []transport.Advertisement{
		{Endpoint: "ep-1", LocalName: "Speaker", RSSI: -50},
	}}

	devices, err := scan.NewScanner(tr).Scan(context.Background(), time.Second)
	require.NoError(t, err)
	assert.Empty(t, devices)
}

func TestScan_DiscoverError(t *testing.T) {
	discoverErr := errors.New("adapter powered off")
	tr := &stubTransport{err: discoverErr}

	_, err := scan.NewScanner(tr).Scan(context.Background(), time.Second)
	assert.ErrorIs(t, err, discoverErr)
}

func TestScan_DefaultTimeout(t *testing.T) {
	tr := &stubTransport{}
	_, err := scan.NewScanner(tr).Scan(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, scan.DefaultTimeout, tr.lastTimeout)

	_, err = scan.NewScanner(tr).Scan(context.Background(), 250*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, tr.lastTimeout)
}

func TestFindByName(t *testing.T) {
	tr := &stubTransport{ads: []transport.Advertisement{
		toyAd("ep-1", "SB-AAAA", -70),
		toyAd("ep-2", "SB-BBBB", -50),
	}}
	scanner := scan.NewScanner(tr)

	device, err := scanner.FindByName(context.Background(), time.Second, "SB-AAAA")
	require.NoError(t, err)
	assert.Equal(t, "ep-1", device.Endpoint)
	assert.Equal(t, -70, device.RSSI)

	_, err = scanner.FindByName(context.Background(), time.Second, "SB-CCCC")
	assert.ErrorIs(t, err, scan.ErrDeviceNotFound)
}

func TestIsToy(t *testing.T) {
	tests := []struct {
		name string
		ad   transport.Advertisement
		want bool
	}{
		{"toy", toyAd("ep", "SB-9A3F", -50), true},
		{"wrong prefix", transport.Advertisement{LocalName: "BB-9A3F", ServiceUUIDs: []uuid.UUID{transport.ServiceUUID}}, false},
		{"no service", transport.Advertisement{LocalName: "SB-9A3F"}, false},
		{"prefix only, lowercase", transport.Advertisement{LocalName: "sb-9A3F", ServiceUUIDs: []uuid.UUID{transport.ServiceUUID}}, false},
		{"empty", transport.Advertisement{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scan.IsToy(tt.ad))
		})
	}
}

func TestEstimateDistance(t *testing.T) {
	// Fit reference points: at the -59 dBm reference power the ratio is
	// exactly 1 and the polynomial branch applies.
	assert.InDelta(t, 1.011, scan.EstimateDistance(-59), 0.01)

	// Stronger than reference: power-curve branch, well under a meter.
	assert.InDelta(t, 0.0205, scan.EstimateDistance(-40), 0.001)

	// Weaker than reference: farther away.
	assert.InDelta(t, 9.53, scan.EstimateDistance(-80), 0.05)

	// Unknown strength.
	assert.True(t, math.IsInf(scan.EstimateDistance(0), 1))

	// Monotonic: weaker signal, larger estimate.
	assert.Less(t, scan.EstimateDistance(-40), scan.EstimateDistance(-59))
	assert.Less(t, scan.EstimateDistance(-59), scan.EstimateDistance(-80))
	assert.Less(t, scan.EstimateDistance(-80), scan.EstimateDistance(-95))
}
