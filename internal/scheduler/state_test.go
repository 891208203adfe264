package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lanwatch-dev/lanwatch/internal/models"
)

func TestNetworkStateStartsUnknown(t *testing.T) {
	state := NewNetworkState()

	// Before the first samples arrive, everything reads as down, so a
	// failing sensor correlates to a network problem rather than its own.
	assert.False(t, state.WiFiConnected())
	assert.False(t, state.GatewayReachable())
}

func TestNetworkStateTracksLatestSamples(t *testing.T) {
	state := NewNetworkState()

	state.SetWiFi(&models.WiFiSample{Interface: "wlan0", IsConnected: true})
	state.SetGateway(&models.PingResult{Target: "192.168.1.1", IsReachable: true})

	assert.True(t, state.WiFiConnected())
	assert.True(t, state.GatewayReachable())

	state.SetWiFi(&models.WiFiSample{Interface: "wlan0", IsConnected: false})

	assert.False(t, state.WiFiConnected())
}

func TestNetworkStateSnapshotCopies(t *testing.T) {
	state := NewNetworkState()

	state.SetWiFi(&models.WiFiSample{Interface: "wlan0", IsConnected: true})
	state.SetSensor("garage", &models.SensorCheck{SensorName: "garage", IsAvailable: true})

	wifi, _, sensors, lastUpdate := state.Snapshot()

	require.NotNil(t, wifi)
	assert.False(t, lastUpdate.IsZero())

	// Mutating the snapshot must not leak back into tracked state.
	wifi.IsConnected = false
	sensors["garage"].IsAvailable = false

	assert.True(t, state.WiFiConnected())

	_, _, fresh, _ := state.Snapshot()
	assert.True(t, fresh["garage"].IsAvailable)
}
