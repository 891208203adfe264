package incidents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lanwatch-dev/lanwatch/internal/models"
)

func intPtr(v int) *int {
	return &v
}

func TestCheckWiFiDisconnected(t *testing.T) {
	sample := &models.WiFiSample{Interface: "wlan0", IsConnected: false}

	desc := CheckWiFi(sample, -80)

	require.NotNil(t, desc)
	assert.Equal(t, WiFiOutage, desc.Type)
	assert.Equal(t, SeverityCritical, desc.Severity)
	assert.Equal(t, []string{"wlan0"}, desc.AffectedTargets)
}

func TestCheckWiFiWeakSignal(t *testing.T) {
	sample := &models.WiFiSample{Interface: "wlan0", IsConnected: true, RSSI: intPtr(-85)}

	desc := CheckWiFi(sample, -80)

	require.NotNil(t, desc)
	assert.Equal(t, WiFiDegradation, desc.Type)
	assert.Equal(t, SeverityWarning, desc.Severity)
	assert.Contains(t, desc.Description, "-85 dBm")
}

func TestCheckWiFiOutageTakesPrecedence(t *testing.T) {
	// Disconnected with a weak signal reading still classifies as an
	// outage, never a degradation.
	sample := &models.WiFiSample{Interface: "wlan0", IsConnected: false, RSSI: intPtr(-90)}

	desc := CheckWiFi(sample, -80)

	require.NotNil(t, desc)
	assert.Equal(t, WiFiOutage, desc.Type)
}

func TestCheckWiFiHealthy(t *testing.T) {
	assert.Nil(t, CheckWiFi(&models.WiFiSample{Interface: "wlan0", IsConnected: true, RSSI: intPtr(-55)}, -80))
	assert.Nil(t, CheckWiFi(&models.WiFiSample{Interface: "wlan0", IsConnected: true}, -80))
}

func TestCheckConnectivityGatewayDownWinsOverInternetDown(t *testing.T) {
	gateway := &models.PingResult{Target: "192.168.1.1", IsReachable: false, PacketLoss: 100}
	internet := []models.PingResult{
		{Target: "8.8.8.8", IsReachable: false, PacketLoss: 100},
		{Target: "1.1.1.1", IsReachable: false, PacketLoss: 100},
	}

	desc := CheckConnectivity(gateway, internet, 20)

	require.NotNil(t, desc)
	assert.Equal(t, WiFiOutage, desc.Type)
	assert.Equal(t, SeverityCritical, desc.Severity)
	assert.Equal(t, []string{"192.168.1.1"}, desc.AffectedTargets)
}

func TestCheckConnectivityInternetOutage(t *testing.T) {
	gateway := &models.PingResult{Target: "192.168.1.1", IsReachable: true}
	internet := []models.PingResult{
		{Target: "8.8.8.8", IsReachable: false, PacketLoss: 100},
		{Target: "1.1.1.1", IsReachable: false, PacketLoss: 100},
	}

	desc := CheckConnectivity(gateway, internet, 20)

	require.NotNil(t, desc)
	assert.Equal(t, InternetOutage, desc.Type)
	assert.Equal(t, SeverityWarning, desc.Severity)
	assert.ElementsMatch(t, []string{"8.8.8.8", "1.1.1.1"}, desc.AffectedTargets)
}

func TestCheckConnectivityHighPacketLoss(t *testing.T) {
	gateway := &models.PingResult{Target: "192.168.1.1", IsReachable: true, PacketLoss: 35}
	internet := []models.PingResult{{Target: "8.8.8.8", IsReachable: true}}

	desc := CheckConnectivity(gateway, internet, 20)

	require.NotNil(t, desc)
	assert.Equal(t, WiFiDegradation, desc.Type)
	assert.Contains(t, desc.Description, "35.0%")
}

func TestCheckConnectivityHealthy(t *testing.T) {
	gateway := &models.PingResult{Target: "192.168.1.1", IsReachable: true, PacketLoss: 0}
	internet := []models.PingResult{{Target: "8.8.8.8", IsReachable: true}}

	assert.Nil(t, CheckConnectivity(gateway, internet, 20))
}

func TestCheckConnectivityNoInternetTargets(t *testing.T) {
	gateway := &models.PingResult{Target: "192.168.1.1", IsReachable: true, PacketLoss: 0}

	assert.Nil(t, CheckConnectivity(gateway, nil, 20))
}

func TestCheckSensorAvailable(t *testing.T) {
	check := &models.SensorCheck{SensorName: "garage", SensorIP: "192.168.1.50", IsAvailable: true}

	assert.Nil(t, CheckSensor(check, true, true))
}

func TestCheckSensorCorrelatedWithNetworkOutage(t *testing.T) {
	check := &models.SensorCheck{SensorName: "garage", SensorIP: "192.168.1.50", IsAvailable: false}

	for _, flags := range [][2]bool{{false, true}, {true, false}, {false, false}} {
		desc := CheckSensor(check, flags[0], flags[1])

		require.NotNil(t, desc)
		assert.Equal(t, SensorOutage, desc.Type)
		assert.Equal(t, SeverityInfo, desc.Severity)
		assert.Contains(t, desc.ProbableCause, "correlated with WiFi/gateway outage")
		assert.Equal(t, []string{"garage"}, desc.AffectedTargets)
	}
}

func TestCheckSensorSpecificIssue(t *testing.T) {
	check := &models.SensorCheck{SensorName: "garage", SensorIP: "192.168.1.50", IsAvailable: false}

	desc := CheckSensor(check, true, true)

	require.NotNil(t, desc)
	assert.Equal(t, SeverityWarning, desc.Severity)
	assert.Contains(t, desc.ProbableCause, "Sensor-specific issue")
}
