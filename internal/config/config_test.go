package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

const validConfig = `
wifi:
  interface: wlan0
gateway:
  ip: 192.168.1.1
internet_targets:
  - 8.8.8.8
  - 1.1.1.1
sensors:
  - name: garage
    ip: 192.168.1.50
    type: ping
  - name: broker
    ip: 192.168.1.60
    type: mqtt
`

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))

	require.NoError(t, err)
	assert.Equal(t, 10, cfg.WiFi.CheckInterval)
	assert.Equal(t, -80, cfg.WiFi.RSSICritical)
	assert.Equal(t, 5, cfg.Gateway.PingInterval)
	assert.Equal(t, 2, cfg.Gateway.Timeout)
	assert.InDelta(t, 20, cfg.Gateway.PacketLossThreshold, 0.001)
	assert.Equal(t, 7, cfg.Monitoring.DataRetentionDays)

	require.Len(t, cfg.Sensors, 2)
	assert.Equal(t, 30, cfg.Sensors[0].Interval)
	assert.Equal(t, 5, cfg.Sensors[0].Timeout)
	assert.Equal(t, 1883, cfg.Sensors[1].Port)
}

func TestLoadKeepsExplicitValues(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
wifi:
  interface: wlan1
  check_interval: 60
  rssi_critical_threshold: -75
gateway:
  ip: 10.0.0.1
  ping_interval: 15
`))

	require.NoError(t, err)
	assert.Equal(t, "wlan1", cfg.WiFi.Interface)
	assert.Equal(t, 60, cfg.WiFi.CheckInterval)
	assert.Equal(t, -75, cfg.WiFi.RSSICritical)
	assert.Equal(t, 15, cfg.Gateway.PingInterval)
}

func TestLoadMQTTEnvOverrides(t *testing.T) {
	t.Setenv("MQTT_USERNAME", "monitor")
	t.Setenv("MQTT_PASSWORD", "secret")

	cfg, err := Load(writeConfig(t, validConfig))

	require.NoError(t, err)
	assert.Equal(t, "monitor", cfg.Sensors[1].Username)
	assert.Equal(t, "secret", cfg.Sensors[1].Password)
	// Non-MQTT sensors are untouched.
	assert.Empty(t, cfg.Sensors[0].Username)
}

func TestLoadRejectsMissingInterface(t *testing.T) {
	_, err := Load(writeConfig(t, `
gateway:
  ip: 192.168.1.1
`))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "wifi interface")
}

func TestLoadRejectsMissingGateway(t *testing.T) {
	_, err := Load(writeConfig(t, `
wifi:
  interface: wlan0
`))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "gateway IP")
}

func TestLoadRejectsInvalidSensorType(t *testing.T) {
	_, err := Load(writeConfig(t, `
wifi:
  interface: wlan0
gateway:
  ip: 192.168.1.1
sensors:
  - name: garage
    ip: 192.168.1.50
    type: snmp
`))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid sensor type")
}

func TestLoadRejectsIncompleteSensor(t *testing.T) {
	_, err := Load(writeConfig(t, `
wifi:
  interface: wlan0
gateway:
  ip: 192.168.1.1
sensors:
  - name: garage
`))

	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))

	require.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "wifi: [unclosed"))

	require.Error(t, err)
}
