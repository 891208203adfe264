package scheduler

import (
	"sync"
	"time"

	"github.com/lanwatch-dev/lanwatch/internal/models"
)

// NetworkState holds the most recent snapshot from every source. Sensor
// classification correlates against the WiFi and gateway flags held here;
// the correlation is instantaneous by design, not a time-window join.
type NetworkState struct {
	mu         sync.RWMutex
	wifi       *models.WiFiSample
	gateway    *models.PingResult
	sensors    map[string]*models.SensorCheck
	lastUpdate time.Time
}

func NewNetworkState() *NetworkState {
	return &NetworkState{
		sensors: make(map[string]*models.SensorCheck),
	}
}

func (s *NetworkState) SetWiFi(sample *models.WiFiSample) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.wifi = sample
	s.lastUpdate = time.Now().UTC()
}

func (s *NetworkState) SetGateway(result *models.PingResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gateway = result
	s.lastUpdate = time.Now().UTC()
}

func (s *NetworkState) SetSensor(name string, check *models.SensorCheck) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sensors[name] = check
	s.lastUpdate = time.Now().UTC()
}

// WiFiConnected reports the latest WiFi sample's connected flag, false
// until the first sample arrives.
func (s *NetworkState) WiFiConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.wifi != nil && s.wifi.IsConnected
}

// GatewayReachable reports the latest gateway ping's reachable flag, false
// until the first ping completes.
func (s *NetworkState) GatewayReachable() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.gateway != nil && s.gateway.IsReachable
}

// Snapshot returns copies of the latest observations for the live status
// endpoint.
func (s *NetworkState) Snapshot() (*models.WiFiSample, *models.PingResult, map[string]*models.SensorCheck, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sensors := make(map[string]*models.SensorCheck, len(s.sensors))

	for name, check := range s.sensors {
		copied := *check
		sensors[name] = &copied
	}

	var wifi *models.WiFiSample

	if s.wifi != nil {
		copied := *s.wifi
		wifi = &copied
	}

	var gateway *models.PingResult

	if s.gateway != nil {
		copied := *s.gateway
		gateway = &copied
	}

	return wifi, gateway, sensors, s.lastUpdate
}
