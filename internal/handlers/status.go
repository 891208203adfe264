package handlers

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lanwatch-dev/lanwatch/internal/probes"
)

type WiFiStatus struct {
	Interface   string   `json:"interface"`
	SSID        string   `json:"ssid"`
	IsConnected bool     `json:"is_connected"`
	RSSI        *int     `json:"rssi"`
	Quality     string   `json:"quality"`
	LinkQuality *float64 `json:"link_quality"`
	IPAddress   string   `json:"ip_address"`
}

type GatewayStatus struct {
	Target      string   `json:"target"`
	IsReachable bool     `json:"is_reachable"`
	LatencyMs   *float64 `json:"latency_ms"`
	PacketLoss  float64  `json:"packet_loss"`
}

type SensorStatus struct {
	Name         string   `json:"name"`
	IP           string   `json:"ip"`
	CheckType    string   `json:"check_type"`
	IsAvailable  bool     `json:"is_available"`
	LatencyMs    *float64 `json:"latency_ms"`
	ErrorMessage string   `json:"error_message,omitempty"`
}

type StatusResponse struct {
	WiFi          *WiFiStatus    `json:"wifi"`
	Gateway       *GatewayStatus `json:"gateway"`
	Sensors       []SensorStatus `json:"sensors"`
	OpenIncidents int            `json:"open_incidents"`
	LastUpdate    *time.Time     `json:"last_update"`
}

// GetStatus serves the latest observation from every source plus the
// current open-incident count, for the live dashboard.
func GetStatus(ctx *gin.Context) {
	wifi, gateway, sensors, lastUpdate := state.Snapshot()

	response := StatusResponse{
		Sensors:       make([]SensorStatus, 0, len(sensors)),
		OpenIncidents: manager.OpenCount(),
	}

	if !lastUpdate.IsZero() {
		response.LastUpdate = &lastUpdate
	}

	if wifi != nil {
		status := &WiFiStatus{
			Interface:   wifi.Interface,
			SSID:        wifi.SSID,
			IsConnected: wifi.IsConnected,
			RSSI:        wifi.RSSI,
			Quality:     "N/A",
			LinkQuality: wifi.LinkQuality,
			IPAddress:   wifi.IPAddress,
		}

		if wifi.RSSI != nil {
			status.Quality = probes.SignalRating(*wifi.RSSI)
		}

		response.WiFi = status
	}

	if gateway != nil {
		response.Gateway = &GatewayStatus{
			Target:      gateway.Target,
			IsReachable: gateway.IsReachable,
			LatencyMs:   gateway.LatencyMs,
			PacketLoss:  gateway.PacketLoss,
		}
	}

	names := make([]string, 0, len(sensors))

	for name := range sensors {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		check := sensors[name]
		response.Sensors = append(response.Sensors, SensorStatus{
			Name:         check.SensorName,
			IP:           check.SensorIP,
			CheckType:    check.CheckType,
			IsAvailable:  check.IsAvailable,
			LatencyMs:    check.LatencyMs,
			ErrorMessage: check.ErrorMessage,
		})
	}

	ctx.JSON(http.StatusOK, response)
}
