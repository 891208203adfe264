package incidents

import (
	"fmt"

	"github.com/lanwatch-dev/lanwatch/internal/models"
)

// Descriptor is a candidate incident proposed by a classifier. It is not
// persisted until the Manager accepts it via OpenOrContinue.
type Descriptor struct {
	Type            IncidentType
	Severity        Severity
	Description     string
	AffectedTargets []string
	ProbableCause   string
}

func (d *Descriptor) Key() Key {
	return NewKey(d.Type, d.AffectedTargets)
}

// CheckWiFi classifies the latest WiFi sample. A disconnected interface is
// a critical outage; a connected interface with a signal below rssiCritical
// (dBm) is a degradation. Outage takes precedence.
func CheckWiFi(sample *models.WiFiSample, rssiCritical int) *Descriptor {
	if !sample.IsConnected {
		return &Descriptor{
			Type:            WiFiOutage,
			Severity:        SeverityCritical,
			Description:     fmt.Sprintf("WiFi interface %s disconnected", sample.Interface),
			AffectedTargets: []string{sample.Interface},
		}
	}

	if sample.RSSI != nil && *sample.RSSI < rssiCritical {
		return &Descriptor{
			Type:            WiFiDegradation,
			Severity:        SeverityWarning,
			Description:     fmt.Sprintf("WiFi signal weak: %d dBm", *sample.RSSI),
			AffectedTargets: []string{sample.Interface},
		}
	}

	return nil
}

// CheckConnectivity classifies gateway and internet ping results. Rules are
// evaluated in priority order and only the first match fires: an
// unreachable gateway is authoritative for a local outage even when every
// internet target is down too.
func CheckConnectivity(gateway *models.PingResult, internet []models.PingResult, lossWarnPercent float64) *Descriptor {
	if !gateway.IsReachable {
		return &Descriptor{
			Type:            WiFiOutage,
			Severity:        SeverityCritical,
			Description:     fmt.Sprintf("Gateway %s unreachable", gateway.Target),
			AffectedTargets: []string{gateway.Target},
		}
	}

	internetReachable := false
	targets := make([]string, 0, len(internet))

	for _, result := range internet {
		targets = append(targets, result.Target)

		if result.IsReachable {
			internetReachable = true
		}
	}

	if len(internet) > 0 && !internetReachable {
		return &Descriptor{
			Type:            InternetOutage,
			Severity:        SeverityWarning,
			Description:     "Internet connectivity lost (gateway reachable)",
			AffectedTargets: targets,
		}
	}

	if gateway.PacketLoss > lossWarnPercent {
		return &Descriptor{
			Type:            WiFiDegradation,
			Severity:        SeverityWarning,
			Description:     fmt.Sprintf("High packet loss to gateway: %.1f%%", gateway.PacketLoss),
			AffectedTargets: []string{gateway.Target},
		}
	}

	return nil
}

// CheckSensor classifies one sensor check, correlating an unavailable
// sensor against the network state observed at check time. When WiFi or the
// gateway is down the sensor is presumed a casualty of the network problem
// and the incident is informational only.
func CheckSensor(check *models.SensorCheck, wifiOK, gatewayOK bool) *Descriptor {
	if check.IsAvailable {
		return nil
	}

	var severity Severity
	var probableCause string

	if !wifiOK || !gatewayOK {
		severity = SeverityInfo
		probableCause = "WiFi/network connectivity issue (correlated with WiFi/gateway outage)"
	} else {
		severity = SeverityWarning
		probableCause = "Sensor-specific issue (WiFi and gateway are operational)"
	}

	return &Descriptor{
		Type:            SensorOutage,
		Severity:        severity,
		Description:     fmt.Sprintf("Sensor '%s' (%s) unavailable", check.SensorName, check.SensorIP),
		AffectedTargets: []string{check.SensorName},
		ProbableCause:   probableCause,
	}
}
