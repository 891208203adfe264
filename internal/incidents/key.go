package incidents

import (
	"fmt"
	"sort"
	"strings"
)

type IncidentType string

const (
	WiFiOutage      IncidentType = "wifi_outage"
	WiFiDegradation IncidentType = "wifi_degradation"
	InternetOutage  IncidentType = "internet_outage"
	SensorOutage    IncidentType = "sensor_outage"
	FullOutage      IncidentType = "full_outage" // reserved for composite conditions
)

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Key identifies one ongoing problem: repeated classifier firings for the
// same type and target set map onto a single open incident. Targets is a
// canonical (sorted, comma-joined) rendering so the struct stays comparable.
type Key struct {
	Type    IncidentType
	Targets string
}

func NewKey(incidentType IncidentType, targets []string) Key {
	sorted := make([]string, len(targets))
	copy(sorted, targets)
	sort.Strings(sorted)

	return Key{
		Type:    incidentType,
		Targets: strings.Join(sorted, ","),
	}
}

func (k Key) String() string {
	return fmt.Sprintf("%s:[%s]", k.Type, k.Targets)
}
