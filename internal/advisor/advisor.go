package advisor

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/lanwatch-dev/lanwatch/internal/incidents"
	"github.com/lanwatch-dev/lanwatch/internal/models"
)

// Recommendations inspects persisted history over [start, end] and returns
// plain-text advice. An empty problem list collapses to a single all-clear
// line.
func Recommendations(db *gorm.DB, start, end time.Time) []string {
	var recs []string

	recs = append(recs, analyzeWiFiSignal(db, start, end)...)
	recs = append(recs, analyzeDisconnections(db, start, end)...)
	recs = append(recs, analyzeSensorReliability(db, start, end)...)
	recs = append(recs, analyzeGatewayLoss(db, start, end)...)
	recs = append(recs, analyzeTimePatterns(db, start, end)...)
	recs = append(recs, analyzeIPChurn(db, start, end)...)

	if len(recs) == 0 {
		recs = append(recs, "No major issues detected. System is operating normally.")
	}

	return recs
}

func wifiSamples(db *gorm.DB, start, end time.Time) []models.WiFiSample {
	var samples []models.WiFiSample
	db.Where("checked_at >= ? AND checked_at <= ?", start, end).Order("checked_at").Find(&samples)
	return samples
}

func analyzeWiFiSignal(db *gorm.DB, start, end time.Time) []string {
	var recs []string

	samples := wifiSamples(db, start, end)

	var sum, count int

	for _, sample := range samples {
		if sample.RSSI != nil {
			sum += *sample.RSSI
			count++
		}
	}

	if count == 0 {
		return recs
	}

	avg := float64(sum) / float64(count)

	if avg < -75 {
		recs = append(recs, fmt.Sprintf(
			"WiFi signal is weak (average %.0f dBm). Consider moving the access point closer or adding a WiFi repeater.", avg))
	}

	return recs
}

func analyzeDisconnections(db *gorm.DB, start, end time.Time) []string {
	var recs []string

	samples := wifiSamples(db, start, end)

	drops := 0
	connected := false
	seen := false

	for _, sample := range samples {
		if seen && connected && !sample.IsConnected {
			drops++
		}

		connected = sample.IsConnected
		seen = true
	}

	if drops > 3 {
		recs = append(recs, fmt.Sprintf(
			"WiFi dropped %d times in the analyzed period. Check for interference, router firmware updates or power-saving settings.", drops))
	}

	return recs
}

func analyzeSensorReliability(db *gorm.DB, start, end time.Time) []string {
	var recs []string

	var checks []models.SensorCheck
	db.Where("checked_at >= ? AND checked_at <= ?", start, end).Find(&checks)

	total := make(map[string]int)
	available := make(map[string]int)

	for _, check := range checks {
		total[check.SensorName]++

		if check.IsAvailable {
			available[check.SensorName]++
		}
	}

	names := make([]string, 0, len(total))

	for name := range total {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		availability := 100 * float64(available[name]) / float64(total[name])

		if availability < 95 {
			recs = append(recs, fmt.Sprintf(
				"Sensor '%s' was available only %.1f%% of the time. Check its power supply, placement and network settings.", name, availability))
		}
	}

	return recs
}

func analyzeGatewayLoss(db *gorm.DB, start, end time.Time) []string {
	var recs []string

	var results []models.PingResult
	db.Where("checked_at >= ? AND checked_at <= ? AND target_type = ?", start, end, "gateway").Find(&results)

	if len(results) == 0 {
		return recs
	}

	var sum float64

	for _, result := range results {
		sum += result.PacketLoss
	}

	avg := sum / float64(len(results))

	if avg > 5 {
		recs = append(recs, fmt.Sprintf(
			"Average packet loss to the gateway is %.1f%%. Check cabling, WiFi congestion and router load.", avg))
	}

	return recs
}

func analyzeTimePatterns(db *gorm.DB, start, end time.Time) []string {
	var recs []string

	histogram, err := incidents.HourlyHistogram(db, start, end)

	if err != nil {
		return recs
	}

	hours := incidents.ProblematicHours(histogram)

	if len(hours) == 0 {
		return recs
	}

	parts := make([]string, 0, len(hours))

	for _, hour := range hours {
		parts = append(parts, fmt.Sprintf("%02d:00-%02d:00", hour, hour+1))
	}

	recs = append(recs, fmt.Sprintf(
		"Most incidents occur during: %s. Investigate what happens during these times (backups, heavy usage, interference).",
		strings.Join(parts, ", ")))

	return recs
}

func analyzeIPChurn(db *gorm.DB, start, end time.Time) []string {
	var recs []string

	samples := wifiSamples(db, start, end)

	changes := 0
	lastIP := ""

	for _, sample := range samples {
		if sample.IPAddress == "" || !sample.IsConnected {
			continue
		}

		if lastIP != "" && lastIP != sample.IPAddress {
			changes++
		}

		lastIP = sample.IPAddress
	}

	if changes > 3 {
		recs = append(recs, fmt.Sprintf(
			"IP address changed %d times during monitoring. Consider a static IP or a DHCP reservation to prevent connection interruptions.", changes))
	}

	return recs
}
