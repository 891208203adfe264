package probes

import (
	"context"
	"log"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/lanwatch-dev/lanwatch/internal/models"
)

var (
	ssidPattern   = regexp.MustCompile(`SSID: (.+)`)
	signalPattern = regexp.MustCompile(`signal: (-?\d+) dBm`)
	freqPattern   = regexp.MustCompile(`freq: (\d+(?:\.\d+)?)`)
	inetPattern   = regexp.MustCompile(`inet (\d+\.\d+\.\d+\.\d+)`)
)

// WiFiProber reads the local wireless link state by parsing `ip` and `iw`
// output, the same sources the driver exposes them through.
type WiFiProber struct {
	iface string
}

func NewWiFiProber(iface string) *WiFiProber {
	return &WiFiProber{iface: iface}
}

// Status samples the interface. Any failure to query the link yields a
// disconnected sample rather than an error: a dead interface is exactly the
// condition the classifier needs to see.
func (p *WiFiProber) Status(ctx context.Context) *models.WiFiSample {
	sample := &models.WiFiSample{
		CheckedAt:   time.Now().UTC(),
		Interface:   p.iface,
		IsConnected: false,
	}

	linkOut, err := exec.CommandContext(ctx, "ip", "link", "show", p.iface).CombinedOutput()

	if err != nil {
		log.Printf("Interface %s not available: %v", p.iface, err)
		return sample
	}

	if !strings.Contains(string(linkOut), "state UP") && !strings.Contains(string(linkOut), "state UNKNOWN") {
		return sample
	}

	if addrOut, err := exec.CommandContext(ctx, "ip", "-4", "addr", "show", p.iface).CombinedOutput(); err == nil {
		if match := inetPattern.FindSubmatch(addrOut); match != nil {
			sample.IPAddress = string(match[1])
		}
	}

	iwOut, err := exec.CommandContext(ctx, "iw", "dev", p.iface, "link").CombinedOutput()

	if err != nil {
		return sample
	}

	parseIWLink(string(iwOut), sample)

	return sample
}

// parseIWLink fills a sample from `iw dev <iface> link` output. "Not
// connected." leaves the sample disconnected.
func parseIWLink(output string, sample *models.WiFiSample) {
	if strings.Contains(output, "Not connected") {
		return
	}

	if match := ssidPattern.FindStringSubmatch(output); match != nil {
		sample.SSID = strings.TrimSpace(match[1])
		sample.IsConnected = true
	}

	if match := signalPattern.FindStringSubmatch(output); match != nil {
		if rssi, err := strconv.Atoi(match[1]); err == nil {
			sample.RSSI = &rssi
			quality := signalQuality(rssi)
			sample.LinkQuality = &quality
		}
	}

	if match := freqPattern.FindStringSubmatch(output); match != nil {
		if freq, err := strconv.ParseFloat(match[1], 64); err == nil {
			sample.Frequency = &freq
		}
	}
}

// signalQuality maps RSSI to the conventional 0-100% scale where -50 dBm
// or better is full quality and -100 dBm is unusable.
func signalQuality(rssi int) float64 {
	quality := 2 * float64(rssi+100)

	if quality > 100 {
		return 100
	}

	if quality < 0 {
		return 0
	}

	return quality
}

// SignalRating gives a human label for an RSSI value, used by the live
// status endpoint.
func SignalRating(rssi int) string {
	switch {
	case rssi >= -50:
		return "excellent"
	case rssi >= -60:
		return "good"
	case rssi >= -70:
		return "fair"
	case rssi >= -80:
		return "weak"
	default:
		return "very weak"
	}
}
