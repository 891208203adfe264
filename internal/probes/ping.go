package probes

import (
	"context"
	"time"

	probing "github.com/prometheus-community/pro-bing"

	"github.com/lanwatch-dev/lanwatch/internal/models"
)

// Ping probes a single target with ICMP echo requests. Failures of any kind
// come back as an unreachable result with 100% loss, never as an error; an
// unreachable target is a signal, not a fault of the prober.
func Ping(ctx context.Context, target, targetType string, count int, timeout time.Duration) *models.PingResult {
	result := &models.PingResult{
		CheckedAt:   time.Now().UTC(),
		Target:      target,
		TargetType:  targetType,
		IsReachable: false,
		PacketLoss:  100,
	}

	pinger, err := probing.NewPinger(target)

	if err != nil {
		return result
	}

	pinger.Count = count
	pinger.Timeout = timeout
	pinger.SetPrivileged(true)

	if err := pinger.RunWithContext(ctx); err != nil {
		return result
	}

	stats := pinger.Statistics()
	result.PacketLoss = stats.PacketLoss
	result.IsReachable = stats.PacketsRecv > 0

	if stats.PacketsRecv > 0 {
		avg := durationMs(stats.AvgRtt)
		min := durationMs(stats.MinRtt)
		max := durationMs(stats.MaxRtt)
		jitter := durationMs(stats.StdDevRtt)

		result.LatencyMs = &avg
		result.MinLatency = &min
		result.MaxLatency = &max
		result.JitterMs = &jitter
	}

	return result
}

func durationMs(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
