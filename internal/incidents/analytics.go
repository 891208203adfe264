package incidents

import (
	"encoding/json"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/lanwatch-dev/lanwatch/internal/models"
)

// Summary aggregates persisted incidents over a time range. MTBFSeconds is
// 0 when the range holds no incidents, meaning "undefined" rather than
// continuous failure.
type Summary struct {
	TotalIncidents       int            `json:"total_incidents"`
	ByType               map[string]int `json:"by_type"`
	BySeverity           map[string]int `json:"by_severity"`
	AvgDurationSeconds   float64        `json:"avg_duration_seconds"`
	TotalDowntimeSeconds int            `json:"total_downtime_seconds"`
	MostAffectedTarget   string         `json:"most_affected_target"`
	MTBFSeconds          float64        `json:"mtbf_seconds"`
}

// IncidentsInRange returns incidents whose start time falls within
// [start, end], ordered by start time. incidentType filters when non-empty.
func IncidentsInRange(db *gorm.DB, start, end time.Time, incidentType string) ([]models.Incident, error) {
	query := db.Where("start_time >= ? AND start_time <= ?", start, end)

	if incidentType != "" {
		query = query.Where("incident_type = ?", incidentType)
	}

	var list []models.Incident

	if err := query.Order("start_time").Find(&list).Error; err != nil {
		return nil, err
	}

	return list, nil
}

// Summarize computes the pattern summary for [start, end]. Unresolved
// incidents are excluded from duration aggregates; a stored target list
// that no longer parses is skipped for target accounting only.
func Summarize(db *gorm.DB, start, end time.Time) (*Summary, error) {
	list, err := IncidentsInRange(db, start, end, "")

	if err != nil {
		return nil, err
	}

	summary := &Summary{
		TotalIncidents: len(list),
		ByType:         make(map[string]int),
		BySeverity:     make(map[string]int),
	}

	if len(list) == 0 {
		return summary, nil
	}

	var durations []int
	targetCounts := make(map[string]int)
	var targetOrder []string

	for _, incident := range list {
		summary.ByType[incident.IncidentType]++
		summary.BySeverity[incident.Severity]++

		if incident.DurationSeconds != nil {
			durations = append(durations, *incident.DurationSeconds)
		}

		var targets []string

		if err := json.Unmarshal(incident.AffectedTargets, &targets); err != nil {
			continue
		}

		for _, target := range targets {
			if _, seen := targetCounts[target]; !seen {
				targetOrder = append(targetOrder, target)
			}

			targetCounts[target]++
		}
	}

	if len(durations) > 0 {
		total := 0

		for _, d := range durations {
			total += d
		}

		summary.TotalDowntimeSeconds = total
		summary.AvgDurationSeconds = float64(total) / float64(len(durations))
	}

	// Ties go to the target encountered first in store iteration order.
	best := -1

	for _, target := range targetOrder {
		if targetCounts[target] > best {
			best = targetCounts[target]
			summary.MostAffectedTarget = target
		}
	}

	summary.MTBFSeconds = end.Sub(start).Seconds() / float64(len(list))

	return summary, nil
}

// HourlyHistogram buckets incidents by the hour of day their start time
// falls in. Buckets with no incidents are omitted. No timezone conversion
// happens here; callers get buckets in whatever zone the timestamps carry.
func HourlyHistogram(db *gorm.DB, start, end time.Time) (map[int]int, error) {
	list, err := IncidentsInRange(db, start, end, "")

	if err != nil {
		return nil, err
	}

	hours := make(map[int]int)

	for _, incident := range list {
		hours[incident.StartTime.Hour()]++
	}

	return hours, nil
}

// ProblematicHours returns the hours whose incident count exceeds the mean
// by more than one standard deviation, sorted ascending. Fewer than four
// populated buckets is too little signal to call any hour an outlier.
func ProblematicHours(histogram map[int]int) []int {
	if len(histogram) <= 3 {
		return nil
	}

	var sum float64

	for _, count := range histogram {
		sum += float64(count)
	}

	mean := sum / float64(len(histogram))

	var variance float64

	for _, count := range histogram {
		diff := float64(count) - mean
		variance += diff * diff
	}

	stddev := math.Sqrt(variance / float64(len(histogram)-1))

	var problematic []int

	for hour := 0; hour < 24; hour++ {
		if count, ok := histogram[hour]; ok && float64(count) > mean+stddev {
			problematic = append(problematic, hour)
		}
	}

	return problematic
}
