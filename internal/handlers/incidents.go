package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lanwatch-dev/lanwatch/db"
	"github.com/lanwatch-dev/lanwatch/internal/incidents"
	"github.com/lanwatch-dev/lanwatch/internal/models"
	"github.com/lanwatch-dev/lanwatch/internal/utils"
)

type IncidentSummary struct {
	ID              uint       `json:"id"`
	IncidentType    string     `json:"incident_type"`
	Severity        string     `json:"severity"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
	DurationSeconds *int       `json:"duration_seconds"`
	AffectedTargets []string   `json:"affected_targets"`
	Description     string     `json:"description"`
	ProbableCause   string     `json:"probable_cause,omitempty"`
	IsResolved      bool       `json:"is_resolved"`
}

// queryWindow resolves the ?window= parameter (default 24h) into a
// [start, end] range ending now.
func queryWindow(ctx *gin.Context) (time.Time, time.Time, bool) {
	window := ctx.DefaultQuery("window", "24h")

	duration, err := utils.ParseWindow(window)

	if err != nil || duration <= 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid window parameter"})
		return time.Time{}, time.Time{}, false
	}

	end := time.Now().UTC()

	return end.Add(-duration), end, true
}

func GetIncidents(ctx *gin.Context) {
	start, end, ok := queryWindow(ctx)

	if !ok {
		return
	}

	list, err := incidents.IncidentsInRange(db.DB, start, end, ctx.Query("type"))

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve incidents"})
		return
	}

	summaries := make([]IncidentSummary, 0, len(list))

	for _, incident := range list {
		summaries = append(summaries, toSummary(incident))
	}

	ctx.JSON(http.StatusOK, gin.H{"incidents": summaries})
}

func toSummary(incident models.Incident) IncidentSummary {
	var targets []string

	// A target list that fails to parse is reported empty, not fatal.
	json.Unmarshal(incident.AffectedTargets, &targets)

	return IncidentSummary{
		ID:              incident.ID,
		IncidentType:    incident.IncidentType,
		Severity:        incident.Severity,
		StartTime:       incident.StartTime,
		EndTime:         incident.EndTime,
		DurationSeconds: incident.DurationSeconds,
		AffectedTargets: targets,
		Description:     incident.Description,
		ProbableCause:   incident.ProbableCause,
		IsResolved:      incident.IsResolved,
	}
}
