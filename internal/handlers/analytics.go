package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lanwatch-dev/lanwatch/db"
	"github.com/lanwatch-dev/lanwatch/internal/advisor"
	"github.com/lanwatch-dev/lanwatch/internal/incidents"
)

// GetAnalyticsSummary serves incident pattern aggregates for the requested
// window. An MTBF of 0 means no incidents were recorded, not zero time
// between them.
func GetAnalyticsSummary(ctx *gin.Context) {
	start, end, ok := queryWindow(ctx)

	if !ok {
		return
	}

	summary, err := incidents.Summarize(db.DB, start, end)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute summary"})
		return
	}

	ctx.JSON(http.StatusOK, summary)
}

func GetProblematicHours(ctx *gin.Context) {
	start, end, ok := queryWindow(ctx)

	if !ok {
		return
	}

	histogram, err := incidents.HourlyHistogram(db.DB, start, end)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute histogram"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"histogram":         histogram,
		"problematic_hours": incidents.ProblematicHours(histogram),
	})
}

func GetRecommendations(ctx *gin.Context) {
	start, end, ok := queryWindow(ctx)

	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"recommendations": advisor.Recommendations(db.DB, start, end),
	})
}
