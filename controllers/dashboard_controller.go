package controllers

import (
	"context"
	"net/http"
	"time"

	"mindgrove/services"

	"github.com/gin-gonic/gin"
)

// GetMoodTrend returns the trailing 7-day mood series plus its trend
// label, computed in the server's local timezone.
func GetMoodTrend(ctx *gin.Context) {
	userID := ctx.GetString("userID")

	dbCtx, cancel := context.WithTimeout(ctx.Request.Context(), 10*time.Second)
	defer cancel()

	entries, err := journal.ListEntries(dbCtx, userID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load entries", "message": err.Error()})
		return
	}

	points := services.MoodTrend(entries, time.Now())
	ctx.JSON(http.StatusOK, gin.H{
		"moodData": points,
		"trend":    services.TrendLabel(points),
	})
}

// GetInsights aggregates the stored analyses into dashboard numbers:
// entry counts, average intensity and the dominant emotion of the week.
func GetInsights(ctx *gin.Context) {
	userID := ctx.GetString("userID")

	dbCtx, cancel := context.WithTimeout(ctx.Request.Context(), 10*time.Second)
	defer cancel()

	entries, err := journal.ListEntries(dbCtx, userID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load entries", "message": err.Error()})
		return
	}

	insights := services.ComputeInsights(entries, time.Now())
	stats, _ := currentStats(ctx, userID)

	ctx.JSON(http.StatusOK, gin.H{
		"totalEntries":     insights.TotalEntries,
		"entriesThisWeek":  insights.EntriesThisWeek,
		"averageIntensity": insights.AverageIntensity,
		"dominantEmotion":  insights.DominantEmotion,
		"streak":           stats.Streak,
		"longestStreak":    stats.LongestStreak,
	})
}
