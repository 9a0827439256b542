package controllers

import (
	"context"
	"net/http"
	"time"

	"mindgrove/models"
	"mindgrove/services"
	"mindgrove/structs"

	"github.com/gin-gonic/gin"
)

// CreateEntry analyzes and stores a journal entry, then advances the
// writing streak and checks for newly earned achievements. Stat and
// achievement writes are optimistic: their failures never fail the
// request.
func CreateEntry(ctx *gin.Context) {
	userID := ctx.GetString("userID")

	var request structs.CreateEntryRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "message": err.Error()})
		return
	}

	allowed, err := limiter.AllowAnalysis(userID, limits)
	if err != nil {
		log.WithError(err).Error("rate limit check failed")
	}
	if !allowed {
		ctx.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many entries, slow down"})
		return
	}

	analysis, err := analyzer.AnalyzeJournal(ctx.Request.Context(), request.Content)
	if err != nil {
		log.WithError(err).Error("emotion analysis failed")
		// Entry still gets saved, just without analysis
	}

	entry := &models.JournalEntry{
		UserID:          userID,
		Title:           request.Title,
		Content:         request.Content,
		Mood:            request.Mood,
		CreatedAt:       time.Now(),
		EmotionAnalysis: analysis,
	}

	saveCtx, cancel := context.WithTimeout(ctx.Request.Context(), 10*time.Second)
	defer cancel()
	saved, err := journal.InsertEntry(saveCtx, entry)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save entry", "message": err.Error()})
		return
	}

	stats, newAchievements := advanceStats(ctx, userID, saved.CreatedAt)

	ctx.JSON(http.StatusOK, gin.H{
		"entry":           saved,
		"stats":           stats,
		"newAchievements": newAchievements,
	})
}

// advanceStats runs the streak update and achievement evaluation for a
// new entry written at the given time.
func advanceStats(ctx *gin.Context, userID string, entryTime time.Time) (models.Stats, []string) {
	current, held := currentStats(ctx, userID)
	next := services.NextStats(current, entryTime)

	earned := services.EvaluateAchievements(next)
	merged := services.MergeAchievements(held, earned)
	newAchievements := diffAchievements(held, merged)

	if activeSessionUser(ctx) != nil {
		sessions.UpdateStats(ctx.Request.Context(), next)
		sessions.UpdateAchievements(ctx.Request.Context(), merged)
		return next, newAchievements
	}

	writeCtx, cancel := context.WithTimeout(ctx.Request.Context(), 5*time.Second)
	defer cancel()
	if err := profiles.UpdateStats(writeCtx, userID, next); err != nil {
		log.WithError(err).Error("stats update not persisted")
	}
	if err := profiles.UpdateAchievements(writeCtx, userID, merged); err != nil {
		log.WithError(err).Error("achievements update not persisted")
	}
	return next, newAchievements
}

// currentStats reads the caller's stats and achievements, preferring the
// in-memory session profile over a store round trip.
func currentStats(ctx *gin.Context, userID string) (models.Stats, []string) {
	if user := activeSessionUser(ctx); user != nil {
		return user.Stats, user.Achievements
	}
	if profile := sessions.LoadUserProfile(ctx.Request.Context(), userID); profile != nil {
		return profile.Stats, profile.Achievements
	}
	return models.Stats{}, nil
}

func diffAchievements(before, after []string) []string {
	held := make(map[string]bool, len(before))
	for _, id := range before {
		held[id] = true
	}
	diff := []string{}
	for _, id := range after {
		if !held[id] {
			diff = append(diff, id)
		}
	}
	return diff
}

// ListEntries returns the caller's entries, newest first.
func ListEntries(ctx *gin.Context) {
	userID := ctx.GetString("userID")

	dbCtx, cancel := context.WithTimeout(ctx.Request.Context(), 10*time.Second)
	defer cancel()

	entries, err := journal.ListEntries(dbCtx, userID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load entries", "message": err.Error()})
		return
	}
	if entries == nil {
		entries = []models.JournalEntry{}
	}
	ctx.JSON(http.StatusOK, gin.H{"entries": entries})
}

// DeleteEntries removes the listed entries. Past streaks and totals are
// kept; deleting an entry does not rewrite history.
func DeleteEntries(ctx *gin.Context) {
	userID := ctx.GetString("userID")

	var request structs.DeleteEntriesRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "message": err.Error()})
		return
	}

	dbCtx, cancel := context.WithTimeout(ctx.Request.Context(), 10*time.Second)
	defer cancel()

	deleted, err := journal.DeleteEntries(dbCtx, userID, request.EntryIDs)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete entries", "message": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

// DeleteAllEntries wipes the caller's journal.
func DeleteAllEntries(ctx *gin.Context) {
	userID := ctx.GetString("userID")

	dbCtx, cancel := context.WithTimeout(ctx.Request.Context(), 10*time.Second)
	defer cancel()

	deleted, err := journal.DeleteAllEntries(dbCtx, userID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete entries", "message": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
