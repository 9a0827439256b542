package services

import (
	"testing"
	"time"

	"mindgrove/models"
)

func TestComputeInsights_Empty(t *testing.T) {
	insights := ComputeInsights(nil, date(2025, time.March, 11, 12, 0))

	if insights.TotalEntries != 0 || insights.EntriesThisWeek != 0 {
		t.Errorf("counts = %d/%d, want 0/0", insights.TotalEntries, insights.EntriesThisWeek)
	}
	if insights.DominantEmotion != "" {
		t.Errorf("DominantEmotion = %q, want empty", insights.DominantEmotion)
	}
	if insights.AverageIntensity != 0 {
		t.Errorf("AverageIntensity = %v, want 0", insights.AverageIntensity)
	}
}

func TestComputeInsights_WeeklyCounts(t *testing.T) {
	now := date(2025, time.March, 11, 12, 0)
	entries := []models.JournalEntry{
		entryOn(date(2025, time.March, 11, 9, 0), models.Emotion{Label: "joy", Score: 1}),
		entryOn(date(2025, time.March, 9, 9, 0), models.Emotion{Label: "joy", Score: 1}),
		entryOn(date(2025, time.February, 20, 9, 0), models.Emotion{Label: "sadness", Score: 1}),
	}

	insights := ComputeInsights(entries, now)

	if insights.TotalEntries != 3 {
		t.Errorf("TotalEntries = %d, want 3", insights.TotalEntries)
	}
	if insights.EntriesThisWeek != 2 {
		t.Errorf("EntriesThisWeek = %d, want 2", insights.EntriesThisWeek)
	}
	// Only this week's emotions count toward dominance
	if insights.DominantEmotion != "joy" {
		t.Errorf("DominantEmotion = %q, want joy", insights.DominantEmotion)
	}
}

func TestComputeInsights_MergesLabelCasing(t *testing.T) {
	now := date(2025, time.March, 11, 12, 0)
	entries := []models.JournalEntry{
		entryOn(date(2025, time.March, 11, 9, 0), models.Emotion{Label: "Joy", Score: 0.4}),
		entryOn(date(2025, time.March, 10, 9, 0), models.Emotion{Label: "joy", Score: 0.4}),
		entryOn(date(2025, time.March, 9, 9, 0), models.Emotion{Label: "sadness", Score: 0.6}),
	}

	insights := ComputeInsights(entries, now)

	// 0.4 + 0.4 joy must accumulate under one key and beat 0.6 sadness
	if insights.DominantEmotion != "joy" {
		t.Errorf("DominantEmotion = %q, want joy (case-merged)", insights.DominantEmotion)
	}
}

func TestComputeInsights_AverageIntensity(t *testing.T) {
	now := date(2025, time.March, 11, 12, 0)
	e1 := entryOn(date(2025, time.March, 11, 9, 0), models.Emotion{Label: "joy", Score: 1})
	e1.EmotionAnalysis.Intensity = 8
	e2 := entryOn(date(2025, time.March, 10, 9, 0), models.Emotion{Label: "sadness", Score: 1})
	e2.EmotionAnalysis.Intensity = 4
	noAnalysis := models.JournalEntry{UserID: "u1", Content: "plain", CreatedAt: now}

	insights := ComputeInsights([]models.JournalEntry{e1, e2, noAnalysis}, now)

	if insights.AverageIntensity != 6.0 {
		t.Errorf("AverageIntensity = %v, want 6.0", insights.AverageIntensity)
	}
}
