package services

import (
	"strings"
	"time"

	"mindgrove/models"
)

// Insights are the dashboard's aggregate numbers over a user's journal
// history. Derived on demand, never persisted.
type Insights struct {
	TotalEntries     int     `json:"totalEntries"`
	EntriesThisWeek  int     `json:"entriesThisWeek"`
	AverageIntensity float64 `json:"averageIntensity"`
	DominantEmotion  string  `json:"dominantEmotion"`
}

// ComputeInsights aggregates the stored analyses: entry counts, mean
// intensity over all analyzed entries, and the weight-dominant emotion
// of the trailing week. Labels are lowercased before accumulating, same
// as the mood scoring table, so analyzer casing never splits a weight.
func ComputeInsights(entries []models.JournalEntry, now time.Time) Insights {
	weekAgo := now.AddDate(0, 0, -7)

	insights := Insights{TotalEntries: len(entries)}
	intensitySum, intensityCount := 0, 0
	emotionWeights := map[string]float64{}

	for _, entry := range entries {
		thisWeek := entry.CreatedAt.After(weekAgo)
		if thisWeek {
			insights.EntriesThisWeek++
		}
		if entry.EmotionAnalysis == nil {
			continue
		}
		if entry.EmotionAnalysis.Intensity > 0 {
			intensitySum += entry.EmotionAnalysis.Intensity
			intensityCount++
		}
		if thisWeek {
			for _, emotion := range entry.EmotionAnalysis.Emotions {
				label := strings.ToLower(emotion.Label)
				if label == "" {
					continue
				}
				weight := emotion.Score
				if weight == 0 {
					weight = 1
				}
				emotionWeights[label] += weight
			}
		}
	}

	best := 0.0
	for label, weight := range emotionWeights {
		if weight > best || (weight == best && label < insights.DominantEmotion) {
			insights.DominantEmotion = label
			best = weight
		}
	}

	if intensityCount > 0 {
		insights.AverageIntensity = float64(intensitySum) / float64(intensityCount)
	}
	return insights
}
