package services

import (
	"mindgrove/models"
)

// Achievement thresholds checked after each new entry.
var achievementChecks = []struct {
	ID    string
	Check func(models.Stats) bool
}{
	{"first_entry", func(s models.Stats) bool { return s.TotalEntries >= 1 }},
	{"entries_10", func(s models.Stats) bool { return s.TotalEntries >= 10 }},
	{"entries_50", func(s models.Stats) bool { return s.TotalEntries >= 50 }},
	{"streak_5", func(s models.Stats) bool { return s.Streak >= 5 }},
	{"streak_30", func(s models.Stats) bool { return s.Streak >= 30 }},
}

// EvaluateAchievements returns every achievement the stats qualify for.
func EvaluateAchievements(stats models.Stats) []string {
	var earned []string
	for _, a := range achievementChecks {
		if a.Check(stats) {
			earned = append(earned, a.ID)
		}
	}
	return earned
}

// MergeAchievements appends newly earned achievements, preserving order
// and skipping ones already held. Achievements are never removed.
func MergeAchievements(existing, earned []string) []string {
	held := make(map[string]bool, len(existing))
	merged := make([]string, 0, len(existing)+len(earned))
	for _, id := range existing {
		if !held[id] {
			held[id] = true
			merged = append(merged, id)
		}
	}
	for _, id := range earned {
		if !held[id] {
			held[id] = true
			merged = append(merged, id)
		}
	}
	return merged
}
